package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .htmlfigma.yaml config file",
	Long:  `Create a .htmlfigma.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# htmlfigma configuration

# Shared settings
log:
  level: normal            # none | normal | debug
color: false

# Batch conversion
convert:
  source: .
  include:
    - "**/*.html"
    - "**/*.htm"
  output-dir: designs
  format: json             # json | yaml | tree | summary

# Rendering
render:
  name: ""                 # root frame name; file name in batch mode
  root-width: 1200
  number-ordered-lists: false

# Shared-state consumer
watch:
  state: .htmlfigma/state.json
  interval: 2s
  output-dir: designs

# Event stream hub
serve:
  addr: 127.0.0.1:8787
  keep-alive: 15s

# MCP producer
mcp:
  state: .htmlfigma/state.json
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
