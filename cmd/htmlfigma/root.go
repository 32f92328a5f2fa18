package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "htmlfigma",
	Short: "Compile HTML and CSS into design-tool node trees",
	Long: `Convert HTML documents with their stylesheets into auto-layout frames
and text nodes, and relay import requests to a design tool.`,
	// Default behavior: run convert when no subcommand is given.
	// We must call loadConfig here because PreRunE of convertCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runConvert(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().String("log-level", "normal", "Log level: none|normal|debug")
	rootCmd.PersistentFlags().Bool("quiet", false, "Print counts only")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Config file path")

	addConvertFlags(rootCmd)

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
