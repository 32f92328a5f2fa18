package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000"
	"github.com/Floristeady/html-to-figma-sub000/internal/bridge"
)

const (
	defaultConfigPath = ".htmlfigma.yaml"
	defaultStatePath  = ".htmlfigma/state.json"
	defaultAddr       = "127.0.0.1:8787"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence). A nil koanf makes posflag skip
	// unchanged flags, so flag defaults never shadow config file keys.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", nil), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (HTMLFIGMA_* prefix)
	if err := k.Load(env.Provider("HTMLFIGMA_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key. The first underscore
// separates the section, the rest become dashes:
//
//	HTMLFIGMA_CONVERT_FORMAT     -> convert.format
//	HTMLFIGMA_CONVERT_OUTPUT_DIR -> convert.output-dir
//	HTMLFIGMA_COLOR              -> color
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "HTMLFIGMA_"))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + "." + strings.ReplaceAll(rest, "_", "-")
}

// buildRenderOptions constructs render options from koanf state.
func buildRenderOptions(log *zap.Logger) htmlfigma.RenderOptions {
	return htmlfigma.RenderOptions{
		Name:               getStringWithFallback("name", "render.name", ""),
		Width:              getFloat64WithFallback("root-width", "render.root-width", 1200),
		NumberOrderedLists: getBoolWithFallback("number-ordered-lists", "render.number-ordered-lists", false),
		Logger:             log,
	}
}

// buildConvertConfig constructs the library's batch Config from koanf state.
func buildConvertConfig(log *zap.Logger) htmlfigma.Config {
	config := htmlfigma.Config{
		SourceDir: getStringWithFallback("source", "convert.source", "."),
		OutputDir: getStringWithFallback("output-dir", "convert.output-dir", ""),
		Format:    documentFormat(getStringWithFallback("format", "convert.format", "")),
		Render:    buildRenderOptions(log),
	}

	// Handle includes: check flag key first, then config key
	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	} else if includes := k.Strings("convert.include"); len(includes) > 0 {
		config.Includes = includes
	} else {
		config.Includes = htmlfigma.DefaultIncludes
	}

	return config
}

// watchConfig configures the shared-state consumer.
type watchConfig struct {
	State     string
	Interval  time.Duration
	OutputDir string
	Format    htmlfigma.OutputFormat
}

func buildWatchConfig() watchConfig {
	interval := bridge.DefaultInterval
	if v := getStringWithFallback("interval", "watch.interval", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}
	return watchConfig{
		State:     getStringWithFallback("state", "watch.state", defaultStatePath),
		Interval:  interval,
		OutputDir: getStringWithFallback("output-dir", "watch.output-dir", "designs"),
		Format:    documentFormat(getStringWithFallback("format", "convert.format", "")),
	}
}

// documentFormat picks the on-disk format. Terminal formats are stored as JSON.
func documentFormat(name string) htmlfigma.OutputFormat {
	if htmlfigma.DetermineOutputFormat(name, false) == htmlfigma.OutputYAML {
		return htmlfigma.OutputYAML
	}
	return htmlfigma.OutputJSON
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}
