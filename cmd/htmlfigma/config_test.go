package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000"
	"github.com/Floristeady/html-to-figma-sub000/internal/bridge"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".htmlfigma.yaml")
	configContent := `
log:
  level: debug
color: true

convert:
  source: pages
  output-dir: out
  format: yaml

render:
  root-width: 960
  number-ordered-lists: true

watch:
  interval: 500ms
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "debug", k.String("log.level"))
	assert.True(t, k.Bool("color"))
	assert.Equal(t, "pages", k.String("convert.source"))
	assert.Equal(t, "out", k.String("convert.output-dir"))
	assert.Equal(t, "yaml", k.String("convert.format"))
	assert.Equal(t, 960, k.Int("render.root-width"))
	assert.True(t, k.Bool("render.number-ordered-lists"))
	assert.Equal(t, "500ms", k.String("watch.interval"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.htmlfigma.yaml"))

	config := buildConvertConfig(nil)
	assert.Equal(t, ".", config.SourceDir)
	assert.Equal(t, "", config.OutputDir)
	assert.Equal(t, htmlfigma.OutputJSON, config.Format)
	assert.Equal(t, htmlfigma.DefaultIncludes, config.Includes)
	assert.Equal(t, 1200.0, config.Render.Width)
	assert.False(t, config.Render.NumberOrderedLists)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".htmlfigma.yaml")
	configContent := `
convert:
  format: json
  output-dir: from-file
render:
  number-ordered-lists: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	// Set env vars that should override config file
	t.Setenv("HTMLFIGMA_CONVERT_FORMAT", "yaml")
	t.Setenv("HTMLFIGMA_CONVERT_OUTPUT_DIR", "from-env")
	t.Setenv("HTMLFIGMA_RENDER_NUMBER_ORDERED_LISTS", "true")

	require.NoError(t, loadConfigFromPath(configPath))

	config := buildConvertConfig(nil)
	assert.Equal(t, htmlfigma.OutputYAML, config.Format)
	assert.Equal(t, "from-env", config.OutputDir)
	assert.True(t, config.Render.NumberOrderedLists)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"HTMLFIGMA_COLOR":              "color",
		"HTMLFIGMA_LOG_LEVEL":          "log.level",
		"HTMLFIGMA_CONVERT_FORMAT":     "convert.format",
		"HTMLFIGMA_CONVERT_OUTPUT_DIR": "convert.output-dir",
		"HTMLFIGMA_RENDER_ROOT_WIDTH":  "render.root-width",
		"HTMLFIGMA_WATCH_STATE":        "watch.state",
		"HTMLFIGMA_SERVE_ADDR":         "serve.addr",
		"HTMLFIGMA_SERVE_KEEP_ALIVE":   "serve.keep-alive",
		"HTMLFIGMA_MCP_STATE":          "mcp.state",
		"HTMLFIGMA_RENDER_NAME":        "render.name",
		"HTMLFIGMA_WATCH_OUTPUT_DIR":   "watch.output-dir",
		"HTMLFIGMA_CONVERT_INCLUDE":    "convert.include",
		"HTMLFIGMA_CONVERT_SOURCE":     "convert.source",
		"HTMLFIGMA_WATCH_INTERVAL":     "watch.interval",
	}
	for env, want := range tests {
		t.Run(env, func(t *testing.T) {
			assert.Equal(t, want, envKey(env))
		})
	}
}

func TestBuildConvertConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".htmlfigma.yaml")
	configContent := `
convert:
  source: site
  output-dir: build/designs
  format: tree
  include:
    - "pages/**/*.html"
render:
  name: Landing
  root-width: 1440
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildConvertConfig(nil)
	assert.Equal(t, "site", config.SourceDir)
	assert.Equal(t, "build/designs", config.OutputDir)
	// Terminal formats are stored as JSON on disk
	assert.Equal(t, htmlfigma.OutputJSON, config.Format)
	assert.Equal(t, []string{"pages/**/*.html"}, config.Includes)
	assert.Equal(t, "Landing", config.Render.Name)
	assert.Equal(t, 1440.0, config.Render.Width)
}

func TestBuildConvertConfig_FlagKeysWin(t *testing.T) {
	resetKoanf()
	require.NoError(t, k.Set("convert.source", "from-file"))
	require.NoError(t, k.Set("source", "from-flag"))
	require.NoError(t, k.Set("include", []string{"*.htm"}))

	config := buildConvertConfig(nil)
	assert.Equal(t, "from-flag", config.SourceDir)
	assert.Equal(t, []string{"*.htm"}, config.Includes)
}

func TestBuildWatchConfig(t *testing.T) {
	resetKoanf()

	config := buildWatchConfig()
	assert.Equal(t, defaultStatePath, config.State)
	assert.Equal(t, bridge.DefaultInterval, config.Interval)
	assert.Equal(t, "designs", config.OutputDir)

	require.NoError(t, k.Set("watch.interval", "250ms"))
	require.NoError(t, k.Set("convert.format", "yaml"))
	config = buildWatchConfig()
	assert.Equal(t, 250*time.Millisecond, config.Interval)
	assert.Equal(t, htmlfigma.OutputYAML, config.Format)

	require.NoError(t, k.Set("watch.interval", "soon"))
	assert.Equal(t, bridge.DefaultInterval, buildWatchConfig().Interval)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "none", "normal", "debug"} {
		log, err := newLogger(level)
		require.NoError(t, err, level)
		assert.NotNil(t, log)
	}

	log, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = newLogger("normal")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("verbose")
	assert.Error(t, err)
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify file was created and loads
	data, err := os.ReadFile(".htmlfigma.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "convert:")
	assert.Contains(t, string(data), "render:")

	resetKoanf()
	require.NoError(t, loadConfigFromPath(".htmlfigma.yaml"))
	assert.Equal(t, "designs", k.String("convert.output-dir"))
	assert.Equal(t, 1200, k.Int("render.root-width"))
	assert.Equal(t, "127.0.0.1:8787", k.String("serve.addr"))
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".htmlfigma.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".htmlfigma.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".htmlfigma.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "convert:")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "htmlfigma dev\n", out.String())
}

func TestConvertArgs_Stdin(t *testing.T) {
	resetKoanf()
	require.NoError(t, k.Set("format", "tree"))
	require.NoError(t, k.Set("name", "Piped"))

	var out bytes.Buffer
	err := convertArgs(context.Background(), &out, strings.NewReader(`<h1>Hello</h1>`), []string{"-"}, zap.NewNop())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Piped 1200x")
	assert.Contains(t, out.String(), `"Hello"`)
	assert.Contains(t, out.String(), "1 frame, 1 text node")
}

func TestConvertArgs_MissingFile(t *testing.T) {
	resetKoanf()
	err := convertArgs(context.Background(), &bytes.Buffer{}, nil, []string{"/nonexistent/page.html"}, zap.NewNop())
	assert.Error(t, err)
}

func TestConvertBatch(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<p>Hi</p>`), 0644))
	require.NoError(t, k.Set("source", dir))
	require.NoError(t, k.Set("output-dir", filepath.Join(dir, "out")))

	var out bytes.Buffer
	require.NoError(t, convertBatch(context.Background(), &out, zap.NewNop()))
	assert.Contains(t, out.String(), "Converted 1 of 1 files")

	_, err := os.Stat(filepath.Join(dir, "out", "index.json"))
	assert.NoError(t, err)
}

func TestImportHandler(t *testing.T) {
	dir := t.TempDir()
	handler := importHandler(watchConfig{OutputDir: dir, Format: htmlfigma.OutputJSON}, htmlfigma.RenderOptions{}, zap.NewNop())

	p, err := bridge.NewPayload(time.UnixMilli(1700000000000), bridge.Arguments{HTML: `<p>From MCP</p>`, Name: "Relay"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), p))

	data, err := os.ReadFile(filepath.Join(dir, p.RequestID+".json"))
	require.NoError(t, err)

	var e htmlfigma.Export
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, p.RequestID, e.Source)
	require.Len(t, e.Document.Nodes, 1)
	assert.Equal(t, "Relay", e.Document.Nodes[0].Name)
	assert.Equal(t, 1, e.Summary.Texts)
}

func TestImportHandler_UntrustedRequestID(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
	}{
		{"parent directory", "../escaped"},
		{"absolute path", "/tmp/escaped"},
		{"nested path", "a/b"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			out := filepath.Join(root, "designs")
			handler := importHandler(watchConfig{OutputDir: out, Format: htmlfigma.OutputJSON}, htmlfigma.RenderOptions{}, zap.NewNop())

			require.NoError(t, handler(context.Background(), bridge.Payload{
				Timestamp: 1700000000000,
				Function:  bridge.FunctionImportHTML,
				Arguments: json.RawMessage(`{"html":"<p>x</p>"}`),
				RequestID: tt.requestID,
			}))

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "import-1700000000000.json", entries[0].Name())

			_, err = os.Stat(filepath.Join(root, "escaped.json"))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestDocumentName(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, id, documentName(bridge.Payload{RequestID: id, Timestamp: 5}))
	assert.Equal(t, "import-5", documentName(bridge.Payload{RequestID: "../x", Timestamp: 5}))
}

func TestImportHandler_InvalidArguments(t *testing.T) {
	handler := importHandler(watchConfig{OutputDir: t.TempDir(), Format: htmlfigma.OutputJSON}, htmlfigma.RenderOptions{}, zap.NewNop())

	err := handler(context.Background(), bridge.Payload{
		Timestamp: 1,
		Function:  bridge.FunctionImportHTML,
		Arguments: json.RawMessage(`{"name":"no html"}`),
		RequestID: "r1",
	})
	assert.ErrorIs(t, err, htmlfigma.ErrInvalidRequest)
}
