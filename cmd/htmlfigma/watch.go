package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000"
	"github.com/Floristeady/html-to-figma-sub000/internal/bridge"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Render import requests written to the shared state file",
	Long: `Poll the shared state file written by "htmlfigma mcp" and render every new
import request into a design document under --output-dir.

Requests are handled one at a time; a payload is rendered once, when its
timestamp is newer than the last one seen.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.String("state", defaultStatePath, "Shared state file to poll")
	f.String("interval", bridge.DefaultInterval.String(), "Polling interval")
	f.String("output-dir", "designs", "Directory for rendered documents")
	f.String("format", "", "Document format: json|yaml")
	f.String("name", "", "Root frame name when the request has none")
	f.Float64("root-width", 1200, "Root frame width")
	f.Bool("number-ordered-lists", false, "Number ordered list items 1., 2., 3.")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	log, err := commandLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	config := buildWatchConfig()
	opts := buildRenderOptions(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handler := importHandler(config, opts, log)
	poller := bridge.NewPoller(bridge.StateFile{Path: config.State}, handler, log,
		bridge.WithInterval(config.Interval))

	log.Info("Watching state file",
		zap.String("state", config.State),
		zap.Duration("interval", config.Interval),
		zap.String("output", config.OutputDir))
	if err := poller.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Stopped watching")
	return nil
}

// importHandler renders each payload into its own scene and writes the
// document as <output-dir>/<request id>.<ext>.
func importHandler(config watchConfig, opts htmlfigma.RenderOptions, log *zap.Logger) bridge.Handler {
	return func(ctx context.Context, p bridge.Payload) error {
		scene := surface.NewScene()
		res, err := htmlfigma.ImportArguments(ctx, p.Arguments, scene, opts)
		if err != nil {
			return fmt.Errorf("request %s: %w", p.RequestID, err)
		}

		path := filepath.Join(config.OutputDir, documentName(p)+config.Format.Extension())
		export := htmlfigma.NewExport(p.RequestID, scene.Document(), res.Issues, time.UnixMilli(p.Timestamp))
		if err := writeDocumentFile(path, export, config.Format); err != nil {
			return fmt.Errorf("request %s: %w", p.RequestID, err)
		}

		log.Info("Rendered import",
			zap.String("request_id", p.RequestID),
			zap.String("document", path),
			zap.Int("frames", export.Summary.Frames),
			zap.Int("issues", len(res.Issues)))
		return nil
	}
}

// documentName names the document file after the request id. Ids that are
// not UUIDs never reach the file system; those requests are named by timestamp.
func documentName(p bridge.Payload) string {
	if id, err := uuid.Parse(p.RequestID); err == nil {
		return id.String()
	}
	return fmt.Sprintf("import-%d", p.Timestamp)
}

func writeDocumentFile(path string, e *htmlfigma.Export, format htmlfigma.OutputFormat) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return htmlfigma.WriteDocument(f, e, format, false)
}
