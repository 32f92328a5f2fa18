package htmlfigma

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Config holds batch conversion configuration
type Config struct {
	SourceDir string   // Directory the include globs are relative to
	Includes  []string // Glob patterns; DefaultIncludes when empty
	OutputDir string   // Where documents are written; next to the input when empty
	Format    OutputFormat
	Render    RenderOptions
	Now       func() time.Time // Export timestamps; time.Now when nil
}

// FileResult is the outcome of converting one file.
type FileResult struct {
	Source string // Input path relative to SourceDir
	Output string // Written document path
	Frames int
	Texts  int
	Issues []Issue
	Err    error
}

// ConvertResult contains batch statistics
type ConvertResult struct {
	Files          []FileResult
	FilesConverted int
	Stats          ScanStats
	Issues         []Issue // Render issues of every file plus per-file failures
}

// ConvertFiles discovers HTML files and writes one design document per file.
// A file that cannot be read, rendered or written is reported as a warning
// and the batch continues.
func ConvertFiles(ctx context.Context, config Config) (*ConvertResult, error) {
	log := config.Render.logger().Named("batch")
	if config.SourceDir == "" {
		config.SourceDir = "."
	}
	if config.Format != OutputYAML {
		config.Format = OutputJSON
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	files, stats, err := newScanner(config.SourceDir).expand(config.Includes)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	log.Debug("Discovered inputs",
		zap.Int("discovered", stats.FilesDiscovered),
		zap.Int("skipped", stats.FilesSkipped))

	result := &ConvertResult{Stats: stats, Files: make([]FileResult, 0, len(files))}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fr := convertFile(ctx, config, rel)
		if fr.Err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			log.Warn("Conversion failed", zap.String("file", rel), zap.Error(fr.Err))
			result.Issues = append(result.Issues, Issue{
				Source:   SourceBatch,
				Text:     fr.Err.Error(),
				Severity: SeverityWarning,
				File:     rel,
			})
		} else {
			result.FilesConverted++
		}
		result.Issues = append(result.Issues, fr.Issues...)
		result.Files = append(result.Files, fr)
	}

	return result, nil
}

func convertFile(ctx context.Context, config Config, rel string) FileResult {
	fr := FileResult{Source: rel}

	src, err := os.ReadFile(filepath.Join(config.SourceDir, rel))
	if err != nil {
		fr.Err = fmt.Errorf("read: %w", err)
		return fr
	}

	opts := config.Render
	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	}

	scene := surface.NewScene()
	res, err := Import(ctx, Request{HTML: string(src)}, scene, opts)
	if err != nil {
		fr.Err = fmt.Errorf("render: %w", err)
		return fr
	}
	for i := range res.Issues {
		res.Issues[i].File = rel
	}
	fr.Issues = res.Issues

	export := NewExport(rel, scene.Document(), res.Issues, config.Now())
	fr.Frames, fr.Texts = export.Summary.Frames, export.Summary.Texts

	fr.Output = outputPath(config, rel)
	if err := writeExport(fr.Output, export, config.Format); err != nil {
		fr.Err = fmt.Errorf("write: %w", err)
	}
	return fr
}

func outputPath(config Config, rel string) string {
	dir := config.OutputDir
	if dir == "" {
		dir = config.SourceDir
	}
	name := strings.TrimSuffix(rel, filepath.Ext(rel)) + config.Format.Extension()
	return filepath.Join(dir, name)
}

func writeExport(path string, e *Export, format OutputFormat) (err error) {
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
	return WriteDocument(f, e, format, false)
}
