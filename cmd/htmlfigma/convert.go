package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file|-]...",
	Short: "Convert HTML files into design documents",
	Long: `Convert HTML documents into design-tool node trees.

With arguments, each file ("-" reads stdin) is rendered and printed to stdout.
Without arguments, every file matching --include under --source is converted
and one document per file is written to --output-dir.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runConvert,
}

func init() {
	addConvertFlags(convertCmd)
}

// addConvertFlags registers convert flags. The root command carries them too
// because it runs convert by default.
func addConvertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("source", ".", "Directory the include patterns are relative to")
	f.StringSlice("include", nil, "Glob patterns for HTML files to include")
	f.String("output-dir", "", "Output directory for documents (default: next to each input)")
	f.String("format", "", "Output format: json|yaml|tree|summary")
	f.String("name", "", "Root frame name (default: HTML Import, or the file name in batch mode)")
	f.Float64("root-width", 1200, "Root frame width")
	f.Bool("number-ordered-lists", false, "Number ordered list items 1., 2., 3.")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log, err := commandLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) > 0 {
		return convertArgs(ctx, cmd.OutOrStdout(), cmd.InOrStdin(), args, log)
	}
	return convertBatch(ctx, cmd.OutOrStdout(), log)
}

func convertArgs(ctx context.Context, w io.Writer, stdin io.Reader, args []string, log *zap.Logger) error {
	quiet := getBoolWithFallback("quiet", "quiet", false)
	format := htmlfigma.DetermineOutputFormat(getStringWithFallback("format", "convert.format", ""), quiet)
	useColors := htmlfigma.ShouldUseColors(getBoolWithFallback("color", "color", false))
	opts := buildRenderOptions(log)

	for _, arg := range args {
		src, err := readInput(arg, stdin)
		if err != nil {
			return err
		}

		scene := surface.NewScene()
		res, err := htmlfigma.Import(ctx, htmlfigma.Request{HTML: string(src)}, scene, opts)
		if err != nil {
			return fmt.Errorf("convert %s: %w", arg, err)
		}

		export := htmlfigma.NewExport(arg, scene.Document(), res.Issues, time.Now())
		if err := htmlfigma.WriteDocument(w, export, format, useColors); err != nil {
			return fmt.Errorf("write %s: %w", arg, err)
		}
	}
	return nil
}

func readInput(arg string, stdin io.Reader) ([]byte, error) {
	if arg == "-" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", arg, err)
	}
	return src, nil
}

func convertBatch(ctx context.Context, w io.Writer, log *zap.Logger) error {
	config := buildConvertConfig(log)

	result, err := htmlfigma.ConvertFiles(ctx, config)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		r := htmlfigma.NewReporter(w, htmlfigma.ShouldUseColors(getBoolWithFallback("color", "color", false)))
		r.PrintBatch(result)
		r.PrintIssues(result.Issues)
		if err := r.Err(); err != nil {
			return err
		}
	}

	if result.Stats.FilesScanned > 0 && result.FilesConverted == 0 {
		return fmt.Errorf("none of %d files could be converted", result.Stats.FilesScanned)
	}
	return nil
}
