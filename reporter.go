package htmlfigma

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// maxTextPreview bounds the characters shown per text node in the tree.
const maxTextPreview = 40

// Reporter handles formatting documents and batch results for terminals
type Reporter struct {
	w         io.Writer
	useColors bool
	err       error
}

// NewReporter creates a new reporter
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// Err returns the first write error.
func (r *Reporter) Err() error {
	return r.err
}

func (r *Reporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// PrintTree prints an indented outline of every canvas node
func (r *Reporter) PrintTree(e *Export) {
	if e.Document == nil {
		return
	}
	for _, root := range e.Document.Nodes {
		root.Walk(func(n *surface.DocNode, depth int) {
			r.printf("%s%s\n", strings.Repeat("  ", depth), r.describe(n))
		})
	}
}

func (r *Reporter) describe(n *surface.DocNode) string {
	size := RenderStyle(StyleGray, fmt.Sprintf("%gx%g", n.Width, n.Height), r.useColors)

	if n.Type == surface.TypeText {
		text := n.Characters()
		if runes := []rune(text); len(runes) > maxTextPreview {
			text = string(runes[:maxTextPreview]) + "…"
		}
		return fmt.Sprintf("%s %s", RenderStyle(StyleGreen, fmt.Sprintf("%q", text), r.useColors), size)
	}

	hint := ""
	if n.Layout != nil && n.Layout.Mode != surface.LayoutNone {
		hint = " " + RenderStyle(StyleGray,
			fmt.Sprintf("[%s %s/%s]", strings.ToLower(string(n.Layout.Mode)), n.SizingHorizontal, n.SizingVertical),
			r.useColors)
	}
	return fmt.Sprintf("%s %s%s", RenderStyle(StyleCyan, n.Name, r.useColors), size, hint)
}

// PrintIssues outputs issues sorted by file then source
func (r *Reporter) PrintIssues(issues []Issue) {
	sorted := append([]Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Source < sorted[j].Source
	})

	for _, issue := range sorted {
		r.printIssue(issue)
	}
}

func (r *Reporter) printIssue(issue Issue) {
	style := StyleYellow
	if issue.Severity == SeverityError {
		style = StyleRed
	}

	location := ""
	if issue.File != "" {
		location = issue.File + ": "
	}
	r.printf("%s%s %s\n",
		location,
		RenderStyle(style, issue.Severity+":", r.useColors),
		issue.Text+" "+RenderStyle(StyleGray, "("+issue.Source+")", r.useColors))
}

// PrintSummary prints node and issue counts
func (r *Reporter) PrintSummary(e *Export) {
	s := e.Summary
	r.printf("%s, %s", pluralizeCount(s.Frames, "frame", "frames"), pluralizeCount(s.Texts, "text node", "text nodes"))

	switch {
	case s.Errors > 0 && s.Warnings > 0:
		r.printf(" (%s, %s)\n",
			RenderStyle(StyleRed, pluralizeCount(s.Errors, "error", "errors"), r.useColors),
			RenderStyle(StyleYellow, pluralizeCount(s.Warnings, "warning", "warnings"), r.useColors))
	case s.Errors > 0:
		r.printf(" (%s)\n", RenderStyle(StyleRed, pluralizeCount(s.Errors, "error", "errors"), r.useColors))
	case s.Warnings > 0:
		r.printf(" (%s)\n", RenderStyle(StyleYellow, pluralizeCount(s.Warnings, "warning", "warnings"), r.useColors))
	default:
		r.printf("\n")
	}
}

// PrintBatch prints the outcome of a batch conversion
func (r *Reporter) PrintBatch(result *ConvertResult) {
	for _, f := range result.Files {
		if f.Err != nil {
			r.printf("%s %s: %v\n", RenderStyle(StyleRed, "✗", r.useColors), f.Source, f.Err)
			continue
		}
		r.printf("%s %s → %s %s\n",
			RenderStyle(StyleGreen, "✓", r.useColors),
			f.Source, f.Output,
			RenderStyle(StyleGray, fmt.Sprintf("(%s, %s)",
				pluralizeCount(f.Frames, "frame", "frames"),
				pluralizeCount(len(f.Issues), "issue", "issues")), r.useColors))
	}

	r.printf("\nConverted %d of %d files", result.FilesConverted, result.Stats.FilesScanned)
	if result.Stats.FilesSkipped > 0 {
		r.printf(" (skipped %d ignored files)", result.Stats.FilesSkipped)
	}
	r.printf("\n")
}

// pluralizeCount returns "1 item" or "N items" based on count
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
