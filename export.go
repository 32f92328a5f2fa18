package htmlfigma

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// ExportVersion is the schema version of exported design documents.
const ExportVersion = "1.0"

// Export is the serialisable form of one rendered document.
type Export struct {
	Version   string            `json:"version" yaml:"version"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
	Source    string            `json:"source,omitempty" yaml:"source,omitempty"`
	Summary   ExportSummary     `json:"summary" yaml:"summary"`
	Document  *surface.Document `json:"document" yaml:"document"`
	Issues    []Issue           `json:"issues" yaml:"issues"`
}

// ExportSummary contains node and issue counts
type ExportSummary struct {
	Frames   int `json:"frames" yaml:"frames"`
	Texts    int `json:"texts" yaml:"texts"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// NewExport builds an export for a scene document.
func NewExport(source string, doc *surface.Document, issues []Issue, now time.Time) *Export {
	if doc == nil {
		doc = &surface.Document{}
	}
	if issues == nil {
		issues = []Issue{}
	}

	frames, texts := doc.Count()
	errs, warnings := countBySeverity(issues)
	return &Export{
		Version:   ExportVersion,
		Timestamp: now.UTC().Format(time.RFC3339),
		Source:    source,
		Summary: ExportSummary{
			Frames:   frames,
			Texts:    texts,
			Errors:   errs,
			Warnings: warnings,
		},
		Document: doc,
		Issues:   issues,
	}
}

// WriteJSON writes the export as indented JSON
func WriteJSON(w io.Writer, e *Export) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(e)
}

// WriteYAML writes the export as YAML
func WriteYAML(w io.Writer, e *Export) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(e); err != nil {
		return err
	}
	return encoder.Close()
}
