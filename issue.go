package htmlfigma

import (
	"errors"

	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Issue is a problem met while converting or rendering.
type Issue struct {
	Source   string `json:"source" yaml:"source"`                 // "render", "font", "batch"
	Text     string `json:"text" yaml:"text"`                     // "set FILL sizing on 1:4: node is not inside an auto-layout frame"
	Severity string `json:"severity" yaml:"severity"`             // "warning", "error"
	File     string `json:"file,omitempty" yaml:"file,omitempty"` // input file in batch mode
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue sources
const (
	SourceRender = "render"
	SourceFont   = "font"
	SourceBatch  = "batch"
)

func issuesFromWarnings(warnings []error, file string) []Issue {
	issues := make([]Issue, 0, len(warnings))
	for _, w := range warnings {
		source := SourceRender
		if errors.Is(w, surface.ErrFontUnavailable) || errors.Is(w, surface.ErrFontNotLoaded) {
			source = SourceFont
		}
		issues = append(issues, Issue{
			Source:   source,
			Text:     w.Error(),
			Severity: SeverityWarning,
			File:     file,
		})
	}
	return issues
}

// countBySeverity splits issues into errors and warnings.
func countBySeverity(issues []Issue) (errs, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}
