package htmlfigma

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat selects how a design document is written.
type OutputFormat string

const (
	OutputJSON    OutputFormat = "json"    // Indented JSON export
	OutputYAML    OutputFormat = "yaml"    // YAML export
	OutputTree    OutputFormat = "tree"    // Indented node outline
	OutputSummary OutputFormat = "summary" // Counts and issues only
)

// Extension returns the file extension used for documents written to disk.
// Terminal-only formats are stored as JSON.
func (f OutputFormat) Extension() string {
	if f == OutputYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseOutputFormat parses a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return OutputJSON, nil
	case "yaml", "yml":
		return OutputYAML, nil
	case "tree":
		return OutputTree, nil
	case "summary":
		return OutputSummary, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml, tree or summary)", s)
}

// DetermineOutputFormat selects the output format based on flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Quiet prints counts only
	if quiet {
		return OutputSummary
	}

	// Explicit format flag wins; invalid names fall back to the default
	if formatFlag != "" {
		if f, err := ParseOutputFormat(formatFlag); err == nil {
			return f
		}
	}

	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns the default output format
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputJSON
}

// WriteDocument writes an export in the specified format
func WriteDocument(w io.Writer, e *Export, format OutputFormat, useColors bool) error {
	switch format {
	case OutputYAML:
		return WriteYAML(w, e)

	case OutputTree:
		r := NewReporter(w, useColors)
		r.PrintTree(e)
		r.PrintIssues(e.Issues)
		r.PrintSummary(e)
		return r.Err()

	case OutputSummary:
		r := NewReporter(w, useColors)
		r.PrintSummary(e)
		return r.Err()

	default:
		return WriteJSON(w, e)
	}
}
