// Package cssvalue parses raw CSS value strings into values a design surface can use.
//
// Every parser reports absence with a false second return (or a zero value) instead of
// an error: a value that cannot be parsed is treated as "not set" by callers.
package cssvalue

import (
	"regexp"
	"strconv"
	"strings"
)

// CircleRadius is returned by ParseSize for "50%" and means
// "corner radius = min(width, height) / 2".
const CircleRadius = 999

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// ParseSize returns the numeric magnitude of a CSS length.
// Units are stripped without conversion: 12px, 12em and 12 all yield 12.
func ParseSize(raw string) (float64, bool) {
	v := strings.TrimSpace(strings.ToLower(raw))
	switch v {
	case "", "auto", "inherit", "initial", "unset", "none":
		return 0, false
	case "50%":
		return CircleRadius, true
	}
	if strings.HasSuffix(v, "%") {
		return 0, false
	}
	return parseNumber(v)
}

// IsPercent reports whether raw is a percentage length such as "100%".
func IsPercent(raw string) bool {
	v := strings.TrimSpace(raw)
	if !strings.HasSuffix(v, "%") {
		return false
	}
	_, ok := parseNumber(strings.TrimSuffix(v, "%"))
	return ok
}

// parseNumber mimics a lenient float parse: the longest numeric prefix wins.
func parseNumber(v string) (float64, bool) {
	m := leadingNumber.FindString(v)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Box holds per-side values of a margin or padding shorthand.
type Box struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// IsZero reports whether every side is zero.
func (b Box) IsZero() bool {
	return b.Top == 0 && b.Right == 0 && b.Bottom == 0 && b.Left == 0
}

// ParseMargin expands a 1-4 value margin shorthand.
func ParseMargin(raw string) Box {
	return parseEdges(raw)
}

// ParsePadding expands a 1-4 value padding shorthand.
func ParsePadding(raw string) Box {
	return parseEdges(raw)
}

func parseEdges(raw string) Box {
	parts := strings.Fields(raw)
	vals := make([]float64, len(parts))
	for i, p := range parts {
		if f, ok := ParseSize(p); ok && f != CircleRadius {
			vals[i] = f
		}
	}

	switch len(vals) {
	case 0:
		return Box{}
	case 1:
		return Box{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
	case 2:
		return Box{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 3:
		return Box{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	default:
		return Box{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	}
}

// HasAutoInline reports whether a margin shorthand centers horizontally
// ("0 auto", "10px auto 0", "auto").
func HasAutoInline(raw string) bool {
	parts := strings.Fields(strings.ToLower(raw))
	switch len(parts) {
	case 1:
		return parts[0] == "auto"
	case 2, 3:
		return parts[1] == "auto"
	case 4:
		return parts[1] == "auto" && parts[3] == "auto"
	}
	return false
}

// LineHeightUnit is the unit a parsed line height is expressed in.
type LineHeightUnit string

// Line height units understood by the design surface.
const (
	LineHeightAuto    LineHeightUnit = "AUTO"
	LineHeightPixels  LineHeightUnit = "PIXELS"
	LineHeightPercent LineHeightUnit = "PERCENT"
)

// LineHeight is a parsed line-height value.
type LineHeight struct {
	Value float64        `json:"value,omitempty" yaml:"value,omitempty"`
	Unit  LineHeightUnit `json:"unit" yaml:"unit"`
}

// ParseLineHeight handles "normal", pixel values, percentages and unitless multipliers.
func ParseLineHeight(raw string) (LineHeight, bool) {
	v := strings.TrimSpace(strings.ToLower(raw))
	if v == "normal" {
		return LineHeight{Unit: LineHeightAuto}, true
	}
	if strings.HasSuffix(v, "%") {
		f, ok := parseNumber(strings.TrimSuffix(v, "%"))
		if !ok {
			return LineHeight{}, false
		}
		return LineHeight{Value: f, Unit: LineHeightPercent}, true
	}
	f, ok := ParseSize(v)
	if !ok {
		return LineHeight{}, false
	}
	if strings.TrimLeft(v, "+-0123456789.") == "" {
		return LineHeight{Value: f * 100, Unit: LineHeightPercent}, true
	}
	return LineHeight{Value: f, Unit: LineHeightPixels}, true
}

// FontFamily returns the first family of a font-family list, unquoted.
func FontFamily(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}
