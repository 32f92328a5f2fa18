package cssvalue

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Shadow is a parsed box-shadow. Spread is recognized but not applied by the renderer.
type Shadow struct {
	OffsetX float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY float64 `json:"offsetY" yaml:"offsetY"`
	Blur    float64 `json:"blur" yaml:"blur"`
	Spread  float64 `json:"spread,omitempty" yaml:"spread,omitempty"`
	Color   RGBA    `json:"color" yaml:"color"`
}

var (
	shadowColor  = regexp.MustCompile(`rgba?\([^)]*\)|#[0-9a-fA-F]{6}\b|#[0-9a-fA-F]{3}\b`)
	shadowLength = regexp.MustCompile(`-?\d*\.?\d+(?:px)?`)
)

// defaultShadowColor is black at 25% alpha.
var defaultShadowColor = RGBA{A: 0.25}

// ParseBoxShadow extracts offset-x, offset-y, blur and colour from the first shadow.
func ParseBoxShadow(raw string) (Shadow, bool) {
	first := SplitTopLevel(raw, ',')
	if len(first) == 0 {
		return Shadow{}, false
	}
	v := first[0]

	s := Shadow{Color: defaultShadowColor}
	if loc := shadowColor.FindStringIndex(v); loc != nil {
		if c, ok := ParseColor(v[loc[0]:loc[1]]); ok {
			s.Color = c
		}
		v = v[:loc[0]] + " " + v[loc[1]:]
	}

	nums := shadowLength.FindAllString(v, -1)
	if len(nums) < 2 {
		return Shadow{}, false
	}
	vals := make([]float64, 0, 4)
	for _, n := range nums {
		f, ok := parseNumber(n)
		if !ok {
			return Shadow{}, false
		}
		vals = append(vals, f)
	}

	s.OffsetX, s.OffsetY = vals[0], vals[1]
	if len(vals) > 2 {
		s.Blur = vals[2]
	}
	if len(vals) > 3 {
		s.Spread = vals[3]
	}
	return s, true
}

// GradientStop is one colour stop of a linear gradient.
type GradientStop struct {
	Position float64 `json:"position" yaml:"position"`
	Color    RGBA    `json:"color" yaml:"color"`
}

// Gradient is a parsed linear gradient. Direction is not kept.
type Gradient struct {
	Stops []GradientStop `json:"stops" yaml:"stops"`
}

// IsGradient reports whether raw contains a linear gradient.
func IsGradient(raw string) bool {
	return strings.Contains(raw, "linear-gradient(")
}

// ParseLinearGradient reads colour stops of a linear-gradient() value.
// Stop positions are synthesized evenly over [0,1]; explicit positions are ignored.
func ParseLinearGradient(raw string) (Gradient, bool) {
	start := strings.Index(raw, "linear-gradient(")
	if start < 0 {
		return Gradient{}, false
	}
	body := raw[start+len("linear-gradient("):]
	if end := matchingParen(body); end >= 0 {
		body = body[:end]
	}

	tokens := SplitTopLevel(body, ',')
	if len(tokens) == 0 {
		return Gradient{}, false
	}
	if _, ok := stopColor(tokens[0]); !ok {
		// angle or direction
		tokens = tokens[1:]
	}

	colors := make([]RGBA, 0, len(tokens))
	for _, t := range tokens {
		if c, ok := stopColor(t); ok {
			colors = append(colors, c)
		}
	}
	if len(colors) < 2 {
		return Gradient{}, false
	}

	g := Gradient{Stops: make([]GradientStop, len(colors))}
	step := 1 / float64(len(colors)-1)
	for i, c := range colors {
		pos := float64(i) * step
		if i == len(colors)-1 {
			pos = 1
		}
		g.Stops[i] = GradientStop{Position: pos, Color: c}
	}
	return g, true
}

// stopColor parses the colour part of a stop such as "#fff 50%" or "rgba(0,0,0,.5) 10px".
func stopColor(token string) (RGBA, bool) {
	t := strings.TrimSpace(token)
	if i := strings.Index(t, ")"); strings.HasPrefix(strings.ToLower(t), "rgb") && i > 0 {
		return ParseColor(t[:i+1])
	}
	fields := strings.Fields(t)
	if len(fields) == 0 {
		return RGBA{}, false
	}
	return ParseColor(fields[0])
}

func matchingParen(s string) int {
	depth := 1
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// SplitTopLevel splits s on sep, ignoring separators nested inside parentheses.
func SplitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0:
			if p := strings.TrimSpace(s[start:i]); p != "" {
				parts = append(parts, p)
			}
			start = i + 1
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// Transform holds the recognized parts of a CSS transform.
type Transform struct {
	Rotation     float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"` // radians
	ScaleX       float64 `json:"scaleX,omitempty" yaml:"scaleX,omitempty"`
	ScaleY       float64 `json:"scaleY,omitempty" yaml:"scaleY,omitempty"`
	TranslateX   float64 `json:"translateX,omitempty" yaml:"translateX,omitempty"`
	TranslateY   float64 `json:"translateY,omitempty" yaml:"translateY,omitempty"`
	HasRotation  bool    `json:"-" yaml:"-"`
	HasScale     bool    `json:"-" yaml:"-"`
	HasTranslate bool    `json:"-" yaml:"-"`
}

var (
	rotateFn    = regexp.MustCompile(`rotate\(\s*(-?[\d.]+)deg\s*\)`)
	scaleFn     = regexp.MustCompile(`scale\(\s*(-?[\d.]+)\s*(?:,\s*(-?[\d.]+)\s*)?\)`)
	scaleXFn    = regexp.MustCompile(`scaleX\(\s*(-?[\d.]+)\s*\)`)
	scaleYFn    = regexp.MustCompile(`scaleY\(\s*(-?[\d.]+)\s*\)`)
	translateFn = regexp.MustCompile(`translate\(\s*(-?[\d.]+)(?:px)?\s*(?:,\s*(-?[\d.]+)(?:px)?\s*)?\)`)
)

// ParseTransform recognizes rotate(deg), scale, scaleX, scaleY and translate(px).
// Any other transform function is ignored.
func ParseTransform(raw string) Transform {
	t := Transform{ScaleX: 1, ScaleY: 1}

	if m := rotateFn.FindStringSubmatch(raw); m != nil {
		t.Rotation = atof(m[1]) * math.Pi / 180
		t.HasRotation = true
	}
	if m := scaleFn.FindStringSubmatch(raw); m != nil {
		t.ScaleX = atof(m[1])
		t.ScaleY = t.ScaleX
		if m[2] != "" {
			t.ScaleY = atof(m[2])
		}
		t.HasScale = true
	}
	if m := scaleXFn.FindStringSubmatch(raw); m != nil {
		t.ScaleX = atof(m[1])
		t.HasScale = true
	}
	if m := scaleYFn.FindStringSubmatch(raw); m != nil {
		t.ScaleY = atof(m[1])
		t.HasScale = true
	}
	if m := translateFn.FindStringSubmatch(raw); m != nil {
		t.TranslateX = atof(m[1])
		if m[2] != "" {
			t.TranslateY = atof(m[2])
		}
		t.HasTranslate = true
	}
	return t
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// Border is a parsed border shorthand.
type Border struct {
	Width float64
	Style string
	Color RGBA
}

var borderStyles = map[string]bool{
	"solid": true, "dashed": true, "dotted": true, "double": true,
	"groove": true, "ridge": true, "inset": true, "outset": true,
}

// ParseBorder parses "1px solid #ccc" style shorthands. "none" and zero widths yield false.
func ParseBorder(raw string) (Border, bool) {
	v := strings.TrimSpace(strings.ToLower(raw))
	if v == "" || v == "none" || v == "0" {
		return Border{}, false
	}

	b := Border{Width: 1, Style: "solid", Color: RGBA{A: 1}}
	rest := v
	if loc := shadowColor.FindStringIndex(rest); loc != nil {
		if c, ok := ParseColor(rest[loc[0]:loc[1]]); ok {
			b.Color = c
		}
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
	}
	for _, f := range strings.Fields(rest) {
		switch {
		case borderStyles[f]:
			b.Style = f
		case f == "none" || f == "hidden":
			return Border{}, false
		default:
			if w, ok := ParseSize(f); ok {
				b.Width = w
			} else if c, ok := ParseColor(f); ok {
				b.Color = c
			}
		}
	}
	if b.Width <= 0 {
		return Border{}, false
	}
	return b, true
}
