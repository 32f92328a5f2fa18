package cssvalue

import (
	"regexp"
	"strconv"
	"strings"
)

// RGBA is a colour with components normalized to [0,1].
type RGBA struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// Luminance returns the relative luminance used to pick readable text colours.
func (c RGBA) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

var namedColors = map[string]RGBA{
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 128.0 / 255, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"orange":      {1, 165.0 / 255, 0, 1},
	"purple":      {128.0 / 255, 0, 128.0 / 255, 1},
	"pink":        {1, 192.0 / 255, 203.0 / 255, 1},
	"gray":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
	"grey":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
	"brown":       {165.0 / 255, 42.0 / 255, 42.0 / 255, 1},
	"cyan":        {0, 1, 1, 1},
	"aqua":        {0, 1, 1, 1},
	"magenta":     {1, 0, 1, 1},
	"fuchsia":     {1, 0, 1, 1},
	"lime":        {0, 1, 0, 1},
	"navy":        {0, 0, 128.0 / 255, 1},
	"teal":        {0, 128.0 / 255, 128.0 / 255, 1},
	"silver":      {192.0 / 255, 192.0 / 255, 192.0 / 255, 1},
	"maroon":      {128.0 / 255, 0, 0, 1},
	"olive":       {128.0 / 255, 128.0 / 255, 0, 1},
	"gold":        {1, 215.0 / 255, 0, 1},
	"indigo":      {75.0 / 255, 0, 130.0 / 255, 1},
	"violet":      {238.0 / 255, 130.0 / 255, 238.0 / 255, 1},
	"transparent": {0, 0, 0, 0},
}

var (
	rgbFunc = regexp.MustCompile(`^rgba?\(\s*([\d.]+)\s*[, ]\s*([\d.]+)\s*[, ]\s*([\d.]+)\s*(?:[,/]\s*([\d.]+%?)\s*)?\)$`)
	hex6    = regexp.MustCompile(`^#([0-9a-f]{2})([0-9a-f]{2})([0-9a-f]{2})$`)
	hex3    = regexp.MustCompile(`^#([0-9a-f])([0-9a-f])([0-9a-f])$`)
)

// ParseColor recognizes named colours, rgb(), rgba(), #rrggbb and #rgb.
func ParseColor(raw string) (RGBA, bool) {
	v := strings.TrimSpace(strings.ToLower(raw))
	if v == "" {
		return RGBA{}, false
	}
	if c, ok := namedColors[v]; ok {
		return c, true
	}

	if m := rgbFunc.FindStringSubmatch(v); m != nil {
		c := RGBA{A: 1}
		c.R = channel(m[1])
		c.G = channel(m[2])
		c.B = channel(m[3])
		if m[4] != "" {
			c.A = alpha(m[4])
		}
		return c, true
	}

	if m := hex6.FindStringSubmatch(v); m != nil {
		return RGBA{R: hexByte(m[1]), G: hexByte(m[2]), B: hexByte(m[3]), A: 1}, true
	}
	if m := hex3.FindStringSubmatch(v); m != nil {
		return RGBA{R: hexByte(m[1] + m[1]), G: hexByte(m[2] + m[2]), B: hexByte(m[3] + m[3]), A: 1}, true
	}

	return RGBA{}, false
}

// ParseRGB is ParseColor without the alpha channel; translucent colours are returned opaque.
func ParseRGB(raw string) (RGBA, bool) {
	c, ok := ParseColor(raw)
	if !ok {
		return RGBA{}, false
	}
	c.A = 1
	return c, true
}

// IsVisible reports whether raw is a parseable colour with non-zero alpha.
func IsVisible(raw string) bool {
	c, ok := ParseColor(raw)
	return ok && c.A > 0
}

func channel(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clamp01(f / 255)
}

func alpha(s string) float64 {
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 1
	}
	if pct {
		f /= 100
	}
	return clamp01(f)
}

func hexByte(s string) float64 {
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return float64(n) / 255
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
