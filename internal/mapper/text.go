package mapper

import (
	"strconv"
	"strings"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
	"github.com/Floristeady/html-to-figma-sub000/internal/dom"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Typography fallbacks.
const (
	DefaultFontFamily = "Inter"
	MonoFontFamily    = "Roboto Mono"
	DefaultFontSize   = 16
)

// headingSizes are the default font sizes of h1..h6.
var headingSizes = map[string]float64{
	"h1": 36, "h2": 30, "h3": 24, "h4": 20, "h5": 18, "h6": 16,
}

// textDefaults are per-tag typography used when neither the element nor
// its ancestors say otherwise.
type textDefaults struct {
	size   float64
	weight int
	italic bool
	family string
	color  *surface.Color
	align  string
}

func tagTextDefaults(tag string) textDefaults {
	d := textDefaults{}
	if size, ok := headingSizes[tag]; ok {
		d.size = size
		d.weight = 700
	}
	switch tag {
	case "strong", "b", "th", "dt":
		d.weight = 700
	case "em", "i", "cite", "blockquote":
		d.italic = true
	case "small", "sub", "sup", "figcaption":
		d.size = 12
	case "code", "pre", "kbd", "samp":
		d.family = MonoFontFamily
		d.size = 14
	case "a":
		d.color = linkBlue
	}
	return d
}

// textNode builds a text node for chars using the element's own styles, the
// inherited channel and the tag defaults, in that order of precedence.
func textNode(tag string, chars string, s cascade.StyleMap, ctx Context, def textDefaults) *Node {
	in := ctx.Inherited
	t := &Text{
		Characters: chars,
		FontSize:   fontSize(s, in, def),
		Weight:     fontWeight(s, in, def),
		Italic:     def.italic,
		Family:     fontFamily(s, in, def),
		Color:      textColor(s, in, def),
	}

	switch strings.TrimSpace(s["font-style"]) {
	case "italic", "oblique":
		t.Italic = true
	case "normal":
		t.Italic = false
	}
	t.Style = fontStyle(t.Weight, t.Italic)

	lh := s["line-height"]
	if lh == "" {
		lh = in.LineHeight
	}
	if v, ok := cssvalue.ParseLineHeight(lh); ok {
		t.LineHeight = &v
	}
	if v, ok := cssvalue.ParseSize(s["letter-spacing"]); ok {
		t.LetterSpacing = v
	}

	t.Align = def.align
	if a := textAlign(s["text-align"]); a != "" {
		t.Align = a
	}
	switch v := s["text-decoration"]; {
	case strings.Contains(v, "underline"):
		t.Decoration = surface.DecorationUnderline
	case strings.Contains(v, "line-through"):
		t.Decoration = surface.DecorationStrikethrough
	}
	switch strings.TrimSpace(s["text-transform"]) {
	case "uppercase":
		t.Case = surface.CaseUpper
	case "lowercase":
		t.Case = surface.CaseLower
	case "capitalize":
		t.Case = surface.CaseTitle
	}

	n := &Node{
		Shape:      ShapeText,
		Tag:        tag,
		Name:       textName(chars),
		Styles:     s,
		Horizontal: surface.SizingHug,
		Vertical:   surface.SizingHug,
		Text:       t,
	}
	if ctx.ParentLayout == surface.LayoutVertical {
		n.Horizontal = surface.SizingFill
	}
	if o, err := strconv.ParseFloat(strings.TrimSpace(s["opacity"]), 64); err == nil && o >= 0 && o < 1 {
		n.Opacity = &o
	}
	n.Transform = transform(s)
	return n
}

var typographyProps = []string{
	"color", "font-family", "font-size", "font-weight", "font-style", "line-height",
	"letter-spacing", "text-align", "text-decoration", "text-transform",
}

// typography keeps the text-related properties of a frame's styles, for the
// text child that carries the frame's own content.
func typography(s cascade.StyleMap) cascade.StyleMap {
	out := make(cascade.StyleMap)
	for _, p := range typographyProps {
		if v, ok := s[p]; ok {
			out[p] = v
		}
	}
	return out
}

func textName(chars string) string {
	const limit = 40
	r := []rune(chars)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return chars
}

// fontSize prefers the element's own size. Headings and the small and
// monospace tags keep their fixed sizes over inherited ones; everything else,
// p included, inherits and finally falls back to DefaultFontSize.
func fontSize(s cascade.StyleMap, in Inherited, def textDefaults) float64 {
	if v, ok := fixedLength(s["font-size"]); ok && v > 0 {
		return v
	}
	if def.size > 0 {
		return def.size
	}
	if v, ok := fixedLength(in.FontSize); ok && v > 0 {
		return v
	}
	return DefaultFontSize
}

func fontWeight(s cascade.StyleMap, in Inherited, def textDefaults) int {
	if w, ok := parseWeight(s["font-weight"]); ok {
		return w
	}
	if def.weight > 0 {
		return def.weight
	}
	if w, ok := parseWeight(in.FontWeight); ok {
		return w
	}
	return 400
}

func parseWeight(v string) (int, bool) {
	switch v = strings.TrimSpace(v); v {
	case "":
		return 0, false
	case "normal":
		return 400, true
	case "bold", "bolder":
		return 700, true
	case "lighter":
		return 300, true
	}
	w, err := strconv.Atoi(v)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// fontStyle names the font style for a weight, e.g. 600 italic -> "Semi Bold Italic".
func fontStyle(weight int, italic bool) string {
	var style string
	switch {
	case weight >= 700:
		style = "Bold"
	case weight >= 600:
		style = "Semi Bold"
	case weight >= 500:
		style = "Medium"
	case weight <= 300:
		style = "Light"
	default:
		style = "Regular"
	}
	if !italic {
		return style
	}
	if style == "Regular" {
		return "Italic"
	}
	return style + " Italic"
}

var genericFamilies = map[string]string{
	"sans-serif":         DefaultFontFamily,
	"serif":              DefaultFontFamily,
	"system-ui":          DefaultFontFamily,
	"-apple-system":      DefaultFontFamily,
	"blinkmacsystemfont": DefaultFontFamily,
	"monospace":          MonoFontFamily,
}

func fontFamily(s cascade.StyleMap, in Inherited, def textDefaults) string {
	raw := s["font-family"]
	if raw == "" && def.family != "" {
		return def.family
	}
	if raw == "" {
		raw = in.FontFamily
	}
	family := cssvalue.FontFamily(raw)
	if family == "" {
		return DefaultFontFamily
	}
	if mapped, ok := genericFamilies[strings.ToLower(family)]; ok {
		return mapped
	}
	return family
}

// textColor picks own colour, tag default, inherited colour, white on a
// dark ancestor background, then black.
func textColor(s cascade.StyleMap, in Inherited, def textDefaults) surface.Color {
	if c, ok := cssvalue.ParseColor(s["color"]); ok {
		return c
	}
	if def.color != nil {
		return *def.color
	}
	if c, ok := cssvalue.ParseColor(in.Color); ok {
		return c
	}
	if in.DarkBackground() {
		return *white
	}
	return *black
}

func textAlign(v string) string {
	switch strings.TrimSpace(v) {
	case "left", "start":
		return surface.TextAlignLeft
	case "center":
		return surface.TextAlignCenter
	case "right", "end":
		return surface.TextAlignRight
	case "justify":
		return surface.TextAlignJustified
	}
	return ""
}

// TextAlign converts a CSS text-align value to the surface's alignment, or "".
func TextAlign(v string) string {
	return textAlign(v)
}

// inlineTags render as text when they have no block descendants.
var inlineTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"span": true, "a": true, "label": true,
	"strong": true, "b": true, "em": true, "i": true, "small": true,
	"code": true, "pre": true, "kbd": true, "samp": true, "blockquote": true,
	"mark": true, "cite": true, "abbr": true, "time": true, "q": true,
	"s": true, "u": true, "del": true, "ins": true, "sub": true, "sup": true,
	"figcaption": true, "caption": true, "dt": true, "dd": true, "legend": true,
	"br": true,
}

// badgeTags may carry a background, turning them into a badge frame.
var badgeTags = map[string]bool{
	"span": true, "a": true, "label": true, "strong": true, "b": true,
	"em": true, "i": true, "small": true, "code": true, "mark": true, "kbd": true,
}

// hasBlockContent reports whether any descendant is not inline.
func hasBlockContent(el *dom.Element) bool {
	for _, c := range el.Children {
		if !inlineTags[c.TagName] || hasBlockContent(c) {
			return true
		}
	}
	return false
}
