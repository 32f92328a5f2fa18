package mapper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// boxDefaults are the visuals a shape gets when the element does not set them.
type boxDefaults struct {
	fill    *surface.Color
	stroke  *surface.Color
	radius  float64
	padding *cssvalue.Box
	// keep paints the default fill even under a gradient ancestor.
	keep bool
}

func rgb(r, g, b uint8) *surface.Color {
	return &surface.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

var (
	white       = rgb(255, 255, 255)
	black       = rgb(0, 0, 0)
	linkBlue    = rgb(0, 102, 204)
	buttonBlue  = rgb(0, 123, 255)
	borderGray  = rgb(204, 204, 204)
	tableBorder = rgb(221, 221, 221)
	headerShade = rgb(245, 245, 245)
	placeholder = rgb(153, 153, 153)
	valueText   = rgb(51, 51, 51)
	imageFill   = rgb(224, 224, 224)
	captionGray = rgb(102, 102, 102)
)

// applyBox sets fills, strokes, radius, effects, opacity, clipping, padding,
// width limits and transform from the element's styles.
func applyBox(n *Node, s cascade.StyleMap, ctx Context, def boxDefaults) {
	if fills := backgroundPaints(s); len(fills) > 0 {
		n.Fills = fills
	} else if def.fill != nil && (def.keep || !ctx.Inherited.UnderGradient()) {
		n.Fills = []surface.Paint{surface.Solid(*def.fill)}
	}

	if strokes, weights, ok := borderStrokes(s); ok {
		n.Strokes, n.StrokeWeights = strokes, weights
	} else if def.stroke != nil && !hasBorderDeclaration(s) {
		n.Strokes = []surface.Paint{surface.Solid(*def.stroke)}
		n.StrokeWeights = surface.Edges{Top: 1, Right: 1, Bottom: 1, Left: 1}
	}

	n.CornerRadius = def.radius
	if r, ok := cssvalue.ParseSize(s["border-radius"]); ok {
		n.CornerRadius = r
	}

	if shadow := s["box-shadow"]; shadow != "" && shadow != "none" {
		if sh, ok := cssvalue.ParseBoxShadow(shadow); ok {
			n.Effects = []surface.Effect{surface.DropShadow(sh)}
		}
	}

	if o, err := strconv.ParseFloat(strings.TrimSpace(s["opacity"]), 64); err == nil && o >= 0 && o < 1 {
		n.Opacity = &o
	}

	switch strings.TrimSpace(s["overflow"]) {
	case "hidden", "clip":
		n.Clip = true
	}

	if p, ok := padding(s); ok {
		n.Layout.Padding = p
	} else if def.padding != nil {
		n.Layout.Padding = *def.padding
	}

	if v := s["min-width"]; !cssvalue.IsPercent(v) {
		if w, ok := cssvalue.ParseSize(v); ok {
			n.Limits.MinWidth = w
		}
	}
	if v := s["max-width"]; !cssvalue.IsPercent(v) {
		if w, ok := cssvalue.ParseSize(v); ok && w > 0 {
			n.Limits.MaxWidth = w
		}
	}

	n.Transform = transform(s)
}

// backgroundPaints returns the element's own background, bottom paint first.
func backgroundPaints(s cascade.StyleMap) []surface.Paint {
	var paints []surface.Paint

	bg := strings.TrimSpace(s["background"])
	if c, ok := cssvalue.ParseColor(s["background-color"]); ok && c.A > 0 {
		paints = append(paints, surface.Solid(c))
	} else if c, ok := backgroundColor(bg); ok {
		paints = append(paints, surface.Solid(c))
	}

	for _, v := range []string{bg, s["background-image"]} {
		if g, ok := cssvalue.ParseLinearGradient(v); ok {
			paints = append(paints, surface.LinearGradient(g.Stops))
			break
		}
	}
	return paints
}

// backgroundColor reads the colour layer of a background shorthand.
func backgroundColor(bg string) (cssvalue.RGBA, bool) {
	if bg == "" || cssvalue.IsGradient(bg) {
		return cssvalue.RGBA{}, false
	}
	if c, ok := cssvalue.ParseColor(bg); ok {
		return c, c.A > 0
	}
	for _, part := range cssvalue.SplitTopLevel(bg, ' ') {
		if c, ok := cssvalue.ParseColor(part); ok {
			return c, c.A > 0
		}
	}
	return cssvalue.RGBA{}, false
}

var borderSides = [4]string{"border-top", "border-right", "border-bottom", "border-left"}

func hasBorderDeclaration(s cascade.StyleMap) bool {
	if _, ok := s["border"]; ok {
		return true
	}
	for _, side := range borderSides {
		if _, ok := s[side]; ok {
			return true
		}
	}
	return false
}

// borderStrokes resolves border shorthands into one stroke paint and per-side
// weights. The colour of the first visible side wins.
func borderStrokes(s cascade.StyleMap) ([]surface.Paint, surface.Edges, bool) {
	type side struct {
		width float64
		color cssvalue.RGBA
		set   bool
	}
	var sides [4]side

	if b, ok := cssvalue.ParseBorder(s["border"]); ok {
		for i := range sides {
			sides[i] = side{width: b.Width, color: b.Color, set: true}
		}
	}
	if w, ok := cssvalue.ParseSize(s["border-width"]); ok {
		for i := range sides {
			if sides[i].set {
				sides[i].width = w
			}
		}
	}
	if c, ok := cssvalue.ParseColor(s["border-color"]); ok {
		for i := range sides {
			sides[i].color = c
		}
	}
	for i, name := range borderSides {
		v, ok := s[name]
		if !ok {
			continue
		}
		if b, ok := cssvalue.ParseBorder(v); ok {
			sides[i] = side{width: b.Width, color: b.Color, set: true}
		} else {
			sides[i] = side{}
		}
	}
	switch strings.TrimSpace(s["border-style"]) {
	case "none", "hidden":
		return nil, surface.Edges{}, false
	}

	var weights surface.Edges
	var color *cssvalue.RGBA
	ptrs := [4]*float64{&weights.Top, &weights.Right, &weights.Bottom, &weights.Left}
	for i, sd := range sides {
		if !sd.set || sd.width <= 0 {
			continue
		}
		*ptrs[i] = sd.width
		if color == nil {
			c := sd.color
			color = &c
		}
	}
	if color == nil {
		return nil, surface.Edges{}, false
	}
	return []surface.Paint{surface.Solid(*color)}, weights, true
}

// padding resolves the padding shorthand and its per-side overrides.
func padding(s cascade.StyleMap) (cssvalue.Box, bool) {
	var box cssvalue.Box
	found := false
	if v, ok := s["padding"]; ok {
		box = cssvalue.ParsePadding(v)
		found = true
	}
	sides := []struct {
		prop string
		dst  *float64
	}{
		{"padding-top", &box.Top},
		{"padding-right", &box.Right},
		{"padding-bottom", &box.Bottom},
		{"padding-left", &box.Left},
	}
	for _, sd := range sides {
		if v, ok := cssvalue.ParseSize(s[sd.prop]); ok {
			*sd.dst = v
			found = true
		}
	}
	return box, found
}

func transform(s cascade.StyleMap) *cssvalue.Transform {
	v := strings.TrimSpace(s["transform"])
	if v == "" || v == "none" {
		return nil
	}
	t := cssvalue.ParseTransform(v)
	if !t.HasRotation && !t.HasScale && !t.HasTranslate {
		return nil
	}
	return &t
}

// gap returns the spacing between children along the given direction.
func gap(s cascade.StyleMap, mode surface.LayoutMode) (float64, bool) {
	prop := "row-gap"
	if mode == surface.LayoutHorizontal {
		prop = "column-gap"
	}
	if v, ok := cssvalue.ParseSize(s[prop]); ok {
		return v, true
	}
	// "gap: 16px 24px" is row then column.
	parts := strings.Fields(s["gap"])
	if len(parts) == 0 {
		return 0, false
	}
	if mode == surface.LayoutHorizontal && len(parts) > 1 {
		return cssvalue.ParseSize(parts[1])
	}
	return cssvalue.ParseSize(parts[0])
}

func justify(v string) (surface.Align, bool) {
	switch strings.TrimSpace(v) {
	case "flex-start", "start", "left", "normal":
		return surface.AlignMin, true
	case "center":
		return surface.AlignCenter, true
	case "flex-end", "end", "right":
		return surface.AlignMax, true
	case "space-between", "space-around", "space-evenly":
		return surface.AlignSpaceBetween, true
	}
	return "", false
}

func alignItems(v string) (surface.Align, bool) {
	switch strings.TrimSpace(v) {
	case "flex-start", "start", "stretch", "baseline", "normal":
		return surface.AlignMin, true
	case "center":
		return surface.AlignCenter, true
	case "flex-end", "end":
		return surface.AlignMax, true
	}
	return "", false
}

// grow reads flex-grow or the first number of the flex shorthand.
func grow(s cascade.StyleMap) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s["flex-grow"]), 64); err == nil {
		return v
	}
	fields := strings.Fields(s["flex"])
	if len(fields) == 0 {
		return 0
	}
	if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
		return v
	}
	return 0
}

var repeatColumns = regexp.MustCompile(`repeat\(\s*(\d+)\s*,`)

// gridColumns counts columns in grid-template-columns: repeat(N, ...) or the
// number of fr tracks. Falls back to 1.
func gridColumns(v string) int {
	if m := repeatColumns.FindStringSubmatch(v); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	n := 0
	for _, f := range strings.Fields(v) {
		if strings.HasSuffix(f, "fr") {
			n++
		}
	}
	return max(n, 1)
}

// isFull reports whether a length is exactly "100%".
func isFull(v string) bool {
	return strings.TrimSpace(v) == "100%"
}

// percentOf resolves a percentage length against base.
func percentOf(v string, base float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
	if err != nil {
		return 0
	}
	return base * f / 100
}

// fixedLength parses a non-percentage length.
func fixedLength(v string) (float64, bool) {
	if cssvalue.IsPercent(v) {
		return 0, false
	}
	return cssvalue.ParseSize(v)
}

func autoCentered(s cascade.StyleMap) bool {
	if cssvalue.HasAutoInline(s["margin"]) {
		return true
	}
	return strings.TrimSpace(s["margin-left"]) == "auto" && strings.TrimSpace(s["margin-right"]) == "auto"
}
