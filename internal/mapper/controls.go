package mapper

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
	"github.com/Floristeady/html-to-figma-sub000/internal/dom"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Fixed geometry of generated controls.
const (
	CellWidth         = 85
	CellHeight        = 50
	TableHeaderHeight = 50
	TableRowHeight    = 50

	ListIndent  = 20
	ListSpacing = 8

	InputHeight       = 40
	InputMinWidth     = 300
	TextareaRows      = 3
	TextareaRowHeight = 20
	TextareaPadding   = 16

	ButtonMinWidth  = 120
	ButtonCharWidth = 12
	ButtonHeight    = 50

	ImageWidth  = 200
	ImageHeight = 150
)

// Placeholder texts for empty controls.
const (
	SelectPlaceholder = "Select option ▼"
	InputPlaceholder  = "Input field"
)

// inline maps text-bearing tags. Inline tags that wrap block content become
// frames; coloured inline tags become badges.
func (m *Mapper) inline(el *dom.Element, ctx Context) *Node {
	if hasBlockContent(el) {
		return m.container(el, ctx)
	}

	s := el.Styles
	chars := el.TextContent()
	def := tagTextDefaults(el.TagName)

	if badgeTags[el.TagName] && len(backgroundPaints(s)) > 0 {
		return m.badge(el, ctx, chars, def)
	}
	if chars == "" {
		m.log.Debug("Dropped empty text element", zap.String("tag", el.TagName))
		return nil
	}
	return textNode(el.TagName, chars, s, ctx, def)
}

// badge wraps text in a hugging frame so the background can be painted.
func (m *Mapper) badge(el *dom.Element, ctx Context, chars string, def textDefaults) *Node {
	s := el.Styles
	n := newFrame(el, ShapeBadge, surface.LayoutHorizontal)
	n.Layout.PrimaryAlign = surface.AlignCenter
	n.Layout.CounterAlign = surface.AlignCenter
	applyBox(n, s, ctx, boxDefaults{padding: &cssvalue.Box{Top: 4, Right: 8, Bottom: 4, Left: 8}})

	if w, ok := fixedLength(s["width"]); ok && w > 0 {
		n.Horizontal, n.Width = surface.SizingFixed, w
	}
	if h, ok := fixedLength(s["height"]); ok && h > 0 {
		n.Vertical, n.Height = surface.SizingFixed, h
	}

	if chars != "" {
		n.Children = []*Node{textNode(el.TagName, chars, typography(s), ctx.child(n, s, 1), def)}
	}
	return n
}

func listStyleNone(s cascade.StyleMap) bool {
	return strings.Contains(s["list-style"], "none") || strings.TrimSpace(s["list-style-type"]) == "none"
}

// list maps ul/ol into an indented stack of items.
func (m *Mapper) list(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	n := newFrame(el, ShapeList, direction(s))
	applyBox(n, s, ctx, boxDefaults{padding: &cssvalue.Box{Left: ListIndent}})
	n.Layout.Spacing = ListSpacing
	if v, ok := gap(s, n.Layout.Mode); ok {
		n.Layout.Spacing = v
	}
	sizeFrame(n, s, ctx)
	m.alignFrame(n, s, ctx)

	childCtx := ctx.child(n, s, len(el.Children))
	ordered := el.TagName == "ol"
	noMarker := listStyleNone(s)

	index := 0
	for _, c := range el.Children {
		if c.TagName != "li" {
			n.Children = append(n.Children, m.Decide(c, childCtx)...)
			continue
		}
		index++

		var marker string
		switch {
		case noMarker:
		case ordered && m.opts.NumberOrderedLists:
			marker = strconv.Itoa(index) + ". "
		case ordered:
			marker = "1. "
		default:
			marker = "• "
		}
		if item := m.listItem(c, childCtx, marker); item != nil {
			n.Children = append(n.Children, item)
		}
	}

	m.centerAutoChildren(n, n.Children)
	return n
}

// listItem renders an li as marker-prefixed text, or as a frame when it
// holds block content or paints a box.
func (m *Mapper) listItem(el *dom.Element, ctx Context, marker string) *Node {
	s := el.Styles
	if strings.TrimSpace(s["display"]) == "none" {
		return nil
	}

	_, _, bordered := borderStrokes(s)
	_, padded := padding(s)
	boxed := len(backgroundPaints(s)) > 0 || bordered || padded
	if !hasBlockContent(el) && !boxed {
		chars := marker + el.TextContent()
		if strings.TrimSpace(chars) == "" {
			return nil
		}
		return textNode(el.TagName, chars, s, ctx, textDefaults{})
	}

	n := newFrame(el, ShapeListItem, direction(s))
	applyBox(n, s, ctx, boxDefaults{})
	sizeFrame(n, s, ctx)
	m.alignFrame(n, s, ctx)
	if v, ok := gap(s, n.Layout.Mode); ok {
		n.Layout.Spacing = v
	}

	childCtx := ctx.child(n, s, len(el.Children)+1)
	if hasBlockContent(el) {
		if head := marker + el.Text; strings.TrimSpace(head) != "" {
			n.Children = append(n.Children, textNode(el.TagName, head, typography(s), childCtx, textDefaults{}))
		}
		n.Children = append(n.Children, m.decideAll(el.Children, childCtx)...)
		return n
	}

	if chars := marker + el.TextContent(); strings.TrimSpace(chars) != "" {
		n.Children = append(n.Children, textNode(el.TagName, chars, typography(s), childCtx, textDefaults{}))
	}
	return n
}

// tableRows returns the tr elements of a table, looking through row groups.
func tableRows(el *dom.Element) []*dom.Element {
	var rows []*dom.Element
	for _, c := range el.Children {
		switch {
		case c.TagName == "tr":
			rows = append(rows, c)
		case passThroughTags[c.TagName]:
			rows = append(rows, tableRows(c)...)
		}
	}
	return rows
}

func isCell(el *dom.Element) bool {
	return el.TagName == "td" || el.TagName == "th"
}

func hasHeaderCell(row *dom.Element) bool {
	for _, c := range row.Children {
		if c.TagName == "th" {
			return true
		}
	}
	return false
}

// table maps a table into a bordered, clipped column sized by estimate.
func (m *Mapper) table(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	rows := tableRows(el)

	cols, headers := 1, 0
	for _, r := range rows {
		cells := 0
		for _, c := range r.Children {
			if isCell(c) {
				cells++
			}
		}
		cols = max(cols, cells)
		if hasHeaderCell(r) {
			headers++
		}
	}

	n := newFrame(el, ShapeTable, surface.LayoutVertical)
	applyBox(n, s, ctx, boxDefaults{fill: white, stroke: tableBorder})
	n.Clip = true
	n.Horizontal, n.Width = surface.SizingFixed, float64(cols*CellWidth)
	if len(rows) > 0 {
		n.Vertical, n.Height = surface.SizingFixed, float64(TableHeaderHeight+len(rows)*TableRowHeight)
	}

	m.log.Debug("Estimated table size",
		zap.Int("rows", len(rows)), zap.Int("header_rows", headers), zap.Int("columns", cols),
		zap.Float64("height", n.Height))

	n.Children = m.decideAll(el.Children, ctx.child(n, s, 1))
	return n
}

// tableRow maps tr into a hugging row; rows holding th are shaded.
func (m *Mapper) tableRow(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	fill := white
	if hasHeaderCell(el) {
		fill = headerShade
	}

	n := newFrame(el, ShapeTableRow, surface.LayoutHorizontal)
	applyBox(n, s, ctx, boxDefaults{fill: fill})
	n.Children = m.decideAll(el.Children, ctx.child(n, s, len(el.Children)))
	return n
}

// tableCell maps td/th into a fixed, centered cell with one text child.
func (m *Mapper) tableCell(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	n := newFrame(el, ShapeTableCell, surface.LayoutVertical)
	n.Layout.PrimaryAlign = surface.AlignCenter
	n.Layout.CounterAlign = surface.AlignCenter
	applyBox(n, s, ctx, boxDefaults{padding: &cssvalue.Box{Top: 8, Right: 8, Bottom: 8, Left: 8}})
	n.Horizontal, n.Width = surface.SizingFixed, CellWidth
	n.Vertical, n.Height = surface.SizingFixed, CellHeight

	chars := el.Text
	if chars == "" {
		var parts []string
		for _, c := range el.Children {
			if t := c.TextContent(); t != "" {
				parts = append(parts, t)
			}
		}
		chars = strings.Join(parts, " ")
	}
	if chars != "" {
		def := tagTextDefaults(el.TagName)
		def.size = 14
		def.align = surface.TextAlignCenter
		n.Children = []*Node{textNode(el.TagName, chars, typography(s), ctx.child(n, s, 1), def)}
	}
	return n
}

// formControl maps input, textarea and select into a bordered field.
func (m *Mapper) formControl(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	textarea := el.TagName == "textarea"

	n := newFrame(el, ShapeInput, surface.LayoutHorizontal)
	n.Layout.CounterAlign = surface.AlignCenter
	if textarea {
		n.Layout.CounterAlign = surface.AlignMin
	}
	applyBox(n, s, ctx, boxDefaults{
		fill:    white,
		stroke:  borderGray,
		radius:  4,
		padding: &cssvalue.Box{Top: 8, Right: 12, Bottom: 8, Left: 12},
	})

	n.Vertical, n.Height = surface.SizingFixed, InputHeight
	if h, ok := fixedLength(s["height"]); ok && h > 0 {
		n.Height = h
	} else if textarea {
		rows := TextareaRows
		if r, err := strconv.Atoi(strings.TrimSpace(el.Attr(dom.AttrRows))); err == nil && r > 0 {
			rows = r
		}
		n.Height = float64(rows*TextareaRowHeight + TextareaPadding)
	}

	width := s["width"]
	switch w, ok := fixedLength(width); {
	case isFull(width):
		n.Horizontal = surface.SizingFill
		n.Width = fallbackWidth(ctx)
	case ok && w > 0:
		n.Horizontal, n.Width = surface.SizingFixed, w
	case cssvalue.IsPercent(width) && ctx.ParentWidth > 0:
		n.Horizontal, n.Width = surface.SizingFixed, percentOf(width, ctx.ParentWidth)
	default:
		n.Horizontal, n.Width = surface.SizingFixed, fallbackWidth(ctx)
	}

	text := typography(s)
	def := textDefaults{size: 14, color: valueText}
	chars := el.Attr(dom.AttrValue)
	if chars == "" && textarea {
		chars = el.Text
	}
	if chars == "" {
		chars = el.Attr(dom.AttrPlaceholder)
		def.color = placeholder
		delete(text, "color")
	}
	if chars == "" {
		chars = InputPlaceholder
		if el.TagName == "select" {
			chars = SelectPlaceholder
		}
	}

	child := textNode(el.TagName, chars, text, ctx.child(n, s, 1), def)
	child.Horizontal = surface.SizingFill
	child.Grow = 1
	n.Children = []*Node{child}
	return n
}

// fallbackWidth is the parent's width when known, otherwise the field minimum.
func fallbackWidth(ctx Context) float64 {
	if ctx.ParentWidth > 0 {
		return ctx.ParentWidth
	}
	return InputMinWidth
}

// button maps a button into a fixed, centered, blue frame.
func (m *Mapper) button(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	label := el.TextContent()
	if label == "" {
		label = el.Attr(dom.AttrValue)
	}
	if label == "" {
		label = "Button"
	}

	n := newFrame(el, ShapeButton, surface.LayoutHorizontal)
	n.Layout.PrimaryAlign = surface.AlignCenter
	n.Layout.CounterAlign = surface.AlignCenter
	applyBox(n, s, ctx, boxDefaults{fill: buttonBlue, radius: 8, keep: true})

	auto := float64(max(ButtonMinWidth, ButtonCharWidth*utf8.RuneCountInString(label)))
	width := s["width"]
	switch w, ok := fixedLength(width); {
	case isFull(width):
		n.Horizontal, n.Width = surface.SizingFill, auto
	case ok && w > 0:
		n.Horizontal, n.Width = surface.SizingFixed, w
	default:
		n.Horizontal, n.Width = surface.SizingFixed, auto
	}
	n.Vertical, n.Height = surface.SizingFixed, ButtonHeight
	if h, ok := fixedLength(s["height"]); ok && h > 0 {
		n.Height = h
	}
	if g := grow(s); g > 0 && ctx.inRow() {
		n.Grow = g
	}

	def := textDefaults{color: white, align: surface.TextAlignCenter}
	n.Children = []*Node{textNode(el.TagName, label, typography(s), ctx.child(n, s, 1), def)}
	return n
}

// image maps img into a grey placeholder showing the alt text.
func (m *Mapper) image(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	n := newFrame(el, ShapeImage, surface.LayoutVertical)
	n.Layout.PrimaryAlign = surface.AlignCenter
	n.Layout.CounterAlign = surface.AlignCenter
	applyBox(n, s, ctx, boxDefaults{fill: imageFill, keep: true})
	n.Clip = true

	width := s["width"]
	switch w, ok := fixedLength(width); {
	case isFull(width):
		n.Horizontal, n.Width = surface.SizingFill, ImageWidth
	case ok && w > 0:
		n.Horizontal, n.Width = surface.SizingFixed, w
	default:
		n.Horizontal, n.Width = surface.SizingFixed, ImageWidth
	}
	n.Vertical, n.Height = surface.SizingFixed, ImageHeight
	if h, ok := fixedLength(s["height"]); ok && h > 0 {
		n.Height = h
	}

	alt := el.Attr(dom.AttrAlt)
	if alt == "" {
		alt = "Image"
	}
	def := textDefaults{size: 14, color: captionGray, align: surface.TextAlignCenter}
	n.Children = []*Node{textNode(el.TagName, alt, typography(s), ctx.child(n, s, 1), def)}
	return n
}

// divider maps hr into a thin full-width rule.
func (m *Mapper) divider(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	n := newFrame(el, ShapeDivider, surface.LayoutVertical)
	applyBox(n, s, ctx, boxDefaults{})
	n.Strokes, n.StrokeWeights = nil, surface.Edges{}
	n.Layout.Padding = cssvalue.Box{}

	thickness := 1.0
	color := *imageFill
	for _, prop := range []string{"border-top", "border"} {
		if b, ok := cssvalue.ParseBorder(s[prop]); ok && b.Width > 0 {
			thickness, color = b.Width, b.Color
			break
		}
	}
	if len(n.Fills) == 0 {
		n.Fills = []surface.Paint{surface.Solid(color)}
	}
	if h, ok := fixedLength(s["height"]); ok && h > 0 {
		thickness = h
	}

	n.Horizontal = surface.SizingFill
	if w, ok := fixedLength(s["width"]); ok && w > 0 {
		n.Horizontal, n.Width = surface.SizingFixed, w
	}
	n.Vertical, n.Height = surface.SizingFixed, thickness
	return n
}
