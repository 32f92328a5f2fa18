// Package mapper decides, without touching any surface, how each semantic
// element becomes design nodes: shape, auto-layout direction, sizing per
// axis, paints and typography.
//
// Decisions are pure. The same element tree and context always produce the
// same nodes; the render package turns them into surface calls.
package mapper

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
	"github.com/Floristeady/html-to-figma-sub000/internal/dom"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// containerTags map to plain auto-layout frames.
var containerTags = map[string]bool{
	"div": true, "section": true, "article": true, "nav": true,
	"header": true, "footer": true, "main": true, "form": true,
	"aside": true, "figure": true, "fieldset": true, "details": true,
	"summary": true, "dl": true, "address": true,
}

// passThroughTags never produce a node of their own.
var passThroughTags = map[string]bool{
	"thead": true, "tbody": true, "tfoot": true,
}

// Options tune mapping behaviour.
type Options struct {
	// NumberOrderedLists numbers <ol> items 1, 2, 3... instead of the
	// literal "1. " marker on every item.
	NumberOrderedLists bool
}

// Mapper turns element trees into node trees.
type Mapper struct {
	opts Options
	log  *zap.Logger
}

// New creates a mapper. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{opts: opts, log: log.Named("mapper")}
}

// Map decides the nodes for the top-level elements of a document placed in a
// vertical root frame whose content width is width.
func (m *Mapper) Map(elements []*dom.Element, width float64) []*Node {
	ctx := Context{ParentLayout: surface.LayoutVertical, ParentWidth: width}
	return m.decideAll(elements, ctx)
}

// Decide maps one element. Transparent elements yield their children's
// nodes; dropped elements yield none.
func (m *Mapper) Decide(el *dom.Element, ctx Context) []*Node {
	if strings.TrimSpace(el.Style("display")) == "none" {
		m.log.Debug("Dropped hidden element", zap.String("tag", el.TagName))
		return nil
	}

	tag := el.TagName
	switch {
	case containerTags[tag]:
		return one(m.container(el, ctx))
	case tag == "ul" || tag == "ol":
		return one(m.list(el, ctx))
	case tag == "li":
		return one(m.listItem(el, ctx, "• "))
	case tag == "table":
		return one(m.table(el, ctx))
	case passThroughTags[tag]:
		return m.decideAll(el.Children, ctx)
	case tag == "tr":
		return one(m.tableRow(el, ctx))
	case tag == "td" || tag == "th":
		return one(m.tableCell(el, ctx))
	case tag == "input" || tag == "textarea" || tag == "select":
		return one(m.formControl(el, ctx))
	case tag == "button":
		return one(m.button(el, ctx))
	case tag == "img":
		return one(m.image(el, ctx))
	case tag == "hr":
		return one(m.divider(el, ctx))
	case tag == "br":
		return nil
	case inlineTags[tag]:
		return one(m.inline(el, ctx))
	case el.HasChildren():
		m.log.Debug("Unwrapped unknown element", zap.String("tag", tag), zap.Int("children", len(el.Children)))
		return m.decideAll(el.Children, ctx)
	}

	m.log.Debug("Dropped unknown element", zap.String("tag", tag))
	return nil
}

func one(n *Node) []*Node {
	if n == nil {
		return nil
	}
	return []*Node{n}
}

func (m *Mapper) decideAll(elements []*dom.Element, ctx Context) []*Node {
	var out []*Node
	for _, el := range elements {
		out = append(out, m.Decide(el, ctx)...)
	}
	return out
}

func newFrame(el *dom.Element, shape Shape, mode surface.LayoutMode) *Node {
	return &Node{
		Shape:      shape,
		Tag:        el.TagName,
		Name:       el.TagName,
		Styles:     el.Styles,
		Layout:     surface.AutoLayout{Mode: mode},
		Horizontal: surface.SizingHug,
		Vertical:   surface.SizingHug,
	}
}

// direction picks the auto-layout direction: flex rows stay rows, everything
// else (including grid, whose rows are synthesized) stacks vertically.
func direction(s cascade.StyleMap) surface.LayoutMode {
	display := strings.TrimSpace(s["display"])
	if display != "flex" && display != "inline-flex" {
		return surface.LayoutVertical
	}
	if strings.HasPrefix(strings.TrimSpace(s["flex-direction"]), "column") {
		return surface.LayoutVertical
	}
	return surface.LayoutHorizontal
}

func isGrid(s cascade.StyleMap) bool {
	d := strings.TrimSpace(s["display"])
	return d == "grid" || d == "inline-grid"
}

// sizeFrame applies the container sizing policy: explicit lengths are fixed,
// "100%" fills, and a missing width fills the parent once attached. Inside a
// row, a missing height stretches to the row.
func sizeFrame(n *Node, s cascade.StyleMap, ctx Context) {
	width := s["width"]
	switch {
	case isFull(width):
		n.Horizontal = surface.SizingFill
	case cssvalue.IsPercent(width) && ctx.ParentWidth > 0:
		n.Horizontal = surface.SizingFixed
		n.Width = percentOf(width, ctx.ParentWidth)
	default:
		if w, ok := fixedLength(width); ok && w > 0 {
			n.Horizontal = surface.SizingFixed
			n.Width = w
		} else {
			n.Horizontal = surface.SizingFill
		}
	}

	height := s["height"]
	if h, ok := fixedLength(height); ok && h > 0 {
		n.Vertical = surface.SizingFixed
		n.Height = h
	} else if isFull(height) || ctx.inRow() {
		n.Vertical = surface.SizingFill
	}

	if g := grow(s); g > 0 && ctx.inRow() {
		n.Grow = g
	}
}

// container maps div-like elements.
func (m *Mapper) container(el *dom.Element, ctx Context) *Node {
	s := el.Styles
	if pos := strings.TrimSpace(s["position"]); pos == "sticky" || pos == "fixed" {
		m.log.Debug("Normalized position", zap.String("tag", el.TagName), zap.String("position", pos))
	}

	n := newFrame(el, ShapeFrame, direction(s))
	applyBox(n, s, ctx, boxDefaults{})
	sizeFrame(n, s, ctx)
	m.alignFrame(n, s, ctx)
	if autoCentered(s) {
		n.Markers.AutoCenter = true
	}

	grid := isGrid(s)
	if grid {
		if v, ok := gap(s, surface.LayoutVertical); ok {
			n.Layout.Spacing = v
		}
	} else if v, ok := gap(s, n.Layout.Mode); ok {
		n.Layout.Spacing = v
	}

	var children []*Node
	if grid {
		children = m.gridRows(el, n, ctx)
	} else {
		childCtx := ctx.child(n, s, len(el.Children))
		if el.Text != "" {
			children = append(children, textNode("text", el.Text, typography(s), childCtx, textDefaults{}))
		}
		children = append(children, m.decideAll(el.Children, childCtx)...)
	}

	m.centerAutoChildren(n, children)
	n.Children = children
	return n
}

// alignFrame maps justify-content/align-items and the text-align marker.
func (m *Mapper) alignFrame(n *Node, s cascade.StyleMap, ctx Context) {
	if a, ok := justify(s["justify-content"]); ok {
		n.Layout.PrimaryAlign = a
	}
	if a, ok := alignItems(s["align-items"]); ok {
		n.Layout.CounterAlign = a
	}

	ta := strings.TrimSpace(s["text-align"])
	if ta == "" {
		ta = ctx.Inherited.TextAlign
	}
	n.Markers.TextAlign = ta
	if ta == "center" && n.Layout.Mode == surface.LayoutVertical && s["align-items"] == "" {
		n.Layout.CounterAlign = surface.AlignCenter
	}
}

// centerAutoChildren centers the counter axis of a column whose children
// use auto inline margins.
func (m *Mapper) centerAutoChildren(n *Node, children []*Node) {
	if n.Layout.Mode != surface.LayoutVertical || n.Styles["align-items"] != "" {
		return
	}
	for _, c := range children {
		if c.Markers.AutoCenter {
			n.Layout.CounterAlign = surface.AlignCenter
			return
		}
	}
}

// RootAlign is the counter-axis alignment of the column holding the
// top-level nodes: centered when any of them uses auto inline margins.
func RootAlign(nodes []*Node) surface.Align {
	for _, n := range nodes {
		if n.Markers.AutoCenter {
			return surface.AlignCenter
		}
	}
	return ""
}

// gridRows groups a grid's children into horizontal rows of equal-grow items.
func (m *Mapper) gridRows(el *dom.Element, n *Node, ctx Context) []*Node {
	s := el.Styles
	cols := gridColumns(s["grid-template-columns"])
	colGap, _ := gap(s, surface.LayoutHorizontal)

	itemCtx := ctx.child(n, s, 1)
	rowWidth := itemCtx.ParentWidth
	itemCtx.ParentLayout = surface.LayoutHorizontal
	if cols > 1 && itemCtx.ParentWidth > 0 {
		itemCtx.ParentWidth = (itemCtx.ParentWidth - colGap*float64(cols-1)) / float64(cols)
	}

	var items []*Node
	if el.Text != "" {
		items = append(items, textNode("text", el.Text, typography(s), itemCtx, textDefaults{}))
	}
	items = append(items, m.decideAll(el.Children, itemCtx)...)

	var rows []*Node
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		r := &Node{
			Shape:      ShapeGridRow,
			Tag:        "grid-row",
			Name:       "Grid Row",
			Layout:     surface.AutoLayout{Mode: surface.LayoutHorizontal, Spacing: colGap},
			Horizontal: surface.SizingFill,
			Vertical:   surface.SizingHug,
			Width:      rowWidth,
		}
		for _, item := range items[start:end] {
			item.Grow = 1
			item.Horizontal = surface.SizingFill
			r.Children = append(r.Children, item)
		}
		rows = append(rows, r)
	}

	m.log.Debug("Synthesized grid rows",
		zap.Int("columns", cols), zap.Int("items", len(items)), zap.Int("rows", len(rows)))
	return rows
}
