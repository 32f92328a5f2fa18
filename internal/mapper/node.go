package mapper

import (
	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Shape is what a mapped node becomes on the surface.
type Shape string

// Shapes produced by the mapper. Everything except ShapeText is a frame.
const (
	ShapeFrame     Shape = "frame"
	ShapeText      Shape = "text"
	ShapeList      Shape = "list"
	ShapeListItem  Shape = "list-item"
	ShapeTable     Shape = "table"
	ShapeTableRow  Shape = "table-row"
	ShapeTableCell Shape = "table-cell"
	ShapeGridRow   Shape = "grid-row"
	ShapeButton    Shape = "button"
	ShapeInput     Shape = "input"
	ShapeImage     Shape = "image"
	ShapeBadge     Shape = "badge"
	ShapeDivider   Shape = "divider"
)

// Node is the layout decision for one surface node.
//
// Horizontal and Vertical are the sizing modes to apply once the node is
// attached; Width and Height are only meaningful for fixed axes.
type Node struct {
	Shape  Shape            `json:"shape" yaml:"shape"`
	Tag    string           `json:"tag" yaml:"tag"`
	Name   string           `json:"name" yaml:"name"`
	Styles cascade.StyleMap `json:"styles,omitempty" yaml:"styles,omitempty"`

	Layout     surface.AutoLayout `json:"layout" yaml:"layout"`
	Horizontal surface.Sizing     `json:"horizontal" yaml:"horizontal"`
	Vertical   surface.Sizing     `json:"vertical" yaml:"vertical"`
	Width      float64            `json:"width,omitempty" yaml:"width,omitempty"`
	Height     float64            `json:"height,omitempty" yaml:"height,omitempty"`
	Limits     surface.SizeLimits `json:"limits,omitempty" yaml:"limits,omitempty"`
	Grow       float64            `json:"grow,omitempty" yaml:"grow,omitempty"`

	Fills         []surface.Paint     `json:"fills,omitempty" yaml:"fills,omitempty"`
	Strokes       []surface.Paint     `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	StrokeWeights surface.Edges       `json:"strokeWeights,omitempty" yaml:"strokeWeights,omitempty"`
	Effects       []surface.Effect    `json:"effects,omitempty" yaml:"effects,omitempty"`
	CornerRadius  float64             `json:"cornerRadius,omitempty" yaml:"cornerRadius,omitempty"`
	Opacity       *float64            `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Clip          bool                `json:"clip,omitempty" yaml:"clip,omitempty"`
	Transform     *cssvalue.Transform `json:"transform,omitempty" yaml:"transform,omitempty"`

	Text     *Text   `json:"text,omitempty" yaml:"text,omitempty"`
	Markers  Markers `json:"markers,omitempty" yaml:"markers,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsText reports whether the node becomes a text node.
func (n *Node) IsText() bool {
	return n.Shape == ShapeText
}

// CircularRadius reports whether the corner radius is the "50%" sentinel,
// resolved against the laid-out size.
func (n *Node) CircularRadius() bool {
	return n.CornerRadius == cssvalue.CircleRadius
}

// Text holds the resolved typography of a text node.
type Text struct {
	Characters    string               `json:"characters" yaml:"characters"`
	Family        string               `json:"family" yaml:"family"`
	Style         string               `json:"style" yaml:"style"`
	Weight        int                  `json:"weight" yaml:"weight"`
	Italic        bool                 `json:"italic,omitempty" yaml:"italic,omitempty"`
	FontSize      float64              `json:"fontSize" yaml:"fontSize"`
	Color         surface.Color        `json:"color" yaml:"color"`
	LineHeight    *cssvalue.LineHeight `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	LetterSpacing float64              `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	Align         string               `json:"align,omitempty" yaml:"align,omitempty"`
	Decoration    string               `json:"decoration,omitempty" yaml:"decoration,omitempty"`
	Case          string               `json:"case,omitempty" yaml:"case,omitempty"`
}

// Font returns the requested font.
func (t *Text) Font() surface.FontName {
	return surface.FontName{Family: t.Family, Style: t.Style}
}

// Bold reports whether the requested weight is bold or heavier.
func (t *Text) Bold() bool {
	return t.Weight >= 600
}

// Markers are values written to node metadata for descendants and host
// plugins to read.
type Markers struct {
	// TextAlign is the CSS text-align value in effect for a container.
	TextAlign string `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`
	// AutoCenter is set when the element had auto inline margins.
	AutoCenter bool `json:"autoCenter,omitempty" yaml:"autoCenter,omitempty"`
}

// Metadata keys for Markers.
const (
	MetaTextAlign  = "textAlign"
	MetaAutoCenter = "autoCenter"
)

// Walk visits nodes depth-first.
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.Children, depth+1, fn)
	}
}
