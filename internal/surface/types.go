package surface

import (
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
)

// NodeID identifies a node created on a surface.
type NodeID string

// NodeType is the kind of a surface node.
type NodeType string

// Node types.
const (
	TypeFrame NodeType = "FRAME"
	TypeText  NodeType = "TEXT"
)

// Color is an RGBA colour with components in [0,1].
type Color = cssvalue.RGBA

// PaintType distinguishes solid and gradient paints.
type PaintType string

// Paint types.
const (
	PaintSolid          PaintType = "SOLID"
	PaintLinearGradient PaintType = "GRADIENT_LINEAR"
)

// GradientStop is one stop of a gradient paint.
type GradientStop = cssvalue.GradientStop

// Paint is a fill or stroke.
type Paint struct {
	Type      PaintType      `json:"type" yaml:"type"`
	Color     *Color         `json:"color,omitempty" yaml:"color,omitempty"`
	Stops     []GradientStop `json:"stops,omitempty" yaml:"stops,omitempty"`
	Transform *[2][3]float64 `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// gradientTransform renders every gradient top-left to bottom-right.
var gradientTransform = [2][3]float64{{1, 0, 0}, {0, 1, 0}}

// Solid returns a solid paint.
func Solid(c Color) Paint {
	return Paint{Type: PaintSolid, Color: &c}
}

// LinearGradient returns a gradient paint with the fixed direction transform.
func LinearGradient(stops []GradientStop) Paint {
	t := gradientTransform
	return Paint{Type: PaintLinearGradient, Stops: stops, Transform: &t}
}

// EffectType names an effect.
type EffectType string

// Effect types.
const (
	EffectDropShadow EffectType = "DROP_SHADOW"
)

// Effect is a visual effect such as a drop shadow.
type Effect struct {
	Type    EffectType `json:"type" yaml:"type"`
	Color   Color      `json:"color" yaml:"color"`
	OffsetX float64    `json:"offsetX" yaml:"offsetX"`
	OffsetY float64    `json:"offsetY" yaml:"offsetY"`
	Radius  float64    `json:"radius" yaml:"radius"`
	Visible bool       `json:"visible" yaml:"visible"`
}

// DropShadow converts a parsed box-shadow. Spread is not applied.
func DropShadow(s cssvalue.Shadow) Effect {
	return Effect{
		Type:    EffectDropShadow,
		Color:   s.Color,
		OffsetX: s.OffsetX,
		OffsetY: s.OffsetY,
		Radius:  s.Blur,
		Visible: true,
	}
}

// Edges holds per-side values: stroke weights or padding.
type Edges = cssvalue.Box

// LayoutMode is the auto-layout direction of a frame.
type LayoutMode string

// Layout modes.
const (
	LayoutNone       LayoutMode = "NONE"
	LayoutHorizontal LayoutMode = "HORIZONTAL"
	LayoutVertical   LayoutMode = "VERTICAL"
)

// Align is an auto-layout alignment.
type Align string

// Alignments.
const (
	AlignMin          Align = "MIN"
	AlignCenter       Align = "CENTER"
	AlignMax          Align = "MAX"
	AlignSpaceBetween Align = "SPACE_BETWEEN"
)

// AutoLayout configures a frame's auto-layout.
type AutoLayout struct {
	Mode         LayoutMode `json:"mode" yaml:"mode"`
	PrimaryAlign Align      `json:"primaryAlign,omitempty" yaml:"primaryAlign,omitempty"`
	CounterAlign Align      `json:"counterAlign,omitempty" yaml:"counterAlign,omitempty"`
	Spacing      float64    `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	Padding      Edges      `json:"padding" yaml:"padding"`
}

// Sizing is the sizing mode of one axis.
type Sizing string

// Sizing modes.
const (
	SizingFixed Sizing = "FIXED"
	SizingHug   Sizing = "HUG"
	SizingFill  Sizing = "FILL"
)

// SizeLimits bounds a node's width. Zero means unbounded.
type SizeLimits struct {
	MinWidth float64 `json:"minWidth,omitempty" yaml:"minWidth,omitempty"`
	MaxWidth float64 `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
}

// FontName is a font family and style, e.g. {"Inter", "Semi Bold"}.
type FontName struct {
	Family string `json:"family" yaml:"family"`
	Style  string `json:"style" yaml:"style"`
}

func (f FontName) String() string {
	return f.Family + " " + f.Style
}

// Text alignment values.
const (
	TextAlignLeft      = "LEFT"
	TextAlignCenter    = "CENTER"
	TextAlignRight     = "RIGHT"
	TextAlignJustified = "JUSTIFIED"
)

// Text decoration values.
const (
	DecorationNone          = "NONE"
	DecorationUnderline     = "UNDERLINE"
	DecorationStrikethrough = "STRIKETHROUGH"
)

// Text case values.
const (
	CaseOriginal = "ORIGINAL"
	CaseUpper    = "UPPER"
	CaseLower    = "LOWER"
	CaseTitle    = "TITLE"
)

// LineHeight is a line height with its unit.
type LineHeight = cssvalue.LineHeight

// TextProps are the properties applied to a text node in one call.
type TextProps struct {
	Characters    string      `json:"characters" yaml:"characters"`
	Font          FontName    `json:"font" yaml:"font"`
	FontSize      float64     `json:"fontSize" yaml:"fontSize"`
	Fills         []Paint     `json:"fills,omitempty" yaml:"fills,omitempty"`
	LineHeight    *LineHeight `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	LetterSpacing float64     `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	Align         string      `json:"align,omitempty" yaml:"align,omitempty"`
	Decoration    string      `json:"decoration,omitempty" yaml:"decoration,omitempty"`
	Case          string      `json:"case,omitempty" yaml:"case,omitempty"`
}
