package mapper

import (
	"strings"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Inherited is the style channel passed from a container to its descendants.
// It is separate from the cascade and only carries what text and default
// fills need.
type Inherited struct {
	Color           string `json:"color,omitempty" yaml:"color,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontSize        string `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	LineHeight      string `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	TextAlign       string `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`
	Background      string `json:"background,omitempty" yaml:"background,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
}

// With returns the channel seen by the children of an element with styles.
// The element's own values take precedence.
func (in Inherited) With(styles cascade.StyleMap) Inherited {
	set := func(dst *string, prop string) {
		if v := strings.TrimSpace(styles[prop]); v != "" && v != "inherit" {
			*dst = v
		}
	}

	set(&in.Color, "color")
	set(&in.FontFamily, "font-family")
	set(&in.FontSize, "font-size")
	set(&in.FontWeight, "font-weight")
	set(&in.LineHeight, "line-height")
	set(&in.TextAlign, "text-align")
	set(&in.Background, "background")
	if img := styles["background-image"]; cssvalue.IsGradient(img) {
		in.Background = img
	}
	if bg := styles["background"]; bg != "" && !cssvalue.IsGradient(bg) && cssvalue.IsVisible(bg) {
		in.BackgroundColor = bg
	}
	set(&in.BackgroundColor, "background-color")
	return in
}

// UnderGradient reports whether an ancestor paints a gradient background.
func (in Inherited) UnderGradient() bool {
	return cssvalue.IsGradient(in.Background)
}

// DarkBackground reports whether the nearest ancestor background colour is dark.
func (in Inherited) DarkBackground() bool {
	c, ok := cssvalue.ParseColor(in.BackgroundColor)
	return ok && c.A >= 0.5 && c.Luminance() < 0.5
}

// Context is what a parent tells the mapper about where a child goes.
type Context struct {
	Inherited Inherited
	// ParentLayout is the auto-layout direction of the parent frame.
	ParentLayout surface.LayoutMode
	// ParentWidth estimates the width available to the child; 0 when unknown.
	ParentWidth float64
}

func (c Context) inRow() bool {
	return c.ParentLayout == surface.LayoutHorizontal
}

// child derives the context for the children of a frame.
func (c Context) child(n *Node, styles cascade.StyleMap, count int) Context {
	next := Context{
		Inherited:    c.Inherited.With(styles),
		ParentLayout: n.Layout.Mode,
		ParentWidth:  innerWidth(n, c),
	}
	if n.Layout.Mode == surface.LayoutHorizontal && count > 1 {
		next.ParentWidth = (next.ParentWidth - n.Layout.Spacing*float64(count-1)) / float64(count)
	}
	if next.ParentWidth < 0 {
		next.ParentWidth = 0
	}
	return next
}

// innerWidth estimates the content width of a frame placed in ctx.
func innerWidth(n *Node, ctx Context) float64 {
	w := ctx.ParentWidth
	if n.Horizontal == surface.SizingFixed && n.Width > 0 {
		w = n.Width
	}
	if n.Limits.MaxWidth > 0 && (w == 0 || w > n.Limits.MaxWidth) {
		w = n.Limits.MaxWidth
	}
	if w == 0 {
		return 0
	}
	return w - n.Layout.Padding.Left - n.Layout.Padding.Right
}
