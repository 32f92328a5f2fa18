// Package render materializes mapped nodes on a design surface.
//
// A Renderer is used for one import. Failures on a single node are recorded
// as warnings and the import continues; only cancellation and failures that
// leave no usable tree abort it.
package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/mapper"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Root frame defaults.
const (
	DefaultRootName   = "HTML Import"
	DefaultRootWidth  = 1200
	RootPadding       = 24
	RootSpacing       = 16
	rootInitialHeight = 100
)

// BoldScale enlarges text whose bold face could not be loaded.
const BoldScale = 1.1

// fallbackFont is loaded when neither the requested face nor its regular
// style is available.
var fallbackFont = surface.FontName{Family: mapper.DefaultFontFamily, Style: "Regular"}

// RootOptions configures the import root frame.
type RootOptions struct {
	Name  string
	Width float64
}

func (o RootOptions) withDefaults() RootOptions {
	if o.Name == "" {
		o.Name = DefaultRootName
	}
	if o.Width <= 0 {
		o.Width = DefaultRootWidth
	}
	return o
}

// ContentWidth is the width available to top-level nodes.
func (o RootOptions) ContentWidth() float64 {
	return o.withDefaults().Width - 2*RootPadding
}

// Renderer creates surface nodes for mapped node trees.
type Renderer struct {
	surface surface.Surface
	log     *zap.Logger

	fonts    map[surface.FontName]surface.FontName
	layouts  map[surface.NodeID]surface.AutoLayout
	warnings error
}

// New creates a renderer drawing on s. A nil logger discards output.
func New(s surface.Surface, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		surface: s,
		log:     log.Named("render"),
		fonts:   make(map[surface.FontName]surface.FontName),
		layouts: make(map[surface.NodeID]surface.AutoLayout),
	}
}

// Warnings returns the non-fatal problems met so far, in order.
func (r *Renderer) Warnings() []error {
	return multierr.Errors(r.warnings)
}

func (r *Renderer) warn(err error) {
	if err == nil {
		return
	}
	r.log.Warn("Degraded node", zap.Error(err))
	multierr.AppendInto(&r.warnings, err)
}

// try records a failed property call as a warning.
func (r *Renderer) try(id surface.NodeID, what string, err error) {
	if err != nil {
		r.warn(fmt.Errorf("%s on %s: %w", what, id, err))
	}
}

// Render builds the root frame, materializes nodes into it, attaches it to
// the canvas, centers it in the viewport and selects it.
func (r *Renderer) Render(ctx context.Context, nodes []*mapper.Node, opts RootOptions) (surface.NodeID, error) {
	opts = opts.withDefaults()

	root, err := r.surface.CreateFrame(opts.Name)
	if err != nil {
		return "", fmt.Errorf("create root frame: %w", err)
	}
	layout := surface.AutoLayout{
		Mode:         surface.LayoutVertical,
		Spacing:      RootSpacing,
		Padding:      surface.Edges{Top: RootPadding, Right: RootPadding, Bottom: RootPadding, Left: RootPadding},
		CounterAlign: mapper.RootAlign(nodes),
	}
	if err := r.surface.SetLayout(root, layout); err != nil {
		return "", fmt.Errorf("configure root frame: %w", err)
	}
	r.layouts[root] = layout
	r.try(root, "set fills", r.surface.SetFills(root, []surface.Paint{surface.Solid(surface.Color{R: 1, G: 1, B: 1, A: 1})}))
	r.try(root, "resize", r.surface.Resize(root, opts.Width, rootInitialHeight))
	r.try(root, "set sizing", r.surface.SetSizing(root, surface.SizingFixed, surface.SizingHug))

	for _, n := range nodes {
		if _, err := r.Materialize(ctx, n, root); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			r.warn(err)
		}
	}

	if err := r.surface.AppendToCanvas(root); err != nil {
		return "", fmt.Errorf("attach root frame: %w", err)
	}

	w, h, err := r.surface.Size(root)
	if err != nil {
		return "", fmt.Errorf("measure root frame: %w", err)
	}
	cx, cy := r.surface.ViewportCenter()
	r.try(root, "move", r.surface.Move(root, cx-w/2, cy-h/2))
	r.try(root, "select", r.surface.Select(root))

	r.log.Info("Rendered import",
		zap.String("root", string(root)),
		zap.Int("nodes", len(nodes)),
		zap.Int("warnings", len(r.Warnings())))
	return root, nil
}

// Materialize creates the surface node for n and its subtree under parent.
func (r *Renderer) Materialize(ctx context.Context, n *mapper.Node, parent surface.NodeID) (surface.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n.IsText() {
		return r.text(ctx, n, parent)
	}
	return r.frame(ctx, n, parent)
}

func (r *Renderer) frame(ctx context.Context, n *mapper.Node, parent surface.NodeID) (surface.NodeID, error) {
	id, err := r.surface.CreateFrame(n.Name)
	if err != nil {
		return "", fmt.Errorf("create frame %q: %w", n.Name, err)
	}

	r.try(id, "set layout", r.surface.SetLayout(id, n.Layout))
	r.layouts[id] = n.Layout
	// Always set fills so frames without a background drop the surface default.
	r.try(id, "set fills", r.surface.SetFills(id, n.Fills))
	if len(n.Strokes) > 0 {
		r.try(id, "set strokes", r.surface.SetStrokes(id, n.Strokes, n.StrokeWeights))
	}
	if len(n.Effects) > 0 {
		r.try(id, "set effects", r.surface.SetEffects(id, n.Effects))
	}
	if n.CornerRadius > 0 && !n.CircularRadius() {
		r.try(id, "set corner radius", r.surface.SetCornerRadius(id, n.CornerRadius))
	}
	r.common(id, n)
	if n.Clip {
		r.try(id, "set clip", r.surface.SetClip(id, true))
	}
	if n.Limits != (surface.SizeLimits{}) {
		r.try(id, "set size limits", r.surface.SetSizeLimits(id, n.Limits))
	}
	if n.Horizontal == surface.SizingFixed || n.Vertical == surface.SizingFixed {
		r.resize(id, n)
	}

	if err := r.surface.AppendChild(parent, id); err != nil {
		return "", fmt.Errorf("append frame %q: %w", n.Name, err)
	}
	r.sizing(id, n, parent)

	if n.Markers.TextAlign != "" {
		r.try(id, "set meta", r.surface.SetMeta(id, mapper.MetaTextAlign, n.Markers.TextAlign))
	}
	if n.Markers.AutoCenter {
		r.try(id, "set meta", r.surface.SetMeta(id, mapper.MetaAutoCenter, strconv.FormatBool(true)))
	}

	for _, c := range n.Children {
		if _, err := r.Materialize(ctx, c, id); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			r.warn(err)
		}
	}

	if n.CircularRadius() {
		w, h, err := r.surface.Size(id)
		r.try(id, "measure", err)
		if err == nil {
			r.try(id, "set corner radius", r.surface.SetCornerRadius(id, math.Min(w, h)/2))
		}
	}
	return id, nil
}

func (r *Renderer) text(ctx context.Context, n *mapper.Node, parent surface.NodeID) (surface.NodeID, error) {
	t := n.Text
	want := t.Font()
	font, err := r.font(ctx, want)
	if err != nil {
		return "", err
	}

	id, err := r.surface.CreateText(n.Name)
	if err != nil {
		return "", fmt.Errorf("create text %q: %w", n.Name, err)
	}

	props := surface.TextProps{
		Characters:    t.Characters,
		Font:          font,
		FontSize:      t.FontSize,
		Fills:         []surface.Paint{surface.Solid(t.Color)},
		LineHeight:    t.LineHeight,
		LetterSpacing: t.LetterSpacing,
		Align:         t.Align,
		Decoration:    t.Decoration,
		Case:          t.Case,
	}
	if t.Bold() && !isBoldStyle(font.Style) {
		props.FontSize = math.Round(t.FontSize*BoldScale*10) / 10
	}
	if props.Align == "" {
		if v, err := r.surface.Meta(parent, mapper.MetaTextAlign); err == nil {
			props.Align = mapper.TextAlign(v)
		}
	}
	if err := r.surface.SetText(id, props); err != nil {
		return "", fmt.Errorf("set text %q: %w", n.Name, err)
	}

	if err := r.surface.AppendChild(parent, id); err != nil {
		return "", fmt.Errorf("append text %q: %w", n.Name, err)
	}
	r.sizing(id, n, parent)
	r.common(id, n)
	return id, nil
}

// common applies the properties frames and texts share.
func (r *Renderer) common(id surface.NodeID, n *mapper.Node) {
	if n.Opacity != nil {
		r.try(id, "set opacity", r.surface.SetOpacity(id, *n.Opacity))
	}
	if tr := n.Transform; tr != nil {
		if tr.HasRotation {
			r.try(id, "set rotation", r.surface.SetRotation(id, tr.Rotation))
		}
		if tr.HasTranslate {
			r.try(id, "move", r.surface.Move(id, tr.TranslateX, tr.TranslateY))
		}
		if tr.HasScale {
			r.log.Debug("Ignored scale", zap.String("node", string(id)))
		}
	}
}

// resize fixes the explicit axes before the node is attached so hugging
// parents measure it correctly.
func (r *Renderer) resize(id surface.NodeID, n *mapper.Node) {
	w, h, err := r.surface.Size(id)
	if err != nil {
		r.try(id, "measure", err)
		return
	}
	if n.Horizontal == surface.SizingFixed && n.Width > 0 {
		w = n.Width
	}
	if n.Vertical == surface.SizingFixed && n.Height > 0 {
		h = n.Height
	}
	r.try(id, "resize", r.surface.Resize(id, w, h))
}

// sizing applies the node's sizing modes, degrading fill to a fixed width
// (or hug height) when the surface rejects it.
func (r *Renderer) sizing(id surface.NodeID, n *mapper.Node, parent surface.NodeID) {
	horizontal, vertical := n.Horizontal, n.Vertical
	err := r.surface.SetSizing(id, horizontal, vertical)
	if err == nil {
		if n.Grow > 0 {
			r.try(id, "set grow", r.surface.SetGrow(id, n.Grow))
		}
		return
	}
	if !errors.Is(err, surface.ErrNotAutoLayout) {
		r.try(id, "set sizing", err)
		return
	}

	if horizontal == surface.SizingFill {
		horizontal = surface.SizingHug
		if width := r.innerWidth(parent); width > 0 {
			if _, h, err := r.surface.Size(id); err == nil {
				r.try(id, "resize", r.surface.Resize(id, width, h))
				horizontal = surface.SizingFixed
			}
		}
	}
	if vertical == surface.SizingFill {
		vertical = surface.SizingHug
	}
	// Frames without auto-layout cannot hug.
	if !n.IsText() && n.Layout.Mode == surface.LayoutNone {
		if horizontal == surface.SizingHug {
			horizontal = surface.SizingFixed
		}
		if vertical == surface.SizingHug {
			vertical = surface.SizingFixed
		}
	}

	r.warn(fmt.Errorf("%s sizing %s/%s on %s fell back to %s/%s: %w",
		n.Name, n.Horizontal, n.Vertical, id, horizontal, vertical, surface.ErrNotAutoLayout))
	r.try(id, "set sizing", r.surface.SetSizing(id, horizontal, vertical))
}

// innerWidth is the parent's width minus its horizontal padding.
func (r *Renderer) innerWidth(parent surface.NodeID) float64 {
	w, _, err := r.surface.Size(parent)
	if err != nil {
		return 0
	}
	p := r.layouts[parent].Padding
	return math.Max(0, w-p.Left-p.Right)
}

// font loads want, falling back to its regular style and then to the default
// face. Results are cached for the renderer's lifetime.
func (r *Renderer) font(ctx context.Context, want surface.FontName) (surface.FontName, error) {
	if f, ok := r.fonts[want]; ok {
		return f, nil
	}

	candidates := []surface.FontName{want}
	if want.Style != "Regular" {
		candidates = append(candidates, surface.FontName{Family: want.Family, Style: "Regular"})
	}
	if want.Family != fallbackFont.Family {
		candidates = append(candidates, fallbackFont)
	}

	var errs error
	for _, f := range candidates {
		err := r.surface.LoadFont(ctx, f)
		if err == nil {
			if f != want {
				r.warn(fmt.Errorf("%w: %s, using %s", surface.ErrFontUnavailable, want, f))
			}
			r.fonts[want] = f
			return f, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return surface.FontName{}, ctxErr
		}
		errs = multierr.Append(errs, err)
	}
	return surface.FontName{}, fmt.Errorf("load font %s: %w", want, errs)
}

func isBoldStyle(style string) bool {
	switch style {
	case "Bold", "Bold Italic", "Semi Bold", "Semi Bold Italic", "Extra Bold", "Black":
		return true
	}
	return false
}
