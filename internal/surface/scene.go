package surface

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/Floristeady/html-to-figma-sub000/internal/cssvalue"
)

// DefaultFonts are the fonts a Scene has unless configured otherwise.
var DefaultFonts = []FontName{
	{"Inter", "Regular"}, {"Inter", "Italic"},
	{"Inter", "Light"}, {"Inter", "Light Italic"},
	{"Inter", "Medium"}, {"Inter", "Medium Italic"},
	{"Inter", "Semi Bold"}, {"Inter", "Semi Bold Italic"},
	{"Inter", "Bold"}, {"Inter", "Bold Italic"},
	{"Roboto", "Regular"}, {"Roboto", "Bold"}, {"Roboto", "Italic"},
	{"Roboto Mono", "Regular"}, {"Roboto Mono", "Bold"},
}

// Layout estimates used when sizing hugging nodes.
const (
	defaultFrameSize  = 100
	charWidthFactor   = 0.55
	autoLineHeight    = 1.2
	minimumDimension  = 0.01
	defaultFontSize   = 12
	opaque            = 1
)

type sceneNode struct {
	id       NodeID
	typ      NodeType
	name     string
	parent   NodeID
	children []NodeID

	fills    []Paint
	strokes  []Paint
	weights  Edges
	effects  []Effect
	radius   float64
	opacity  float64
	clip     bool
	rotation float64

	layout  AutoLayout
	hSizing Sizing
	vSizing Sizing
	grow    float64
	limits  SizeLimits

	width, height float64
	x, y          float64

	text *TextProps
	meta map[string]string
}

// Scene is an in-memory Surface. It enforces the host's ordering rules: fill
// sizing needs an auto-layout parent and text needs a loaded font.
type Scene struct {
	mu sync.Mutex

	nodes     map[NodeID]*sceneNode
	canvas    []NodeID
	selection []NodeID
	available map[FontName]bool
	loaded    map[FontName]bool
	viewportX float64
	viewportY float64
	next      int
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithFonts replaces the set of available fonts.
func WithFonts(fonts ...FontName) SceneOption {
	return func(s *Scene) {
		s.available = make(map[FontName]bool, len(fonts))
		for _, f := range fonts {
			s.available[f] = true
		}
	}
}

// WithViewport sets the viewport center.
func WithViewport(x, y float64) SceneOption {
	return func(s *Scene) {
		s.viewportX, s.viewportY = x, y
	}
}

// NewScene creates an empty scene.
func NewScene(opts ...SceneOption) *Scene {
	s := &Scene{
		nodes:  make(map[NodeID]*sceneNode),
		loaded: make(map[FontName]bool),
	}
	WithFonts(DefaultFonts...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Surface = (*Scene)(nil)

func (s *Scene) create(typ NodeType, name string) NodeID {
	s.next++
	id := NodeID("1:" + strconv.Itoa(s.next))
	n := &sceneNode{
		id:      id,
		typ:     typ,
		name:    name,
		opacity: opaque,
		layout:  AutoLayout{Mode: LayoutNone},
		hSizing: SizingFixed,
		vSizing: SizingFixed,
	}
	if typ == TypeFrame {
		n.width, n.height = defaultFrameSize, defaultFrameSize
		n.fills = []Paint{Solid(Color{R: 1, G: 1, B: 1, A: 1})}
	} else {
		n.hSizing, n.vSizing = SizingHug, SizingHug
	}
	s.nodes[id] = n
	return id
}

// CreateFrame creates a detached 100x100 white frame without auto-layout.
func (s *Scene) CreateFrame(name string) (NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(TypeFrame, name), nil
}

// CreateText creates a detached, empty text node.
func (s *Scene) CreateText(name string) (NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(TypeText, name), nil
}

func (s *Scene) get(id NodeID) (*sceneNode, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

func (s *Scene) frame(id NodeID) (*sceneNode, error) {
	n, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if n.typ != TypeFrame {
		return nil, fmt.Errorf("%w: %s is %s", ErrWrongType, id, n.typ)
	}
	return n, nil
}

func (s *Scene) detach(n *sceneNode) {
	if n.parent == "" {
		s.canvas = remove(s.canvas, n.id)
		return
	}
	if p, ok := s.nodes[n.parent]; ok {
		p.children = remove(p.children, n.id)
	}
	n.parent = ""
}

func remove(ids []NodeID, id NodeID) []NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// AppendChild implements Surface.
func (s *Scene) AppendChild(parent, child NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.frame(parent)
	if err != nil {
		return err
	}
	c, err := s.get(child)
	if err != nil {
		return err
	}
	for anc := p; anc != nil; anc = s.nodes[anc.parent] {
		if anc.id == c.id {
			return fmt.Errorf("append %s to its own descendant %s", child, parent)
		}
	}

	s.detach(c)
	c.parent = p.id
	p.children = append(p.children, c.id)
	return nil
}

// AppendToCanvas implements Surface.
func (s *Scene) AppendToCanvas(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return err
	}
	s.detach(n)
	s.canvas = append(s.canvas, id)
	return nil
}

// SetFills implements Surface.
func (s *Scene) SetFills(id NodeID, fills []Paint) error {
	return s.update(id, func(n *sceneNode) error {
		n.fills = append([]Paint(nil), fills...)
		return nil
	})
}

// SetStrokes implements Surface.
func (s *Scene) SetStrokes(id NodeID, strokes []Paint, weights Edges) error {
	return s.update(id, func(n *sceneNode) error {
		n.strokes = append([]Paint(nil), strokes...)
		n.weights = weights
		return nil
	})
}

// SetEffects implements Surface.
func (s *Scene) SetEffects(id NodeID, effects []Effect) error {
	return s.update(id, func(n *sceneNode) error {
		n.effects = append([]Effect(nil), effects...)
		return nil
	})
}

// SetCornerRadius implements Surface.
func (s *Scene) SetCornerRadius(id NodeID, radius float64) error {
	return s.updateFrame(id, func(n *sceneNode) error {
		n.radius = math.Max(0, radius)
		return nil
	})
}

// SetOpacity implements Surface.
func (s *Scene) SetOpacity(id NodeID, opacity float64) error {
	return s.update(id, func(n *sceneNode) error {
		if opacity < 0 || opacity > 1 {
			return fmt.Errorf("opacity %v out of range", opacity)
		}
		n.opacity = opacity
		return nil
	})
}

// SetClip implements Surface.
func (s *Scene) SetClip(id NodeID, clip bool) error {
	return s.updateFrame(id, func(n *sceneNode) error {
		n.clip = clip
		return nil
	})
}

// SetRotation implements Surface.
func (s *Scene) SetRotation(id NodeID, radians float64) error {
	return s.update(id, func(n *sceneNode) error {
		n.rotation = radians
		return nil
	})
}

// SetLayout implements Surface. Turning auto-layout on makes both axes hug.
func (s *Scene) SetLayout(id NodeID, layout AutoLayout) error {
	return s.updateFrame(id, func(n *sceneNode) error {
		if layout.Mode == "" {
			layout.Mode = LayoutNone
		}
		if n.layout.Mode == LayoutNone && layout.Mode != LayoutNone {
			n.hSizing, n.vSizing = SizingHug, SizingHug
		}
		if layout.Mode == LayoutNone {
			if n.hSizing == SizingHug {
				n.hSizing = SizingFixed
			}
			if n.vSizing == SizingHug {
				n.vSizing = SizingFixed
			}
		}
		n.layout = layout
		return nil
	})
}

// SetSizing implements Surface.
func (s *Scene) SetSizing(id NodeID, horizontal, vertical Sizing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return err
	}
	for _, mode := range []Sizing{horizontal, vertical} {
		if err := s.checkSizing(n, mode); err != nil {
			return fmt.Errorf("set %s sizing on %s: %w", mode, id, err)
		}
	}

	w, h := s.size(n)
	n.width, n.height = w, h
	n.hSizing, n.vSizing = horizontal, vertical
	return nil
}

func (s *Scene) checkSizing(n *sceneNode, mode Sizing) error {
	switch mode {
	case SizingFixed:
		return nil
	case SizingHug:
		if n.typ == TypeFrame && n.layout.Mode == LayoutNone {
			return ErrNotAutoLayout
		}
		return nil
	case SizingFill:
		if !s.inAutoLayout(n) {
			return ErrNotAutoLayout
		}
		return nil
	}
	return fmt.Errorf("unknown sizing mode %q", mode)
}

func (s *Scene) inAutoLayout(n *sceneNode) bool {
	p, ok := s.nodes[n.parent]
	return ok && p.layout.Mode != LayoutNone
}

// SetGrow implements Surface.
func (s *Scene) SetGrow(id NodeID, grow float64) error {
	return s.update(id, func(n *sceneNode) error {
		if grow != 0 && !s.inAutoLayout(n) {
			return ErrNotAutoLayout
		}
		n.grow = grow
		return nil
	})
}

// SetSizeLimits implements Surface.
func (s *Scene) SetSizeLimits(id NodeID, limits SizeLimits) error {
	return s.update(id, func(n *sceneNode) error {
		if limits.MaxWidth > 0 && limits.MinWidth > limits.MaxWidth {
			return fmt.Errorf("min width %v exceeds max width %v", limits.MinWidth, limits.MaxWidth)
		}
		n.limits = limits
		return nil
	})
}

// Resize implements Surface.
func (s *Scene) Resize(id NodeID, width, height float64) error {
	return s.update(id, func(n *sceneNode) error {
		n.width = math.Max(minimumDimension, width)
		n.height = math.Max(minimumDimension, height)
		n.hSizing, n.vSizing = SizingFixed, SizingFixed
		return nil
	})
}

// Size implements Surface.
func (s *Scene) Size(id NodeID) (float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return 0, 0, err
	}
	w, h := s.size(n)
	return w, h, nil
}

// Move implements Surface.
func (s *Scene) Move(id NodeID, x, y float64) error {
	return s.update(id, func(n *sceneNode) error {
		n.x, n.y = x, y
		return nil
	})
}

// LoadFont implements Surface.
func (s *Scene) LoadFont(ctx context.Context, font FontName) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available[font] {
		return fmt.Errorf("%w: %s", ErrFontUnavailable, font)
	}
	s.loaded[font] = true
	return nil
}

// SetText implements Surface.
func (s *Scene) SetText(id NodeID, props TextProps) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return err
	}
	if n.typ != TypeText {
		return fmt.Errorf("%w: %s is %s", ErrWrongType, id, n.typ)
	}
	if !s.loaded[props.Font] {
		return fmt.Errorf("%w: %s", ErrFontNotLoaded, props.Font)
	}
	props.Fills = append([]Paint(nil), props.Fills...)
	n.text = &props
	return nil
}

// SetMeta implements Surface.
func (s *Scene) SetMeta(id NodeID, key, value string) error {
	return s.update(id, func(n *sceneNode) error {
		if n.meta == nil {
			n.meta = make(map[string]string)
		}
		n.meta[key] = value
		return nil
	})
}

// Meta implements Surface. Missing keys read as "".
func (s *Scene) Meta(id NodeID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return "", err
	}
	return n.meta[key], nil
}

// ViewportCenter implements Surface.
func (s *Scene) ViewportCenter() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewportX, s.viewportY
}

// Select implements Surface.
func (s *Scene) Select(ids ...NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, err := s.get(id); err != nil {
			return err
		}
	}
	s.selection = append([]NodeID(nil), ids...)
	return nil
}

// Selection returns the selected node IDs.
func (s *Scene) Selection() []NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]NodeID(nil), s.selection...)
}

func (s *Scene) update(id NodeID, fn func(*sceneNode) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return err
	}
	return fn(n)
}

func (s *Scene) updateFrame(id NodeID, fn func(*sceneNode) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.frame(id)
	if err != nil {
		return err
	}
	return fn(n)
}

// size lays out one node. Widths never depend on heights, so the mutual
// recursion between a node and its parent terminates.
func (s *Scene) size(n *sceneNode) (float64, float64) {
	w := s.width(n)
	return w, s.height(n, w)
}

func (s *Scene) width(n *sceneNode) float64 {
	var w float64
	switch n.hSizing {
	case SizingFixed:
		w = n.width
	case SizingFill:
		w = s.fillWidth(n)
	default:
		w = s.hugWidth(n)
	}
	if n.limits.MinWidth > 0 {
		w = math.Max(w, n.limits.MinWidth)
	}
	if n.limits.MaxWidth > 0 {
		w = math.Min(w, n.limits.MaxWidth)
	}
	return w
}

// intrinsicWidth is the width a child contributes to a hugging parent.
func (s *Scene) intrinsicWidth(n *sceneNode) float64 {
	if n.hSizing == SizingFixed {
		return n.width
	}
	return s.hugWidth(n)
}

func (s *Scene) hugWidth(n *sceneNode) float64 {
	if n.typ == TypeText {
		return textWidth(n.text)
	}
	if n.layout.Mode == LayoutNone {
		return n.width
	}

	pad := n.layout.Padding.Left + n.layout.Padding.Right
	var total, widest float64
	for _, id := range n.children {
		cw := s.intrinsicWidth(s.nodes[id])
		total += cw
		widest = math.Max(widest, cw)
	}
	if n.layout.Mode == LayoutHorizontal {
		return total + gaps(n) + pad
	}
	return widest + pad
}

func (s *Scene) fillWidth(n *sceneNode) float64 {
	p, ok := s.nodes[n.parent]
	if !ok {
		return s.hugWidth(n)
	}
	inner := s.width(p) - p.layout.Padding.Left - p.layout.Padding.Right
	if p.layout.Mode != LayoutHorizontal {
		return math.Max(minimumDimension, inner)
	}

	fills := 0
	rest := inner - gaps(p)
	for _, id := range p.children {
		c := s.nodes[id]
		if c.hSizing == SizingFill {
			fills++
			continue
		}
		rest -= s.intrinsicWidth(c)
	}
	return math.Max(minimumDimension, rest/float64(max(fills, 1)))
}

func (s *Scene) height(n *sceneNode, w float64) float64 {
	switch n.vSizing {
	case SizingFixed:
		return n.height
	case SizingFill:
		return s.fillHeight(n, w)
	}
	return s.hugHeight(n, w)
}

func (s *Scene) intrinsicHeight(n *sceneNode) float64 {
	if n.vSizing == SizingFixed {
		return n.height
	}
	return s.hugHeight(n, s.width(n))
}

func (s *Scene) hugHeight(n *sceneNode, w float64) float64 {
	if n.typ == TypeText {
		return textHeight(n.text, w)
	}
	if n.layout.Mode == LayoutNone {
		return n.height
	}

	pad := n.layout.Padding.Top + n.layout.Padding.Bottom
	var total, tallest float64
	for _, id := range n.children {
		ch := s.intrinsicHeight(s.nodes[id])
		total += ch
		tallest = math.Max(tallest, ch)
	}
	if n.layout.Mode == LayoutVertical {
		return total + gaps(n) + pad
	}
	return tallest + pad
}

func (s *Scene) fillHeight(n *sceneNode, w float64) float64 {
	p, ok := s.nodes[n.parent]
	if !ok {
		return s.hugHeight(n, w)
	}
	inner := s.height(p, s.width(p)) - p.layout.Padding.Top - p.layout.Padding.Bottom
	if p.layout.Mode != LayoutVertical {
		return math.Max(minimumDimension, inner)
	}

	fills := 0
	rest := inner - gaps(p)
	for _, id := range p.children {
		c := s.nodes[id]
		if c.vSizing == SizingFill {
			fills++
			continue
		}
		rest -= s.intrinsicHeight(c)
	}
	return math.Max(minimumDimension, rest/float64(max(fills, 1)))
}

func gaps(n *sceneNode) float64 {
	if len(n.children) < 2 {
		return 0
	}
	return n.layout.Spacing * float64(len(n.children)-1)
}

func textWidth(t *TextProps) float64 {
	if t == nil {
		return 0
	}
	chars := float64(utf8.RuneCountInString(t.Characters))
	return chars*fontSize(t)*charWidthFactor + chars*t.LetterSpacing
}

func textHeight(t *TextProps, w float64) float64 {
	if t == nil {
		return 0
	}
	lines := 1.0
	if natural := textWidth(t); w > 0 && natural > w {
		lines = math.Ceil(natural / w)
	}
	return lines * lineHeight(t)
}

func fontSize(t *TextProps) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return defaultFontSize
}

func lineHeight(t *TextProps) float64 {
	size := fontSize(t)
	if t.LineHeight == nil {
		return size * autoLineHeight
	}
	switch t.LineHeight.Unit {
	case cssvalue.LineHeightPixels:
		return t.LineHeight.Value
	case cssvalue.LineHeightPercent:
		return size * t.LineHeight.Value / 100
	}
	return size * autoLineHeight
}
