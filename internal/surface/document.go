package surface

// DocNode is a serialisable snapshot of one scene node and its subtree.
type DocNode struct {
	ID     NodeID   `json:"id" yaml:"id"`
	Type   NodeType `json:"type" yaml:"type"`
	Name   string   `json:"name" yaml:"name"`
	X      float64  `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64  `json:"y,omitempty" yaml:"y,omitempty"`
	Width  float64  `json:"width" yaml:"width"`
	Height float64  `json:"height" yaml:"height"`

	Layout           *AutoLayout `json:"layout,omitempty" yaml:"layout,omitempty"`
	SizingHorizontal Sizing      `json:"sizingHorizontal" yaml:"sizingHorizontal"`
	SizingVertical   Sizing      `json:"sizingVertical" yaml:"sizingVertical"`
	Grow             float64     `json:"grow,omitempty" yaml:"grow,omitempty"`
	Limits           *SizeLimits `json:"limits,omitempty" yaml:"limits,omitempty"`

	Fills         []Paint  `json:"fills,omitempty" yaml:"fills,omitempty"`
	Strokes       []Paint  `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	StrokeWeights *Edges   `json:"strokeWeights,omitempty" yaml:"strokeWeights,omitempty"`
	Effects       []Effect `json:"effects,omitempty" yaml:"effects,omitempty"`
	CornerRadius  float64  `json:"cornerRadius,omitempty" yaml:"cornerRadius,omitempty"`
	Opacity       *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Clip          bool     `json:"clip,omitempty" yaml:"clip,omitempty"`
	Rotation      float64  `json:"rotation,omitempty" yaml:"rotation,omitempty"`

	Text     *TextProps        `json:"text,omitempty" yaml:"text,omitempty"`
	Meta     map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
	Children []*DocNode        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is a snapshot of everything on a scene's canvas.
type Document struct {
	Nodes     []*DocNode `json:"nodes" yaml:"nodes"`
	Selection []NodeID   `json:"selection,omitempty" yaml:"selection,omitempty"`
}

// Document snapshots the canvas. Detached nodes are not included.
func (s *Scene) Document() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{
		Nodes:     make([]*DocNode, 0, len(s.canvas)),
		Selection: append([]NodeID(nil), s.selection...),
	}
	for _, id := range s.canvas {
		doc.Nodes = append(doc.Nodes, s.snapshot(s.nodes[id]))
	}
	return doc
}

// Node snapshots a single node and its subtree.
func (s *Scene) Node(id NodeID) (*DocNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(n), nil
}

func (s *Scene) snapshot(n *sceneNode) *DocNode {
	w, h := s.size(n)
	d := &DocNode{
		ID:               n.id,
		Type:             n.typ,
		Name:             n.name,
		X:                n.x,
		Y:                n.y,
		Width:            w,
		Height:           h,
		SizingHorizontal: n.hSizing,
		SizingVertical:   n.vSizing,
		Grow:             n.grow,
		Fills:            append([]Paint(nil), n.fills...),
		Strokes:          append([]Paint(nil), n.strokes...),
		Effects:          append([]Effect(nil), n.effects...),
		CornerRadius:     n.radius,
		Clip:             n.clip,
		Rotation:         n.rotation,
	}

	if n.layout.Mode != LayoutNone {
		layout := n.layout
		d.Layout = &layout
	}
	if n.limits != (SizeLimits{}) {
		limits := n.limits
		d.Limits = &limits
	}
	if len(n.strokes) > 0 {
		weights := n.weights
		d.StrokeWeights = &weights
	}
	if n.opacity != opaque {
		opacity := n.opacity
		d.Opacity = &opacity
	}
	if n.text != nil {
		text := *n.text
		d.Text = &text
	}
	if len(n.meta) > 0 {
		d.Meta = make(map[string]string, len(n.meta))
		for k, v := range n.meta {
			d.Meta[k] = v
		}
	}
	for _, id := range n.children {
		d.Children = append(d.Children, s.snapshot(s.nodes[id]))
	}
	return d
}

// Walk visits d and its descendants depth-first.
func (d *DocNode) Walk(fn func(n *DocNode, depth int)) {
	d.walk(fn, 0)
}

func (d *DocNode) walk(fn func(*DocNode, int), depth int) {
	fn(d, depth)
	for _, c := range d.Children {
		c.walk(fn, depth+1)
	}
}

// Characters returns the text of a text node, or "".
func (d *DocNode) Characters() string {
	if d.Text == nil {
		return ""
	}
	return d.Text.Characters
}

// Count returns the number of nodes in the document.
func (doc *Document) Count() (frames, texts int) {
	for _, n := range doc.Nodes {
		n.Walk(func(n *DocNode, _ int) {
			switch n.Type {
			case TypeFrame:
				frames++
			case TypeText:
				texts++
			}
		})
	}
	return frames, texts
}
