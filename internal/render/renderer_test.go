package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/dom"
	"github.com/Floristeady/html-to-figma-sub000/internal/mapper"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

func nodes(t *testing.T, src string) []*mapper.Node {
	t.Helper()
	rules := cascade.NewResolver(nil).Resolve(src)
	elements, err := dom.NewParser(rules, nil).Parse(src)
	require.NoError(t, err)
	return mapper.New(mapper.Options{}, nil).Map(elements, RootOptions{}.ContentWidth())
}

func render(t *testing.T, s surface.Surface, src string) (*Renderer, surface.NodeID) {
	t.Helper()
	r := New(s, nil)
	root, err := r.Render(context.Background(), nodes(t, src), RootOptions{})
	require.NoError(t, err)
	return r, root
}

func rootOf(t *testing.T, scene *surface.Scene) *surface.DocNode {
	t.Helper()
	doc := scene.Document()
	require.Len(t, doc.Nodes, 1)
	return doc.Nodes[0]
}

func findText(root *surface.DocNode, chars string) *surface.DocNode {
	var found *surface.DocNode
	root.Walk(func(n *surface.DocNode, _ int) {
		if found == nil && n.Text != nil && n.Text.Characters == chars {
			found = n
		}
	})
	return found
}

// rigidSurface rejects fill sizing everywhere, like a host whose parent
// frames never accept stretching children.
type rigidSurface struct {
	*surface.Scene
}

func (s rigidSurface) SetSizing(id surface.NodeID, horizontal, vertical surface.Sizing) error {
	if horizontal == surface.SizingFill || vertical == surface.SizingFill {
		return fmt.Errorf("rigid host: %w", surface.ErrNotAutoLayout)
	}
	return s.Scene.SetSizing(id, horizontal, vertical)
}

func TestRender_Root(t *testing.T) {
	scene := surface.NewScene(surface.WithViewport(500, 400))
	r, id := render(t, scene, `<div style="background:#ff0000"><p>Hello</p></div>`)

	root := rootOf(t, scene)
	assert.Equal(t, id, root.ID)
	assert.Equal(t, DefaultRootName, root.Name)
	assert.Equal(t, 1200.0, root.Width)
	assert.Equal(t, surface.SizingFixed, root.SizingHorizontal)
	assert.Equal(t, surface.SizingHug, root.SizingVertical)
	require.NotNil(t, root.Layout)
	assert.Equal(t, surface.LayoutVertical, root.Layout.Mode)
	assert.Equal(t, 16.0, root.Layout.Spacing)
	assert.Equal(t, 24.0, root.Layout.Padding.Left)
	assert.Empty(t, root.Layout.CounterAlign)

	assert.Equal(t, -100.0, root.X)
	assert.InDelta(t, 400-root.Height/2, root.Y, 0.001)
	assert.Equal(t, []surface.NodeID{id}, scene.Document().Selection)

	require.Len(t, root.Children, 1)
	box := root.Children[0]
	require.Len(t, box.Fills, 1)
	assert.Equal(t, surface.Color{R: 1, A: 1}, *box.Fills[0].Color)
	assert.Equal(t, surface.SizingFill, box.SizingHorizontal)
	assert.Equal(t, 1152.0, box.Width)

	require.Len(t, box.Children, 1)
	assert.Equal(t, "Hello", box.Children[0].Characters())
	assert.Empty(t, r.Warnings())
}

func TestRender_CustomRoot(t *testing.T) {
	scene := surface.NewScene()
	r := New(scene, nil)

	_, err := r.Render(context.Background(), nil, RootOptions{Name: "Landing", Width: 800})
	require.NoError(t, err)

	root := rootOf(t, scene)
	assert.Equal(t, "Landing", root.Name)
	assert.Equal(t, 800.0, root.Width)
	assert.Empty(t, root.Children)
}

func TestRender_FramesDropDefaultFill(t *testing.T) {
	scene := surface.NewScene()
	render(t, scene, `<div><span>x</span></div>`)

	root := rootOf(t, scene)
	require.Len(t, root.Children, 1)
	assert.Empty(t, root.Children[0].Fills)
}

func TestRender_FillFallsBackToFixedWidth(t *testing.T) {
	scene := surface.NewScene()
	r, _ := render(t, rigidSurface{scene}, `<div style="background:#ff0000">x</div>`)

	root := rootOf(t, scene)
	require.Len(t, root.Children, 1)
	box := root.Children[0]
	assert.Equal(t, surface.SizingFixed, box.SizingHorizontal)
	assert.Equal(t, 1152.0, box.Width)

	text := findText(root, "x")
	require.NotNil(t, text)
	assert.Equal(t, surface.SizingFixed, text.SizingHorizontal)

	warnings := r.Warnings()
	require.NotEmpty(t, warnings)
	for _, w := range warnings {
		assert.True(t, errors.Is(w, surface.ErrNotAutoLayout), w.Error())
	}
}

func TestRender_FontFallback(t *testing.T) {
	scene := surface.NewScene(surface.WithFonts(surface.FontName{Family: "Inter", Style: "Regular"}))
	r, _ := render(t, scene, `<h1>Title</h1><code>x = 1</code>`)

	root := rootOf(t, scene)

	title := findText(root, "Title")
	require.NotNil(t, title)
	assert.Equal(t, surface.FontName{Family: "Inter", Style: "Regular"}, title.Text.Font)
	assert.InDelta(t, 39.6, title.Text.FontSize, 0.001)

	code := findText(root, "x = 1")
	require.NotNil(t, code)
	assert.Equal(t, "Inter", code.Text.Font.Family)

	assert.Len(t, r.Warnings(), 2)
}

func TestRender_MissingFontsSkipText(t *testing.T) {
	scene := surface.NewScene(surface.WithFonts())
	r, _ := render(t, scene, `<div style="background:#eeeeee"><p>Gone</p></div>`)

	root := rootOf(t, scene)
	require.Len(t, root.Children, 1)
	assert.Empty(t, root.Children[0].Children)
	require.Len(t, r.Warnings(), 1)
	assert.ErrorIs(t, r.Warnings()[0], surface.ErrFontUnavailable)
}

func TestRender_InheritedTextAlign(t *testing.T) {
	scene := surface.NewScene()
	render(t, scene, `<div style="text-align:center"><p>Centered</p></div><p>Plain</p>`)

	root := rootOf(t, scene)
	assert.Equal(t, "center", root.Children[0].Meta[mapper.MetaTextAlign])

	centered := findText(root, "Centered")
	require.NotNil(t, centered)
	assert.Equal(t, surface.TextAlignCenter, centered.Text.Align)

	plain := findText(root, "Plain")
	require.NotNil(t, plain)
	assert.Empty(t, plain.Text.Align)
}

func TestRender_CircularRadius(t *testing.T) {
	scene := surface.NewScene()
	render(t, scene, `<img src="a.png" style="width:64px;height:40px;border-radius:50%">`)

	root := rootOf(t, scene)
	require.Len(t, root.Children, 1)
	avatar := root.Children[0]
	assert.Equal(t, 64.0, avatar.Width)
	assert.Equal(t, 40.0, avatar.Height)
	assert.Equal(t, 20.0, avatar.CornerRadius)
	assert.True(t, avatar.Clip)
}

func TestRender_AutoCenterMeta(t *testing.T) {
	scene := surface.NewScene()
	render(t, scene, `<div style="max-width:600px;margin:0 auto">x</div>`)

	root := rootOf(t, scene)
	box := root.Children[0]
	assert.Equal(t, "true", box.Meta[mapper.MetaAutoCenter])
	require.NotNil(t, box.Limits)
	assert.Equal(t, 600.0, box.Limits.MaxWidth)
	require.NotNil(t, root.Layout)
	assert.Equal(t, surface.AlignCenter, root.Layout.CounterAlign)
}

func TestRender_RootCentersAutoMargins(t *testing.T) {
	scene := surface.NewScene()
	render(t, scene, `<div style="width:300px;margin:0 auto">x</div>`)

	root := rootOf(t, scene)
	require.NotNil(t, root.Layout)
	assert.Equal(t, surface.AlignCenter, root.Layout.CounterAlign)
	require.Len(t, root.Children, 1)
	assert.Equal(t, 300.0, root.Children[0].Width)
}

func TestRender_GridGrowsItems(t *testing.T) {
	scene := surface.NewScene()
	render(t, scene, `<div style="display:grid;grid-template-columns:1fr 1fr"><div>a</div><div>b</div></div>`)

	root := rootOf(t, scene)
	grid := root.Children[0]
	require.Len(t, grid.Children, 1)
	row := grid.Children[0]
	require.Len(t, row.Children, 2)
	for _, item := range row.Children {
		assert.Equal(t, 1.0, item.Grow)
	}
	assert.InDelta(t, row.Children[0].Width, row.Children[1].Width, 0.001)
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scene := surface.NewScene()
	_, err := New(scene, nil).Render(ctx, nodes(t, `<p>x</p>`), RootOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, scene.Document().Nodes)
}
