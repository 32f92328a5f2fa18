package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/dom"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

const testWidth = 1152

func mapHTML(t *testing.T, src string, opts Options) []*Node {
	t.Helper()
	rules := cascade.NewResolver(nil).Resolve(src)
	elements, err := dom.NewParser(rules, nil).Parse(src)
	require.NoError(t, err)
	return New(opts, nil).Map(elements, testWidth)
}

func single(t *testing.T, src string) *Node {
	t.Helper()
	nodes := mapHTML(t, src, Options{})
	require.Len(t, nodes, 1)
	return nodes[0]
}

func texts(nodes []*Node) []string {
	var out []string
	Walk(nodes, func(n *Node, _ int) {
		if n.IsText() {
			out = append(out, n.Text.Characters)
		}
	})
	return out
}

func solidColor(t *testing.T, p surface.Paint) surface.Color {
	t.Helper()
	require.Equal(t, surface.PaintSolid, p.Type)
	require.NotNil(t, p.Color)
	return *p.Color
}

func TestMap_ColoredContainer(t *testing.T) {
	n := single(t, `<div style="background:#ff0000"><p>Hello</p></div>`)

	assert.Equal(t, ShapeFrame, n.Shape)
	assert.Equal(t, surface.LayoutVertical, n.Layout.Mode)
	assert.Equal(t, surface.SizingFill, n.Horizontal)
	assert.Equal(t, surface.SizingHug, n.Vertical)
	require.Len(t, n.Fills, 1)
	assert.Equal(t, surface.Color{R: 1, A: 1}, solidColor(t, n.Fills[0]))

	require.Len(t, n.Children, 1)
	text := n.Children[0]
	require.True(t, text.IsText())
	assert.Equal(t, "Hello", text.Text.Characters)
	assert.Equal(t, 16.0, text.Text.FontSize)
	assert.Equal(t, surface.SizingFill, text.Horizontal)
	// Red is dark enough to flip the default text colour.
	assert.Equal(t, *white, text.Text.Color)
}

func TestMap_FlexRow(t *testing.T) {
	n := single(t, `<style>.row{display:flex;gap:12px}</style><div class="row"><span>A</span><span>B</span></div>`)

	assert.Equal(t, surface.LayoutHorizontal, n.Layout.Mode)
	assert.Equal(t, 12.0, n.Layout.Spacing)
	require.Len(t, n.Children, 2)
	assert.Equal(t, []string{"A", "B"}, texts(n.Children))
	for _, c := range n.Children {
		assert.Equal(t, surface.SizingHug, c.Horizontal)
	}
}

func TestMap_FlexColumn(t *testing.T) {
	n := single(t, `<div style="display:flex;flex-direction:column"><span>A</span></div>`)
	assert.Equal(t, surface.LayoutVertical, n.Layout.Mode)
}

func TestMap_RowChildSizing(t *testing.T) {
	n := single(t, `<div style="display:flex"><div style="width:200px">a</div><div style="flex:1">b</div></div>`)

	require.Len(t, n.Children, 2)
	fixed, grown := n.Children[0], n.Children[1]

	assert.Equal(t, surface.SizingFixed, fixed.Horizontal)
	assert.Equal(t, 200.0, fixed.Width)
	assert.Equal(t, surface.SizingFill, fixed.Vertical)

	assert.Equal(t, surface.SizingFill, grown.Horizontal)
	assert.Equal(t, 1.0, grown.Grow)
}

func TestMap_PercentWidth(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  surface.Sizing
		width float64
	}{
		{"full", "width:100%", surface.SizingFill, 0},
		{"half", "width:50%", surface.SizingFixed, testWidth / 2},
		{"pixels", "width:320px", surface.SizingFixed, 320},
		{"unset", "", surface.SizingFill, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := single(t, `<div style="`+tt.style+`">x</div>`)
			assert.Equal(t, tt.want, n.Horizontal)
			assert.Equal(t, tt.width, n.Width)
		})
	}
}

func TestMap_Lists(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want []string
	}{
		{"unordered", `<ul><li>One</li><li>Two</li></ul>`, Options{}, []string{"• One", "• Two"}},
		{"ordered literal", `<ol><li>A</li><li>B</li></ol>`, Options{}, []string{"1. A", "1. B"}},
		{"ordered numbered", `<ol><li>A</li><li>B</li></ol>`, Options{NumberOrderedLists: true}, []string{"1. A", "2. B"}},
		{"no marker", `<ul style="list-style:none"><li>A</li></ul>`, Options{}, []string{"A"}},
		{"empty item keeps marker", `<ul><li>A</li><li></li></ul>`, Options{}, []string{"• A", "• "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := mapHTML(t, tt.src, tt.opts)
			require.Len(t, nodes, 1)
			list := nodes[0]
			assert.Equal(t, ShapeList, list.Shape)
			assert.Equal(t, 20.0, list.Layout.Padding.Left)
			assert.Equal(t, 8.0, list.Layout.Spacing)
			assert.Equal(t, tt.want, texts(list.Children))
		})
	}
}

func TestMap_ListItemWithBlockContent(t *testing.T) {
	n := single(t, `<ul><li>Head<div>Body</div></li></ul>`)

	require.Len(t, n.Children, 1)
	item := n.Children[0]
	assert.Equal(t, ShapeListItem, item.Shape)
	assert.Equal(t, []string{"• Head", "Body"}, texts(item.Children))
}

func TestMap_GridRows(t *testing.T) {
	src := `<div style="display:grid;grid-template-columns:repeat(3,1fr);gap:10px">` +
		`<div>1</div><div>2</div><div>3</div><div>4</div><div>5</div><div>6</div><div>7</div></div>`
	n := single(t, src)

	assert.Equal(t, surface.LayoutVertical, n.Layout.Mode)
	assert.Equal(t, 10.0, n.Layout.Spacing)
	require.Len(t, n.Children, 3)

	var sizes []int
	for _, row := range n.Children {
		assert.Equal(t, ShapeGridRow, row.Shape)
		assert.Equal(t, surface.LayoutHorizontal, row.Layout.Mode)
		assert.Equal(t, 10.0, row.Layout.Spacing)
		assert.Equal(t, surface.SizingFill, row.Horizontal)
		for _, item := range row.Children {
			assert.Equal(t, 1.0, item.Grow)
			assert.Equal(t, surface.SizingFill, item.Horizontal)
		}
		sizes = append(sizes, len(row.Children))
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, texts(n.Children))
}

func TestGridColumns(t *testing.T) {
	tests := map[string]int{
		"repeat(4, 1fr)":  4,
		"1fr 2fr":         2,
		"200px 1fr 1fr":   2,
		"":                1,
		"repeat(auto, x)": 1,
	}
	for in, want := range tests {
		assert.Equal(t, want, gridColumns(in), in)
	}
}

func TestMap_Badge(t *testing.T) {
	n := single(t, `<span style="background:#eeeeee;padding:2px 6px">New</span>`)

	assert.Equal(t, ShapeBadge, n.Shape)
	assert.Equal(t, surface.LayoutHorizontal, n.Layout.Mode)
	assert.Equal(t, surface.AlignCenter, n.Layout.PrimaryAlign)
	assert.Equal(t, 2.0, n.Layout.Padding.Top)
	assert.Equal(t, 6.0, n.Layout.Padding.Left)
	assert.Equal(t, surface.SizingHug, n.Horizontal)
	assert.Equal(t, []string{"New"}, texts(n.Children))

	plain := single(t, `<span>New</span>`)
	assert.True(t, plain.IsText())
}

func TestMap_InlineWithBlockContent(t *testing.T) {
	n := single(t, `<a href="#"><div>Card</div></a>`)

	assert.Equal(t, ShapeFrame, n.Shape)
	assert.Equal(t, "a", n.Tag)
	assert.Equal(t, []string{"Card"}, texts(n.Children))
}

func TestMap_InlineTextOrder(t *testing.T) {
	n := single(t, `<p>Click <a href="/">here</a> to go</p>`)

	assert.Equal(t, ShapeText, n.Shape)
	assert.Equal(t, "Click here to go", n.Text.Characters)
}

func TestMap_Headings(t *testing.T) {
	nodes := mapHTML(t, `<h1>Title</h1><h3>Sub</h3><a href="#">Link</a>`, Options{})
	require.Len(t, nodes, 3)

	assert.Equal(t, 36.0, nodes[0].Text.FontSize)
	assert.Equal(t, "Bold", nodes[0].Text.Style)
	assert.Equal(t, 24.0, nodes[1].Text.FontSize)
	assert.Equal(t, *linkBlue, nodes[2].Text.Color)
}

func TestMap_Buttons(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		label  string
		sizing surface.Sizing
		width  float64
	}{
		{"short label", `<button>Go</button>`, "Go", surface.SizingFixed, 120},
		{"long label", `<button>Subscribe to updates</button>`, "Subscribe to updates", surface.SizingFixed, 240},
		{"value attribute", `<button value="Send"></button>`, "Send", surface.SizingFixed, 120},
		{"no label", `<button></button>`, "Button", surface.SizingFixed, 120},
		{"full width", `<button style="width:100%">Go</button>`, "Go", surface.SizingFill, 120},
		{"explicit width", `<button style="width:90px">Go</button>`, "Go", surface.SizingFixed, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := single(t, tt.src)
			assert.Equal(t, ShapeButton, n.Shape)
			assert.Equal(t, tt.sizing, n.Horizontal)
			assert.Equal(t, tt.width, n.Width)
			assert.Equal(t, 50.0, n.Height)
			assert.Equal(t, 8.0, n.CornerRadius)
			require.Len(t, n.Fills, 1)
			assert.Equal(t, *buttonBlue, solidColor(t, n.Fills[0]))

			require.Len(t, n.Children, 1)
			text := n.Children[0].Text
			assert.Equal(t, tt.label, text.Characters)
			assert.Equal(t, *white, text.Color)
			assert.Equal(t, surface.TextAlignCenter, text.Align)
		})
	}
}

func TestMap_FormControls(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		text   string
		color  *surface.Color
		height float64
	}{
		{"placeholder", `<input placeholder="Email">`, "Email", placeholder, 40},
		{"value", `<input value="abc">`, "abc", valueText, 40},
		{"empty input", `<input>`, InputPlaceholder, placeholder, 40},
		{"select", `<select></select>`, SelectPlaceholder, placeholder, 40},
		{"textarea rows", `<textarea rows="5"></textarea>`, InputPlaceholder, placeholder, 116},
		{"textarea default rows", `<textarea placeholder="Say hi"></textarea>`, "Say hi", placeholder, 76},
		{"explicit height", `<input style="height:32px">`, InputPlaceholder, placeholder, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := single(t, tt.src)
			assert.Equal(t, ShapeInput, n.Shape)
			assert.Equal(t, surface.SizingFixed, n.Vertical)
			assert.Equal(t, tt.height, n.Height)
			assert.Equal(t, surface.SizingFixed, n.Horizontal)
			assert.Equal(t, float64(testWidth), n.Width)
			assert.Equal(t, 4.0, n.CornerRadius)
			require.Len(t, n.Strokes, 1)
			assert.Equal(t, *borderGray, solidColor(t, n.Strokes[0]))

			require.Len(t, n.Children, 1)
			text := n.Children[0]
			assert.Equal(t, tt.text, text.Text.Characters)
			assert.Equal(t, *tt.color, text.Text.Color)
			assert.Equal(t, 14.0, text.Text.FontSize)
			assert.Equal(t, surface.SizingFill, text.Horizontal)
		})
	}
}

func TestMap_Table(t *testing.T) {
	src := `<table><thead><tr><th>A</th><th>B</th></tr></thead>` +
		`<tbody><tr><td>1</td><td>2</td></tr><tr><td>3</td></tr></tbody></table>`
	n := single(t, src)

	assert.Equal(t, ShapeTable, n.Shape)
	assert.True(t, n.Clip)
	assert.Equal(t, surface.SizingFixed, n.Horizontal)
	assert.Equal(t, 170.0, n.Width)
	assert.Equal(t, surface.SizingFixed, n.Vertical)
	assert.Equal(t, 200.0, n.Height)
	require.Len(t, n.Strokes, 1)
	assert.Equal(t, *tableBorder, solidColor(t, n.Strokes[0]))

	require.Len(t, n.Children, 3)
	header := n.Children[0]
	assert.Equal(t, ShapeTableRow, header.Shape)
	assert.Equal(t, surface.LayoutHorizontal, header.Layout.Mode)
	assert.Equal(t, *headerShade, solidColor(t, header.Fills[0]))
	assert.Equal(t, *white, solidColor(t, n.Children[1].Fills[0]))

	cell := header.Children[0]
	assert.Equal(t, ShapeTableCell, cell.Shape)
	assert.Equal(t, 85.0, cell.Width)
	assert.Equal(t, 50.0, cell.Height)
	assert.Equal(t, surface.AlignCenter, cell.Layout.CounterAlign)
	require.Len(t, cell.Children, 1)
	assert.Equal(t, "A", cell.Children[0].Text.Characters)
	assert.True(t, cell.Children[0].Text.Bold())
	assert.Equal(t, 14.0, cell.Children[0].Text.FontSize)
	assert.Equal(t, surface.TextAlignCenter, cell.Children[0].Text.Align)

	assert.Equal(t, []string{"A", "B", "1", "2", "3"}, texts(n.Children))
}

func TestMap_TableHeightEstimate(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		height float64
	}{
		{"one row", `<table><tr><td>x</td></tr></table>`, 100},
		{"header and body", `<table><tr><th>h</th></tr><tr><td>1</td></tr><tr><td>2</td></tr></table>`, 200},
		{"body rows only", `<table><tbody><tr><td>1</td></tr><tr><td>2</td></tr></tbody></table>`, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := single(t, tt.src)
			assert.Equal(t, surface.SizingFixed, n.Vertical)
			assert.Equal(t, tt.height, n.Height)
		})
	}
}

func TestMap_GradientSuppressesDefaultFills(t *testing.T) {
	src := `<div style="background:linear-gradient(135deg, #000000, #ffffff)">` +
		`<table><tr><td>x</td></tr></table><input><button>Go</button></div>`
	n := single(t, src)

	require.Len(t, n.Fills, 1)
	assert.Equal(t, surface.PaintLinearGradient, n.Fills[0].Type)

	require.Len(t, n.Children, 3)
	table, input, button := n.Children[0], n.Children[1], n.Children[2]
	assert.Empty(t, table.Fills)
	assert.Empty(t, table.Children[0].Fills)
	assert.Empty(t, input.Fills)
	assert.Len(t, button.Fills, 1)
}

func TestMap_ImagesAndDividers(t *testing.T) {
	img := single(t, `<img src="a.png" alt="Logo">`)
	assert.Equal(t, ShapeImage, img.Shape)
	assert.Equal(t, 200.0, img.Width)
	assert.Equal(t, 150.0, img.Height)
	assert.Equal(t, []string{"Logo"}, texts(img.Children))

	bare := single(t, `<img src="a.png" style="width:64px;height:64px;border-radius:50%">`)
	assert.Equal(t, 64.0, bare.Width)
	assert.Equal(t, 64.0, bare.Height)
	assert.True(t, bare.CircularRadius())
	assert.Equal(t, []string{"Image"}, texts(bare.Children))

	hr := single(t, `<hr>`)
	assert.Equal(t, ShapeDivider, hr.Shape)
	assert.Equal(t, surface.SizingFill, hr.Horizontal)
	assert.Equal(t, 1.0, hr.Height)
	assert.Empty(t, hr.Strokes)

	thick := single(t, `<hr style="border-top:2px solid #333333">`)
	assert.Equal(t, 2.0, thick.Height)
	assert.InDelta(t, 0.2, solidColor(t, thick.Fills[0]).R, 0.001)
}

func TestMap_Inheritance(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		color surface.Color
		size  float64
	}{
		{"colour and size", `<div style="color:#ff0000;font-size:20px"><span>Hi</span></div>`, surface.Color{R: 1, A: 1}, 20},
		{"dark background", `<div style="background:#111111"><span>Hi</span></div>`, *white, 16},
		{"light background", `<div style="background:#fafafa"><span>Hi</span></div>`, *black, 16},
		{"own colour wins", `<div style="background:#111111"><span style="color:#000000">Hi</span></div>`, *black, 16},
		{"nearest background", `<div style="background:#111111"><div style="background:#ffffff"><span>Hi</span></div></div>`, *black, 16},
		{"paragraph inherits size", `<div style="font-size:24px"><p>Hi</p></div>`, *black, 24},
		{"paragraph default size", `<div><p>Hi</p></div>`, *black, 16},
		{"paragraph own size wins", `<div style="font-size:24px"><p style="font-size:18px">Hi</p></div>`, *black, 18},
		{"heading keeps its size", `<div style="font-size:12px"><h2>Hi</h2></div>`, *black, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var text *Node
			Walk(mapHTML(t, tt.src, Options{}), func(n *Node, _ int) {
				if n.IsText() {
					text = n
				}
			})
			require.NotNil(t, text)
			assert.Equal(t, tt.color, text.Text.Color)
			assert.Equal(t, tt.size, text.Text.FontSize)
		})
	}
}

func TestRootAlign(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want surface.Align
	}{
		{"auto margins", `<div style="width:300px;margin:0 auto">x</div>`, surface.AlignCenter},
		{"one of several", `<p>a</p><div style="margin:0 auto">x</div>`, surface.AlignCenter},
		{"fixed margins", `<div style="width:300px;margin:0 10px">x</div>`, ""},
		{"nested only", `<div><div style="margin:0 auto">x</div></div>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RootAlign(mapHTML(t, tt.src, Options{})))
		})
	}
}

func TestMap_TextAlignMarker(t *testing.T) {
	n := single(t, `<div style="text-align:center"><p>x</p><div><span>y</span></div></div>`)

	assert.Equal(t, "center", n.Markers.TextAlign)
	assert.Equal(t, surface.AlignCenter, n.Layout.CounterAlign)
	assert.Empty(t, n.Children[0].Text.Align)
	assert.Equal(t, "center", n.Children[1].Markers.TextAlign)
}

func TestMap_AutoMarginsCenter(t *testing.T) {
	n := single(t, `<div><div style="max-width:600px;margin:0 auto">x</div></div>`)

	require.Len(t, n.Children, 1)
	inner := n.Children[0]
	assert.True(t, inner.Markers.AutoCenter)
	assert.Equal(t, 600.0, inner.Limits.MaxWidth)
	assert.Equal(t, surface.AlignCenter, n.Layout.CounterAlign)
}

func TestMap_DropsAndUnwraps(t *testing.T) {
	nodes := mapHTML(t, `<div style="display:none">hidden</div><custom-el><p>kept</p></custom-el><p></p><br>`, Options{})
	assert.Equal(t, []string{"kept"}, texts(nodes))
	require.Len(t, nodes, 1)
}

func TestMap_BoxStyles(t *testing.T) {
	n := single(t, `<div style="border:2px solid #000000;border-radius:12px;box-shadow:0 2px 4px rgba(0,0,0,0.5);opacity:0.5;overflow:hidden;padding:10px 20px">x</div>`)

	require.Len(t, n.Strokes, 1)
	assert.Equal(t, surface.Edges{Top: 2, Right: 2, Bottom: 2, Left: 2}, n.StrokeWeights)
	assert.Equal(t, 12.0, n.CornerRadius)
	require.Len(t, n.Effects, 1)
	assert.Equal(t, 4.0, n.Effects[0].Radius)
	require.NotNil(t, n.Opacity)
	assert.Equal(t, 0.5, *n.Opacity)
	assert.True(t, n.Clip)
	assert.Equal(t, surface.Edges{Top: 10, Right: 20, Bottom: 10, Left: 20}, n.Layout.Padding)
}

func TestMap_Deterministic(t *testing.T) {
	src := `<style>.c{display:flex;gap:4px}</style><div class="c"><span>a</span><button>b</button></div><ul><li>x</li></ul>`
	assert.Equal(t, mapHTML(t, src, Options{}), mapHTML(t, src, Options{}))
}
