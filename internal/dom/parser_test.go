package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
)

func parse(t *testing.T, src string) []*Element {
	t.Helper()
	rules := cascade.NewResolver(nil).Resolve(src)
	elements, err := NewParser(rules, nil).Parse(src)
	require.NoError(t, err)
	return elements
}

func TestParse_Structure(t *testing.T) {
	elements := parse(t, `<div class="card" style="background:#ff0000"><p>Hello</p></div>`)

	require.Len(t, elements, 1)
	card := elements[0]
	assert.Equal(t, "div", card.TagName)
	assert.Equal(t, "#ff0000", card.Style("background"))
	require.Len(t, card.Children, 1)
	assert.Equal(t, "p", card.Children[0].TagName)
	assert.Equal(t, "Hello", card.Children[0].Text)
}

func TestParse_ExcludesNonVisualMarkup(t *testing.T) {
	src := `<html><head><title>T</title><meta charset="utf-8"><link rel="x" href="y">
		<style>p{color:red}</style></head>
		<body><script>alert(1)</script><p>Shown</p><style>.x{}</style></body></html>`

	elements := parse(t, src)

	require.Len(t, elements, 1)
	assert.Equal(t, "p", elements[0].TagName)
	assert.Equal(t, "red", elements[0].Style("color"))
}

func TestParse_TextCollection(t *testing.T) {
	elements := parse(t, "<p>\n  Hello <strong>big</strong>\n  world  </p><!-- note -->")

	require.Len(t, elements, 1)
	p := elements[0]
	assert.Equal(t, "Hello world", p.Text)
	require.Len(t, p.Children, 1)
	assert.Equal(t, "big", p.Children[0].Text)
	assert.Equal(t, "Hello big world", p.TextContent())
}

func TestParse_ContentKeepsDocumentOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline link", `<p>Click <a>here</a> to go</p>`, "Click here to go"},
		{"no space before punctuation", `<p>See <em>this</em>.</p>`, "See this."},
		{"word split by inline tag", `<p>un<b>believ</b>able</p>`, "unbelievable"},
		{"block children separated", `<div><p>One</p><p>Two</p></div>`, "One Two"},
		{"line break", `<p>a<br>b</p>`, "a b"},
		{"nested inline", `<p>x <span>y <strong>z</strong></span> w</p>`, "x y z w"},
		{"whitespace collapsed", "<p>\n  a   <i>b</i>\n c </p>", "a b c"},
		{"empty", `<div><span></span></div>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements := parse(t, tt.src)
			require.Len(t, elements, 1)
			assert.Equal(t, tt.want, elements[0].TextContent())
		})
	}
}

func TestElement_TextContentWithoutContent(t *testing.T) {
	el := &Element{Text: "Hello", Children: []*Element{{Text: "big"}, {}}}
	assert.Equal(t, "Hello big", el.TextContent())
}

func TestParse_EmptyInput(t *testing.T) {
	for _, src := range []string{"", "just text", "<!-- only a comment -->"} {
		elements := parse(t, src)
		assert.Empty(t, elements, src)
	}
}

func TestParse_Cascade(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "later class in class list wins at equal specificity",
			src:  `<style>.a{color:red} .b{color:blue}</style><p class="a b">x</p>`,
			want: "blue",
		},
		{
			name: "class list order beats source order",
			src:  `<style>.b{color:blue} .a{color:red}</style><p class="b a">x</p>`,
			want: "red",
		},
		{
			name: "inline style always wins",
			src:  `<style>.a{color:red} .b{color:blue}</style><p class="a b" style="color:green">x</p>`,
			want: "green",
		},
		{
			name: "class beats tag regardless of source order",
			src:  `<style>.a{color:red} p{color:blue}</style><p class="a">x</p>`,
			want: "red",
		},
		{
			name: "universal rule is the weakest",
			src:  `<style>p{color:blue} *{color:red}</style><p>x</p>`,
			want: "blue",
		},
		{
			name: "combined class selector beats single classes",
			src:  `<style>.a.b{color:purple} .a{color:red} .b{color:blue}</style><p class="a b">x</p>`,
			want: "purple",
		},
		{
			name: "descendant tag form",
			src:  `<style>.card p{color:teal} p{color:black}</style><div class="card"><p>x</p></div>`,
			want: "teal",
		},
		{
			name: "descendant class form through intermediate ancestors",
			src:  `<style>.card .title{color:navy}</style><div class="card"><section><p class="title">x</p></section></div>`,
			want: "navy",
		},
		{
			name: "nearest ancestor applied last",
			src:  `<style>.outer p{color:red} .inner p{color:blue}</style><div class="inner"><div class="outer"><p>x</p></div></div>`,
			want: "red",
		},
		{
			name: "unsupported inline property filtered",
			src:  `<p style="transition: all 0.2s; color:red">x</p>`,
			want: "red",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := findFirst(parse(t, tt.src), "p")
			require.NotNil(t, el)
			assert.Equal(t, tt.want, el.Style("color"))
			assert.NotContains(t, el.Styles, "transition")
		})
	}
}

func TestParse_PseudoContent(t *testing.T) {
	src := `<style>
		.star::before { content: "★"; }
		.done:after { content: "✓"; }
		.bullet::before { content: "\2022"; }
	</style>
	<span class="star">Featured</span>
	<span class="done">Shipped</span>
	<span class="bullet">Plain</span>`

	elements := parse(t, src)
	require.Len(t, elements, 3)
	assert.Equal(t, "★Featured", elements[0].Text)
	assert.Equal(t, "Shipped✓", elements[1].Text)
	assert.Equal(t, "Plain", elements[2].Text)
}

func TestParse_Attributes(t *testing.T) {
	src := `<input type="text" placeholder="Email" value="a@b.c" id="x">
		<textarea rows="5"></textarea>
		<img src="x.png" alt="Logo">`

	elements := parse(t, src)
	require.Len(t, elements, 3)

	assert.Equal(t, map[string]string{"placeholder": "Email", "value": "a@b.c"}, elements[0].Attributes)
	assert.Equal(t, "5", elements[1].Attr(AttrRows))
	assert.Equal(t, "Logo", elements[2].Attr(AttrAlt))
}

func TestParse_Idempotent(t *testing.T) {
	src := `<style>.row{display:flex;gap:8px} .row span{color:#333}</style>
		<div class="row"><span>A</span><span>B</span></div>
		<ul><li>One</li><li>Two</li></ul>`

	assert.Equal(t, parse(t, src), parse(t, src))
}

func TestWalkAndCount(t *testing.T) {
	elements := parse(t, `<div><p>a</p><ul><li>b</li></ul></div><p>c</p>`)

	assert.Equal(t, 5, Count(elements))

	var tags []string
	Walk(elements, func(el *Element, depth int) bool {
		tags = append(tags, el.TagName)
		return el.TagName != "ul"
	})
	assert.Equal(t, []string{"div", "p", "ul", "p"}, tags)
}

func findFirst(elements []*Element, tag string) *Element {
	var found *Element
	Walk(elements, func(el *Element, _ int) bool {
		if found == nil && el.TagName == tag {
			found = el
		}
		return found == nil
	})
	return found
}
