package dom

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
)

// Parser converts HTML documents into element trees using a resolved rule table.
type Parser struct {
	rules cascade.Rules
	log   *zap.Logger
}

// NewParser creates a parser. A nil logger discards output.
func NewParser(rules cascade.Rules, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	if rules == nil {
		rules = cascade.Rules{}
	}
	return &Parser{rules: rules, log: log.Named("dom")}
}

// Parse is a convenience wrapper around NewParser(rules, nil).Parse(src).
func Parse(src string, rules cascade.Rules) ([]*Element, error) {
	return NewParser(rules, nil).Parse(src)
}

// Parse returns the elements directly under the document body.
// Input without any element yields an empty slice.
func (p *Parser) Parse(src string) ([]*Element, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		return []*Element{}, nil
	}

	elements := p.children(body, nil)
	p.log.Debug("Parsed document", zap.Int("roots", len(elements)), zap.Int("elements", Count(elements)))
	return elements, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// children converts the element children of n. ancestors holds the element
// chain below body, outermost first.
func (p *Parser) children(n *html.Node, ancestors []*html.Node) []*Element {
	out := []*Element{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if excludedTags[c.Data] {
			p.log.Debug("Excluded non-visual element", zap.String("tag", c.Data))
			continue
		}
		out = append(out, p.element(c, ancestors))
	}
	return out
}

func (p *Parser) element(n *html.Node, ancestors []*html.Node) *Element {
	classes := classList(n)

	el := &Element{
		TagName: n.Data,
		Styles:  p.computeStyles(n, classes, ancestors),
	}

	for _, name := range capturedAttributes {
		if v, ok := attr(n, name); ok {
			if el.Attributes == nil {
				el.Attributes = make(map[string]string)
			}
			el.Attributes[name] = v
		}
	}

	before, after := p.pseudo(n.Data, classes, "::before"), p.pseudo(n.Data, classes, "::after")
	el.Text = before + directText(n) + after

	next := make([]*html.Node, len(ancestors), len(ancestors)+1)
	copy(next, ancestors)
	next = append(next, n)
	el.Children = p.children(n, next)

	if c := content(n, el.Children); c != "" || before != "" || after != "" {
		el.Content = before + c + after
	}
	return el
}

// content collects the text under n in document order, collapsing
// whitespace. Inline children run into the surrounding text; other children
// are set off by spaces. children are the converted element children of n.
func content(n *html.Node, children []*Element) string {
	var b strings.Builder
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && !excludedTags[c.Data]:
			child := children[i]
			i++
			if phrasingTags[c.Data] {
				b.WriteString(child.Content)
			} else {
				b.WriteString(" " + child.Content + " ")
			}
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type match struct {
	specificity int
	styles      cascade.StyleMap
}

// computeStyles merges, lowest priority first: universal rule, tag rule, each
// class in class-list order, the combined class selector, descendant forms
// from the outermost ancestor inward. Matches are then stable-sorted by
// specificity and the inline style is applied last.
func (p *Parser) computeStyles(n *html.Node, classes []string, ancestors []*html.Node) cascade.StyleMap {
	var matches []match
	add := func(selector string) {
		if decls := p.rules.Lookup(selector); decls != nil {
			matches = append(matches, match{specificity: cascade.Specificity(selector), styles: decls})
		}
	}

	add("*")
	add(n.Data)
	for _, c := range classes {
		add("." + c)
	}
	if len(classes) > 1 {
		add("." + strings.Join(classes, "."))
	}

	for _, anc := range ancestors {
		ancestorSelectors := []string{anc.Data}
		for _, ac := range classList(anc) {
			ancestorSelectors = append(ancestorSelectors, "."+ac)
		}
		for _, as := range ancestorSelectors {
			add(as + " " + n.Data)
			for _, c := range classes {
				add(as + " ." + c)
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].specificity < matches[j].specificity
	})

	styles := make(cascade.StyleMap)
	for _, m := range matches {
		styles.Merge(m.styles)
	}
	if inline, ok := attr(n, "style"); ok {
		styles.Merge(cascade.ParseDeclarations(inline))
	}
	return styles
}

// pseudo returns the allow-listed content of the first ::before/::after rule
// matching the tag or one of the classes.
func (p *Parser) pseudo(tag string, classes []string, kind string) string {
	selectors := []string{tag + kind}
	for _, c := range classes {
		selectors = append(selectors, "."+c+kind)
	}
	for _, sel := range selectors {
		decls := p.rules.Lookup(sel)
		if decls == nil {
			continue
		}
		raw, ok := decls["content"]
		if !ok {
			continue
		}
		if text, ok := cascade.PseudoContent(raw); ok {
			return text
		}
	}
	return ""
}

// directText joins the trimmed, non-empty text children of n with single spaces.
func directText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if t := strings.TrimSpace(c.Data); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func classList(n *html.Node) []string {
	v, ok := attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
