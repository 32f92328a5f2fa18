// Package dom builds the semantic element tree: HTML elements with their
// cascaded styles resolved, direct text collected and non-visual markup removed.
package dom

import (
	"strings"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
)

// Captured attribute names. Everything else on the source element is discarded.
const (
	AttrValue       = "value"
	AttrPlaceholder = "placeholder"
	AttrAlt         = "alt"
	AttrRows        = "rows"
)

var capturedAttributes = []string{AttrValue, AttrPlaceholder, AttrAlt, AttrRows}

// excludedTags never reach the element tree.
var excludedTags = map[string]bool{
	"script": true,
	"style":  true,
	"meta":   true,
	"link":   true,
	"title":  true,
}

// phrasingTags flow into the surrounding text without a break.
var phrasingTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true, "del": true,
	"em": true, "i": true, "ins": true, "kbd": true, "label": true, "mark": true,
	"q": true, "s": true, "samp": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true,
}

// Element is one node of the semantic tree. Text holds the element's own
// text; Content holds the text of the whole subtree in document order.
type Element struct {
	TagName    string            `json:"tagName" yaml:"tagName"`
	Text       string            `json:"text,omitempty" yaml:"text,omitempty"`
	Content    string            `json:"content,omitempty" yaml:"content,omitempty"`
	Styles     cascade.StyleMap  `json:"styles,omitempty" yaml:"styles,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []*Element        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Attr returns a captured attribute, or "".
func (e *Element) Attr(name string) string {
	return e.Attributes[name]
}

// Style returns a style property, or "".
func (e *Element) Style(name string) string {
	return e.Styles[name]
}

// HasChildren reports whether the element has element children.
func (e *Element) HasChildren() bool {
	return len(e.Children) > 0
}

// TextContent returns the text of the element and its descendants in
// document order. Elements built without Content join their own text and
// then each child's, separated by single spaces.
func (e *Element) TextContent() string {
	if e.Content != "" {
		return e.Content
	}
	var parts []string
	if e.Text != "" {
		parts = append(parts, e.Text)
	}
	for _, c := range e.Children {
		if t := c.TextContent(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Walk visits elements depth-first in document order. Returning false from fn
// skips the element's children.
func Walk(elements []*Element, fn func(el *Element, depth int) bool) {
	walk(elements, 0, fn)
}

func walk(elements []*Element, depth int, fn func(*Element, int) bool) {
	for _, el := range elements {
		if fn(el, depth) {
			walk(el.Children, depth+1, fn)
		}
	}
}

// Count returns the number of elements in the forest.
func Count(elements []*Element) int {
	n := 0
	Walk(elements, func(*Element, int) bool {
		n++
		return true
	})
	return n
}
