// Package cascade extracts <style> blocks from raw HTML and turns them into a
// selector-keyed table of filtered declarations.
//
// The resolver is shallow. It splits rules on braces instead of
// running a full CSS grammar, strips @media and @keyframes blocks with a regex
// that understands a single level of nesting, and ignores interaction
// pseudo-classes. Only bare element names, .class, combined .a.b classes,
// two-part descendant forms and * are later matched against elements.
package cascade

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// rejectedPseudo lists pseudo-classes whose rules never apply to a static design.
var rejectedPseudo = []string{":hover", ":active", ":focus", ":nth-child", ":first-child", ":last-child"}

var (
	atBlock      = regexp.MustCompile(`@(?:-webkit-|-moz-)?(?:keyframes|media)[^{]*\{(?:[^{}]*\{[^{}]*\})*[^{}]*\}`)
	singleColon  = regexp.MustCompile(`([^:]):(before|after)\b`)
	styleOpenTag = regexp.MustCompile(`(?i)<style[^>]*>`)
)

// Resolver builds cascade rule tables.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log.Named("cascade")}
}

// Resolve returns the rule table for every <style> block in html.
func (r *Resolver) Resolve(html string) Rules {
	text := ExtractStyleBlocks(html)
	if text == "" {
		return Rules{}
	}
	return r.ParseStylesheet(text)
}

// ParseStylesheet turns stylesheet text into a rule table.
func (r *Resolver) ParseStylesheet(text string) Rules {
	rules := make(Rules)

	text = StripComments(text)
	text = StripAtBlocks(text)

	for _, chunk := range strings.Split(text, "}") {
		selectorPart, body, found := strings.Cut(chunk, "{")
		if !found {
			continue
		}
		selectorPart = strings.TrimSpace(selectorPart)
		if selectorPart == "" {
			continue
		}
		if strings.HasPrefix(selectorPart, "@") {
			r.log.Debug("Skipping at-rule", zap.String("selector", selectorPart))
			continue
		}
		if pseudo, bad := hasRejectedPseudo(selectorPart); bad {
			r.log.Debug("Skipping interactive rule", zap.String("selector", selectorPart), zap.String("pseudo", pseudo))
			continue
		}

		raw := parseDeclarations(body)
		decls := Filter(raw)
		if dropped := len(raw) - len(decls); dropped > 0 {
			r.log.Debug("Dropped unsupported declarations", zap.String("selector", selectorPart), zap.Int("count", dropped))
		}

		for _, sel := range strings.Split(selectorPart, ",") {
			sel = NormalizeSelector(sel)
			if sel == "" {
				continue
			}
			rules.Add(sel, decls)
		}
	}

	r.log.Debug("Resolved stylesheet", zap.Int("selectors", len(rules)))
	return rules
}

// ExtractStyleBlocks concatenates the contents of every <style> element,
// separated by a space. It scans tag boundaries literally.
func ExtractStyleBlocks(html string) string {
	var parts []string
	rest := html
	for {
		loc := styleOpenTag.FindStringIndex(rest)
		if loc == nil {
			break
		}
		rest = rest[loc[1]:]
		end := strings.Index(strings.ToLower(rest), "</style>")
		if end < 0 {
			parts = append(parts, rest)
			break
		}
		parts = append(parts, rest[:end])
		rest = rest[end+len("</style>"):]
	}
	return strings.Join(parts, " ")
}

// StripComments removes /* ... */ comments. Comments do not nest.
func StripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inComment := false
	for i := 0; i < len(text); i++ {
		switch {
		case !inComment && text[i] == '/' && i+1 < len(text) && text[i+1] == '*':
			inComment = true
			i++
		case inComment && text[i] == '*' && i+1 < len(text) && text[i+1] == '/':
			inComment = false
			i++
		case !inComment:
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// StripAtBlocks removes @media and @keyframes blocks. Blocks nested more than
// one level deep are not fully removed.
func StripAtBlocks(text string) string {
	return atBlock.ReplaceAllString(text, "")
}

// NormalizeSelector collapses whitespace and rewrites :before/:after to ::before/::after.
func NormalizeSelector(sel string) string {
	sel = strings.Join(strings.Fields(sel), " ")
	return singleColon.ReplaceAllString(sel, "$1::$2")
}

func hasRejectedPseudo(selector string) (string, bool) {
	for _, p := range rejectedPseudo {
		if strings.Contains(selector, p) {
			return p, true
		}
	}
	return "", false
}
