package cascade

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var importantSuffix = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

// ParseDeclarations reads "property: value" pairs from an inline style attribute
// or a rule body and drops the properties the design surface cannot express.
func ParseDeclarations(block string) StyleMap {
	return Filter(parseDeclarations(block))
}

// parseDeclarations reads property: value pairs until the input ends
func parseDeclarations(block string) StyleMap {
	props := make(StyleMap)
	lexer := css.NewLexer(parse.NewInputString(block))

	var (
		currentProp string
		currentVal  []string
		seenColon   bool
		skip        bool
	)

	flush := func() {
		if currentProp != "" && seenColon && !skip {
			val := strings.TrimSpace(strings.Join(currentVal, ""))
			val = importantSuffix.ReplaceAllString(val, "")
			if val != "" || currentProp == "content" {
				props[currentProp] = val
			}
		}
		currentProp = ""
		currentVal = nil
		seenColon = false
		skip = false
	}

	for {
		tt, text := lexer.Next()

		if tt == css.ErrorToken || tt == css.RightBraceToken {
			flush()
			break
		}

		switch {
		case tt == css.CommentToken:
			continue
		case tt == css.SemicolonToken:
			flush()
		case currentProp == "" && tt == css.IdentToken:
			currentProp = string(text)
			// custom properties are not resolved
			skip = strings.HasPrefix(currentProp, "--")
		case currentProp == "":
			// stray token before a property name
			continue
		case tt == css.ColonToken && !seenColon:
			seenColon = true
		case seenColon:
			currentVal = append(currentVal, string(text))
		}
	}

	return props
}

// Filter drops unsupported properties and any content value outside the
// pseudo-content allow-list. The input is not modified.
func Filter(props StyleMap) StyleMap {
	out := make(StyleMap, len(props))
	for name, value := range props {
		if name == "content" {
			if _, ok := PseudoContent(value); ok {
				out[name] = value
			}
			continue
		}
		if !Supported(name) {
			continue
		}
		out[name] = value
	}
	return out
}
