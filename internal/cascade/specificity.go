package cascade

import (
	"regexp"
	"strings"
)

var (
	idPart      = regexp.MustCompile(`#[A-Za-z_][\w-]*`)
	classPart   = regexp.MustCompile(`\.[A-Za-z_-][\w-]*`)
	elementPart = regexp.MustCompile(`^[A-Za-z][\w-]*`)
)

// Specificity scores a selector as 100 per id, 10 per class and 1 per element name.
// Pseudo-elements do not count.
func Specificity(selector string) int {
	score := 0
	for _, compound := range strings.Fields(selector) {
		compound = stripPseudoElement(compound)
		score += 100 * len(idPart.FindAllString(compound, -1))
		score += 10 * len(classPart.FindAllString(compound, -1))
		if elementPart.MatchString(compound) {
			score++
		}
	}
	return score
}

func stripPseudoElement(compound string) string {
	if i := strings.Index(compound, "::"); i >= 0 {
		return compound[:i]
	}
	return compound
}
