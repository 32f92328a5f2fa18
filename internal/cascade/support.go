package cascade

import (
	"sort"
	"strings"
)

// PropertyCategory groups CSS properties by what the design surface does with them.
type PropertyCategory string

// Property categories.
const (
	CategoryVisual      PropertyCategory = "Visual"
	CategoryLayout      PropertyCategory = "Layout"
	CategoryTypography  PropertyCategory = "Typography"
	CategoryEffects     PropertyCategory = "Effects"
	CategoryContent     PropertyCategory = "Content"
	CategoryUnsupported PropertyCategory = "Unsupported"
)

// propertyCategories maps CSS property names to categories
var propertyCategories = map[string]PropertyCategory{
	// Visual
	"background":       CategoryVisual,
	"background-color": CategoryVisual,
	"background-image": CategoryVisual,
	"color":            CategoryVisual,
	"border":           CategoryVisual,
	"border-color":     CategoryVisual,
	"border-radius":    CategoryVisual,
	"border-width":     CategoryVisual,
	"border-style":     CategoryVisual,
	"border-top":       CategoryVisual,
	"border-right":     CategoryVisual,
	"border-bottom":    CategoryVisual,
	"border-left":      CategoryVisual,
	"opacity":          CategoryVisual,
	"outline":          CategoryVisual,

	// Layout
	"display":               CategoryLayout,
	"flex":                  CategoryLayout,
	"flex-direction":        CategoryLayout,
	"flex-wrap":             CategoryLayout,
	"flex-grow":             CategoryLayout,
	"justify-content":       CategoryLayout,
	"align-items":           CategoryLayout,
	"gap":                   CategoryLayout,
	"row-gap":               CategoryLayout,
	"column-gap":            CategoryLayout,
	"grid-template-columns": CategoryLayout,
	"position":              CategoryLayout,
	"width":                 CategoryLayout,
	"height":                CategoryLayout,
	"min-width":             CategoryLayout,
	"min-height":            CategoryLayout,
	"max-width":             CategoryLayout,
	"max-height":            CategoryLayout,
	"padding":               CategoryLayout,
	"margin":                CategoryLayout,
	"overflow":              CategoryLayout,

	// Typography
	"font-family":     CategoryTypography,
	"font-size":       CategoryTypography,
	"font-weight":     CategoryTypography,
	"font-style":      CategoryTypography,
	"line-height":     CategoryTypography,
	"letter-spacing":  CategoryTypography,
	"text-align":      CategoryTypography,
	"text-decoration": CategoryTypography,
	"text-transform":  CategoryTypography,

	// Effects
	"box-shadow": CategoryEffects,
	"filter":     CategoryEffects,

	"content": CategoryContent,

	// The design surface has no motion model.
	"transition": CategoryUnsupported,
	"transform":  CategoryUnsupported,
	"animation":  CategoryUnsupported,
}

// Category determines the category of a CSS property.
func Category(name string) PropertyCategory {
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}

	switch {
	case strings.HasPrefix(name, "animation-"), strings.HasPrefix(name, "transition-"):
		return CategoryUnsupported
	case strings.HasPrefix(name, "border-"):
		return CategoryVisual
	case strings.HasPrefix(name, "font-"), strings.HasPrefix(name, "text-"):
		return CategoryTypography
	case strings.HasPrefix(name, "flex-"), strings.HasPrefix(name, "grid-"),
		strings.HasPrefix(name, "padding-"), strings.HasPrefix(name, "margin-"):
		return CategoryLayout
	}

	return CategoryLayout
}

// Supported reports whether a property survives filtering.
// content is decided separately by PseudoContent.
func Supported(name string) bool {
	return Category(name) != CategoryUnsupported
}

// CategorizedProperty is one declaration tagged with its category.
type CategorizedProperty struct {
	Name     string
	Value    string
	Category PropertyCategory
}

// Categorize groups properties by category, sorted by name within each group.
func Categorize(props StyleMap) map[PropertyCategory][]CategorizedProperty {
	result := make(map[PropertyCategory][]CategorizedProperty)

	for name, value := range props {
		cat := Category(name)
		result[cat] = append(result[cat], CategorizedProperty{Name: name, Value: value, Category: cat})
	}

	for cat := range result {
		sort.Slice(result[cat], func(i, j int) bool {
			return result[cat][i].Name < result[cat][j].Name
		})
	}

	return result
}

// pseudoContent lists the content literals a pseudo-element may inject.
// Keys are the raw CSS values, quotes included.
var pseudoContent = buildPseudoContent(
	"", "★", "☆", "✓", "✔", "✕", "✗", "×", "•", "·", "→", "←", "↑", "↓",
	"›", "‹", "»", "«", "▶", "▼", "▲", "●", "○", "■", "□", "◆", "♥", "♦",
	"+", "-", "|", "/", ":",
	"🔥", "⭐", "✨", "🚀", "💡", "📌", "✅", "❌", "⚡", "👉", "🎉", "📧", "📞",
)

func buildPseudoContent(literals ...string) map[string]string {
	m := make(map[string]string, len(literals)*2)
	for _, l := range literals {
		m[`"`+l+`"`] = l
		m[`'`+l+`'`] = l
	}
	return m
}

// PseudoContent returns the text a supported content value injects.
func PseudoContent(raw string) (string, bool) {
	text, ok := pseudoContent[strings.TrimSpace(raw)]
	return text, ok
}
