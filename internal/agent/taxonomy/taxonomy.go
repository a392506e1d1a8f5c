// Package taxonomy maps broad insurance categories to the fine-grained
// document categories used for retrieval and to the profile fields the
// assistant must collect before it can price a policy.
package taxonomy

import (
	"slices"
	"strings"
)

// GeneralCategory keys the fallback field set.
const GeneralCategory = "General"

// Tier records which precedence rule resolved a category label.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierSubstring
	TierSubcategory
)

// Category is one broad category with its retrieval tags and required fields.
type Category struct {
	Name           string
	Subcategories  []string
	RequiredFields []string
}

// Taxonomy is immutable after construction and safe for concurrent reads.
type Taxonomy struct {
	categories []Category
	fallback   []string
}

// New builds a taxonomy; order of categories is the substring-match order.
func New(categories []Category, fallback []string) *Taxonomy {
	cs := make([]Category, len(categories))
	for i, c := range categories {
		cs[i] = Category{
			Name:           c.Name,
			Subcategories:  slices.Clone(c.Subcategories),
			RequiredFields: slices.Clone(c.RequiredFields),
		}
	}
	return &Taxonomy{categories: cs, fallback: slices.Clone(fallback)}
}

// BroadCategories lists the canonical broad-category names in order.
func (t *Taxonomy) BroadCategories() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// SpecificSubcategories returns the retrieval tags of a broad category, or
// an empty slice when the name is unknown (meaning "do not filter").
func (t *Taxonomy) SpecificSubcategories(broad string) []string {
	for _, c := range t.categories {
		if c.Name == broad {
			return slices.Clone(c.Subcategories)
		}
	}
	return []string{}
}

// FallbackFields returns the generic field set.
func (t *Taxonomy) FallbackFields() []string { return slices.Clone(t.fallback) }

// Resolve finds the broad category for a free-text label:
// exact key (case-insensitive), then label containing a key, then label
// equal to a registered sub-category. ok is false when nothing matched.
func (t *Taxonomy) Resolve(input string) (name string, tier Tier, ok bool) {
	clean := strings.ToLower(strings.TrimSpace(input))
	if clean == "" {
		return "", TierNone, false
	}
	for _, c := range t.categories {
		if clean == strings.ToLower(c.Name) {
			return c.Name, TierExact, true
		}
	}
	for _, c := range t.categories {
		if strings.Contains(clean, strings.ToLower(c.Name)) {
			return c.Name, TierSubstring, true
		}
	}
	raw := strings.TrimSpace(input)
	for _, c := range t.categories {
		if slices.Contains(c.Subcategories, raw) {
			return c.Name, TierSubcategory, true
		}
	}
	return "", TierNone, false
}

// Canonical returns the broad category for input, or the trimmed input
// itself when it does not resolve.
func (t *Taxonomy) Canonical(input string) string {
	if name, _, ok := t.Resolve(input); ok {
		return name
	}
	return strings.TrimSpace(input)
}

// RequiredFields returns the ordered field list for a category label,
// falling back to the generic set. It never fails.
func (t *Taxonomy) RequiredFields(input string) []string {
	name, _, ok := t.Resolve(input)
	if !ok {
		return t.FallbackFields()
	}
	for _, c := range t.categories {
		if c.Name == name {
			return slices.Clone(c.RequiredFields)
		}
	}
	return t.FallbackFields()
}
