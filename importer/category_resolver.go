package importer

import (
	"strings"

	"catalog-service/models"
)

// ShadowedKey records a lookup key that two records both produced. The first
// registered record keeps the key.
type ShadowedKey struct {
	Key     string
	Kept    string
	Dropped string
}

// CategoryResolver maps free-text category names from a spreadsheet onto
// category IDs.
type CategoryResolver struct {
	keys     map[string]string
	shadowed []ShadowedKey
}

func NewCategoryResolver(categories []models.Category) *CategoryResolver {
	r := &CategoryResolver{keys: make(map[string]string, len(categories)*5)}
	for _, cat := range categories {
		lower := strings.ToLower(cat.Name)
		r.register(lower, cat.ID)
		r.register(NormalizeCategoryName(cat.Name), cat.ID)
		r.register(cat.Slug, cat.ID)
		r.register(strings.ReplaceAll(lower, "&", "and"), cat.ID)
		r.register(strings.ReplaceAll(lower, "and", "&"), cat.ID)
	}
	return r
}

func (r *CategoryResolver) register(key, id string) {
	if key == "" {
		return
	}
	if owner, ok := r.keys[key]; ok {
		if owner != id {
			r.shadowed = append(r.shadowed, ShadowedKey{Key: key, Kept: owner, Dropped: id})
		}
		return
	}
	r.keys[key] = id
}

// Resolve returns the category ID for raw. An exact (case-insensitive) name
// match is tried before any of the fuzzy forms.
func (r *CategoryResolver) Resolve(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	candidates := []string{
		lower,
		NormalizeCategoryName(raw),
		strings.ReplaceAll(lower, "&", "and"),
		strings.ReplaceAll(lower, "and", "&"),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if id, ok := r.keys[c]; ok {
			return id, true
		}
	}
	return "", false
}

// Shadowed lists keys that were claimed by more than one category.
func (r *CategoryResolver) Shadowed() []ShadowedKey {
	return r.shadowed
}
