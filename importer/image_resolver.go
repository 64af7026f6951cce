package importer

import (
	"strings"

	"catalog-service/models"
)

// ImageResolver maps the image reference written in a spreadsheet cell onto
// the stored name of one of the images uploaded with the batch.
type ImageResolver struct {
	keys     map[string]string
	shadowed []ShadowedKey
}

func NewImageResolver(images []models.UploadedImage) *ImageResolver {
	r := &ImageResolver{keys: make(map[string]string, len(images)*7)}
	for _, img := range images {
		orig := img.OriginalName
		if orig == "" {
			orig = img.StoredName
		}
		r.register(strings.ToLower(orig), img.StoredName)
		for _, form := range NormalizeFileReference(orig).All() {
			r.register(form, img.StoredName)
		}
	}
	return r
}

func (r *ImageResolver) register(key, storedName string) {
	if key == "" {
		return
	}
	if owner, ok := r.keys[key]; ok {
		if owner != storedName {
			r.shadowed = append(r.shadowed, ShadowedKey{Key: key, Kept: owner, Dropped: storedName})
		}
		return
	}
	r.keys[key] = storedName
}

// Resolve returns the stored name for raw, trying the raw value first and
// progressively looser forms after it. References without an image
// extension are also tried with each accepted extension appended.
func (r *ImageResolver) Resolve(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	forms := NormalizeFileReference(raw)
	candidates := append([]string{strings.ToLower(raw)}, forms.All()...)
	if !HasImageExtension(raw) {
		for _, ext := range ImageExtensions {
			candidates = append(candidates, strings.ToLower(forms.NoExt+ext))
		}
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if stored, ok := r.keys[c]; ok {
			return stored, true
		}
	}
	return "", false
}

func (r *ImageResolver) Shadowed() []ShadowedKey {
	return r.shadowed
}
