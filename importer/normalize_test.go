package importer_test

import (
	"testing"

	"catalog-service/importer"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategoryName(t *testing.T) {
	cases := map[string]string{
		"Fasteners & Screws":      "fasteners and screws",
		"  FASTENERS   AND SCREWS": "fasteners and screws",
		"Hand-Tools!":             "handtools",
		"Paint\t&\nSupplies":      "paint and supplies",
		"Hand\u00a0Tools":         "hand tools",
		"Power\u2003\u00a0Tools":  "power tools",
		"\ufeffGarden\vSupplies":  "garden supplies",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, importer.NormalizeCategoryName(in), "input %q", in)
	}
}

func TestNormalizeFileReference(t *testing.T) {
	f := importer.NormalizeFileReference(`C:\photos\Self_Screw-White (2).JPG`)

	assert.Equal(t, "self_screw-white (2).jpg", f.Lower)
	assert.Equal(t, "self_screw-white (2)", f.NoExt)
	assert.Equal(t, "self screw white (2)", f.Spaces)
	assert.Equal(t, "self screw white 2", f.Alnum)
	assert.Equal(t, "selfscrewwhite2", f.Compact)
	assert.Equal(t, "self-screw-white-2", f.Slug)
}

func TestNormalizeFileReference_UnixPathAndEmpty(t *testing.T) {
	f := importer.NormalizeFileReference("uploads/products/hammer.png")
	assert.Equal(t, "hammer.png", f.Lower)
	assert.Equal(t, "hammer", f.NoExt)

	assert.Equal(t, importer.FileForms{}, importer.NormalizeFileReference(""))
}

func TestNormalizeFileReference_NonBreakingSpace(t *testing.T) {
	f := importer.NormalizeFileReference("Claw\u00a0Hammer.jpg")
	assert.Equal(t, "claw hammer", f.Spaces)
	assert.Equal(t, "claw hammer", f.Alnum)
	assert.Equal(t, "clawhammer", f.Compact)
	assert.Equal(t, "claw-hammer", f.Slug)
}

func TestHasImageExtension(t *testing.T) {
	assert.True(t, importer.HasImageExtension("a.JPEG"))
	assert.True(t, importer.HasImageExtension("a.webp"))
	assert.False(t, importer.HasImageExtension("a.bmp"))
	assert.False(t, importer.HasImageExtension("hammer"))
}
