package importer_test

import (
	"testing"

	"catalog-service/importer"

	"github.com/stretchr/testify/assert"
)

func TestParseSpecs_JSON(t *testing.T) {
	specs := importer.ParseSpecs(`{"Material":"Steel","Weight":1.5,"Pack":10,"Coated":true}`)
	assert.Equal(t, map[string]string{
		"Material": "Steel",
		"Weight":   "1.5",
		"Pack":     "10",
		"Coated":   "true",
	}, specs)
}

func TestParseSpecs_KeyValuePairs(t *testing.T) {
	specs := importer.ParseSpecs("Material: Steel , Size: M6:x20, broken, : novalue, empty:  ")
	assert.Equal(t, map[string]string{
		"Material": "Steel",
		"Size":     "M6:x20",
	}, specs)
}

func TestParseSpecs_Blank(t *testing.T) {
	assert.Empty(t, importer.ParseSpecs(""))
	assert.NotNil(t, importer.ParseSpecs("   "))
	assert.Empty(t, importer.ParseSpecs("[1,2,3]"))
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"9.99", 9.99, true},
		{" 12 ", 12, true},
		{"12.50 USD", 12.5, true},
		{".5", 0.5, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-3", 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := importer.ParsePrice(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}
