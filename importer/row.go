package importer

import "strings"

// Field is a logical spreadsheet column.
type Field int

const (
	FieldName Field = iota
	FieldCategory
	FieldDescription
	FieldPrice
	FieldImage
	FieldSpecs
)

// headerAliases lists the accepted header spellings per field. Matching is
// case-insensitive on trimmed headers.
var headerAliases = map[Field][]string{
	FieldName:        {"name", "product_name"},
	FieldCategory:    {"category"},
	FieldDescription: {"description"},
	FieldPrice:       {"price"},
	FieldImage:       {"image"},
	FieldSpecs:       {"specs"},
}

// TemplateHeaders is the header row written to import templates.
var TemplateHeaders = []string{"Name", "Category", "Description", "Price", "Image", "Specs"}

// Row is one spreadsheet data row with its cells mapped to fields.
type Row struct {
	// Number is the 1-based row number in the sheet, header included.
	Number      int
	Name        string
	Category    string
	Description string
	Price       string
	Image       string
	Specs       string
}

// headerIndex maps each field to the column indices whose header matches one
// of its aliases, in column order.
type headerIndex map[Field][]int

func newHeaderIndex(headers []string) headerIndex {
	lookup := make(map[string]Field)
	for field, aliases := range headerAliases {
		for _, a := range aliases {
			lookup[a] = field
		}
	}
	idx := headerIndex{}
	for i, h := range headers {
		if field, ok := lookup[strings.ToLower(strings.TrimSpace(h))]; ok {
			idx[field] = append(idx[field], i)
		}
	}
	return idx
}

// has reports whether at least one column was recognised.
func (h headerIndex) has(field Field) bool {
	return len(h[field]) > 0
}

// value returns the first non-empty cell among the field's columns.
func (h headerIndex) value(cells []string, field Field) string {
	for _, i := range h[field] {
		if i < len(cells) {
			if v := strings.TrimSpace(cells[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (h headerIndex) row(number int, cells []string) Row {
	return Row{
		Number:      number,
		Name:        h.value(cells, FieldName),
		Category:    h.value(cells, FieldCategory),
		Description: h.value(cells, FieldDescription),
		Price:       h.value(cells, FieldPrice),
		Image:       h.value(cells, FieldImage),
		Specs:       h.value(cells, FieldSpecs),
	}
}

// rowsFromRecords converts raw records into typed rows. The first non-blank
// record is the header; Number stays the 1-based sheet row. Fully blank
// records are dropped.
func rowsFromRecords(records [][]string) []Row {
	start := 0
	for start < len(records) && isBlank(records[start]) {
		start++
	}
	if start == len(records) {
		return nil
	}
	idx := newHeaderIndex(records[start])
	rows := make([]Row, 0, len(records)-start-1)
	for i := start + 1; i < len(records); i++ {
		if isBlank(records[i]) {
			continue
		}
		rows = append(rows, idx.row(i+1, records[i]))
	}
	return rows
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
