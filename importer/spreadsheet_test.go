package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"catalog-service/importer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, records [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := rec
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf := &bytes.Buffer{}
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestExcelReader_HeaderAliasesAndBlankRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"PRODUCT_NAME", " category ", "Price", "IMAGE", "Specs", "Description"},
		{"Hammer", "Hand Tools", 9.99, "hammer.jpg", "Material: Steel", ""},
		{"", "", "", "", "", ""},
		{"  Screw  ", "Fasteners & Screws", "", "", "", "Zinc plated"},
	})

	rows, err := importer.ExcelReader{}.ParseFirstSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, importer.Row{
		Number:   2,
		Name:     "Hammer",
		Category: "Hand Tools",
		Price:    "9.99",
		Image:    "hammer.jpg",
		Specs:    "Material: Steel",
	}, rows[0])
	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "Screw", rows[1].Name)
	assert.Equal(t, "Zinc plated", rows[1].Description)
}

func TestExcelReader_HeaderBelowEmptyTopRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Name", "Category"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"Hammer", "Hand Tools"}))
	buf := &bytes.Buffer{}
	_, err := f.WriteTo(buf)
	require.NoError(t, err)

	rows, err := importer.ExcelReader{}.ParseFirstSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, importer.Row{Number: 4, Name: "Hammer", Category: "Hand Tools"}, rows[0])
}

func TestCSVReader_LeadingBlankLines(t *testing.T) {
	rows, err := importer.CSVReader{}.ParseFirstSheet(strings.NewReader(",,\nname,category\nLevel,Hand Tools\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Number)
	assert.Equal(t, "Level", rows[0].Name)
}

func TestExcelReader_DuplicateAliasColumnsTakeFirstNonEmpty(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Name", "name", "Category"},
		{"", "Level", "Hand Tools"},
	})

	rows, err := importer.ExcelReader{}.ParseFirstSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Level", rows[0].Name)
}

func TestExcelReader_Fatal(t *testing.T) {
	_, err := importer.ExcelReader{}.ParseFirstSheet(strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, importer.ErrUnreadableSpreadsheet)

	buf := buildWorkbook(t, [][]interface{}{{"Name", "Category"}})
	_, err = importer.ExcelReader{}.ParseFirstSheet(buf)
	assert.ErrorIs(t, err, importer.ErrNoRows)
}

func TestCSVReader(t *testing.T) {
	in := "Name,Category,Price\nHammer,Hand Tools,9.99\n,,\nSaw,Hand Tools\n"
	rows, err := importer.CSVReader{}.ParseFirstSheet(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "9.99", rows[0].Price)
	assert.Equal(t, "Saw", rows[1].Name)
	assert.Equal(t, 4, rows[1].Number)
}

func TestReaderFor(t *testing.T) {
	r, err := importer.ReaderFor("Products.XLSX")
	require.NoError(t, err)
	assert.IsType(t, importer.ExcelReader{}, r)

	r, err = importer.ReaderFor("products.csv")
	require.NoError(t, err)
	assert.IsType(t, importer.CSVReader{}, r)

	_, err = importer.ReaderFor("products.xls")
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
	assert.False(t, importer.IsSupportedSpreadsheet("notes.txt"))
}

func TestWriteTemplate_RoundTrips(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, importer.WriteTemplate(buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Products", "Instructions"}, f.GetSheetList())

	rows, err := importer.ExcelReader{}.ParseFirstSheet(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hammer", rows[0].Name)
	assert.Equal(t, "Hand Tools", rows[0].Category)
	assert.Equal(t, "9.99", rows[0].Price)
}
