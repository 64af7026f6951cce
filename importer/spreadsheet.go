package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadableSpreadsheet means the upload could not be parsed at all.
	ErrUnreadableSpreadsheet = errors.New("spreadsheet could not be read")
	// ErrNoRows means the first sheet had no data rows.
	ErrNoRows = errors.New("spreadsheet has no data rows")
	// ErrUnsupportedFormat is returned by ReaderFor for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

// SpreadsheetReader parses the first sheet of an uploaded file into rows.
type SpreadsheetReader interface {
	ParseFirstSheet(r io.Reader) ([]Row, error)
}

// ReaderFor picks a reader from the file name's extension.
func ReaderFor(filename string) (SpreadsheetReader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ExcelReader{}, nil
	case ".csv":
		return CSVReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// IsSupportedSpreadsheet reports whether ReaderFor accepts filename.
func IsSupportedSpreadsheet(filename string) bool {
	_, err := ReaderFor(filename)
	return err == nil
}

type ExcelReader struct{}

func (ExcelReader) ParseFirstSheet(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	rows := rowsFromRecords(records)
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

type CSVReader struct{}

func (CSVReader) ParseFirstSheet(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	rows := rowsFromRecords(records)
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

var templateInstructions = []string{
	"How to fill in the Products sheet",
	"Name and Category are required. Category must match an existing category name.",
	"Price is a plain number such as 9.99. Leave it empty for 0.",
	"Image is the file name of an image uploaded with the sheet, for example hammer.jpg. The extension is optional.",
	"Specs are comma separated key: value pairs, for example Material: Steel, Weight: 1kg",
	"Rows whose name and category already exist are updated only when a new image is supplied.",
}

// WriteTemplate writes an empty import workbook with the expected headers and
// one example row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range TemplateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	example := []interface{}{"Hammer", "Hand Tools", "Steel claw hammer", 9.99, "hammer.jpg", "Material: Steel, Weight: 500g"}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
	})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(TemplateHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "F", 24); err != nil {
		return err
	}

	const help = "Instructions"
	if _, err := f.NewSheet(help); err != nil {
		return err
	}
	for i, line := range templateInstructions {
		if err := f.SetCellValue(help, fmt.Sprintf("A%d", i+1), line); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(help, "A", "A", 110); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
