package frame

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelReadOptions configures spreadsheet reading behavior
type ExcelReadOptions struct {
	Sheet      string   // Sheet name (default: first sheet)
	HasHeader  bool     // First row is header (default true)
	InferTypes bool     // Auto-detect types (default true)
	NullValues []string // Cell texts to treat as null
}

// DefaultExcelReadOptions returns default spreadsheet reading options
func DefaultExcelReadOptions() ExcelReadOptions {
	return ExcelReadOptions{
		HasHeader:  true,
		InferTypes: true,
		NullValues: []string{""},
	}
}

// ReadExcel reads one sheet of an .xlsx workbook into a DataFrame
func ReadExcel(path string, opts ...ExcelReadOptions) (*DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return readExcelFile(f, opts...)
}

// ReadExcelFromReader reads one sheet of an .xlsx workbook from r
func ReadExcelFromReader(r io.Reader, opts ...ExcelReadOptions) (*DataFrame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel data: %w", err)
	}
	defer f.Close()

	return readExcelFile(f, opts...)
}

func readExcelFile(f *excelize.File, opts ...ExcelReadOptions) (*DataFrame, error) {
	opt := DefaultExcelReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in excel file")
	}
	sheet := opt.Sheet
	if sheet == "" {
		sheet = sheets[0]
	} else {
		found := false
		for _, name := range sheets {
			if name == sheet {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet not found: %s", sheet)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return NewDataFrame()
	}

	var headers []string
	if opt.HasHeader {
		headers = rows[0]
		rows = rows[1:]
	}

	// GetRows drops trailing empty cells, so the widest row sets the width
	width := len(headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i := len(headers); i < width; i++ {
		headers = append(headers, fmt.Sprintf("column_%d", i))
	}

	columns := make([]*Series, width)
	for i, name := range headers {
		dtype := String
		if opt.InferTypes {
			dtype = inferColumnType(rows, i, opt.NullValues)
		}
		col, err := buildColumn(name, dtype, rows, i, opt.NullValues)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns[i] = col
	}

	return NewDataFrame(columns...)
}

// ExcelWriteOptions configures spreadsheet writing behavior
type ExcelWriteOptions struct {
	Sheet string // Sheet name (default "Sheet1")
}

// DefaultExcelWriteOptions returns default spreadsheet writing options
func DefaultExcelWriteOptions() ExcelWriteOptions {
	return ExcelWriteOptions{Sheet: "Sheet1"}
}

// WriteExcel writes a DataFrame to an .xlsx workbook with a header row.
// Null cells are left empty.
func (df *DataFrame) WriteExcel(path string, opts ...ExcelWriteOptions) error {
	f, err := df.excelFile(opts...)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

// WriteExcelToWriter writes a DataFrame as an .xlsx workbook to w
func (df *DataFrame) WriteExcelToWriter(w io.Writer, opts ...ExcelWriteOptions) error {
	f, err := df.excelFile(opts...)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func (df *DataFrame) excelFile(opts ...ExcelWriteOptions) (*excelize.File, error) {
	opt := DefaultExcelWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Sheet == "" {
		opt.Sheet = "Sheet1"
	}

	f := excelize.NewFile()
	if opt.Sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", opt.Sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	header := make([]interface{}, df.Width())
	for i, name := range df.ColumnNames() {
		header[i] = name
	}
	if err := f.SetSheetRow(opt.Sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for row := 0; row < df.Height(); row++ {
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := df.Row(row)
		if err := f.SetSheetRow(opt.Sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return f, nil
}
