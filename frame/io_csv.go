package frame

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVReadOptions configures CSV reading behavior
type CSVReadOptions struct {
	Delimiter   rune             // Field delimiter (default ',')
	HasHeader   bool             // First row is header (default true)
	ColumnNames []string         // Override column names
	ColumnTypes map[string]DType // Force column types
	InferTypes  bool             // Auto-detect types (default true)
	NullValues  []string         // Strings to treat as null
	SkipRows    int              // Skip first N rows
	MaxRows     int              // Max rows to read (0 = unlimited)
	TrimSpace   bool             // Trim whitespace from values (default false, so key whitespace stays visible)
	Comment     rune             // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter:  ',',
		HasHeader:  true,
		InferTypes: true,
		NullValues: []string{"", "null", "NULL", "NA", "N/A", "nan", "NaN", "None"},
	}
}

// ReadCSV reads a CSV file into a DataFrame
func ReadCSV(path string, opts ...CSVReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSVFromReader(f, opts...)
}

// ReadCSVFromReader reads CSV data from an io.Reader into a DataFrame
func ReadCSVFromReader(r io.Reader, opts ...CSVReadOptions) (*DataFrame, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Delimiter
	if opt.Comment != 0 {
		reader.Comment = opt.Comment
	}

	// Skip rows
	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("failed to skip row %d: %w", i, err)
		}
	}

	// Read header
	var headers []string
	if opt.HasHeader {
		var err error
		headers, err = reader.Read()
		if err == io.EOF {
			return NewDataFrame()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}
	if len(opt.ColumnNames) > 0 {
		headers = opt.ColumnNames
	}

	// Read all data
	var records [][]string
	for {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records), err)
		}

		if opt.TrimSpace {
			for i := range record {
				record[i] = strings.TrimSpace(record[i])
			}
		}

		// Generate headers if needed
		if headers == nil {
			headers = make([]string, len(record))
			for i := range record {
				headers[i] = fmt.Sprintf("column_%d", i)
			}
		}

		records = append(records, record)
	}

	colTypes := make([]DType, len(headers))
	for i := range headers {
		colTypes[i] = String
		if opt.InferTypes {
			colTypes[i] = inferColumnType(records, i, opt.NullValues)
		}
	}

	// Override with specified types
	for name, dtype := range opt.ColumnTypes {
		for i, h := range headers {
			if h == name {
				colTypes[i] = dtype
				break
			}
		}
	}

	columns := make([]*Series, len(headers))
	for i, name := range headers {
		col, err := buildColumn(name, colTypes[i], records, i, opt.NullValues)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns[i] = col
	}

	return NewDataFrame(columns...)
}

func isNull(val string, nullValues []string) bool {
	for _, nv := range nullValues {
		if val == nv {
			return true
		}
	}
	return false
}

func inferColumnType(records [][]string, colIdx int, nullValues []string) DType {
	hasInt := false
	hasFloat := false
	hasBool := false
	hasString := false

	for _, record := range records {
		if colIdx >= len(record) {
			continue
		}
		raw := record[colIdx]
		if isNull(raw, nullValues) {
			continue
		}
		// Values with surrounding whitespace stay strings so the whitespace survives.
		val := strings.TrimSpace(raw)
		if val != raw {
			hasString = true
			continue
		}

		lower := strings.ToLower(val)
		if lower == "true" || lower == "false" {
			hasBool = true
			continue
		}
		if _, err := strconv.ParseInt(val, 10, 64); err == nil {
			hasInt = true
			continue
		}
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			hasFloat = true
			continue
		}

		hasString = true
	}

	// Priority: string > float > int > bool; mixing bools with numbers is a string column
	switch {
	case hasString, hasBool && (hasInt || hasFloat):
		return String
	case hasFloat:
		return Float64
	case hasInt:
		return Int64
	case hasBool:
		return Bool
	default:
		return String
	}
}

func buildColumn(name string, dtype DType, records [][]string, colIdx int, nullValues []string) (*Series, error) {
	b := NewBuilder(name, dtype, len(records))
	for i, record := range records {
		if colIdx >= len(record) || isNull(record[colIdx], nullValues) {
			b.AppendNull()
			continue
		}
		if err := b.Append(record[colIdx]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return b.Finish(), nil
}

// CSVWriteOptions configures CSV writing behavior
type CSVWriteOptions struct {
	Delimiter rune   // Field delimiter (default ',')
	Header    bool   // Write header row (default true)
	NullValue string // String written for nulls (default "")
}

// DefaultCSVWriteOptions returns default CSV writing options
func DefaultCSVWriteOptions() CSVWriteOptions {
	return CSVWriteOptions{
		Delimiter: ',',
		Header:    true,
	}
}

// WriteCSV writes a DataFrame to a CSV file
func (df *DataFrame) WriteCSV(path string, opts ...CSVWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := df.WriteCSVToWriter(bw, opts...); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteCSVToWriter writes a DataFrame as CSV to an io.Writer
func (df *DataFrame) WriteCSVToWriter(w io.Writer, opts ...CSVWriteOptions) error {
	opt := DefaultCSVWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}

	writer := csv.NewWriter(w)
	writer.Comma = opt.Delimiter

	if opt.Header {
		if err := writer.Write(df.ColumnNames()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	record := make([]string, df.Width())
	for row := 0; row < df.Height(); row++ {
		for i, col := range df.columns {
			if col.IsNull(row) {
				record[i] = opt.NullValue
			} else {
				record[i] = FormatValue(col.Get(row))
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
