package frame

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Parquet key/value metadata keys written alongside the data.
// parquet groups order their fields by name, so the column order is kept here.
const (
	ParquetColumnsMetadataKey = "pandas_utils.columns"
	ParquetIndexMetadataKey   = "pandas_utils.index"
)

// ParquetReadOptions configures Parquet reading behavior
type ParquetReadOptions struct {
	Columns []string // Only read these columns (nil = all)
	MaxRows int      // Max rows to read (0 = unlimited)
}

// DefaultParquetReadOptions returns default Parquet reading options
func DefaultParquetReadOptions() ParquetReadOptions {
	return ParquetReadOptions{}
}

// ReadParquet reads a Parquet file into a DataFrame
func ReadParquet(path string, opts ...ParquetReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ReadParquetFromReader(f, stat.Size(), opts...)
}

// ReadParquetFromReader reads Parquet data from an io.ReaderAt into a DataFrame
func ReadParquetFromReader(r io.ReaderAt, size int64, opts ...ParquetReadOptions) (*DataFrame, error) {
	opt := DefaultParquetReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := pf.Schema()

	// Determine columns to read
	colNames := opt.Columns
	if len(colNames) == 0 {
		colNames = parquetColumnOrder(pf)
	}

	builders := make([]*Builder, len(colNames))
	colIndices := make([]int, len(colNames))
	for i, name := range colNames {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("column '%s' not found in parquet file", name)
		}
		colIndices[i] = leaf.ColumnIndex
		builders[i] = NewBuilder(name, parquetNodeToDType(leaf.Node), int(pf.NumRows()))
	}

	rowCount := 0
	rowBuf := make([]parquet.Row, 1000)
	for _, rg := range pf.RowGroups() {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}

		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(rowBuf)
			for _, row := range rowBuf[:n] {
				if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
					break
				}
				if appendErr := appendParquetRow(builders, colIndices, row); appendErr != nil {
					rows.Close()
					return nil, fmt.Errorf("row %d: %w", rowCount, appendErr)
				}
				rowCount++
			}
			if err == io.EOF || n == 0 {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read rows: %w", err)
			}
			if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
				break
			}
		}
		rows.Close()
	}

	columns := make([]*Series, len(colNames))
	for i, b := range builders {
		columns[i] = b.Finish()
	}

	df, err := NewDataFrame(columns...)
	if err != nil {
		return nil, err
	}

	if raw, ok := pf.Lookup(ParquetIndexMetadataKey); ok {
		var index []string
		if err := json.Unmarshal([]byte(raw), &index); err != nil {
			return nil, fmt.Errorf("invalid %s metadata: %w", ParquetIndexMetadataKey, err)
		}
		if len(index) > 0 {
			if indexed, err := df.SetIndex(index...); err == nil {
				return indexed, nil
			}
		}
	}
	return df, nil
}

// parquetColumnOrder returns the original column order when the writer
// recorded it, else the schema field order.
func parquetColumnOrder(pf *parquet.File) []string {
	if raw, ok := pf.Lookup(ParquetColumnsMetadataKey); ok {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil && len(names) > 0 {
			return names
		}
	}
	fields := pf.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

func appendParquetRow(builders []*Builder, colIndices []int, row parquet.Row) error {
	for i, colIdx := range colIndices {
		b := builders[i]
		if colIdx >= len(row) {
			b.AppendNull()
			continue
		}
		val := row[colIdx]
		if val.IsNull() {
			b.AppendNull()
			continue
		}
		var err error
		switch b.dtype {
		case Float64:
			err = b.Append(val.Double())
		case Float32:
			err = b.Append(val.Float())
		case Int64:
			err = b.Append(val.Int64())
		case Int32:
			err = b.Append(val.Int32())
		case Bool:
			err = b.Append(val.Boolean())
		case Null:
			b.AppendNull()
		default:
			err = b.Append(string(val.ByteArray()))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func parquetNodeToDType(node parquet.Node) DType {
	t := node.Type()
	if t == nil {
		return String
	}
	switch t.Kind() {
	case parquet.Boolean:
		return Bool
	case parquet.Int32:
		return Int32
	case parquet.Int64:
		return Int64
	case parquet.Float:
		return Float32
	case parquet.Double:
		return Float64
	default:
		return String
	}
}

// ParquetWriteOptions configures Parquet writing behavior
type ParquetWriteOptions struct {
	Compression string // "snappy", "gzip", "zstd", "none" (default "snappy")
}

// DefaultParquetWriteOptions returns default Parquet writing options
func DefaultParquetWriteOptions() ParquetWriteOptions {
	return ParquetWriteOptions{
		Compression: "snappy",
	}
}

// WriteParquet writes a DataFrame to a Parquet file
func (df *DataFrame) WriteParquet(path string, opts ...ParquetWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return df.WriteParquetToWriter(f, opts...)
}

// WriteParquetToWriter writes a DataFrame to an io.Writer.
// Every column is written as an optional leaf so nulls survive.
func (df *DataFrame) WriteParquetToWriter(w io.Writer, opts ...ParquetWriteOptions) error {
	opt := DefaultParquetWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	if df.Width() == 0 {
		return fmt.Errorf("cannot write parquet without columns")
	}

	group := make(parquet.Group)
	for _, col := range df.columns {
		group[col.Name()] = parquet.Optional(dtypeToParquetNode(col.DType()))
	}
	schema := parquet.NewSchema("dataframe", group)

	colOrder, err := json.Marshal(df.ColumnNames())
	if err != nil {
		return err
	}

	writerOpts := []parquet.WriterOption{
		schema,
		parquet.KeyValueMetadata(ParquetColumnsMetadataKey, string(colOrder)),
	}
	if df.HasIndex() {
		index, err := json.Marshal(df.index)
		if err != nil {
			return err
		}
		writerOpts = append(writerOpts, parquet.KeyValueMetadata(ParquetIndexMetadataKey, string(index)))
	}
	switch opt.Compression {
	case "snappy":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Snappy))
	case "gzip":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Gzip))
	case "zstd":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Zstd))
	case "none", "":
	default:
		return fmt.Errorf("unknown parquet compression: %s", opt.Compression)
	}

	// Map each frame column to its leaf position in the sorted schema
	leafIndex := make([]int, df.Width())
	for j, col := range df.columns {
		leaf, ok := schema.Lookup(col.Name())
		if !ok {
			return fmt.Errorf("column '%s' missing from parquet schema", col.Name())
		}
		leafIndex[j] = leaf.ColumnIndex
	}

	pw := parquet.NewWriter(w, writerOpts...)

	height := df.Height()
	width := df.Width()
	batchSize := 1000

	rows := make([]parquet.Row, 0, batchSize)
	for i := 0; i < height; i++ {
		row := make(parquet.Row, width)
		for j, col := range df.columns {
			ci := leafIndex[j]
			if col.IsNull(i) {
				row[ci] = parquet.NullValue().Level(0, 0, ci)
				continue
			}
			row[ci] = toParquetValue(col.Get(i), col.DType()).Level(0, 1, ci)
		}
		rows = append(rows, row)

		if len(rows) >= batchSize {
			if _, err := pw.WriteRows(rows); err != nil {
				pw.Close()
				return fmt.Errorf("failed to write rows at %d: %w", i-len(rows)+1, err)
			}
			rows = rows[:0]
		}
	}

	if len(rows) > 0 {
		if _, err := pw.WriteRows(rows); err != nil {
			pw.Close()
			return fmt.Errorf("failed to write final rows: %w", err)
		}
	}

	return pw.Close()
}

func dtypeToParquetNode(dtype DType) parquet.Node {
	switch dtype {
	case Float64:
		return parquet.Leaf(parquet.DoubleType)
	case Float32:
		return parquet.Leaf(parquet.FloatType)
	case Int64:
		return parquet.Leaf(parquet.Int64Type)
	case Int32:
		return parquet.Leaf(parquet.Int32Type)
	case Bool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}

func toParquetValue(v interface{}, dtype DType) parquet.Value {
	switch dtype {
	case Float64:
		if f, ok := v.(float64); ok {
			return parquet.DoubleValue(f)
		}
	case Float32:
		if f, ok := v.(float32); ok {
			return parquet.FloatValue(f)
		}
	case Int64:
		if i, ok := v.(int64); ok {
			return parquet.Int64Value(i)
		}
	case Int32:
		if i, ok := v.(int32); ok {
			return parquet.Int32Value(i)
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return parquet.BooleanValue(b)
		}
	}
	return parquet.ByteArrayValue([]byte(FormatValue(v)))
}
