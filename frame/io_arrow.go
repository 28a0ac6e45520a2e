package frame

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ArrowIndexMetadataKey is the schema metadata key that carries the index
// column names, comma separated.
const ArrowIndexMetadataKey = "pandas_utils.index"

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports a DataFrame to an Arrow Record.
// The caller is responsible for calling Release() on the returned Record.
func (df *DataFrame) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	schema, err := df.arrowSchema()
	if err != nil {
		return nil, err
	}

	// Convert each column to Arrow array
	arrays := make([]arrow.Array, df.Width())
	for i, col := range df.columns {
		arr, err := seriesToArrowArray(col, mem)
		if err != nil {
			// Clean up already created arrays
			for j := 0; j < i; j++ {
				arrays[j].Release()
			}
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		arrays[i] = arr
	}

	record := array.NewRecord(schema, arrays, int64(df.Height()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}

	return record, nil
}

// ToArrowTable exports a DataFrame to an Arrow Table.
// The caller is responsible for calling Release() on the returned Table.
func (df *DataFrame) ToArrowTable(mem memory.Allocator) (arrow.Table, error) {
	record, err := df.ToArrow(mem)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	return array.NewTableFromRecords(record.Schema(), []arrow.Record{record}), nil
}

func (df *DataFrame) arrowSchema() (*arrow.Schema, error) {
	fields := make([]arrow.Field, df.Width())
	for i, col := range df.columns {
		arrowType, err := dtypeToArrowType(col.DType())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		fields[i] = arrow.Field{Name: col.Name(), Type: arrowType, Nullable: true}
	}
	var meta *arrow.Metadata
	if df.HasIndex() {
		m := arrow.NewMetadata([]string{ArrowIndexMetadataKey}, []string{strings.Join(df.index, ",")})
		meta = &m
	}
	return arrow.NewSchema(fields, meta), nil
}

// dtypeToArrowType converts a DType to an Arrow DataType
func dtypeToArrowType(dtype DType) (arrow.DataType, error) {
	switch dtype {
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case Null:
		return arrow.Null, nil
	default:
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}

// seriesToArrowArray converts a Series to an Arrow Array, nulls included
func seriesToArrowArray(s *Series, mem memory.Allocator) (arrow.Array, error) {
	valid := s.Validity()

	switch s.DType() {
	case Float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Float64(), valid)
		return builder.NewArray(), nil

	case Float32:
		builder := array.NewFloat32Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Float32(), valid)
		return builder.NewArray(), nil

	case Int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Int64(), valid)
		return builder.NewArray(), nil

	case Int32:
		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Int32(), valid)
		return builder.NewArray(), nil

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.Bool(), valid)
		return builder.NewArray(), nil

	case String:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.Strings(), valid)
		return builder.NewArray(), nil

	case Null:
		builder := array.NewNullBuilder(mem)
		defer builder.Release()
		builder.AppendEmptyValues(s.Len())
		return builder.NewArray(), nil

	default:
		return nil, fmt.Errorf("unsupported dtype for Arrow export: %s", s.DType())
	}
}

// ============================================================================
// Arrow Import
// ============================================================================

// NewDataFrameFromArrow creates a DataFrame from an Arrow Record.
// An index recorded in the schema metadata is restored.
func NewDataFrameFromArrow(record arrow.Record) (*DataFrame, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}

	schema := record.Schema()
	numCols := int(record.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		s, err := arrowArrayToSeries(field.Name, record.Column(i))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	df, err := NewDataFrame(series...)
	if err != nil {
		return nil, err
	}
	return restoreArrowIndex(df, schema)
}

// NewDataFrameFromArrowTable creates a DataFrame from an Arrow Table.
// Chunks of each column are concatenated.
func NewDataFrameFromArrowTable(table arrow.Table) (*DataFrame, error) {
	if table == nil {
		return nil, fmt.Errorf("table is nil")
	}

	schema := table.Schema()
	numCols := int(table.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		chunks := table.Column(i).Data().Chunks()

		parts := make([]*Series, len(chunks))
		for j, chunk := range chunks {
			s, err := arrowArrayToSeries(field.Name, chunk)
			if err != nil {
				return nil, fmt.Errorf("column %s chunk %d: %w", field.Name, j, err)
			}
			parts[j] = s
		}

		s, err := concatSeries(field.Name, parts)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	df, err := NewDataFrame(series...)
	if err != nil {
		return nil, err
	}
	return restoreArrowIndex(df, schema)
}

func restoreArrowIndex(df *DataFrame, schema *arrow.Schema) (*DataFrame, error) {
	md := schema.Metadata()
	i := md.FindKey(ArrowIndexMetadataKey)
	if i < 0 || md.Values()[i] == "" {
		return df, nil
	}
	return df.SetIndex(strings.Split(md.Values()[i], ",")...)
}

// concatSeries joins same-typed parts into one series.
func concatSeries(name string, parts []*Series) (*Series, error) {
	if len(parts) == 0 {
		return NewSeriesNull(name, Null, 0), nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	total := 0
	for _, p := range parts {
		total += p.Len()
	}
	b := NewBuilder(name, parts[0].DType(), total)
	for _, p := range parts {
		for i := 0; i < p.Len(); i++ {
			if err := b.Append(p.Get(i)); err != nil {
				return nil, err
			}
		}
	}
	return b.Finish(), nil
}

// arrowValidity returns the validity of every slot in arr.
func arrowValidity(arr arrow.Array) []bool {
	valid := make([]bool, arr.Len())
	for i := range valid {
		valid[i] = arr.IsValid(i)
	}
	return valid
}

// arrowArrayToSeries converts an Arrow Array to a Series
func arrowArrayToSeries(name string, arr arrow.Array) (*Series, error) {
	n := arr.Len()
	switch a := arr.(type) {
	case *array.Float64:
		return newSeries(name, Float64, append([]float64(nil), a.Float64Values()...), arrowValidity(a), n), nil

	case *array.Float32:
		return newSeries(name, Float32, append([]float32(nil), a.Float32Values()...), arrowValidity(a), n), nil

	case *array.Int64:
		return newSeries(name, Int64, append([]int64(nil), a.Int64Values()...), arrowValidity(a), n), nil

	case *array.Int32:
		return newSeries(name, Int32, append([]int32(nil), a.Int32Values()...), arrowValidity(a), n), nil

	case *array.Int16:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(a.Value(i))
		}
		return newSeries(name, Int32, data, arrowValidity(a), n), nil

	case *array.Int8:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(a.Value(i))
		}
		return newSeries(name, Int32, data, arrowValidity(a), n), nil

	case *array.Uint32:
		data := make([]int64, n)
		for i := range data {
			data[i] = int64(a.Value(i))
		}
		return newSeries(name, Int64, data, arrowValidity(a), n), nil

	case *array.Boolean:
		data := make([]bool, n)
		for i := range data {
			data[i] = a.Value(i)
		}
		return newSeries(name, Bool, data, arrowValidity(a), n), nil

	case *array.String:
		data := make([]string, n)
		for i := range data {
			data[i] = a.Value(i)
		}
		return newSeries(name, String, data, arrowValidity(a), n), nil

	case *array.LargeString:
		data := make([]string, n)
		for i := range data {
			data[i] = a.Value(i)
		}
		return newSeries(name, String, data, arrowValidity(a), n), nil

	case *array.Null:
		return NewSeriesNull(name, Null, n), nil

	case *array.Dictionary:
		// Dictionary encoded strings are decoded to a plain String column
		dict, ok := a.Dictionary().(*array.String)
		if !ok {
			return nil, fmt.Errorf("unsupported dictionary value type: %T", a.Dictionary())
		}
		data := make([]string, n)
		for i := range data {
			if a.IsValid(i) {
				data[i] = dict.Value(a.GetValueIndex(i))
			}
		}
		return newSeries(name, String, data, arrowValidity(a), n), nil

	default:
		return nil, fmt.Errorf("unsupported Arrow array type: %T", arr)
	}
}

// ============================================================================
// Arrow IPC files
// ============================================================================

// ReadArrowIPC reads an Arrow IPC file into a DataFrame.
func ReadArrowIPC(path string) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadArrowIPCFromReader(f)
}

// ReadArrowIPCFromReader reads Arrow IPC file data into a DataFrame.
func ReadArrowIPCFromReader(r ipc.ReadAtSeeker) (*DataFrame, error) {
	mem := memory.DefaultAllocator
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer fr.Close()

	records := make([]arrow.Record, 0, fr.NumRecords())
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", i, err)
		}
		// The reader owns rec until the next call.
		rec.Retain()
		records = append(records, rec)
	}

	table := array.NewTableFromRecords(fr.Schema(), records)
	defer table.Release()

	return NewDataFrameFromArrowTable(table)
}

// WriteArrowIPC writes a DataFrame to an Arrow IPC file.
func (df *DataFrame) WriteArrowIPC(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return df.WriteArrowIPCToWriter(f)
}

// WriteArrowIPCToWriter writes a DataFrame in the Arrow IPC file format.
func (df *DataFrame) WriteArrowIPCToWriter(w io.Writer) error {
	mem := memory.DefaultAllocator
	record, err := df.ToArrow(mem)
	if err != nil {
		return err
	}
	defer record.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(record.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("failed to create arrow writer: %w", err)
	}
	if err := fw.Write(record); err != nil {
		fw.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	return fw.Close()
}
