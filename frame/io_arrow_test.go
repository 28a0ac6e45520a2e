package frame

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
)

func TestArrow_ExportNumeric(t *testing.T) {
	df, _ := NewDataFrame(
		NewSeriesFloat64("f64", []float64{1.0, 2.0, 3.0}),
		NewSeriesInt64("i64", []int64{10, 20, 30}),
		NewSeriesFloat32("f32", []float32{0.1, 0.2, 0.3}),
		NewSeriesInt32("i32", []int32{100, 200, 300}),
	)

	record, err := df.ToArrow(memory.DefaultAllocator)
	if err != nil {
		t.Fatalf("ToArrow failed: %v", err)
	}
	defer record.Release()

	// Verify schema
	schema := record.Schema()
	if schema.NumFields() != 4 {
		t.Errorf("Expected 4 fields, got %d", schema.NumFields())
	}

	// Verify data
	if record.NumRows() != 3 {
		t.Errorf("Expected 3 rows, got %d", record.NumRows())
	}
}

func TestArrow_NullsSurviveRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	df, _ := NewDataFrame(
		NewSeriesInt64WithNulls("n", []int64{1, 0, 3}, []bool{true, false, true}),
		NewSeriesStringWithNulls("s", []string{"", "b", "c"}, []bool{false, true, true}),
		NewSeriesNull("empty", Null, 3),
	)
	df, _ = df.SetIndex("s")

	record, err := df.ToArrow(mem)
	if err != nil {
		t.Fatalf("ToArrow failed: %v", err)
	}
	defer record.Release()

	if record.Column(0).NullN() != 1 {
		t.Errorf("expected 1 null in column n, got %d", record.Column(0).NullN())
	}

	df2, err := NewDataFrameFromArrow(record)
	if err != nil {
		t.Fatalf("NewDataFrameFromArrow failed: %v", err)
	}
	if !df2.Equal(df) {
		t.Errorf("round trip mismatch:\nwant %v\ngot  %v", df, df2)
	}
}

func TestArrow_TableChunks(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{{Name: "x", Type: arrow.PrimitiveTypes.Int64, Nullable: true}}, nil)

	var records []arrow.Record
	for _, chunk := range [][]int64{{1, 2}, {3}} {
		b := array.NewRecordBuilder(mem, schema)
		b.Field(0).(*array.Int64Builder).AppendValues(chunk, nil)
		records = append(records, b.NewRecord())
		b.Release()
	}
	table := array.NewTableFromRecords(schema, records)
	defer table.Release()
	for _, rec := range records {
		rec.Release()
	}

	df, err := NewDataFrameFromArrowTable(table)
	if err != nil {
		t.Fatalf("NewDataFrameFromArrowTable failed: %v", err)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, df.ColumnByName("x").Int64()); diff != "" {
		t.Errorf("x mismatch (-want +got):\n%s", diff)
	}
}

func TestArrow_IPCFile(t *testing.T) {
	df := ioFixture(t)

	path := filepath.Join(t.TempDir(), "test.arrow")
	if err := df.WriteArrowIPC(path); err != nil {
		t.Fatalf("WriteArrowIPC failed: %v", err)
	}

	df2, err := ReadArrowIPC(path)
	if err != nil {
		t.Fatalf("ReadArrowIPC failed: %v", err)
	}
	if !df2.Equal(df) {
		t.Errorf("round trip mismatch:\nwant %v\ngot  %v", df, df2)
	}
}

func TestArrow_IPCFromReader(t *testing.T) {
	df, _ := NewDataFrame(NewSeriesBool("b", []bool{true, false}))

	var buf bytes.Buffer
	if err := df.WriteArrowIPCToWriter(&buf); err != nil {
		t.Fatalf("WriteArrowIPCToWriter failed: %v", err)
	}

	df2, err := ReadArrowIPCFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadArrowIPCFromReader failed: %v", err)
	}
	if !df2.Equal(df) {
		t.Errorf("round trip mismatch:\nwant %v\ngot  %v", df, df2)
	}
}
