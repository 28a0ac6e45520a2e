package frame

import (
	"fmt"
)

// DataFrame is an ordered collection of equally long Series.
// It optionally carries an index: an ordered list of column names that
// designate row identity. Index columns stay ordinary columns.
//
// Operations return new frames that may share Series with the receiver;
// use Clone for an independent deep copy.
type DataFrame struct {
	columns  []*Series
	colIndex map[string]int
	index    []string
	height   int
}

// ============================================================================
// Creation
// ============================================================================

// NewDataFrame creates a DataFrame from columns.
// All series must have the same length and distinct names.
func NewDataFrame(columns ...*Series) (*DataFrame, error) {
	df := &DataFrame{colIndex: make(map[string]int, len(columns))}
	for i, s := range columns {
		if s == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if i == 0 {
			df.height = s.Len()
		} else if s.Len() != df.height {
			return nil, fmt.Errorf("column '%s' has length %d, expected %d", s.Name(), s.Len(), df.height)
		}
		if _, exists := df.colIndex[s.Name()]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", s.Name())
		}
		df.colIndex[s.Name()] = len(df.columns)
		df.columns = append(df.columns, s)
	}
	return df, nil
}

// MustNewDataFrame is like NewDataFrame but panics on error.
// Intended for fixtures and examples.
func MustNewDataFrame(columns ...*Series) *DataFrame {
	df, err := NewDataFrame(columns...)
	if err != nil {
		panic(err)
	}
	return df
}

func (df *DataFrame) withColumns(columns []*Series, index []string) *DataFrame {
	out, err := NewDataFrame(columns...)
	if err != nil {
		// Callers only pass columns taken from a valid frame.
		panic(err)
	}
	if len(columns) == 0 {
		out.height = df.height
	}
	for _, name := range index {
		if !out.HasColumn(name) {
			index = nil
			break
		}
	}
	out.index = append([]string(nil), index...)
	if len(out.index) == 0 {
		out.index = nil
	}
	return out
}

// ============================================================================
// Access
// ============================================================================

// Height returns the number of rows in the DataFrame.
func (df *DataFrame) Height() int {
	return df.height
}

// Width returns the number of columns in the DataFrame.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Shape returns (rows, columns).
func (df *DataFrame) Shape() (int, int) {
	return df.height, len(df.columns)
}

// Column returns the Series at position i.
func (df *DataFrame) Column(i int) *Series {
	if i < 0 || i >= len(df.columns) {
		return nil
	}
	return df.columns[i]
}

// ColumnByName returns the Series with the given name, or nil if not found.
func (df *DataFrame) ColumnByName(name string) *Series {
	if i, ok := df.colIndex[name]; ok {
		return df.columns[i]
	}
	return nil
}

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.colIndex[name]
	return ok
}

// Columns returns the series in column order.
func (df *DataFrame) Columns() []*Series {
	return append([]*Series(nil), df.columns...)
}

// ColumnNames returns the names of all columns in order.
func (df *DataFrame) ColumnNames() []string {
	names := make([]string, len(df.columns))
	for i, s := range df.columns {
		names[i] = s.Name()
	}
	return names
}

// Schema returns the column names and dtypes.
func (df *DataFrame) Schema() *Schema {
	dtypes := make([]DType, len(df.columns))
	for i, s := range df.columns {
		dtypes[i] = s.DType()
	}
	schema, _ := NewSchema(df.ColumnNames(), dtypes)
	return schema
}

// Row returns the values of row i, with nil for nulls.
func (df *DataFrame) Row(i int) []interface{} {
	row := make([]interface{}, len(df.columns))
	for j, s := range df.columns {
		row[j] = s.Get(i)
	}
	return row
}

// ============================================================================
// Index
// ============================================================================

// Index returns the index column names, or nil when the frame uses the
// default positional index.
func (df *DataFrame) Index() []string {
	return append([]string(nil), df.index...)
}

// HasIndex reports whether an index is set.
func (df *DataFrame) HasIndex() bool {
	return len(df.index) > 0
}

// IndexEquals reports whether the index is exactly cols, in order.
func (df *DataFrame) IndexEquals(cols []string) bool {
	if len(df.index) != len(cols) {
		return false
	}
	for i := range cols {
		if df.index[i] != cols[i] {
			return false
		}
	}
	return true
}

// SetIndex designates cols as the row identity.
func (df *DataFrame) SetIndex(cols ...string) (*DataFrame, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("SetIndex requires at least one column")
	}
	for _, name := range cols {
		if !df.HasColumn(name) {
			return nil, fmt.Errorf("column '%s' not found", name)
		}
	}
	return df.withColumns(df.columns, cols), nil
}

// ResetIndex returns the frame with the default positional index.
func (df *DataFrame) ResetIndex() *DataFrame {
	return df.withColumns(df.columns, nil)
}

// IndexKeys returns the encoded index tuple of every row, and whether each
// row's tuple is complete (no nulls). The frame must have an index.
func (df *DataFrame) IndexKeys() ([]string, []bool) {
	cols := make([]*Series, len(df.index))
	for i, name := range df.index {
		cols[i] = df.ColumnByName(name)
	}
	keys := make([]string, df.height)
	ok := make([]bool, df.height)
	for row := 0; row < df.height; row++ {
		keys[row], ok[row] = RowKey(cols, row)
	}
	return keys, ok
}

// ============================================================================
// Selection
// ============================================================================

// Select returns a new DataFrame with only the specified columns.
func (df *DataFrame) Select(columns ...string) (*DataFrame, error) {
	selected := make([]*Series, 0, len(columns))
	for _, name := range columns {
		s := df.ColumnByName(name)
		if s == nil {
			return nil, fmt.Errorf("column '%s' not found", name)
		}
		selected = append(selected, s)
	}
	return NewDataFrame(selected...)
}

// Drop returns a new DataFrame without the specified columns.
// Unknown names are ignored.
func (df *DataFrame) Drop(columns ...string) *DataFrame {
	dropSet := make(map[string]bool, len(columns))
	for _, name := range columns {
		dropSet[name] = true
	}
	kept := make([]*Series, 0, len(df.columns))
	for _, s := range df.columns {
		if !dropSet[s.Name()] {
			kept = append(kept, s)
		}
	}
	return df.withColumns(kept, df.index)
}

// WithColumn adds a column, or replaces the column with the same name.
func (df *DataFrame) WithColumn(series *Series) (*DataFrame, error) {
	if series == nil {
		return nil, fmt.Errorf("series is nil")
	}
	if len(df.columns) > 0 && series.Len() != df.height {
		return nil, fmt.Errorf("column '%s' has length %d, expected %d", series.Name(), series.Len(), df.height)
	}
	cols := append([]*Series(nil), df.columns...)
	if i, ok := df.colIndex[series.Name()]; ok {
		cols[i] = series
	} else {
		cols = append(cols, series)
	}
	return df.withColumns(cols, df.index), nil
}

// Rename renames a column.
func (df *DataFrame) Rename(oldName, newName string) (*DataFrame, error) {
	i, ok := df.colIndex[oldName]
	if !ok {
		return nil, fmt.Errorf("column '%s' not found", oldName)
	}
	if oldName == newName {
		return df, nil
	}
	if df.HasColumn(newName) {
		return nil, fmt.Errorf("column '%s' already exists", newName)
	}
	cols := append([]*Series(nil), df.columns...)
	cols[i] = cols[i].Rename(newName)
	index := df.Index()
	for j := range index {
		if index[j] == oldName {
			index[j] = newName
		}
	}
	return df.withColumns(cols, index), nil
}

// Filter returns the rows where mask is true.
func (df *DataFrame) Filter(mask []bool) (*DataFrame, error) {
	if len(mask) != df.height {
		return nil, fmt.Errorf("mask length %d does not match DataFrame height %d", len(mask), df.height)
	}
	indices := make([]int, 0, CountMask(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return df.Take(indices), nil
}

// Take gathers rows by position. Negative positions produce null rows.
func (df *DataFrame) Take(indices []int) *DataFrame {
	cols := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		cols[i] = s.Take(indices)
	}
	out := df.withColumns(cols, df.index)
	out.height = len(indices)
	return out
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	return df.Slice(0, n)
}

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int) *DataFrame {
	return df.Slice(df.height-n, df.height)
}

// Slice returns rows [start, end). Bounds are clamped.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	if start < 0 {
		start = 0
	}
	if end > df.height {
		end = df.height
	}
	if start > end {
		start = end
	}
	indices := make([]int, end-start)
	for i := range indices {
		indices[i] = start + i
	}
	return df.Take(indices)
}

// Clone returns a deep copy of the DataFrame, index included.
func (df *DataFrame) Clone() *DataFrame {
	cols := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		cols[i] = s.Clone()
	}
	out := df.withColumns(cols, df.index)
	out.height = df.height
	return out
}

// Equal reports whether two frames have the same columns, values and index.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if other == nil || df.height != other.height || len(df.columns) != len(other.columns) {
		return false
	}
	if !df.IndexEquals(other.index) {
		return false
	}
	for i, s := range df.columns {
		if !s.Equal(other.columns[i]) {
			return false
		}
	}
	return true
}
