package frame

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Series is a named, typed, nullable column.
// The backing slice is one of []float64, []float32, []int64, []int32, []bool
// or []string depending on the dtype; a Null series has no backing slice.
// A Series is never mutated after construction, so frames may share them.
type Series struct {
	name   string
	dtype  DType
	data   interface{}
	valid  []bool // nil means every position is valid
	length int
}

func newSeries(name string, dtype DType, data interface{}, valid []bool, length int) *Series {
	return &Series{
		name:   name,
		dtype:  dtype,
		data:   data,
		valid:  normalizeValidity(valid, length),
		length: length,
	}
}

// normalizeValidity copies valid and returns nil when every position is valid.
// Positions beyond len(valid) are treated as valid.
func normalizeValidity(valid []bool, length int) []bool {
	if valid == nil {
		return nil
	}
	allValid := true
	for i := 0; i < length && i < len(valid); i++ {
		if !valid[i] {
			allValid = false
			break
		}
	}
	if allValid {
		return nil
	}
	out := make([]bool, length)
	for i := range out {
		out[i] = i >= len(valid) || valid[i]
	}
	return out
}

// NewSeriesFloat64 creates a Float64 Series from a Go slice.
// The data is copied.
func NewSeriesFloat64(name string, data []float64) *Series {
	return newSeries(name, Float64, append([]float64(nil), data...), nil, len(data))
}

// NewSeriesFloat32 creates a Float32 Series from a Go slice.
func NewSeriesFloat32(name string, data []float32) *Series {
	return newSeries(name, Float32, append([]float32(nil), data...), nil, len(data))
}

// NewSeriesInt64 creates an Int64 Series from a Go slice.
func NewSeriesInt64(name string, data []int64) *Series {
	return newSeries(name, Int64, append([]int64(nil), data...), nil, len(data))
}

// NewSeriesInt32 creates an Int32 Series from a Go slice.
func NewSeriesInt32(name string, data []int32) *Series {
	return newSeries(name, Int32, append([]int32(nil), data...), nil, len(data))
}

// NewSeriesBool creates a Bool Series from a Go slice.
func NewSeriesBool(name string, data []bool) *Series {
	return newSeries(name, Bool, append([]bool(nil), data...), nil, len(data))
}

// NewSeriesString creates a String Series from a Go slice.
func NewSeriesString(name string, data []string) *Series {
	return newSeries(name, String, append([]string(nil), data...), nil, len(data))
}

// NewSeriesFloat64WithNulls creates a Float64 Series with null values.
// The valid slice indicates which values are valid (true) vs null (false).
func NewSeriesFloat64WithNulls(name string, data []float64, valid []bool) *Series {
	return newSeries(name, Float64, append([]float64(nil), data...), valid, len(data))
}

// NewSeriesInt64WithNulls creates an Int64 Series with null values.
func NewSeriesInt64WithNulls(name string, data []int64, valid []bool) *Series {
	return newSeries(name, Int64, append([]int64(nil), data...), valid, len(data))
}

// NewSeriesStringWithNulls creates a String Series with null values.
func NewSeriesStringWithNulls(name string, data []string, valid []bool) *Series {
	return newSeries(name, String, append([]string(nil), data...), valid, len(data))
}

// NewSeriesBoolWithNulls creates a Bool Series with null values.
func NewSeriesBoolWithNulls(name string, data []bool, valid []bool) *Series {
	return newSeries(name, Bool, append([]bool(nil), data...), valid, len(data))
}

// NewSeriesNull creates a Series of length n where every value is null.
// The dtype decides what values the column can later hold.
func NewSeriesNull(name string, dtype DType, n int) *Series {
	valid := make([]bool, n)
	return newSeries(name, dtype, makeData(dtype, n), valid, n)
}

// NewSeriesFromValues creates a Series from loosely typed values, inferring
// the dtype. nil entries become nulls. Integers and floats may be mixed (the
// result is Float64); strings and bools may not be mixed with anything else.
func NewSeriesFromValues(name string, values []interface{}) (*Series, error) {
	dtype, err := inferValuesType(values)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", name, err)
	}
	return NewSeriesOf(name, dtype, values)
}

// NewSeriesOf creates a Series of the given dtype, converting each value.
func NewSeriesOf(name string, dtype DType, values []interface{}) (*Series, error) {
	b := NewBuilder(name, dtype, len(values))
	for i, v := range values {
		if err := b.Append(v); err != nil {
			return nil, fmt.Errorf("series %q row %d: %w", name, i, err)
		}
	}
	return b.Finish(), nil
}

func makeData(dtype DType, n int) interface{} {
	switch dtype {
	case Float64:
		return make([]float64, n)
	case Float32:
		return make([]float32, n)
	case Int64:
		return make([]int64, n)
	case Int32:
		return make([]int32, n)
	case Bool:
		return make([]bool, n)
	case String:
		return make([]string, n)
	default:
		return nil
	}
}

// ============================================================================
// Access
// ============================================================================

// Name returns the series name
func (s *Series) Name() string {
	return s.name
}

// DType returns the data type
func (s *Series) DType() DType {
	return s.dtype
}

// Len returns the number of elements
func (s *Series) Len() int {
	return s.length
}

// IsNull reports whether the value at index is null.
// NaN in a floating point column counts as null.
func (s *Series) IsNull(index int) bool {
	if s.dtype == Null {
		return true
	}
	if s.valid != nil && !s.valid[index] {
		return true
	}
	switch d := s.data.(type) {
	case []float64:
		return math.IsNaN(d[index])
	case []float32:
		return math.IsNaN(float64(d[index]))
	}
	return false
}

// IsValid reports whether the value at index is not null.
func (s *Series) IsValid(index int) bool {
	return !s.IsNull(index)
}

// NullCount returns the number of null values
func (s *Series) NullCount() int {
	n := 0
	for i := 0; i < s.length; i++ {
		if s.IsNull(i) {
			n++
		}
	}
	return n
}

// HasNulls returns true if the series has any null values
func (s *Series) HasNulls() bool {
	for i := 0; i < s.length; i++ {
		if s.IsNull(i) {
			return true
		}
	}
	return false
}

// Get returns the value at index as an interface{}, or nil if it is null.
func (s *Series) Get(index int) interface{} {
	if s.IsNull(index) {
		return nil
	}
	switch d := s.data.(type) {
	case []float64:
		return d[index]
	case []float32:
		return d[index]
	case []int64:
		return d[index]
	case []int32:
		return d[index]
	case []bool:
		return d[index]
	case []string:
		return d[index]
	}
	return nil
}

// GetFloat64 returns a numeric value widened to float64.
func (s *Series) GetFloat64(index int) (float64, bool) {
	if s.IsNull(index) {
		return 0, false
	}
	switch d := s.data.(type) {
	case []float64:
		return d[index], true
	case []float32:
		return float64(d[index]), true
	case []int64:
		return float64(d[index]), true
	case []int32:
		return float64(d[index]), true
	}
	return 0, false
}

// GetInt64 returns an integer value widened to int64.
func (s *Series) GetInt64(index int) (int64, bool) {
	if s.IsNull(index) {
		return 0, false
	}
	switch d := s.data.(type) {
	case []int64:
		return d[index], true
	case []int32:
		return int64(d[index]), true
	}
	return 0, false
}

// GetString returns the value of a String series.
func (s *Series) GetString(index int) (string, bool) {
	if d, ok := s.data.([]string); ok && !s.IsNull(index) {
		return d[index], true
	}
	return "", false
}

// GetBool returns the value of a Bool series.
func (s *Series) GetBool(index int) (bool, bool) {
	if d, ok := s.data.([]bool); ok && !s.IsNull(index) {
		return d[index], true
	}
	return false, false
}

// Float64 returns the underlying data for a Float64 series (read-only, no copy).
func (s *Series) Float64() []float64 {
	d, _ := s.data.([]float64)
	return d
}

// Float32 returns the underlying data for a Float32 series (read-only, no copy).
func (s *Series) Float32() []float32 {
	d, _ := s.data.([]float32)
	return d
}

// Int64 returns the underlying data for an Int64 series (read-only, no copy).
func (s *Series) Int64() []int64 {
	d, _ := s.data.([]int64)
	return d
}

// Int32 returns the underlying data for an Int32 series (read-only, no copy).
func (s *Series) Int32() []int32 {
	d, _ := s.data.([]int32)
	return d
}

// Bool returns the underlying data for a Bool series (read-only, no copy).
func (s *Series) Bool() []bool {
	d, _ := s.data.([]bool)
	return d
}

// Strings returns the underlying data for a String series (read-only, no copy).
func (s *Series) Strings() []string {
	d, _ := s.data.([]string)
	return d
}

// Validity returns a copy of the validity mask with one entry per row.
func (s *Series) Validity() []bool {
	out := make([]bool, s.length)
	for i := range out {
		out[i] = !s.IsNull(i)
	}
	return out
}

// Values returns all values as interfaces, with nil for nulls.
func (s *Series) Values() []interface{} {
	out := make([]interface{}, s.length)
	for i := range out {
		out[i] = s.Get(i)
	}
	return out
}

// ============================================================================
// Transformations
// ============================================================================

// Rename returns the same data under a new name.
func (s *Series) Rename(name string) *Series {
	return &Series{name: name, dtype: s.dtype, data: s.data, valid: s.valid, length: s.length}
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	out := &Series{name: s.name, dtype: s.dtype, length: s.length}
	switch d := s.data.(type) {
	case []float64:
		out.data = append([]float64(nil), d...)
	case []float32:
		out.data = append([]float32(nil), d...)
	case []int64:
		out.data = append([]int64(nil), d...)
	case []int32:
		out.data = append([]int32(nil), d...)
	case []bool:
		out.data = append([]bool(nil), d...)
	case []string:
		out.data = append([]string(nil), d...)
	}
	if s.valid != nil {
		out.valid = append([]bool(nil), s.valid...)
	}
	return out
}

// Take gathers the rows at indices into a new series.
// A negative index produces a null.
func (s *Series) Take(indices []int) *Series {
	n := len(indices)
	data := makeData(s.dtype, n)
	valid := make([]bool, n)
	for i, idx := range indices {
		if idx < 0 || s.IsNull(idx) {
			continue
		}
		valid[i] = true
		copyValue(data, i, s.data, idx)
	}
	return newSeries(s.name, s.dtype, data, valid, n)
}

// copyValue copies src[srcIdx] into dst[dstIdx]; both slices share a type.
func copyValue(dst interface{}, dstIdx int, src interface{}, srcIdx int) {
	switch d := dst.(type) {
	case []float64:
		d[dstIdx] = src.([]float64)[srcIdx]
	case []float32:
		d[dstIdx] = src.([]float32)[srcIdx]
	case []int64:
		d[dstIdx] = src.([]int64)[srcIdx]
	case []int32:
		d[dstIdx] = src.([]int32)[srcIdx]
	case []bool:
		d[dstIdx] = src.([]bool)[srcIdx]
	case []string:
		d[dstIdx] = src.([]string)[srcIdx]
	}
}

// Filter returns the rows where mask is true.
func (s *Series) Filter(mask []bool) (*Series, error) {
	if len(mask) != s.length {
		return nil, fmt.Errorf("mask length %d does not match series length %d", len(mask), s.length)
	}
	indices := make([]int, 0, CountMask(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return s.Take(indices), nil
}

// CountMask returns the number of true values in a boolean mask
func CountMask(mask []bool) int {
	count := 0
	for _, v := range mask {
		if v {
			count++
		}
	}
	return count
}

// Slice returns rows [start, end). Bounds are clamped.
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > s.length {
		end = s.length
	}
	if start >= end {
		return s.Take(nil)
	}
	indices := make([]int, end-start)
	for i := range indices {
		indices[i] = start + i
	}
	return s.Take(indices)
}

// Head returns the first n elements
func (s *Series) Head(n int) *Series {
	return s.Slice(0, n)
}

// Tail returns the last n elements
func (s *Series) Tail(n int) *Series {
	return s.Slice(s.length-n, s.length)
}

// Scatter returns a copy of s where row rows[k] holds src's value at
// srcRows[k]. Null source values produce nulls. src must share s's dtype.
func (s *Series) Scatter(rows []int, src *Series, srcRows []int) (*Series, error) {
	if src.dtype != s.dtype {
		return nil, fmt.Errorf("cannot scatter %s values into %s series %q", src.dtype, s.dtype, s.name)
	}
	if len(rows) != len(srcRows) {
		return nil, fmt.Errorf("rows and srcRows must have same length: %d != %d", len(rows), len(srcRows))
	}
	out := s.Clone()
	if out.valid == nil {
		out.valid = make([]bool, out.length)
		for i := range out.valid {
			out.valid[i] = true
		}
	}
	for k, row := range rows {
		if row < 0 || row >= out.length {
			return nil, fmt.Errorf("row %d out of range [0, %d)", row, out.length)
		}
		sr := srcRows[k]
		if src.IsNull(sr) {
			out.valid[row] = false
			continue
		}
		copyValue(out.data, row, src.data, sr)
		out.valid[row] = true
	}
	out.valid = normalizeValidity(out.valid, out.length)
	return out, nil
}

// IsIn returns a mask that is true where the value also occurs in other.
// Nulls never match.
func (s *Series) IsIn(other *Series) []bool {
	set := make(map[string]struct{}, other.length)
	var buf []byte
	for i := 0; i < other.length; i++ {
		var ok bool
		buf, ok = other.AppendKey(buf[:0], i)
		if ok {
			set[string(buf)] = struct{}{}
		}
	}
	mask := make([]bool, s.length)
	for i := range mask {
		var ok bool
		buf, ok = s.AppendKey(buf[:0], i)
		if !ok {
			continue
		}
		_, mask[i] = set[string(buf)]
	}
	return mask
}

// Equal reports whether two series have the same name, dtype, nulls and values.
func (s *Series) Equal(other *Series) bool {
	if other == nil || s.name != other.name || s.dtype != other.dtype || s.length != other.length {
		return false
	}
	for i := 0; i < s.length; i++ {
		if s.IsNull(i) != other.IsNull(i) {
			return false
		}
		if !s.IsNull(i) && s.Get(i) != other.Get(i) {
			return false
		}
	}
	return true
}

// ============================================================================
// Keys
// ============================================================================

const (
	keyTagInt    = 'i'
	keyTagFloat  = 'f'
	keyTagString = 's'
	keyTagBool   = 'b'
)

// AppendKey appends a canonical encoding of the value at index to buf for use
// in hash joins and set membership. Integral floats encode like integers, so
// 5 and 5.0 compare equal while "5" and 5 do not. Returns false for nulls.
func (s *Series) AppendKey(buf []byte, index int) ([]byte, bool) {
	if s.IsNull(index) {
		return buf, false
	}
	switch d := s.data.(type) {
	case []int64:
		return appendIntKey(buf, d[index]), true
	case []int32:
		return appendIntKey(buf, int64(d[index])), true
	case []float64:
		return appendFloatKey(buf, d[index]), true
	case []float32:
		return appendFloatKey(buf, float64(d[index])), true
	case []bool:
		if d[index] {
			return append(buf, keyTagBool, 1), true
		}
		return append(buf, keyTagBool, 0), true
	case []string:
		buf = append(buf, keyTagString)
		buf = binary.AppendUvarint(buf, uint64(len(d[index])))
		return append(buf, d[index]...), true
	}
	return buf, false
}

func appendIntKey(buf []byte, v int64) []byte {
	buf = append(buf, keyTagInt)
	return binary.BigEndian.AppendUint64(buf, uint64(v))
}

func appendFloatKey(buf []byte, f float64) []byte {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return appendIntKey(buf, int64(f))
	}
	buf = append(buf, keyTagFloat)
	return binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
}

// RowKey encodes the values of cols at row as a single comparable key.
// Returns false if any of the values is null.
func RowKey(cols []*Series, row int) (string, bool) {
	buf := make([]byte, 0, 16*len(cols))
	for _, col := range cols {
		var ok bool
		buf, ok = col.AppendKey(buf, row)
		if !ok {
			return "", false
		}
	}
	return string(buf), true
}
