package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Builder accumulates loosely typed values into a Series of a fixed dtype.
// Readers use it to turn decoded cells into columns.
type Builder struct {
	name  string
	dtype DType
	data  interface{}
	valid []bool
	n     int
}

// NewBuilder creates a builder for a series of the given dtype.
func NewBuilder(name string, dtype DType, capacity int) *Builder {
	b := &Builder{name: name, dtype: dtype, valid: make([]bool, 0, capacity)}
	switch dtype {
	case Float64:
		b.data = make([]float64, 0, capacity)
	case Float32:
		b.data = make([]float32, 0, capacity)
	case Int64:
		b.data = make([]int64, 0, capacity)
	case Int32:
		b.data = make([]int32, 0, capacity)
	case Bool:
		b.data = make([]bool, 0, capacity)
	case String:
		b.data = make([]string, 0, capacity)
	}
	return b
}

// Len returns the number of values appended so far.
func (b *Builder) Len() int {
	return b.n
}

// Append converts v to the builder's dtype and appends it. nil appends a null.
func (b *Builder) Append(v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	if b.dtype == Null {
		return fmt.Errorf("cannot append %v to a Null series", v)
	}
	cv, err := convertValue(v, b.dtype)
	if err != nil {
		return err
	}
	switch d := b.data.(type) {
	case []float64:
		b.data = append(d, cv.(float64))
	case []float32:
		b.data = append(d, cv.(float32))
	case []int64:
		b.data = append(d, cv.(int64))
	case []int32:
		b.data = append(d, cv.(int32))
	case []bool:
		b.data = append(d, cv.(bool))
	case []string:
		b.data = append(d, cv.(string))
	}
	b.valid = append(b.valid, true)
	b.n++
	return nil
}

// AppendNull appends a null value.
func (b *Builder) AppendNull() {
	switch d := b.data.(type) {
	case []float64:
		b.data = append(d, 0)
	case []float32:
		b.data = append(d, 0)
	case []int64:
		b.data = append(d, 0)
	case []int32:
		b.data = append(d, 0)
	case []bool:
		b.data = append(d, false)
	case []string:
		b.data = append(d, "")
	}
	b.valid = append(b.valid, false)
	b.n++
}

// Finish returns the built series. The builder must not be used afterwards.
func (b *Builder) Finish() *Series {
	return newSeries(b.name, b.dtype, b.data, b.valid, b.n)
}

// Cast converts the series to another dtype.
// Floats cast to integers only when every value is integral; strings are
// parsed; anything casts to String by formatting.
func (s *Series) Cast(dtype DType) (*Series, error) {
	if dtype == s.dtype {
		return s, nil
	}
	if s.dtype == Null {
		return NewSeriesNull(s.name, dtype, s.length), nil
	}
	if dtype == Null {
		return nil, fmt.Errorf("cannot cast %s series %q to Null", s.dtype, s.name)
	}
	b := NewBuilder(s.name, dtype, s.length)
	for i := 0; i < s.length; i++ {
		if err := b.Append(s.Get(i)); err != nil {
			return nil, fmt.Errorf("cast %q to %s: row %d: %w", s.name, dtype, i, err)
		}
	}
	return b.Finish(), nil
}

// FormatValue renders a non-null value the way it is written to text formats.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// convertValue converts a Go value into the representation used by dtype.
func convertValue(v interface{}, dtype DType) (interface{}, error) {
	if dtype == String {
		return FormatValue(normalizeGoValue(v)), nil
	}

	switch x := normalizeGoValue(v).(type) {
	case int64:
		switch dtype {
		case Int64:
			return x, nil
		case Int32:
			if x < math.MinInt32 || x > math.MaxInt32 {
				return nil, fmt.Errorf("value %d overflows Int32", x)
			}
			return int32(x), nil
		case Float64:
			return float64(x), nil
		case Float32:
			return float32(x), nil
		case Bool:
			return x != 0, nil
		}
	case float64:
		switch dtype {
		case Float64:
			return x, nil
		case Float32:
			return float32(x), nil
		case Int64, Int32:
			if x != math.Trunc(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("cannot cast %v to %s without losing precision", x, dtype)
			}
			return convertValue(int64(x), dtype)
		case Bool:
			return x != 0, nil
		}
	case bool:
		switch dtype {
		case Bool:
			return x, nil
		case Int64, Int32, Float64, Float32:
			if x {
				return convertValue(int64(1), dtype)
			}
			return convertValue(int64(0), dtype)
		}
	case string:
		s := strings.TrimSpace(x)
		switch dtype {
		case Int64, Int32:
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as %s", x, dtype)
			}
			return convertValue(i, dtype)
		case Float64, Float32:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as %s", x, dtype)
			}
			return convertValue(f, dtype)
		case Bool:
			bv, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as Bool", x)
			}
			return bv, nil
		}
	case time.Time:
		return nil, fmt.Errorf("cannot convert time %v to %s", x, dtype)
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, dtype)
}

// normalizeGoValue widens Go scalar types to int64, float64, bool or string.
func normalizeGoValue(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case []byte:
		return string(x)
	default:
		return v
	}
}

// inferValuesType picks the narrowest dtype that holds every non-nil value.
func inferValuesType(values []interface{}) (DType, error) {
	var hasInt, hasFloat, hasBool, hasString bool
	for _, v := range values {
		switch normalizeGoValue(v).(type) {
		case nil:
		case int64:
			hasInt = true
		case float64:
			hasFloat = true
		case bool:
			hasBool = true
		case string, time.Time:
			hasString = true
		default:
			return Null, fmt.Errorf("unsupported value type %T", v)
		}
	}

	switch {
	case hasString && (hasInt || hasFloat || hasBool):
		return Null, fmt.Errorf("mixed string and non-string values")
	case hasBool && (hasInt || hasFloat):
		return Null, fmt.Errorf("mixed bool and numeric values")
	case hasString:
		return String, nil
	case hasFloat:
		return Float64, nil
	case hasInt:
		return Int64, nil
	case hasBool:
		return Bool, nil
	default:
		return Null, nil
	}
}
