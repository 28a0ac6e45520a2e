package frame

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// JSONFormat specifies the JSON layout
type JSONFormat int

const (
	// JSONRecords is an array of row objects: [{"a":1,"b":2}, {"a":3,"b":4}]
	JSONRecords JSONFormat = iota
	// JSONColumns is an object of column arrays: {"a":[1,3],"b":[2,4]}
	JSONColumns
)

// String returns the format name.
func (f JSONFormat) String() string {
	switch f {
	case JSONRecords:
		return "records"
	case JSONColumns:
		return "columns"
	default:
		return fmt.Sprintf("JSONFormat(%d)", int(f))
	}
}

// JSONReadOptions configures JSON reading behavior
type JSONReadOptions struct {
	Format      JSONFormat       // Expected format
	ColumnTypes map[string]DType // Force column types
}

// DefaultJSONReadOptions returns default JSON reading options
func DefaultJSONReadOptions() JSONReadOptions {
	return JSONReadOptions{
		Format: JSONRecords,
	}
}

// ReadJSON reads a JSON file into a DataFrame
func ReadJSON(path string, opts ...JSONReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadJSONFromReader(f, opts...)
}

// ReadJSONFromReader reads JSON data from an io.Reader into a DataFrame.
// Column order follows the order keys are first seen.
func ReadJSONFromReader(r io.Reader, opts ...JSONReadOptions) (*DataFrame, error) {
	opt := DefaultJSONReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	switch opt.Format {
	case JSONRecords:
		return readJSONRecords(data, opt)
	case JSONColumns:
		return readJSONColumns(data, opt)
	default:
		return nil, fmt.Errorf("unknown JSON format: %d", opt.Format)
	}
}

// orderedObject is a decoded JSON object that remembers key order.
type orderedObject struct {
	keys   []string
	values map[string]interface{}
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	o.values = make(map[string]interface{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if _, seen := o.values[key]; !seen {
			o.keys = append(o.keys, key)
		}
		o.values[key] = v
	}
	_, err = dec.Token()
	return err
}

func readJSONRecords(data []byte, opt JSONReadOptions) (*DataFrame, error) {
	var records []orderedObject
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if len(records) == 0 {
		return NewDataFrame()
	}

	// Collect all column names
	colNames := make([]string, 0)
	colSet := make(map[string]bool)
	for _, record := range records {
		for _, key := range record.keys {
			if !colSet[key] {
				colNames = append(colNames, key)
				colSet[key] = true
			}
		}
	}

	columns := make([]*Series, len(colNames))
	for i, name := range colNames {
		values := make([]interface{}, len(records))
		for row, record := range records {
			v, err := jsonScalar(record.values[name])
			if err != nil {
				return nil, fmt.Errorf("column '%s' row %d: %w", name, row, err)
			}
			values[row] = v
		}
		col, err := buildJSONColumn(name, values, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns[i] = col
	}

	return NewDataFrame(columns...)
}

func readJSONColumns(data []byte, opt JSONReadOptions) (*DataFrame, error) {
	var obj orderedObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	columns := make([]*Series, 0, len(obj.keys))
	for _, name := range obj.keys {
		raw, ok := obj.values[name].([]interface{})
		if !ok {
			return nil, fmt.Errorf("column '%s' is not an array", name)
		}
		values := make([]interface{}, len(raw))
		for i, v := range raw {
			sv, err := jsonScalar(v)
			if err != nil {
				return nil, fmt.Errorf("column '%s' row %d: %w", name, i, err)
			}
			values[i] = sv
		}
		col, err := buildJSONColumn(name, values, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns = append(columns, col)
	}

	return NewDataFrame(columns...)
}

// jsonScalar maps a decoded JSON value onto a Go scalar.
// Numbers become int64 when integral in the source text, float64 otherwise.
func jsonScalar(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case nil, bool, string:
		return x, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", x.String())
		}
		return f, nil
	default:
		return nil, fmt.Errorf("nested JSON values are not supported (%T)", v)
	}
}

func buildJSONColumn(name string, values []interface{}, opt JSONReadOptions) (*Series, error) {
	dtype, ok := opt.ColumnTypes[name]
	if !ok {
		var err error
		dtype, err = inferValuesType(values)
		if err != nil {
			return nil, err
		}
	}
	if dtype == Null {
		return NewSeriesNull(name, Null, len(values)), nil
	}
	return NewSeriesOf(name, dtype, values)
}

// JSONWriteOptions configures JSON writing behavior
type JSONWriteOptions struct {
	Format JSONFormat // Output format
	Indent string     // Indent string (default "", no indent)
}

// DefaultJSONWriteOptions returns default JSON writing options
func DefaultJSONWriteOptions() JSONWriteOptions {
	return JSONWriteOptions{
		Format: JSONRecords,
		Indent: "",
	}
}

// WriteJSON writes a DataFrame to a JSON file
func (df *DataFrame) WriteJSON(path string, opts ...JSONWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := df.WriteJSONToWriter(bw, opts...); err != nil {
		return err
	}
	return bw.Flush()
}

// jsonField is one key/value pair of an ordered JSON object.
type jsonField struct {
	key   string
	value interface{}
}

// orderedFields marshals as a JSON object with keys in slice order.
type orderedFields []jsonField

func (o orderedFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue returns the value at row i with nulls and non-finite floats as nil.
func jsonValue(s *Series, i int) interface{} {
	v := s.Get(i)
	switch f := v.(type) {
	case float64:
		if math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}

// WriteJSONToWriter writes a DataFrame to an io.Writer
func (df *DataFrame) WriteJSONToWriter(w io.Writer, opts ...JSONWriteOptions) error {
	opt := DefaultJSONWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	var data interface{}
	height := df.Height()

	switch opt.Format {
	case JSONRecords:
		records := make([]orderedFields, height)
		for i := 0; i < height; i++ {
			record := make(orderedFields, len(df.columns))
			for j, col := range df.columns {
				record[j] = jsonField{key: col.Name(), value: jsonValue(col, i)}
			}
			records[i] = record
		}
		data = records

	case JSONColumns:
		colData := make(orderedFields, len(df.columns))
		for j, col := range df.columns {
			vals := make([]interface{}, col.Len())
			for i := range vals {
				vals[i] = jsonValue(col, i)
			}
			colData[j] = jsonField{key: col.Name(), value: vals}
		}
		data = colData

	default:
		return fmt.Errorf("unknown JSON format: %d", opt.Format)
	}

	encoder := json.NewEncoder(w)
	if opt.Indent != "" {
		encoder.SetIndent("", opt.Indent)
	}

	return encoder.Encode(data)
}
