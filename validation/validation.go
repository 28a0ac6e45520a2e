// Package validation checks frame columns against simple rules and reports
// every violation as a Warning.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alexwohletz/pandas-utils/frame"
)

// Warning describes one failed check. Row is -1 for problems that concern
// the whole column.
type Warning struct {
	Row     int
	Column  string
	Value   string
	Message string
}

// String formats the warning as
// {row: 2, column: "key"}: " a" contains leading whitespace
func (w Warning) String() string {
	if w.Row < 0 {
		return fmt.Sprintf("{column: %q}: %s", w.Column, w.Message)
	}
	return fmt.Sprintf("{row: %d, column: %q}: %q %s", w.Row, w.Column, w.Value, w.Message)
}

// Validation is a single rule applied to every value of a column.
type Validation interface {
	Validate(s *frame.Series) []Warning
}

// ValidationFunc adapts a function to the Validation interface.
type ValidationFunc func(s *frame.Series) []Warning

// Validate calls f(s).
func (f ValidationFunc) Validate(s *frame.Series) []Warning {
	return f(s)
}

// LeadingWhitespace flags string values that start with whitespace.
// Nulls and non-string columns pass.
func LeadingWhitespace() Validation {
	return stringRule("contains leading whitespace", func(v string) bool {
		return strings.TrimLeftFunc(v, unicode.IsSpace) != v
	})
}

// TrailingWhitespace flags string values that end with whitespace.
// Nulls and non-string columns pass.
func TrailingWhitespace() Validation {
	return stringRule("contains trailing whitespace", func(v string) bool {
		return strings.TrimRightFunc(v, unicode.IsSpace) != v
	})
}

func stringRule(message string, bad func(string) bool) Validation {
	return ValidationFunc(func(s *frame.Series) []Warning {
		if s.DType() != frame.String {
			return nil
		}
		var warnings []Warning
		for i := 0; i < s.Len(); i++ {
			v, ok := s.GetString(i)
			if ok && bad(v) {
				warnings = append(warnings, Warning{Row: i, Column: s.Name(), Value: v, Message: message})
			}
		}
		return warnings
	})
}

// IsDistinct flags every value that repeats an earlier one in the column.
// Nulls are ignored.
func IsDistinct() Validation {
	return ValidationFunc(func(s *frame.Series) []Warning {
		seen := make(map[string]struct{}, s.Len())
		var warnings []Warning
		for i := 0; i < s.Len(); i++ {
			key, ok := frame.RowKey([]*frame.Series{s}, i)
			if !ok {
				continue
			}
			if _, dup := seen[key]; dup {
				warnings = append(warnings, Warning{
					Row:     i,
					Column:  s.Name(),
					Value:   frame.FormatValue(s.Get(i)),
					Message: "contains a value that is not unique",
				})
				continue
			}
			seen[key] = struct{}{}
		}
		return warnings
	})
}

// Column binds a set of validations to a column name.
type Column struct {
	Name        string
	Validations []Validation
}

// Schema is an ordered list of column checks.
type Schema struct {
	Columns []Column
}

// NewSchema returns a schema that applies validations to each named column.
func NewSchema(names []string, validations ...Validation) *Schema {
	s := &Schema{Columns: make([]Column, len(names))}
	for i, name := range names {
		s.Columns[i] = Column{Name: name, Validations: validations}
	}
	return s
}

// Validate runs every column check against df. A column missing from df
// yields a single column-level warning.
func (s *Schema) Validate(df *frame.DataFrame) []Warning {
	var warnings []Warning
	for _, col := range s.Columns {
		series := df.ColumnByName(col.Name)
		if series == nil {
			warnings = append(warnings, Warning{
				Row:     -1,
				Column:  col.Name,
				Message: "column not found in data frame",
			})
			continue
		}
		for _, v := range col.Validations {
			warnings = append(warnings, v.Validate(series)...)
		}
	}
	return warnings
}
