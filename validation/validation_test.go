package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwohletz/pandas-utils/frame"
)

func TestWhitespaceValidations(t *testing.T) {
	s := frame.NewSeriesStringWithNulls("key",
		[]string{"a", " b", "c ", "\td\n", ""},
		[]bool{true, true, true, true, false},
	)

	leading := LeadingWhitespace().Validate(s)
	require.Len(t, leading, 2)
	assert.Equal(t, 1, leading[0].Row)
	assert.Equal(t, 3, leading[1].Row)

	trailing := TrailingWhitespace().Validate(s)
	require.Len(t, trailing, 2)
	assert.Equal(t, 2, trailing[0].Row)
	assert.Equal(t, 3, trailing[1].Row)

	assert.Equal(t, `{row: 1, column: "key"}: " b" contains leading whitespace`, leading[0].String())
}

func TestWhitespaceIgnoresNonStrings(t *testing.T) {
	s := frame.NewSeriesInt64("n", []int64{1, 2})
	assert.Empty(t, LeadingWhitespace().Validate(s))
	assert.Empty(t, TrailingWhitespace().Validate(s))
}

func TestIsDistinct(t *testing.T) {
	s := frame.NewSeriesStringWithNulls("key",
		[]string{"a", "b", "a", "", "", "a"},
		[]bool{true, true, true, false, false, true},
	)

	warnings := IsDistinct().Validate(s)
	require.Len(t, warnings, 2)
	assert.Equal(t, 2, warnings[0].Row)
	assert.Equal(t, 5, warnings[1].Row)
	assert.Equal(t, "a", warnings[0].Value)

	ints := frame.NewSeriesInt64("n", []int64{5, 14, 4, 3})
	assert.Empty(t, IsDistinct().Validate(ints))
}

func TestSchemaValidate(t *testing.T) {
	df := frame.MustNewDataFrame(
		frame.NewSeriesString("key", []string{"a ", "b", "b"}),
		frame.NewSeriesInt64("key2", []int64{1, 2, 3}),
	)

	schema := NewSchema([]string{"key", "key2", "missing"},
		LeadingWhitespace(), TrailingWhitespace(), IsDistinct())
	warnings := schema.Validate(df)

	var got []string
	for _, w := range warnings {
		got = append(got, w.String())
	}
	assert.Equal(t, []string{
		`{row: 0, column: "key"}: "a " contains trailing whitespace`,
		`{row: 2, column: "key"}: "b" contains a value that is not unique`,
		`{column: "missing"}: column not found in data frame`,
	}, got)
}

func TestSchemaCustomValidation(t *testing.T) {
	nonEmpty := ValidationFunc(func(s *frame.Series) []Warning {
		var out []Warning
		for i := 0; i < s.Len(); i++ {
			if s.IsNull(i) {
				out = append(out, Warning{Row: i, Column: s.Name(), Message: "is null"})
			}
		}
		return out
	})

	df := frame.MustNewDataFrame(
		frame.NewSeriesInt64WithNulls("n", []int64{1, 0}, []bool{true, false}),
	)
	schema := &Schema{Columns: []Column{{Name: "n", Validations: []Validation{nonEmpty}}}}

	warnings := schema.Validate(df)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Row)
}
