package update

import (
	"fmt"

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/validation"
)

type validateConfig struct {
	distinct bool
}

// ValidateOption adjusts ValidateJoinKeys.
type ValidateOption func(c *validateConfig)

// WithoutDistinct skips the uniqueness check and only looks for whitespace.
func WithoutDistinct() ValidateOption {
	return func(c *validateConfig) {
		c.distinct = false
	}
}

// ValidateJoinKeys checks the key columns of both tables for leading and
// trailing whitespace and, unless WithoutDistinct is given, repeated values.
// Each table is checked on its own. Problems, including missing columns, are
// reported as KeyValidation diagnostics; neither table is altered.
func ValidateJoinKeys(left, right *frame.DataFrame, keys []string, opts ...ValidateOption) Diagnostics {
	cfg := validateConfig{distinct: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	rules := []validation.Validation{
		validation.LeadingWhitespace(),
		validation.TrailingWhitespace(),
	}
	if cfg.distinct {
		rules = append(rules, validation.IsDistinct())
	}
	schema := validation.NewSchema(keys, rules...)

	var diags Diagnostics
	for _, side := range []struct {
		name string
		df   *frame.DataFrame
	}{{"left", left}, {"right", right}} {
		if side.df == nil {
			diags = append(diags, Diagnostic{
				Kind:    KeyValidation,
				Message: fmt.Sprintf("%s: table is nil", side.name),
			})
			continue
		}
		for _, w := range schema.Validate(side.df) {
			diags = append(diags, Diagnostic{
				Kind:    KeyValidation,
				Message: fmt.Sprintf("%s: %s", side.name, w),
				Columns: []string{w.Column},
			})
		}
	}
	return diags
}

// keySet collects the complete key tuples of cols.
func keySet(df *frame.DataFrame, cols []string) map[string]struct{} {
	series := columnsOf(df, cols)
	set := make(map[string]struct{}, df.Height())
	for row := 0; row < df.Height(); row++ {
		if key, ok := frame.RowKey(series, row); ok {
			set[key] = struct{}{}
		}
	}
	return set
}

// overlap compares the key tuples of both tables. It returns the number of
// shared tuples and whether every tuple of sub also occurs in super.
func overlap(sub, super map[string]struct{}) (shared int, contained bool) {
	contained = true
	for key := range sub {
		if _, ok := super[key]; ok {
			shared++
		} else {
			contained = false
		}
	}
	return shared, contained
}

func columnsOf(df *frame.DataFrame, names []string) []*frame.Series {
	cols := make([]*frame.Series, len(names))
	for i, name := range names {
		cols[i] = df.ColumnByName(name)
	}
	return cols
}

// duplicateCount counts rows whose tuple over cols repeats an earlier row.
// Null positions compare equal to each other.
func duplicateCount(df *frame.DataFrame, cols []string) int {
	series := columnsOf(df, cols)
	seen := make(map[string]struct{}, df.Height())
	count := 0
	buf := make([]byte, 0, 32)
	for row := 0; row < df.Height(); row++ {
		buf = buf[:0]
		for _, s := range series {
			var ok bool
			buf, ok = s.AppendKey(buf, row)
			if !ok {
				buf = append(buf, 0)
			}
		}
		key := string(buf)
		if _, ok := seen[key]; ok {
			count++
			continue
		}
		seen[key] = struct{}{}
	}
	return count
}
