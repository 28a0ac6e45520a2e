package update

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexwohletz/pandas-utils/frame"
)

// df1 has four unique (key, key2) rows and a partly null attr12.
func df1(t *testing.T) *frame.DataFrame {
	t.Helper()
	df, err := frame.NewDataFrame(
		frame.NewSeriesString("key", []string{"a", "b", "c", "d"}),
		frame.NewSeriesInt64("key2", []int64{5, 14, 4, 3}),
		frame.NewSeriesInt64("attr11", []int64{9, 61, 9, 1}),
		frame.NewSeriesInt64WithNulls("attr12", []int64{0, 10, 0, 30}, []bool{false, true, false, true}),
	)
	require.NoError(t, err)
	return df
}

// df2 repeats key "c" with a (c, 3) row that has no partner in df1.
func df2(t *testing.T) *frame.DataFrame {
	t.Helper()
	df, err := frame.NewDataFrame(
		frame.NewSeriesString("key", []string{"a", "b", "c", "d", "c"}),
		frame.NewSeriesInt64("key2", []int64{5, 14, 4, 3, 3}),
		frame.NewSeriesInt64("attr21", []int64{19, 16, 9, 1, 19}),
	)
	require.NoError(t, err)
	return df
}

func columnValues(t *testing.T, df *frame.DataFrame, name string) []interface{} {
	t.Helper()
	col := df.ColumnByName(name)
	require.NotNil(t, col, "column %q missing, have %v", name, df.ColumnNames())
	return col.Values()
}
