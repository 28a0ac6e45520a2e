package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/logger"
)

func TestValidateJoinKeys(t *testing.T) {
	left, err := frame.NewDataFrame(
		frame.NewSeriesString("key", []string{"a", " b", "c "}),
		frame.NewSeriesInt64("key2", []int64{1, 2, 3}),
	)
	require.NoError(t, err)

	diags := ValidateJoinKeys(left, df2(t), []string{"key", "key2"})
	assert.Equal(t, []string{
		`KeyValidation: left: {row: 1, column: "key"}: " b" contains leading whitespace`,
		`KeyValidation: left: {row: 2, column: "key"}: "c " contains trailing whitespace`,
		`KeyValidation: right: {row: 4, column: "key"}: "c" contains a value that is not unique`,
		`KeyValidation: right: {row: 4, column: "key2"}: "3" contains a value that is not unique`,
	}, diags.Strings())
	for _, d := range diags {
		assert.Len(t, d.Columns, 1)
	}

	lenient := ValidateJoinKeys(left, df2(t), []string{"key", "key2"}, WithoutDistinct())
	assert.Len(t, lenient, 2)
}

func TestValidateJoinKeysMissingColumns(t *testing.T) {
	diags := ValidateJoinKeys(df1(t), df2(t), []string{"attr11"})
	require.Len(t, diags, 1)
	assert.Equal(t, `right: {column: "attr11"}: column not found in data frame`, diags[0].Message)

	diags = ValidateJoinKeys(nil, df2(t), []string{"key"})
	assert.Equal(t, "left: table is nil", diags[0].Message)
}

func TestValidateJoinKeysClean(t *testing.T) {
	assert.Empty(t, ValidateJoinKeys(df1(t), df1(t), []string{"key", "key2"}))
}

func TestUpdaterValidateJoinKeysLogs(t *testing.T) {
	buf := logger.NewBufferLogger()
	diags := New(WithLogger(buf)).ValidateJoinKeys(df1(t), df2(t), []string{"key"})

	require.Len(t, diags, 1)
	assert.Equal(t, "WARN:  "+diags[0].String()+"\n", buf.String())
}
