package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIndex(t *testing.T) {
	df := df1(t)

	once, diags, err := NormalizeIndex(df, []string{"key"})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, IndexNotSet, diags[0].Kind)
	assert.True(t, once.IndexEquals([]string{"key"}))
	assert.False(t, df.HasIndex(), "input was modified")

	twice, diags, err := NormalizeIndex(once, []string{"key"})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.True(t, twice.Equal(once))
}

func TestNormalizeIndexMismatch(t *testing.T) {
	df, err := df1(t).SetIndex("key", "key2")
	require.NoError(t, err)

	out, diags, err := NormalizeIndex(df, []string{"key2", "key"})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, IndexMismatch, diags[0].Kind)
	assert.Equal(t, []string{"key2", "key"}, diags[0].Columns)
	assert.Equal(t, []string{"key2", "key"}, out.Index())
}

func TestNormalizeIndexErrors(t *testing.T) {
	_, _, err := NormalizeIndex(df1(t), nil)
	assert.True(t, IsKind(err, InvalidOptions))

	_, _, err = NormalizeIndex(df1(t), []string{"key", "nope"})
	require.Error(t, err)
	assert.True(t, IsKind(err, ColumnNotFound))

	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"nope"}, ue.Columns)
	assert.Equal(t, "left", ue.Table)
}
