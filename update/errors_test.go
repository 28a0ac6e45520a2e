package update

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	err := newError(IncompatibleTypes, Merging, "cannot store %q", "x").wrap(cause)

	assert.Equal(t, `IncompatibleTypes while merging: cannot store "x": boom`, err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrIncompatibleTypes))

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, IsKind(wrapped, IncompatibleTypes))
	assert.Equal(t, IncompatibleTypes, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(cause))
}

func TestKindAndStageNames(t *testing.T) {
	for kind, want := range map[Kind]string{
		ColumnNotFound:     "ColumnNotFound",
		KeyNotShared:       "KeyNotShared",
		NoOverlap:          "NoOverlap",
		JoinProducedNoRows: "JoinProducedNoRows",
		DuplicateJoinKey:   "DuplicateJoinKey",
		InvalidOptions:     "InvalidOptions",
		IncompatibleTypes:  "IncompatibleTypes",
	} {
		assert.Equal(t, want, kind.String())
		assert.True(t, errors.Is(&Error{Kind: kind}, sentinels[kind]))
	}
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "projecting", Projecting.String())
}

func TestDiagnostics(t *testing.T) {
	ds := Diagnostics{
		{Kind: IndexNotSet, Message: "index not set"},
		{Kind: KeyValidation, Message: "one"},
		{Kind: KeyValidation, Message: "two"},
	}
	assert.True(t, ds.Has(IndexNotSet))
	assert.False(t, ds.Has(NewColumn))
	assert.Len(t, ds.OfKind(KeyValidation), 2)
	assert.Equal(t, "IndexNotSet: index not set\nKeyValidation: one\nKeyValidation: two", ds.String())
}
