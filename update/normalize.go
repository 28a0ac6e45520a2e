package update

import (
	"fmt"
	"strings"

	"github.com/alexwohletz/pandas-utils/frame"
)

// NormalizeIndex returns df indexed by targetKey.
//
// An unset index yields IndexNotSet, a different index yields IndexMismatch.
// A frame already indexed by targetKey is returned unchanged with no
// diagnostics, so the call is idempotent. df itself is never modified.
func NormalizeIndex(df *frame.DataFrame, targetKey []string) (*frame.DataFrame, Diagnostics, error) {
	if len(targetKey) == 0 {
		return nil, nil, newError(InvalidOptions, Normalizing, "target key is required")
	}
	if missing := missingColumns(df, targetKey); len(missing) > 0 {
		return nil, nil, newError(ColumnNotFound, Normalizing, "target key column(s) %s not found", quoteAll(missing)).
			withTable("left").withColumns(missing...)
	}
	if df.IndexEquals(targetKey) {
		return df, nil, nil
	}

	var diag Diagnostic
	if !df.HasIndex() {
		diag = Diagnostic{
			Kind:    IndexNotSet,
			Message: fmt.Sprintf("index not set, setting index to %s", quoteAll(targetKey)),
			Columns: append([]string(nil), targetKey...),
		}
	} else {
		diag = Diagnostic{
			Kind: IndexMismatch,
			Message: fmt.Sprintf("index %s does not match target key, resetting index to %s",
				quoteAll(df.Index()), quoteAll(targetKey)),
			Columns: append([]string(nil), targetKey...),
		}
		df = df.ResetIndex()
	}

	out, err := df.SetIndex(targetKey...)
	if err != nil {
		return nil, nil, newError(ColumnNotFound, Normalizing, "cannot index by target key").wrap(err)
	}
	return out, Diagnostics{diag}, nil
}

func missingColumns(df *frame.DataFrame, names []string) []string {
	var missing []string
	for _, name := range names {
		if !df.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
