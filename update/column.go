package update

import (
	"fmt"

	"github.com/alexwohletz/pandas-utils/frame"
)

// ColumnOptions configures UpdateColumn.
type ColumnOptions struct {
	// FillNA fills rows left without a match with right[rightCol] at the
	// same position.
	FillNA bool
	// Validate checks how the key values of both tables overlap.
	Validate bool
}

// DefaultColumnOptions enables both filling and validation.
func DefaultColumnOptions() ColumnOptions {
	return ColumnOptions{FillNA: true, Validate: true}
}

// UpdateColumn runs the convenience lookup with a silent Updater.
func UpdateColumn(left, right *frame.DataFrame, on, rightCol string, opts ColumnOptions) (*frame.Series, Diagnostics, error) {
	return defaultUpdater.UpdateColumn(left, right, on, rightCol, opts)
}

// UpdateColumn looks up right[rightCol] for every row of left by the shared
// key column on. The result has left's length and is named rightCol; rows
// without a match are null unless FillNA is set. Neither table is modified.
func (u *Updater) UpdateColumn(left, right *frame.DataFrame, on, rightCol string, opts ColumnOptions) (*frame.Series, Diagnostics, error) {
	if left == nil || right == nil {
		return nil, nil, u.fail(newError(InvalidOptions, Validating, "left and right tables are required"))
	}
	if on == "" || rightCol == "" {
		return nil, nil, u.fail(newError(InvalidOptions, Validating, "key column and right column are required"))
	}
	if !right.HasColumn(rightCol) {
		return nil, nil, u.fail(newError(ColumnNotFound, Validating, "%q not found in right table", rightCol).
			withTable("right").withColumns(rightCol))
	}
	if !left.HasColumn(on) || !right.HasColumn(on) {
		e := newError(KeyNotShared, Validating, "key %q must exist in both tables", on).withColumns(on)
		switch {
		case left.HasColumn(on):
			e.Table = "right"
		case right.HasColumn(on):
			e.Table = "left"
		}
		return nil, nil, u.fail(e)
	}

	keys := []string{on}
	var diags Diagnostics
	if opts.Validate {
		shared, contained := overlap(keySet(right, keys), keySet(left, keys))
		if contained {
			d := Diagnostic{
				Kind:    PartialKeyOverlap,
				Message: fmt.Sprintf("not all %q values match, the result may contain nulls", on),
				Columns: keys,
			}
			diags = append(diags, d)
			u.logger.Warnf("%s", d)
		}
		if shared == 0 {
			return nil, diags, u.fail(newError(NoOverlap, Validating, "%q shares no values between the tables", on).
				withColumns(on))
		}
	}

	rightOn := right.ColumnByName(on)
	lookup := make(map[string][]int, right.Height())
	for row := 0; row < right.Height(); row++ {
		if key, ok := frame.RowKey([]*frame.Series{rightOn}, row); ok {
			lookup[key] = append(lookup[key], row)
		}
	}

	leftOn := left.ColumnByName(on)
	indices := make([]int, left.Height())
	for row := range indices {
		indices[row] = -1
		key, ok := frame.RowKey([]*frame.Series{leftOn}, row)
		if !ok {
			continue
		}
		switch matches := lookup[key]; len(matches) {
		case 0:
		case 1:
			indices[row] = matches[0]
		default:
			count := duplicateCount(right, keys)
			return nil, diags, u.fail(&Error{
				Kind:    DuplicateJoinKey,
				Stage:   Projecting,
				Table:   "right",
				Columns: keys,
				Count:   count,
				Message: fmt.Sprintf("%q value %v occurs %d times in right, %d duplicate(s) in total",
					on, leftOn.Get(row), len(matches), count),
			})
		}
	}

	src := right.ColumnByName(rightCol)
	out := src.Take(indices)

	if opts.FillNA {
		var rows []int
		for row := 0; row < out.Len() && row < src.Len(); row++ {
			if out.IsNull(row) && !src.IsNull(row) {
				rows = append(rows, row)
			}
		}
		filled, err := out.Scatter(rows, src, rows)
		if err != nil {
			return nil, diags, u.fail(newError(IncompatibleTypes, Merging, "cannot fill %q", rightCol).wrap(err))
		}
		out = filled
		u.logger.Debugf("filled %d unmatched row(s) of %q by position", len(rows), rightCol)
	}
	return out, diags, nil
}
