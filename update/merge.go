package update

import (
	"fmt"

	"github.com/alexwohletz/pandas-utils/frame"
)

// projection is the joined frame reduced to target key tuples and the
// values to assign.
type projection struct {
	values *frame.Series
	rows   map[string][]int // target key tuple -> projection rows
}

func (r *run) project(joined *frame.DataFrame, projCol string) (*projection, error) {
	o := r.opts
	indexed, err := joined.SetIndex(o.TargetKey...)
	if err != nil {
		return nil, newError(ColumnNotFound, Projecting, "target key missing from join result").
			withColumns(o.TargetKey...).wrap(err)
	}
	keys, ok := indexed.IndexKeys()

	p := &projection{
		values: indexed.ColumnByName(projCol).Rename(o.UpdateCol),
		rows:   make(map[string][]int, len(keys)),
	}
	for i, key := range keys {
		if ok[i] {
			p.rows[key] = append(p.rows[key], i)
		}
	}
	r.u.logger.Debugf("projected %d value(s) of %q onto %s", p.values.Len(), o.SourceCol, quoteAll(o.TargetKey))
	return p, nil
}

func (r *run) merge(p *projection) (*Result, error) {
	o := r.opts

	// Align projection rows to left rows by target key.
	leftKeys, leftOK := r.left.IndexKeys()
	var rows, srcRows []int
	for row, key := range leftKeys {
		if !leftOK[row] {
			continue
		}
		matches := p.rows[key]
		switch len(matches) {
		case 0:
		case 1:
			rows = append(rows, row)
			srcRows = append(srcRows, matches[0])
		default:
			return nil, r.u.fail(r.duplicateError(row, len(matches)))
		}
	}

	// Pick the rows to write before touching dtypes so that a run with
	// nothing to assign leaves the update column as it is.
	current := r.left.ColumnByName(o.UpdateCol)
	var dst, src []int
	for k, row := range rows {
		sr := srcRows[k]
		if p.values.IsNull(sr) {
			continue
		}
		if !o.Overwrite && !current.IsNull(row) {
			continue
		}
		dst = append(dst, row)
		src = append(src, sr)
	}

	target, values := current, p.values
	if len(dst) > 0 {
		var err error
		target, values, err = reconcile(current, p.values)
		if err != nil {
			return nil, r.u.fail(newError(IncompatibleTypes, Merging, "cannot store %q values in %q", o.SourceCol, o.UpdateCol).
				withColumns(o.UpdateCol, o.SourceCol).wrap(err))
		}
		if target.DType() != current.DType() {
			r.u.logger.Infof("converting %q from %s to %s", o.UpdateCol, current.DType(), target.DType())
		}
	}

	assignments := make([]Assignment, len(dst))
	for k, row := range dst {
		assignments[k] = Assignment{
			Row: row,
			Key: keyValues(r.left, o.TargetKey, row),
			Old: target.Get(row),
			New: values.Get(src[k]),
		}
	}

	if o.PreviewRows > 0 {
		r.u.logPreview(o.UpdateCol, o.TargetKey, assignments, o.PreviewRows)
	}

	out := r.left.Clone()
	if len(dst) > 0 {
		updated, err := target.Scatter(dst, values, src)
		if err != nil {
			return nil, r.u.fail(newError(IncompatibleTypes, Merging, "cannot assign into %q", o.UpdateCol).
				withColumns(o.UpdateCol).wrap(err))
		}
		if out, err = r.left.WithColumn(updated); err != nil {
			return nil, r.u.fail(newError(InvalidOptions, Merging, "cannot replace %q", o.UpdateCol).wrap(err))
		}
	}
	r.u.logger.Infof("assigned %d value(s) to %q", len(assignments), o.UpdateCol)

	return &Result{
		Frame:       out,
		Diagnostics: r.diags,
		Assignments: assignments,
		UpdateCol:   o.UpdateCol,
		TargetKey:   append([]string(nil), o.TargetKey...),
	}, nil
}

// duplicateError reports a left row whose target key matched more than one
// projected row. Repeated join tuples in right are the usual cause; when
// right is unique the target key repeats in left instead.
func (r *run) duplicateError(row, matches int) *Error {
	o := r.opts
	key := keyValues(r.left, o.TargetKey, row)
	if count := duplicateCount(r.right, o.JoinKeys); count > 0 {
		return &Error{
			Kind:  DuplicateJoinKey,
			Stage: Merging,
			Table: "right",
			Message: fmt.Sprintf("cannot assign %q: target key %v matches %d joined rows, %d duplicate(s) in join column(s) %s; add join columns until they form a unique key",
				o.UpdateCol, key, matches, count, quoteAll(o.JoinKeys)),
			Columns: append([]string(nil), o.JoinKeys...),
			Count:   count,
		}
	}
	count := duplicateCount(r.left, o.TargetKey)
	return &Error{
		Kind:  DuplicateJoinKey,
		Stage: Merging,
		Table: "left",
		Message: fmt.Sprintf("cannot assign %q: target key %v matches %d joined rows, %d duplicate(s) in target key %s; target key is not unique in left",
			o.UpdateCol, key, matches, count, quoteAll(o.TargetKey)),
		Columns: append([]string(nil), o.TargetKey...),
		Count:   count,
	}
}

func keyValues(df *frame.DataFrame, cols []string, row int) []interface{} {
	values := make([]interface{}, len(cols))
	for i, name := range cols {
		values[i] = df.ColumnByName(name).Get(row)
	}
	return values
}

// reconcile brings the update column and the projected values to a common
// dtype. Strings absorb anything; integer targets widen to Float64 for
// floating sources; otherwise the values take the target's dtype.
func reconcile(target, values *frame.Series) (*frame.Series, *frame.Series, error) {
	td, vd := target.DType(), values.DType()
	switch {
	case td == vd:
		return target, values, nil
	case td == frame.Null:
		t, err := target.Cast(vd)
		return t, values, err
	case vd == frame.Null:
		v, err := values.Cast(td)
		return target, v, err
	case td == frame.String || vd == frame.String:
		return castBoth(target, values, frame.String)
	case td == frame.Bool || vd == frame.Bool:
		return nil, nil, fmt.Errorf("cannot mix %s and %s", vd, td)
	case td.IsInteger() && vd.IsFloat():
		return castBoth(target, values, frame.Float64)
	default:
		v, err := values.Cast(td)
		return target, v, err
	}
}

func castBoth(target, values *frame.Series, dtype frame.DType) (*frame.Series, *frame.Series, error) {
	t, err := target.Cast(dtype)
	if err != nil {
		return nil, nil, err
	}
	v, err := values.Cast(dtype)
	if err != nil {
		return nil, nil, err
	}
	return t, v, nil
}
