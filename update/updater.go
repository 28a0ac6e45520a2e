// Package update assigns values from one table into a column of another by
// joining them, the in-memory equivalent of SQL's UPDATE ... FROM JOIN.
//
// A call deep-copies both inputs, optionally validates the join keys, indexes
// the left table by the target key, joins, projects the source column and
// merges it into the update column. Inputs are never modified. Everything the
// updater corrects on its own is reported as a Diagnostic; anything it cannot
// correct fails with an *Error.
package update

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/logger"
)

// SurrogatePrefix starts the name of the private column used to carry the
// source values through the join.
const SurrogatePrefix = "__src_"

// Updater runs updates. It holds no per-call state and is safe to share.
type Updater struct {
	logger  logger.Logger
	display frame.DisplayConfig
}

// New returns an Updater. Without WithLogger it is silent.
func New(opts ...Option) *Updater {
	u := &Updater{
		logger:  logger.NopLogger,
		display: frame.DefaultDisplayConfig(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

var defaultUpdater = New()

// UpdateJoin runs an update with a silent Updater.
func UpdateJoin(left, right *frame.DataFrame, opts Options) (*Result, error) {
	return defaultUpdater.UpdateJoin(left, right, opts)
}

// Result is a successful update.
type Result struct {
	// Frame is the updated copy of left, indexed by the target key.
	Frame *frame.DataFrame
	// Diagnostics lists every warning raised, in order.
	Diagnostics Diagnostics
	// Assignments are the values written, in left row order.
	Assignments []Assignment

	UpdateCol string
	TargetKey []string
}

// Assignment is one value written into the update column.
type Assignment struct {
	Row int           // left row position
	Key []interface{} // target key values of the row
	Old interface{}   // previous value, nil when null
	New interface{}
}

// ValidateJoinKeys runs the package level ValidateJoinKeys and logs every
// diagnostic as a warning.
func (u *Updater) ValidateJoinKeys(left, right *frame.DataFrame, keys []string, opts ...ValidateOption) Diagnostics {
	diags := ValidateJoinKeys(left, right, keys, opts...)
	for _, d := range diags {
		u.logger.Warnf("%s", d)
	}
	return diags
}

// UpdateJoin assigns right[opts.SourceCol] into left[opts.UpdateCol] for the
// rows matched by joining on opts.JoinKeys, aligned by opts.TargetKey.
func (u *Updater) UpdateJoin(left, right *frame.DataFrame, opts Options) (*Result, error) {
	if left == nil || right == nil {
		return nil, u.fail(newError(InvalidOptions, Validating, "left and right tables are required"))
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, u.fail(err)
	}

	r := &run{
		u:     u,
		opts:  opts,
		left:  left.Clone(),
		right: right.Clone(),
	}
	if err := r.validate(); err != nil {
		return nil, u.fail(err)
	}
	if err := r.normalize(); err != nil {
		return nil, u.fail(err)
	}
	joined, projCol, err := r.join()
	if err != nil {
		return nil, u.fail(err)
	}
	proj, err := r.project(joined, projCol)
	if err != nil {
		return nil, u.fail(err)
	}
	return r.merge(proj)
}

func (u *Updater) fail(err error) error {
	u.logger.Errorf("update failed: %v", err)
	return err
}

// run carries the state of a single UpdateJoin call.
type run struct {
	u     *Updater
	opts  Options
	left  *frame.DataFrame
	right *frame.DataFrame
	diags Diagnostics
}

func (r *run) warn(d Diagnostic) {
	r.diags = append(r.diags, d)
	r.u.logger.Warnf("%s", d)
}

func (r *run) validate() error {
	o := r.opts

	// Both tables already keyed by the target: go back to positional form
	// so the join sees the key columns, then re-index left below.
	if r.left.IndexEquals(o.TargetKey) && r.right.IndexEquals(o.TargetKey) {
		r.u.logger.Debugf("both tables indexed by %s, resetting before join", quoteAll(o.TargetKey))
		r.left = r.left.ResetIndex()
		r.right = r.right.ResetIndex()
	}

	if !r.right.HasColumn(o.SourceCol) {
		return newError(ColumnNotFound, Validating, "source column %q not found in right table", o.SourceCol).
			withTable("right").withColumns(o.SourceCol)
	}

	missingLeft := missingColumns(r.left, o.JoinKeys)
	missingRight := missingColumns(r.right, o.JoinKeys)
	if len(missingLeft) > 0 || len(missingRight) > 0 {
		e := newError(KeyNotShared, Validating, "join key(s) %s must exist in both tables",
			quoteAll(union(missingLeft, missingRight))).withColumns(union(missingLeft, missingRight)...)
		switch {
		case len(missingRight) == 0:
			e.Table = "left"
		case len(missingLeft) == 0:
			e.Table = "right"
		}
		return e
	}

	if missing := missingColumns(r.left, o.TargetKey); len(missing) > 0 {
		return newError(ColumnNotFound, Validating, "target key column(s) %s not found in left table", quoteAll(missing)).
			withTable("left").withColumns(missing...)
	}

	if !o.Validate {
		return nil
	}

	for _, d := range ValidateJoinKeys(r.left, r.right, o.JoinKeys) {
		r.warn(d)
	}

	leftKeys := keySet(r.left, o.JoinKeys)
	rightKeys := keySet(r.right, o.JoinKeys)
	shared, contained := overlap(leftKeys, rightKeys)
	if shared == 0 {
		return newError(NoOverlap, Validating, "join key(s) %s share no values between the tables", quoteAll(o.JoinKeys)).
			withColumns(o.JoinKeys...)
	}
	if !contained {
		r.warn(Diagnostic{
			Kind: PartialKeyOverlap,
			Message: fmt.Sprintf("%d of %d left key value(s) have no match in right, those rows keep their values",
				len(leftKeys)-shared, len(leftKeys)),
			Columns: append([]string(nil), o.JoinKeys...),
		})
	}
	return nil
}

func (r *run) normalize() error {
	o := r.opts

	if !r.left.HasColumn(o.UpdateCol) {
		dtype := r.right.ColumnByName(o.SourceCol).DType()
		df, err := r.left.WithColumn(frame.NewSeriesNull(o.UpdateCol, dtype, r.left.Height()))
		if err != nil {
			return newError(InvalidOptions, Normalizing, "cannot create column %q", o.UpdateCol).wrap(err)
		}
		r.left = df
		r.warn(Diagnostic{
			Kind:    NewColumn,
			Message: fmt.Sprintf("new column assignment detected, creating %q", o.UpdateCol),
			Columns: []string{o.UpdateCol},
		})
	}

	df, diags, err := NormalizeIndex(r.left, o.TargetKey)
	if err != nil {
		return err
	}
	for _, d := range diags {
		r.warn(d)
	}
	r.left = df
	return nil
}

// join returns the joined frame and the name of the column holding the
// source values in it.
func (r *run) join() (*frame.DataFrame, string, error) {
	o := r.opts
	right := r.right.ResetIndex()
	projCol := o.SourceCol

	var reasons []string
	if contains(o.JoinKeys, o.SourceCol) {
		reasons = append(reasons, "a join key")
	}
	if contains(o.TargetKey, o.SourceCol) {
		reasons = append(reasons, "part of the target key")
	}
	if len(reasons) == 0 && r.left.HasColumn(o.SourceCol) {
		reasons = append(reasons, "also a left column")
	}
	if len(reasons) > 0 {
		projCol = SurrogatePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
		df, err := right.WithColumn(right.ColumnByName(o.SourceCol).Rename(projCol))
		if err != nil {
			return nil, "", newError(InvalidOptions, Joining, "cannot copy source column").wrap(err)
		}
		right = df
		r.warn(Diagnostic{
			Kind:    SurrogateColumn,
			Message: fmt.Sprintf("source column %q is %s, projecting a copy named %q", o.SourceCol, strings.Join(reasons, " and "), projCol),
			Columns: []string{o.SourceCol},
		})
	}

	joined, err := r.left.ResetIndex().JoinWith(right, frame.On(o.JoinKeys...).How(o.How))
	if err != nil {
		return nil, "", newError(InvalidOptions, Joining, "join on %s failed", quoteAll(o.JoinKeys)).
			withColumns(o.JoinKeys...).wrap(err)
	}
	r.u.logger.Debugf("%s join on %s produced %d row(s)", o.How, quoteAll(o.JoinKeys), joined.Height())
	if joined.Height() == 0 {
		return nil, "", newError(JoinProducedNoRows, Joining, "%s join on %s matched no rows", o.How, quoteAll(o.JoinKeys)).
			withColumns(o.JoinKeys...)
	}
	return joined, projCol, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, name := range b {
		if !contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
