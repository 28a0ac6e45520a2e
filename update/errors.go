package update

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why an update failed.
type Kind int

const (
	// ColumnNotFound: the source column (or a target key column) is missing.
	ColumnNotFound Kind = iota + 1
	// KeyNotShared: a join key is not present in both tables.
	KeyNotShared
	// NoOverlap: the join keys share no values across the tables.
	NoOverlap
	// JoinProducedNoRows: the join ran but matched nothing.
	JoinProducedNoRows
	// DuplicateJoinKey: several source rows map onto one target row.
	DuplicateJoinKey
	// InvalidOptions: the call itself is malformed.
	InvalidOptions
	// IncompatibleTypes: source values cannot be stored in the update column.
	IncompatibleTypes
)

var kindNames = map[Kind]string{
	ColumnNotFound:     "ColumnNotFound",
	KeyNotShared:       "KeyNotShared",
	NoOverlap:          "NoOverlap",
	JoinProducedNoRows: "JoinProducedNoRows",
	DuplicateJoinKey:   "DuplicateJoinKey",
	InvalidOptions:     "InvalidOptions",
	IncompatibleTypes:  "IncompatibleTypes",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for use with errors.Is.
var (
	ErrColumnNotFound     = errors.New("column not found")
	ErrKeyNotShared       = errors.New("key not shared")
	ErrNoOverlap          = errors.New("no overlapping keys")
	ErrJoinProducedNoRows = errors.New("join produced no rows")
	ErrDuplicateJoinKey   = errors.New("duplicate join key")
	ErrInvalidOptions     = errors.New("invalid options")
	ErrIncompatibleTypes  = errors.New("incompatible types")
)

var sentinels = map[Kind]error{
	ColumnNotFound:     ErrColumnNotFound,
	KeyNotShared:       ErrKeyNotShared,
	NoOverlap:          ErrNoOverlap,
	JoinProducedNoRows: ErrJoinProducedNoRows,
	DuplicateJoinKey:   ErrDuplicateJoinKey,
	InvalidOptions:     ErrInvalidOptions,
	IncompatibleTypes:  ErrIncompatibleTypes,
}

// Stage is a step of an update run.
type Stage int

const (
	Validating Stage = iota
	Normalizing
	Joining
	Projecting
	Merging
)

func (s Stage) String() string {
	switch s {
	case Validating:
		return "validating"
	case Normalizing:
		return "normalizing"
	case Joining:
		return "joining"
	case Projecting:
		return "projecting"
	case Merging:
		return "merging"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Error is the failure returned by update operations.
type Error struct {
	Kind    Kind
	Stage   Stage
	Table   string   // "left", "right" or "" when both or neither
	Columns []string // columns involved
	Count   int      // DuplicateJoinKey: duplicated rows in the source over the join keys
	Message string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s while %s", e.Kind, e.Stage)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Kind == kind
}

// KindOf returns the kind of err, or 0 if it is not an *Error.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return 0
}

func newError(kind Kind, stage Stage, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withTable(table string) *Error {
	e.Table = table
	return e
}

func (e *Error) withColumns(cols ...string) *Error {
	e.Columns = cols
	return e
}

func (e *Error) wrap(err error) *Error {
	e.Err = err
	return e
}
