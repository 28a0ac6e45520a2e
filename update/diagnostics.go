package update

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a non-fatal finding.
type DiagnosticKind int

const (
	// IndexNotSet: the target had no index and was indexed by the target key.
	IndexNotSet DiagnosticKind = iota + 1
	// IndexMismatch: the target was indexed by other columns and re-indexed.
	IndexMismatch
	// PartialKeyOverlap: some keys have no partner, expect nulls or untouched rows.
	PartialKeyOverlap
	// NewColumn: the update column did not exist and was created all-null.
	NewColumn
	// SurrogateColumn: the source column was copied under a private name to be projected.
	SurrogateColumn
	// KeyValidation: a key column failed a whitespace or uniqueness check.
	KeyValidation
)

func (k DiagnosticKind) String() string {
	switch k {
	case IndexNotSet:
		return "IndexNotSet"
	case IndexMismatch:
		return "IndexMismatch"
	case PartialKeyOverlap:
		return "PartialKeyOverlap"
	case NewColumn:
		return "NewColumn"
	case SurrogateColumn:
		return "SurrogateColumn"
	case KeyValidation:
		return "KeyValidation"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic is a warning raised during an update. It never stops the run.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Columns []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Diagnostics is the ordered list of warnings of one call.
type Diagnostics []Diagnostic

// Has reports whether any diagnostic has the given kind.
func (ds Diagnostics) Has(kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// OfKind returns the diagnostics of the given kind.
func (ds Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Strings formats every diagnostic.
func (ds Diagnostics) Strings() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

func (ds Diagnostics) String() string {
	return strings.Join(ds.Strings(), "\n")
}
