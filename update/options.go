package update

import (
	"strings"

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/logger"
)

// DefaultPreviewRows is the number of planned assignments logged before a merge.
const DefaultPreviewRows = 10

// Options describes one UPDATE ... FROM JOIN.
type Options struct {
	// UpdateCol is the left column receiving values. Created all-null if absent.
	UpdateCol string
	// SourceCol is the right column supplying values.
	SourceCol string
	// TargetKey identifies left rows. Single or composite.
	TargetKey []string
	// JoinKeys are matched between left and right.
	JoinKeys []string
	// How is the join strategy. The zero value is an inner join.
	How frame.JoinType
	// Overwrite replaces existing left values. Otherwise only nulls are filled.
	Overwrite bool
	// Validate runs key validation and the overlap check before joining.
	Validate bool
	// PreviewRows caps the logged assignment table. Zero means
	// DefaultPreviewRows, negative disables the preview.
	PreviewRows int
}

func (o Options) withDefaults() Options {
	if o.PreviewRows == 0 {
		o.PreviewRows = DefaultPreviewRows
	}
	return o
}

func (o Options) validate() error {
	switch {
	case strings.TrimSpace(o.UpdateCol) == "":
		return newError(InvalidOptions, Validating, "update column is required")
	case strings.TrimSpace(o.SourceCol) == "":
		return newError(InvalidOptions, Validating, "source column is required")
	case len(o.TargetKey) == 0:
		return newError(InvalidOptions, Validating, "target key is required")
	case len(o.JoinKeys) == 0:
		return newError(InvalidOptions, Validating, "at least one join key is required")
	}
	switch o.How {
	case frame.InnerJoin, frame.LeftJoin, frame.RightJoin, frame.OuterJoin:
	default:
		return newError(InvalidOptions, Validating, "unsupported join type %s", o.How)
	}
	if dup := firstDuplicate(o.JoinKeys); dup != "" {
		return newError(InvalidOptions, Validating, "join key %q listed twice", dup).withColumns(dup)
	}
	if dup := firstDuplicate(o.TargetKey); dup != "" {
		return newError(InvalidOptions, Validating, "target key %q listed twice", dup).withColumns(dup)
	}
	for _, name := range o.TargetKey {
		if name == o.UpdateCol {
			return newError(InvalidOptions, Validating, "update column %q is part of the target key", name).withColumns(name)
		}
	}
	return nil
}

func firstDuplicate(names []string) string {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return name
		}
		seen[name] = struct{}{}
	}
	return ""
}

// Option configures an Updater.
type Option func(u *Updater)

// WithLogger sets the logger used for narration and diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(u *Updater) {
		if l == nil {
			l = logger.NopLogger
		}
		u.logger = l
	}
}

// WithDisplayConfig sets how the assignment preview is rendered.
func WithDisplayConfig(cfg frame.DisplayConfig) Option {
	return func(u *Updater) {
		u.display = cfg
	}
}
