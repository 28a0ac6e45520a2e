package update

import (
	"fmt"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"github.com/alexwohletz/pandas-utils/frame"
)

func (u *Updater) logPreview(updateCol string, targetKey []string, assignments []Assignment, limit int) {
	if len(assignments) == 0 {
		u.logger.Infof("no values to assign to %q", updateCol)
		return
	}
	u.logger.Infof("assigning %d value(s) to %q:\n%s", len(assignments), updateCol,
		renderAssignments(u.display, targetKey, assignments, limit))
}

// renderAssignments draws at most limit assignments as a table with one
// column per target key column. limit <= 0 shows all of them.
func renderAssignments(cfg frame.DisplayConfig, targetKey []string, assignments []Assignment, limit int) string {
	t := frame.NewTableWriter(cfg)
	t.Style().Format.Footer = text.FormatDefault

	header := table.Row{"row"}
	for _, name := range targetKey {
		header = append(header, name)
	}
	header = append(header, "old", "new")
	t.AppendHeader(header)

	n := len(assignments)
	if limit > 0 && n > limit {
		n = limit
	}
	for _, a := range assignments[:n] {
		row := table.Row{a.Row}
		for _, v := range a.Key {
			row = append(row, frame.FormatDisplayValue(v, cfg))
		}
		row = append(row, frame.FormatDisplayValue(a.Old, cfg), frame.FormatDisplayValue(a.New, cfg))
		t.AppendRow(row)
	}
	if n < len(assignments) {
		t.AppendFooter(table.Row{fmt.Sprintf("+%d more", len(assignments)-n)})
	}
	return t.Render()
}

// Preview renders the first limit assignments using the global display
// configuration.
func (r *Result) Preview(limit int) string {
	return renderAssignments(frame.GetDisplayConfig(), r.TargetKey, r.Assignments, limit)
}
