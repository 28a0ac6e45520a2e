package frame

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

// NullDisplay is how null values are printed.
const NullDisplay = "null"

// DisplayConfig controls how DataFrames are formatted when printed.
type DisplayConfig struct {
	// MaxRows is the maximum number of rows to display.
	// If the DataFrame has more rows, it shows head and tail rows with "..." in between.
	// Default: 10 (5 head + 5 tail)
	MaxRows int

	// MaxColWidth is the maximum width for column content.
	// Values longer than this are truncated with "...".
	// Default: 25
	MaxColWidth int

	// FloatPrecision is the number of decimal places for float values.
	// Negative means shortest exact representation.
	// Default: 4
	FloatPrecision int

	// ShowDTypes controls whether to display data types under column names.
	ShowDTypes bool

	// ShowShape controls whether to display the shape (rows × columns) header.
	ShowShape bool

	// ShowIndex marks index columns with a leading "*" in the header.
	ShowIndex bool

	// TableStyle controls the table border style.
	// Options: "rounded", "light", "double", "bold", "ascii"
	TableStyle string
}

var tableStyles = map[string]table.Style{
	"rounded": table.StyleRounded,
	"light":   table.StyleLight,
	"double":  table.StyleDouble,
	"bold":    table.StyleBold,
	"ascii":   table.StyleDefault,
}

// DefaultDisplayConfig returns the default display configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MaxRows:        10,
		MaxColWidth:    25,
		FloatPrecision: 4,
		ShowDTypes:     true,
		ShowShape:      true,
		ShowIndex:      true,
		TableStyle:     "rounded",
	}
}

// Global display configuration with mutex for thread safety
var (
	globalDisplayConfig = DefaultDisplayConfig()
	displayConfigMu     sync.RWMutex
)

// SetDisplayConfig sets the global display configuration.
func SetDisplayConfig(cfg DisplayConfig) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig = cfg
}

// GetDisplayConfig returns the current global display configuration.
func GetDisplayConfig() DisplayConfig {
	displayConfigMu.RLock()
	defer displayConfigMu.RUnlock()
	return globalDisplayConfig
}

// SetMaxDisplayRows sets the maximum number of rows to display.
func SetMaxDisplayRows(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.MaxRows = n
}

// SetFloatPrecision sets the decimal precision for float display.
func SetFloatPrecision(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.FloatPrecision = n
}

// SetTableStyle sets the table border style.
// Unknown styles are ignored.
func SetTableStyle(style string) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	if _, ok := tableStyles[style]; ok {
		globalDisplayConfig.TableStyle = style
	}
}

// FormatDisplayValue formats a value for display with the given configuration.
func FormatDisplayValue(val interface{}, cfg DisplayConfig) string {
	var s string
	switch v := val.(type) {
	case nil:
		s = NullDisplay
	case float64:
		if cfg.FloatPrecision < 0 {
			s = FormatValue(v)
		} else {
			s = fmt.Sprintf("%.*f", cfg.FloatPrecision, v)
		}
	case float32:
		if cfg.FloatPrecision < 0 {
			s = FormatValue(v)
		} else {
			s = fmt.Sprintf("%.*f", cfg.FloatPrecision, v)
		}
	case string:
		s = v
	default:
		s = FormatValue(v)
	}

	// Truncate if too long
	if cfg.MaxColWidth > 3 && len(s) > cfg.MaxColWidth {
		s = s[:cfg.MaxColWidth-3] + "..."
	}
	return s
}

// NewTableWriter returns a go-pretty writer styled per cfg, for callers that
// render their own rows in the same look as DataFrames.
func NewTableWriter(cfg DisplayConfig) table.Writer {
	t := table.NewWriter()
	style, ok := tableStyles[cfg.TableStyle]
	if !ok {
		style = table.StyleRounded
	}
	t.SetStyle(style)
	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault
	return t
}

// displayRowIndices picks the rows to show; -1 marks the elision row.
func displayRowIndices(height, maxRows int) []int {
	if maxRows <= 0 || height <= maxRows {
		rows := make([]int, height)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	head := (maxRows + 1) / 2
	tail := maxRows - head
	rows := make([]int, 0, maxRows+1)
	for i := 0; i < head; i++ {
		rows = append(rows, i)
	}
	rows = append(rows, -1)
	for i := height - tail; i < height; i++ {
		rows = append(rows, i)
	}
	return rows
}

// Render writes the DataFrame as a table using cfg.
func (df *DataFrame) Render(w io.Writer, cfg DisplayConfig) error {
	var b strings.Builder
	if cfg.ShowShape {
		fmt.Fprintf(&b, "shape: (%d, %d)\n", df.Height(), df.Width())
	}

	t := NewTableWriter(cfg)

	indexSet := make(map[string]bool, len(df.index))
	for _, name := range df.index {
		indexSet[name] = true
	}

	header := make(table.Row, df.Width())
	for i, col := range df.columns {
		name := col.Name()
		if cfg.ShowIndex && indexSet[name] {
			name = "*" + name
		}
		if cfg.ShowDTypes {
			name += "\n" + col.DType().String()
		}
		header[i] = name
	}
	t.AppendHeader(header)

	for _, rowIdx := range displayRowIndices(df.Height(), cfg.MaxRows) {
		row := make(table.Row, df.Width())
		for i, col := range df.columns {
			if rowIdx < 0 {
				row[i] = "..."
				continue
			}
			row[i] = FormatDisplayValue(col.Get(rowIdx), cfg)
		}
		t.AppendRow(row)
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns a formatted table using the global display configuration.
func (df *DataFrame) String() string {
	var b strings.Builder
	_ = df.Render(&b, GetDisplayConfig())
	return b.String()
}

// String returns a formatted single-column table of the series.
func (s *Series) String() string {
	df, err := NewDataFrame(s)
	if err != nil {
		return fmt.Sprintf("Series(%s: %s, len=%d)", s.Name(), s.DType(), s.Len())
	}
	cfg := GetDisplayConfig()
	cfg.ShowShape = false
	var b strings.Builder
	fmt.Fprintf(&b, "shape: (%d,)\n", s.Len())
	_ = df.Render(&b, cfg)
	return b.String()
}
