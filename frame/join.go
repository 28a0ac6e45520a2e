package frame

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	OuterJoin
	CrossJoin
)

// String returns the lowercase SQL-style name of the join type.
func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case OuterJoin:
		return "outer"
	case CrossJoin:
		return "cross"
	default:
		return fmt.Sprintf("JoinType(%d)", int(j))
	}
}

// ParseJoinType parses "inner", "left", "right", "outer" or "cross".
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inner":
		return InnerJoin, nil
	case "left":
		return LeftJoin, nil
	case "right":
		return RightJoin, nil
	case "outer", "full":
		return OuterJoin, nil
	case "cross":
		return CrossJoin, nil
	default:
		return InnerJoin, fmt.Errorf("unknown join type: %q", s)
	}
}

// JoinOptions configures join behavior
type JoinOptions struct {
	on      []string // Columns to join on (same name in both DataFrames)
	leftOn  []string // Left DataFrame join columns
	rightOn []string // Right DataFrame join columns
	suffix  string   // Suffix for duplicate column names (default "_right")
	how     JoinType // Join type (default InnerJoin)
}

// DefaultJoinOptions returns default join options
func DefaultJoinOptions() JoinOptions {
	return JoinOptions{
		suffix: "_right",
		how:    InnerJoin,
	}
}

// On creates join options for joining on columns with the same name
func On(columns ...string) JoinOptions {
	opts := DefaultJoinOptions()
	opts.on = columns
	return opts
}

// LeftOn creates join options with different column names for left and right
func LeftOn(columns ...string) JoinOptions {
	opts := DefaultJoinOptions()
	opts.leftOn = columns
	return opts
}

// RightOn specifies right DataFrame columns for the join
func (o JoinOptions) RightOn(columns ...string) JoinOptions {
	o.rightOn = columns
	return o
}

// WithSuffix sets the suffix for duplicate column names
func (o JoinOptions) WithSuffix(suffix string) JoinOptions {
	o.suffix = suffix
	return o
}

// How sets the join type used by JoinWith
func (o JoinOptions) How(how JoinType) JoinOptions {
	o.how = how
	return o
}

// Join performs an inner join with another DataFrame
func (df *DataFrame) Join(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	return df.JoinWith(other, opts.How(InnerJoin))
}

// LeftJoin performs a left join with another DataFrame
func (df *DataFrame) LeftJoin(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	return df.JoinWith(other, opts.How(LeftJoin))
}

// RightJoin performs a right join with another DataFrame
func (df *DataFrame) RightJoin(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	return df.JoinWith(other, opts.How(RightJoin))
}

// OuterJoin performs a full outer join with another DataFrame
func (df *DataFrame) OuterJoin(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	return df.JoinWith(other, opts.How(OuterJoin))
}

// CrossJoin performs a cross join (cartesian product) with another DataFrame
func (df *DataFrame) CrossJoin(other *DataFrame) (*DataFrame, error) {
	return df.JoinWith(other, DefaultJoinOptions().How(CrossJoin))
}

// JoinWith joins using the join type carried by opts.
// Rows match when every key column compares equal; null keys never match.
// Same-named key columns appear once in the output; for right and outer
// joins, rows without a left match take the key value from the right side.
// The result has the default positional index.
func (df *DataFrame) JoinWith(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	if other == nil {
		return nil, fmt.Errorf("cannot join with a nil DataFrame")
	}
	if opts.suffix == "" {
		opts.suffix = "_right"
	}
	if opts.how == CrossJoin {
		return df.crossJoin(other, opts.suffix)
	}

	leftCols, rightCols, err := resolveJoinColumns(df, other, opts)
	if err != nil {
		return nil, err
	}

	outputCols, mapping := resolveOutputColumns(df, other, leftCols, rightCols, opts.suffix)

	leftKeyCols := keySeries(df, leftCols)
	rightKeyCols := keySeries(other, rightCols)

	var leftIndices, rightIndices []int
	switch opts.how {
	case InnerJoin:
		rightIndex := buildHashIndex(rightKeyCols, other.Height())
		leftIndices, rightIndices, _ = probeHashIndex(rightIndex, leftKeyCols, df.Height(), false)
	case LeftJoin:
		rightIndex := buildHashIndex(rightKeyCols, other.Height())
		leftIndices, rightIndices, _ = probeHashIndex(rightIndex, leftKeyCols, df.Height(), true)
	case RightJoin:
		// Build index on left instead
		leftIndex := buildHashIndex(leftKeyCols, df.Height())
		rightIndices, leftIndices, _ = probeHashIndex(leftIndex, rightKeyCols, other.Height(), true)
	case OuterJoin:
		rightIndex := buildHashIndex(rightKeyCols, other.Height())
		var rightMatched []bool
		leftIndices, rightIndices, rightMatched = probeHashIndex(rightIndex, leftKeyCols, df.Height(), true)
		// Second pass: unmatched right rows
		for rightRow, matched := range rightMatched {
			if !matched {
				leftIndices = append(leftIndices, -1)
				rightIndices = append(rightIndices, rightRow)
			}
		}
	default:
		return nil, fmt.Errorf("unknown join type: %d", opts.how)
	}

	return buildJoinResult(df, other, outputCols, mapping, leftIndices, rightIndices)
}

func resolveJoinColumns(left, right *DataFrame, opts JoinOptions) ([]string, []string, error) {
	var leftCols, rightCols []string

	if len(opts.on) > 0 {
		// Same column names in both DataFrames
		for _, col := range opts.on {
			if !left.HasColumn(col) {
				return nil, nil, fmt.Errorf("column '%s' not found in left DataFrame", col)
			}
			if !right.HasColumn(col) {
				return nil, nil, fmt.Errorf("column '%s' not found in right DataFrame", col)
			}
		}
		leftCols = opts.on
		rightCols = opts.on
	} else if len(opts.leftOn) > 0 && len(opts.rightOn) > 0 {
		// Different column names
		if len(opts.leftOn) != len(opts.rightOn) {
			return nil, nil, fmt.Errorf("leftOn and rightOn must have same length")
		}
		for _, col := range opts.leftOn {
			if !left.HasColumn(col) {
				return nil, nil, fmt.Errorf("column '%s' not found in left DataFrame", col)
			}
		}
		for _, col := range opts.rightOn {
			if !right.HasColumn(col) {
				return nil, nil, fmt.Errorf("column '%s' not found in right DataFrame", col)
			}
		}
		leftCols = opts.leftOn
		rightCols = opts.rightOn
	} else {
		return nil, nil, fmt.Errorf("must specify On or both LeftOn and RightOn")
	}

	return leftCols, rightCols, nil
}

func keySeries(df *DataFrame, names []string) []*Series {
	cols := make([]*Series, len(names))
	for i, name := range names {
		cols[i] = df.ColumnByName(name)
	}
	return cols
}

// hashIndex maps key hashes to row indices. keys holds each row's encoded
// key so that hash collisions are resolved by exact comparison.
type hashIndex struct {
	index map[uint64][]int
	keys  []string
	valid []bool
}

func buildHashIndex(cols []*Series, height int) *hashIndex {
	idx := &hashIndex{
		index: make(map[uint64][]int, height),
		keys:  make([]string, height),
		valid: make([]bool, height),
	}
	for row := 0; row < height; row++ {
		key, ok := RowKey(cols, row)
		if !ok {
			continue
		}
		idx.keys[row] = key
		idx.valid[row] = true
		hash := xxhash.Sum64String(key)
		idx.index[hash] = append(idx.index[hash], row)
	}
	return idx
}

// lookup returns the indexed rows whose key equals key, in row order.
func (idx *hashIndex) lookup(key string) []int {
	rows := idx.index[xxhash.Sum64String(key)]
	var matches []int
	for _, row := range rows {
		if idx.keys[row] == key {
			matches = append(matches, row)
		}
	}
	return matches
}

// probeHashIndex matches every probe row against the index. With
// keepUnmatched, probe rows without a match are emitted against -1.
// The returned mask records which indexed rows matched at least once.
func probeHashIndex(idx *hashIndex, probeCols []*Series, probeHeight int, keepUnmatched bool) ([]int, []int, []bool) {
	var probeIndices, buildIndices []int
	buildMatched := make([]bool, len(idx.keys))

	for probeRow := 0; probeRow < probeHeight; probeRow++ {
		var matches []int
		if key, ok := RowKey(probeCols, probeRow); ok {
			matches = idx.lookup(key)
		}
		for _, buildRow := range matches {
			probeIndices = append(probeIndices, probeRow)
			buildIndices = append(buildIndices, buildRow)
			buildMatched[buildRow] = true
		}
		if len(matches) == 0 && keepUnmatched {
			probeIndices = append(probeIndices, probeRow)
			buildIndices = append(buildIndices, -1)
		}
	}
	return probeIndices, buildIndices, buildMatched
}

// colMapping tracks how to build output columns
type colMapping struct {
	fromLeft bool
	srcCol   int
	// coalesceCol is the right column that fills a same-named join key for
	// rows without a left match, or -1.
	coalesceCol int
}

func resolveOutputColumns(left, right *DataFrame, leftKeys, rightKeys []string, suffix string) ([]string, []colMapping) {
	var outputCols []string
	var mapping []colMapping

	// Same-named key pairs appear once in the output
	sharedKeys := make(map[string]string)
	for j := range leftKeys {
		if leftKeys[j] == rightKeys[j] {
			sharedKeys[leftKeys[j]] = rightKeys[j]
		}
	}

	used := make(map[string]bool)
	for i, s := range left.columns {
		name := s.Name()
		m := colMapping{fromLeft: true, srcCol: i, coalesceCol: -1}
		if rk, ok := sharedKeys[name]; ok {
			m.coalesceCol = right.colIndex[rk]
		}
		outputCols = append(outputCols, name)
		mapping = append(mapping, m)
		used[name] = true
	}

	for i, s := range right.columns {
		name := s.Name()
		if _, ok := sharedKeys[name]; ok {
			continue
		}
		// Handle name collision
		outputName := name
		for used[outputName] {
			outputName += suffix
		}
		outputCols = append(outputCols, outputName)
		mapping = append(mapping, colMapping{fromLeft: false, srcCol: i, coalesceCol: -1})
		used[outputName] = true
	}

	return outputCols, mapping
}

func (df *DataFrame) crossJoin(other *DataFrame, suffix string) (*DataFrame, error) {
	outputCols, mapping := resolveOutputColumns(df, other, nil, nil, suffix)

	// Generate all row pairs
	var leftIndices, rightIndices []int
	for leftRow := 0; leftRow < df.Height(); leftRow++ {
		for rightRow := 0; rightRow < other.Height(); rightRow++ {
			leftIndices = append(leftIndices, leftRow)
			rightIndices = append(rightIndices, rightRow)
		}
	}

	return buildJoinResult(df, other, outputCols, mapping, leftIndices, rightIndices)
}

func buildJoinResult(left, right *DataFrame, outputCols []string, mapping []colMapping, leftIndices, rightIndices []int) (*DataFrame, error) {
	resultCols := make([]*Series, len(outputCols))

	for colIdx, colName := range outputCols {
		m := mapping[colIdx]
		if !m.fromLeft {
			resultCols[colIdx] = right.columns[m.srcCol].Take(rightIndices).Rename(colName)
			continue
		}

		col := left.columns[m.srcCol].Take(leftIndices).Rename(colName)
		if m.coalesceCol >= 0 {
			filled, err := coalesceJoinKey(col, right.columns[m.coalesceCol], leftIndices, rightIndices)
			if err != nil {
				return nil, fmt.Errorf("join key '%s': %w", colName, err)
			}
			col = filled
		}
		resultCols[colIdx] = col
	}

	out, err := NewDataFrame(resultCols...)
	if err != nil {
		return nil, err
	}
	out.height = len(leftIndices)
	return out, nil
}

// coalesceJoinKey fills key values of rows that only exist on the right.
func coalesceJoinKey(col, rightKey *Series, leftIndices, rightIndices []int) (*Series, error) {
	var rows, srcRows []int
	for i, li := range leftIndices {
		if li < 0 && rightIndices[i] >= 0 {
			rows = append(rows, i)
			srcRows = append(srcRows, rightIndices[i])
		}
	}
	if len(rows) == 0 {
		return col, nil
	}
	if col.DType() == Null {
		col = NewSeriesNull(col.Name(), rightKey.DType(), col.Len())
	}
	src, err := rightKey.Cast(col.DType())
	if err != nil {
		return nil, err
	}
	return col.Scatter(rows, src, srcRows)
}
