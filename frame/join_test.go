package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInnerJoin(t *testing.T) {
	// Left DataFrame: customers
	left, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2, 3, 4}),
		NewSeriesString("name", []string{"Alice", "Bob", "Carol", "Dave"}),
	)

	// Right DataFrame: orders
	right, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2, 2, 5}),
		NewSeriesFloat64("amount", []float64{100, 200, 150, 300}),
	)

	result, err := left.Join(right, On("id"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}

	// Should have 3 rows (id 1, 2, 2)
	if result.Height() != 3 {
		t.Errorf("expected 3 rows, got %d", result.Height())
	}
	if diff := cmp.Diff([]string{"id", "name", "amount"}, result.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{100, 200, 150}, result.ColumnByName("amount").Float64()); diff != "" {
		t.Errorf("amount mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftJoin(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2, 3, 4}),
		NewSeriesString("name", []string{"Alice", "Bob", "Carol", "Dave"}),
	)

	right, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2, 5}),
		NewSeriesFloat64("amount", []float64{100, 200, 300}),
	)

	result, err := left.LeftJoin(right, On("id"))
	if err != nil {
		t.Fatalf("failed to left join: %v", err)
	}

	// All left rows preserved, unmatched rows carry nulls
	want := []interface{}{100.0, 200.0, nil, nil}
	if diff := cmp.Diff(want, result.ColumnByName("amount").Values()); diff != "" {
		t.Errorf("amount mismatch (-want +got):\n%s", diff)
	}
}

func TestRightJoin(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2}),
		NewSeriesString("name", []string{"Alice", "Bob"}),
	)
	right, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{2, 3}),
		NewSeriesFloat64("amount", []float64{20, 30}),
	)

	result, err := left.RightJoin(right, On("id"))
	if err != nil {
		t.Fatalf("failed to right join: %v", err)
	}

	// Key values of right-only rows come from the right side
	if diff := cmp.Diff([]interface{}{int64(2), int64(3)}, result.ColumnByName("id").Values()); diff != "" {
		t.Errorf("id mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{"Bob", nil}, result.ColumnByName("name").Values()); diff != "" {
		t.Errorf("name mismatch (-want +got):\n%s", diff)
	}
}

func TestOuterJoin(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2}),
		NewSeriesString("l", []string{"x", "y"}),
	)
	right, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{2, 3}),
		NewSeriesString("r", []string{"p", "q"}),
	)

	result, err := left.OuterJoin(right, On("id"))
	if err != nil {
		t.Fatalf("failed to outer join: %v", err)
	}
	if result.Height() != 3 {
		t.Fatalf("expected 3 rows, got %d", result.Height())
	}
	if diff := cmp.Diff([]interface{}{int64(1), int64(2), int64(3)}, result.ColumnByName("id").Values()); diff != "" {
		t.Errorf("id mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{nil, "p", "q"}, result.ColumnByName("r").Values()); diff != "" {
		t.Errorf("r mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossJoin(t *testing.T) {
	left, _ := NewDataFrame(NewSeriesInt64("a", []int64{1, 2}))
	right, _ := NewDataFrame(NewSeriesString("b", []string{"x", "y", "z"}))

	result, err := left.CrossJoin(right)
	if err != nil {
		t.Fatalf("failed to cross join: %v", err)
	}
	if result.Height() != 6 {
		t.Errorf("expected 6 rows, got %d", result.Height())
	}
}

func TestJoinDifferentColumnNames(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesInt64("customer_id", []int64{1, 2}),
		NewSeriesString("name", []string{"Alice", "Bob"}),
	)
	right, _ := NewDataFrame(
		NewSeriesInt64("cust_id", []int64{2, 1}),
		NewSeriesFloat64("amount", []float64{20, 10}),
	)

	result, err := left.Join(right, LeftOn("customer_id").RightOn("cust_id"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if diff := cmp.Diff([]string{"customer_id", "name", "cust_id", "amount"}, result.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{10, 20}, result.ColumnByName("amount").Float64()); diff != "" {
		t.Errorf("amount mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinColumnNameCollision(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesString("value", []string{"l"}),
	)
	right, _ := NewDataFrame(
		NewSeriesInt64("id", []int64{1}),
		NewSeriesString("value", []string{"r"}),
	)

	result, err := left.Join(right, On("id"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "value", "value_right"}, result.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	custom, err := left.Join(right, On("id").WithSuffix("_src"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if !custom.HasColumn("value_src") {
		t.Errorf("expected value_src, got %v", custom.ColumnNames())
	}
}

func TestJoinMultipleKeys(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesString("key", []string{"a", "b", "c", "d"}),
		NewSeriesInt64("key2", []int64{5, 14, 4, 3}),
	)
	right, _ := NewDataFrame(
		NewSeriesString("key", []string{"a", "b", "c", "d", "c"}),
		NewSeriesInt64("key2", []int64{5, 14, 4, 3, 3}),
		NewSeriesInt64("attr21", []int64{19, 16, 9, 1, 19}),
	)

	result, err := left.LeftJoin(right, On("key", "key2"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if diff := cmp.Diff([]int64{19, 16, 9, 1}, result.ColumnByName("attr21").Int64()); diff != "" {
		t.Errorf("attr21 mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinNullKeysNeverMatch(t *testing.T) {
	left, _ := NewDataFrame(
		NewSeriesStringWithNulls("k", []string{"", "a"}, []bool{false, true}),
	)
	right, _ := NewDataFrame(
		NewSeriesStringWithNulls("k", []string{"", "a"}, []bool{false, true}),
		NewSeriesInt64("v", []int64{1, 2}),
	)

	result, err := left.Join(right, On("k"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if result.Height() != 1 {
		t.Errorf("expected only the non-null key to match, got %d rows", result.Height())
	}
}

func TestJoinNumericKeyWidening(t *testing.T) {
	left, _ := NewDataFrame(NewSeriesInt64("k", []int64{5, 6}))
	right, _ := NewDataFrame(
		NewSeriesFloat64("k", []float64{5.0, 6.5}),
		NewSeriesString("v", []string{"five", "six and a half"}),
	)

	result, err := left.Join(right, On("k"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if diff := cmp.Diff([]string{"five"}, result.ColumnByName("v").Strings()); diff != "" {
		t.Errorf("v mismatch (-want +got):\n%s", diff)
	}

	strRight, _ := NewDataFrame(
		NewSeriesString("k", []string{"5"}),
		NewSeriesString("v", []string{"text five"}),
	)
	result, err = left.Join(strRight, On("k"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if result.Height() != 0 {
		t.Errorf("\"5\" must not match 5, got %d rows", result.Height())
	}
}

func TestJoinInvalidColumn(t *testing.T) {
	left, _ := NewDataFrame(NewSeriesInt64("a", []int64{1}))
	right, _ := NewDataFrame(NewSeriesInt64("b", []int64{1}))

	if _, err := left.Join(right, On("a")); err == nil {
		t.Error("expected error for missing join column")
	}
	if _, err := left.Join(right, DefaultJoinOptions()); err == nil {
		t.Error("expected error when no join columns are given")
	}
}

func TestJoinResultHasPositionalIndex(t *testing.T) {
	left, _ := NewDataFrame(NewSeriesInt64("a", []int64{1}))
	left, _ = left.SetIndex("a")
	right, _ := NewDataFrame(NewSeriesInt64("a", []int64{1}))

	result, err := left.Join(right, On("a"))
	if err != nil {
		t.Fatalf("failed to join: %v", err)
	}
	if result.HasIndex() {
		t.Error("join result should use the positional index")
	}
}

func TestParseJoinType(t *testing.T) {
	for _, jt := range []JoinType{InnerJoin, LeftJoin, RightJoin, OuterJoin, CrossJoin} {
		got, err := ParseJoinType(jt.String())
		if err != nil || got != jt {
			t.Errorf("ParseJoinType(%q) = %v, %v", jt.String(), got, err)
		}
	}
	if _, err := ParseJoinType("sideways"); err == nil {
		t.Error("expected error for unknown join type")
	}
}
