package frame

import (
	"fmt"
	"math/rand"
	"testing"
)

// ============================================================================
// Join Benchmarks
// Run with: go test -bench=BenchmarkJoin -benchmem
// ============================================================================

// makeJoinBenchData creates left and right DataFrames for join benchmarks:
// left=n rows, right=n/2 rows, n/10 distinct keys.
func makeJoinBenchData(n int) (*DataFrame, *DataFrame) {
	r := rand.New(rand.NewSource(42))
	numKeys := n / 10

	leftIds := make([]int64, n)
	leftVals := make([]float64, n)
	for i := 0; i < n; i++ {
		leftIds[i] = int64(r.Intn(numKeys))
		leftVals[i] = r.NormFloat64()
	}

	rightN := n / 2
	rightIds := make([]int64, rightN)
	rightVals := make([]float64, rightN)
	for i := 0; i < rightN; i++ {
		rightIds[i] = int64(r.Intn(numKeys))
		rightVals[i] = r.NormFloat64()
	}

	left := MustNewDataFrame(
		NewSeriesInt64("id", leftIds),
		NewSeriesFloat64("left_val", leftVals),
	)
	right := MustNewDataFrame(
		NewSeriesInt64("id", rightIds),
		NewSeriesFloat64("right_val", rightVals),
	)
	return left, right
}

// makeCompositeJoinBenchData creates frames keyed by a unique (string, int)
// pair, the shape of an update lookup.
func makeCompositeJoinBenchData(n int) (*DataFrame, *DataFrame) {
	keys := make([]string, n)
	key2 := make([]int64, n)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("k%06d", i/4)
		key2[i] = int64(i % 4)
		vals[i] = float64(i)
	}
	left := MustNewDataFrame(NewSeriesString("key", keys), NewSeriesInt64("key2", key2))
	right := MustNewDataFrame(
		NewSeriesString("key", keys),
		NewSeriesInt64("key2", key2),
		NewSeriesFloat64("value", vals),
	)
	return left, right
}

func BenchmarkJoin_Inner_10K(b *testing.B) {
	left, right := makeJoinBenchData(10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		left.Join(right, On("id"))
	}
}

func BenchmarkJoin_Inner_100K(b *testing.B) {
	left, right := makeJoinBenchData(100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		left.Join(right, On("id"))
	}
}

func BenchmarkJoin_Left_10K(b *testing.B) {
	left, right := makeJoinBenchData(10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		left.LeftJoin(right, On("id"))
	}
}

func BenchmarkJoin_Left_100K(b *testing.B) {
	left, right := makeJoinBenchData(100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		left.LeftJoin(right, On("id"))
	}
}

func BenchmarkJoin_Composite_100K(b *testing.B) {
	left, right := makeCompositeJoinBenchData(100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		left.Join(right, On("key", "key2"))
	}
}
