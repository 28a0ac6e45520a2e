package update

import (
	"fmt"
	"testing"

	"github.com/alexwohletz/pandas-utils/frame"
)

func makeUpdateBenchData(n int) (*frame.DataFrame, *frame.DataFrame) {
	keys := make([]string, n)
	key2 := make([]int64, n)
	target := make([]int64, n)
	valid := make([]bool, n)
	source := make([]int64, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("k%07d", i)
		key2[i] = int64(i % 7)
		target[i] = int64(i)
		valid[i] = i%2 == 0
		source[i] = int64(n - i)
	}
	left := frame.MustNewDataFrame(
		frame.NewSeriesString("key", keys),
		frame.NewSeriesInt64("key2", key2),
		frame.NewSeriesInt64WithNulls("target", target, valid),
	)
	right := frame.MustNewDataFrame(
		frame.NewSeriesString("key", keys),
		frame.NewSeriesInt64("key2", key2),
		frame.NewSeriesInt64("source", source),
	)
	return left, right
}

func benchmarkUpdateJoin(b *testing.B, n int, overwrite bool) {
	left, right := makeUpdateBenchData(n)
	opts := Options{
		UpdateCol:   "target",
		SourceCol:   "source",
		TargetKey:   []string{"key"},
		JoinKeys:    []string{"key", "key2"},
		Overwrite:   overwrite,
		PreviewRows: -1,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := UpdateJoin(left, right, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUpdateJoin_FillNulls_10K(b *testing.B)  { benchmarkUpdateJoin(b, 10_000, false) }
func BenchmarkUpdateJoin_FillNulls_100K(b *testing.B) { benchmarkUpdateJoin(b, 100_000, false) }
func BenchmarkUpdateJoin_Overwrite_100K(b *testing.B) { benchmarkUpdateJoin(b, 100_000, true) }

func BenchmarkUpdateColumn_100K(b *testing.B) {
	left, right := makeUpdateBenchData(100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := UpdateColumn(left, right, "key", "source", ColumnOptions{FillNA: true}); err != nil {
			b.Fatal(err)
		}
	}
}
