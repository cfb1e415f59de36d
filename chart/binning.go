package chart

import (
	"math"
	"sort"

	"github.com/mattn/go-runewidth"

	"smartchat/dataset"
)

// histogramBins splits values into n equal-width bins over [min, max]. The
// last bin is closed on both ends so max is counted. A constant series is
// centred in a unit-wide range.
func histogramBins(values []float64, n int) (edges []float64, counts []int) {
	if n <= 0 {
		n = DefaultBins
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(n)
	edges = make([]float64, n+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[n] = hi

	counts = make([]int, n)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return edges, counts
}

// stepOutline turns bins into the corner points of a filled step line.
func stepOutline(edges []float64, counts []int) (xs, ys []float64) {
	xs = make([]float64, 0, 2*len(counts)+2)
	ys = make([]float64, 0, 2*len(counts)+2)
	xs = append(xs, edges[0])
	ys = append(ys, 0)
	for i, c := range counts {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, float64(c), float64(c))
	}
	xs = append(xs, edges[len(edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

type barRow struct {
	Label string
	Value float64
	Row   int
}

// topRows returns the n rows with the largest y, descending. Rows with a
// missing y are skipped; ties keep file order.
func topRows(x, y *dataset.Column, n int) []barRow {
	rows := make([]barRow, 0, y.Len())
	for i := 0; i < y.Len(); i++ {
		v, ok := y.Float(i)
		if !ok {
			continue
		}
		rows = append(rows, barRow{Label: x.Text(i), Value: v, Row: i})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func truncateLabel(s string) string {
	return runewidth.Truncate(s, labelWidth, "…")
}
