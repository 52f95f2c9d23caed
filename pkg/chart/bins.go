package chart

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Bins — равные по ширине интервалы (a, b], левая граница первого
// интервала сдвинута на 0.1% размаха, чтобы минимум попал внутрь.
type Bins struct {
	Edges []float64
}

// EqualWidthBins делит [min(xs), max(xs)] на n равных интервалов.
// При min == max интервал расширяется на 0.1% от значения (или на 0.001 около нуля).
func EqualWidthBins(xs []float64, n int) (Bins, error) {
	if n < 1 {
		return Bins{}, fmt.Errorf("bin count must be positive, got %d", n)
	}
	if len(xs) == 0 {
		return Bins{}, fmt.Errorf("no values to bin")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	if lo == hi {
		adj := 0.001 * math.Abs(lo)
		if lo == 0 {
			adj = 0.001
		}
		lo, hi = lo-adj, hi+adj
		return Bins{Edges: linspace(lo, hi, n+1)}, nil
	}

	edges := linspace(lo, hi, n+1)
	edges[0] -= (hi - lo) * 0.001
	return Bins{Edges: edges}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Len возвращает число интервалов
func (b Bins) Len() int {
	return len(b.Edges) - 1
}

// Index возвращает номер интервала, содержащего x, или -1 если x вне границ
func (b Bins) Index(x float64) int {
	if b.Len() < 1 || x <= b.Edges[0] || x > b.Edges[len(b.Edges)-1] {
		return -1
	}
	i := sort.SearchFloat64s(b.Edges[1:], x)
	if i >= b.Len() {
		i = b.Len() - 1
	}
	return i
}

// Label возвращает подпись интервала в виде "(a, b]"
func (b Bins) Label(i int) string {
	return "(" + formatEdge(b.Edges[i]) + ", " + formatEdge(b.Edges[i+1]) + "]"
}

func formatEdge(x float64) string {
	return strconv.FormatFloat(math.Round(x*1000)/1000, 'f', -1, 64)
}
