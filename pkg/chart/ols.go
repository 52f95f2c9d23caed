package chart

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Fit — прямая наименьших квадратов y = Alpha + Beta*x
type Fit struct {
	Alpha, Beta float64
	MinX, MaxX  float64
}

// At возвращает значение прямой в точке x
func (f Fit) At(x float64) float64 {
	return f.Alpha + f.Beta*x
}

// FitOLS строит регрессию y по x. Нужны хотя бы две точки с разными x.
func FitOLS(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, fmt.Errorf("length mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Fit{}, fmt.Errorf("need at least 2 points, got %d", len(xs))
	}

	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		return Fit{}, fmt.Errorf("x has no variance")
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Fit{Alpha: alpha, Beta: beta, MinX: lo, MaxX: hi}, nil
}
