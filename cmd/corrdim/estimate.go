package main

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/viant/neighbourhood/index/kdtree"
)

var errTooFewRadii = errors.New("corrdim: at least two distinct radii are required")

// estimate holds the correlation sums and the fitted dimension.
type estimate struct {
	Radii     []float64
	Sums      []float64
	Dimension float64
}

// correlationSums returns C(r) for every radius: the mean number of points
// within r of a point, the point itself included.
func correlationSums(t *kdtree.Tree[float64], radii []float64) []float64 {
	sums := make([]float64, len(radii))
	n := t.Len()
	if n == 0 {
		return sums
	}
	counts := make([]int, len(radii))
	for _, p := range t.Data() {
		for i, r := range radii {
			counts[i] += t.CountNeighbourhood(p, r)
		}
	}
	for i, c := range counts {
		sums[i] = float64(c) / float64(n)
	}
	return sums
}

// correlationDimension fits log C(r) against log r by least squares and
// reports the slope.
func correlationDimension(t *kdtree.Tree[float64], radii []float64) (*estimate, error) {
	if len(radii) < 2 {
		return nil, errTooFewRadii
	}
	distinct := map[float64]bool{}
	for _, r := range radii {
		if !(r > 0) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("corrdim: radius must be positive and finite, got %v", r)
		}
		distinct[r] = true
	}
	if len(distinct) < 2 {
		return nil, errTooFewRadii
	}
	if t.IsEmpty() {
		return nil, fmt.Errorf("corrdim: no points")
	}
	sums := correlationSums(t, radii)
	logR := make([]float64, len(radii))
	logC := make([]float64, len(radii))
	for i := range radii {
		logR[i] = math.Log(radii[i])
		logC[i] = math.Log(sums[i])
	}
	_, slope := stat.LinearRegression(logR, logC, nil, false)
	return &estimate{Radii: radii, Sums: sums, Dimension: slope}, nil
}
