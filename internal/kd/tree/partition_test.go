package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/neighbourhood/internal/testutil"
)

func TestPartition_MedianProperty(t *testing.T) {
	rng := testutil.NewRNG(42)
	testCases := []struct {
		name   string
		points [][]float64
	}{
		{name: "empty", points: nil},
		{name: "single", points: [][]float64{{1, 2}}},
		{name: "two", points: [][]float64{{2, 1}, {1, 2}}},
		{name: "three", points: [][]float64{{3, 0}, {1, 0}, {2, 0}}},
		{name: "uniform 1d", points: testutil.Points[float64](rng, 257, 1, -10, 10)},
		{name: "uniform 3d", points: testutil.Points[float64](rng, 1000, 3, -10, 10)},
		{name: "lattice 2d", points: testutil.Lattice[float64](rng, 500, 2, 4)},
		{name: "all equal", points: testutil.Lattice[float64](rng, 300, 3, 1)},
		{name: "grid", points: testutil.Grid[float64](3, -2, 2)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			points := testutil.Clone(tc.points)
			dims := 1
			if len(points) > 0 {
				dims = len(points[0])
			}
			layout := Points[float64](points)
			Partition[float64](layout, dims, 0)
			assert.Equal(t, -1, Check[float64](layout, dims, 0))
			assert.ElementsMatch(t, tc.points, points)
		})
	}
}

func TestPartition_Indexed(t *testing.T) {
	data := testutil.Points[float32](testutil.NewRNG(3), 777, 4, 0, 1)
	orig := testutil.Clone(data)
	layout := NewIndexed(data)
	Partition[float32](layout, 4, 0)

	assert.Equal(t, -1, Check[float32](layout, 4, 0))
	assert.Equal(t, orig, data, "borrowed points are never moved")
	seen := make([]bool, len(data))
	for _, id := range layout.Perm {
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSelectNth(t *testing.T) {
	rng := testutil.NewRNG(11)
	for _, n := range []int{1, 5, 12, 13, 64, 1001} {
		for _, nth := range []int{0, n / 2, n - 1} {
			t.Run(fmt.Sprintf("n=%d/nth=%d", n, nth), func(t *testing.T) {
				points := testutil.Lattice[float64](rng, n, 1, 10)
				layout := Points[float64](points)
				selectNth[float64](layout, 0, n, nth, 0)
				pivot := points[nth][0]
				for i := 0; i < nth; i++ {
					assert.LessOrEqual(t, points[i][0], pivot)
				}
				for i := nth + 1; i < n; i++ {
					assert.GreaterOrEqual(t, points[i][0], pivot)
				}
			})
		}
	}
}

func TestSelectNth_Sorted(t *testing.T) {
	// sorted and reverse sorted inputs are classic quickselect worst cases
	n := 4096
	asc := make([][]float64, n)
	desc := make([][]float64, n)
	for i := range asc {
		asc[i] = []float64{float64(i)}
		desc[i] = []float64{float64(n - 1 - i)}
	}
	selectNth[float64](Points[float64](asc), 0, n, n/2, 0)
	selectNth[float64](Points[float64](desc), 0, n, n/2, 0)
	assert.Equal(t, float64(n/2), asc[n/2][0])
	assert.Equal(t, float64(n/2), desc[n/2][0])
}

func TestMedianOfThree(t *testing.T) {
	for _, tc := range [][4]float64{
		{1, 2, 3, 2}, {3, 2, 1, 2}, {2, 1, 3, 2}, {2, 3, 1, 2}, {1, 3, 2, 2}, {3, 1, 2, 2}, {5, 5, 1, 5},
	} {
		assert.Equal(t, tc[3], medianOfThree(tc[0], tc[1], tc[2]), "%v", tc)
	}
}
