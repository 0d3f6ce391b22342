package bruteforce

import (
	"fmt"
	"sort"

	"github.com/viant/neighbourhood/index"
	"github.com/viant/neighbourhood/vector"
)

// Index is a brute-force Euclidean index over borrowed points.
type Index[T vector.Float] struct {
	points [][]T
	dim    int
}

// New validates points and returns an index over them. The slice is
// borrowed; results report positions in it.
func New[T vector.Float](points [][]T) (*Index[T], error) {
	dim, err := index.Validate(points)
	if err != nil {
		return nil, fmt.Errorf("bruteforce: %w", err)
	}
	return &Index[T]{points: points, dim: dim}, nil
}

func (i *Index[T]) Len() int      { return len(i.points) }
func (i *Index[T]) IsEmpty() bool { return len(i.points) == 0 }
func (i *Index[T]) Dims() int     { return i.dim }

// Data returns the indexed points.
func (i *Index[T]) Data() [][]T { return i.points }

// Neighbourhood returns the points within epsilon of query in input order.
func (i *Index[T]) Neighbourhood(query []T, epsilon T) [][]T {
	ids := i.NeighbourhoodByIndex(query, epsilon)
	out := make([][]T, len(ids))
	for j, id := range ids {
		out[j] = i.points[id]
	}
	return out
}

// NeighbourhoodByIndex returns the positions of the points within epsilon of
// query in ascending order.
func (i *Index[T]) NeighbourhoodByIndex(query []T, epsilon T) []int {
	if i.IsEmpty() {
		return nil
	}
	index.CheckQuery(query, i.dim)
	var out []int
	for j, p := range i.points {
		if vector.Distance(query, p) <= epsilon {
			out = append(out, j)
		}
	}
	return out
}

// CountNeighbourhood returns the number of points within epsilon of query.
func (i *Index[T]) CountNeighbourhood(query []T, epsilon T) int {
	if i.IsEmpty() {
		return 0
	}
	index.CheckQuery(query, i.dim)
	count := 0
	for _, p := range i.points {
		if vector.Distance(query, p) <= epsilon {
			count++
		}
	}
	return count
}

// KNN returns the k points nearest to query. Ties keep input order.
func (i *Index[T]) KNN(query []T, k int) []index.Neighbor[T] {
	return i.FilteredKNN(query, k, nil)
}

// FilteredKNN returns the k points nearest to query among those filter accepts.
func (i *Index[T]) FilteredKNN(query []T, k int, filter index.Filter) []index.Neighbor[T] {
	if k <= 0 || i.IsEmpty() {
		return []index.Neighbor[T]{}
	}
	index.CheckQuery(query, i.dim)
	scored := make([]index.Neighbor[T], 0, len(i.points))
	for j, p := range i.points {
		if filter != nil && !filter(j) {
			continue
		}
		scored = append(scored, index.Neighbor[T]{Index: j, Distance: vector.Distance(query, p), Point: p})
	}
	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Distance < scored[b].Distance })
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

var _ index.Index[float64] = (*Index[float64])(nil)
