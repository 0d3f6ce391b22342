package kdtree

import (
	"fmt"
	"time"

	"github.com/viant/neighbourhood/index"
	"github.com/viant/neighbourhood/internal/kd/tree"
	"github.com/viant/neighbourhood/vector"
)

// Tree is a k-d tree that owns its points.
type Tree[T vector.Float] struct {
	points tree.Points[T]
	dims   int
	// BruteForceSize is the subtree size at or below which queries scan
	// points directly. It may be changed between queries without rebuilding.
	BruteForceSize int
}

// New builds a tree over points, taking ownership of the outer slice and
// reordering it. The coordinate slices are shared, not copied.
func New[T vector.Float](points [][]T, opts ...Option) (*Tree[T], error) {
	o, bruteForce := newOptions(DefaultBruteForceSize, opts)
	dims, err := index.Validate(points)
	if err != nil {
		return nil, fmt.Errorf("kdtree: build: %w", err)
	}
	started := time.Now()
	layout := tree.Points[T](points)
	tree.Partition[T](layout, dims, 0)
	o.logger.Debug("kdtree: tree built",
		"points", len(points),
		"dims", dims,
		"bruteForceSize", bruteForce,
		"elapsed", time.Since(started))
	return &Tree[T]{points: layout, dims: dims, BruteForceSize: bruteForce}, nil
}

// Len returns the number of points.
func (t *Tree[T]) Len() int { return len(t.points) }

// IsEmpty reports whether the tree holds no points.
func (t *Tree[T]) IsEmpty() bool { return len(t.points) == 0 }

// Dims returns the point dimension, or 0 for an empty tree.
func (t *Tree[T]) Dims() int { return t.dims }

// Data returns the points in tree order. Result indexes refer to it.
func (t *Tree[T]) Data() [][]T { return t.points }

// Neighbourhood returns every point within epsilon of query.
func (t *Tree[T]) Neighbourhood(query []T, epsilon T) [][]T {
	ids := t.NeighbourhoodByIndex(query, epsilon)
	out := make([][]T, len(ids))
	for i, id := range ids {
		out[i] = t.points[id]
	}
	return out
}

// NeighbourhoodByIndex returns the Data positions of every point within
// epsilon of query.
func (t *Tree[T]) NeighbourhoodByIndex(query []T, epsilon T) []int {
	if t.IsEmpty() {
		return nil
	}
	index.CheckQuery(query, t.dims)
	return tree.Neighbourhood[T](t.points, query, epsilon, t.BruteForceSize)
}

// CountNeighbourhood returns the number of points within epsilon of query.
func (t *Tree[T]) CountNeighbourhood(query []T, epsilon T) int {
	if t.IsEmpty() {
		return 0
	}
	index.CheckQuery(query, t.dims)
	return tree.CountNeighbourhood[T](t.points, query, epsilon, t.BruteForceSize)
}

// KNN returns the min(k, Len()) points nearest to query, nearest first.
func (t *Tree[T]) KNN(query []T, k int) []index.Neighbor[T] {
	return t.FilteredKNN(query, k, nil)
}

// FilteredKNN returns the k nearest points whose Data position filter
// accepts, nearest first.
func (t *Tree[T]) FilteredKNN(query []T, k int, filter index.Filter) []index.Neighbor[T] {
	if k > 0 && !t.IsEmpty() {
		index.CheckQuery(query, t.dims)
	}
	return tree.KNN[T](t.points, query, k, filter, t.BruteForceSize)
}

var _ index.Index[float64] = (*Tree[float64])(nil)
