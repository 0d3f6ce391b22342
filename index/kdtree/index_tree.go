package kdtree

import (
	"fmt"
	"time"

	"github.com/viant/neighbourhood/index"
	"github.com/viant/neighbourhood/internal/kd/tree"
	"github.com/viant/neighbourhood/vector"
)

// IndexTree is a k-d tree over a borrowed slice of points. The slice and its
// coordinates must not change while the tree is in use.
type IndexTree[T vector.Float] struct {
	layout tree.Indexed[T]
	dims   int
	// BruteForceSize is the subtree size at or below which queries scan
	// points directly. It may be changed between queries without rebuilding.
	BruteForceSize int
}

// NewIndexTree builds a tree over points without reordering them.
func NewIndexTree[T vector.Float](points [][]T, opts ...Option) (*IndexTree[T], error) {
	o, bruteForce := newOptions(0, opts)
	dims, err := index.Validate(points)
	if err != nil {
		return nil, fmt.Errorf("kdtree: build: %w", err)
	}
	started := time.Now()
	layout := tree.NewIndexed(points)
	tree.Partition[T](layout, dims, 0)
	o.logger.Debug("kdtree: index tree built",
		"points", len(points),
		"dims", dims,
		"bruteForceSize", bruteForce,
		"elapsed", time.Since(started))
	return &IndexTree[T]{layout: layout, dims: dims, BruteForceSize: bruteForce}, nil
}

func (t *IndexTree[T]) Len() int      { return len(t.layout.Perm) }
func (t *IndexTree[T]) IsEmpty() bool { return len(t.layout.Perm) == 0 }
func (t *IndexTree[T]) Dims() int     { return t.dims }

// Data returns the borrowed points in their original order.
func (t *IndexTree[T]) Data() [][]T { return t.layout.Data }

// Neighbourhood returns every point within epsilon of query.
func (t *IndexTree[T]) Neighbourhood(query []T, epsilon T) [][]T {
	ids := t.NeighbourhoodByIndex(query, epsilon)
	out := make([][]T, len(ids))
	for i, id := range ids {
		out[i] = t.layout.Data[id]
	}
	return out
}

// NeighbourhoodByIndex returns the positions in Data of every point within
// epsilon of query.
func (t *IndexTree[T]) NeighbourhoodByIndex(query []T, epsilon T) []int {
	if t.IsEmpty() {
		return nil
	}
	index.CheckQuery(query, t.dims)
	return tree.Neighbourhood[T](t.layout, query, epsilon, t.BruteForceSize)
}

// CountNeighbourhood returns the number of points within epsilon of query.
func (t *IndexTree[T]) CountNeighbourhood(query []T, epsilon T) int {
	if t.IsEmpty() {
		return 0
	}
	index.CheckQuery(query, t.dims)
	return tree.CountNeighbourhood[T](t.layout, query, epsilon, t.BruteForceSize)
}

// KNN returns the min(k, Len()) points nearest to query, nearest first.
func (t *IndexTree[T]) KNN(query []T, k int) []index.Neighbor[T] {
	return t.FilteredKNN(query, k, nil)
}

// FilteredKNN returns the k nearest points whose position in Data filter
// accepts, nearest first.
func (t *IndexTree[T]) FilteredKNN(query []T, k int, filter index.Filter) []index.Neighbor[T] {
	if k > 0 && !t.IsEmpty() {
		index.CheckQuery(query, t.dims)
	}
	return tree.KNN[T](t.layout, query, k, filter, t.BruteForceSize)
}

var _ index.Index[float64] = (*IndexTree[float64])(nil)
