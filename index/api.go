package index

import "github.com/viant/neighbourhood/vector"

// Neighbor is a single k-nearest-neighbour result.
type Neighbor[T vector.Float] struct {
	// Index identifies the point within the index that returned it.
	Index int
	// Distance is the Euclidean distance to the query.
	Distance T
	// Point references the stored coordinates; callers must not modify it.
	Point []T
}

// Filter reports whether the point with the given index may be returned.
type Filter func(index int) bool

// Index is a static spatial index over points of a fixed dimension.
//
// Query points must have the index dimension; passing any other length is a
// programming error and panics with *ErrDimensionMismatch.
type Index[T vector.Float] interface {
	// Len returns the number of indexed points.
	Len() int
	// IsEmpty reports whether the index holds no points.
	IsEmpty() bool
	// Dims returns the point dimension, or 0 for an empty index.
	Dims() int
	// Data returns the indexed points; result indexes are positions in it.
	Data() [][]T

	// Neighbourhood returns the points within epsilon of query, boundary included.
	Neighbourhood(query []T, epsilon T) [][]T
	// NeighbourhoodByIndex returns the indexes of the points within epsilon of query.
	NeighbourhoodByIndex(query []T, epsilon T) []int
	// CountNeighbourhood returns the number of points within epsilon of query.
	CountNeighbourhood(query []T, epsilon T) int

	// KNN returns the min(k, Len()) points nearest to query, nearest first.
	KNN(query []T, k int) []Neighbor[T]
	// FilteredKNN is KNN restricted to the points whose index filter accepts.
	FilteredKNN(query []T, k int, filter Filter) []Neighbor[T]
}
