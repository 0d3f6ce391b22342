package tree

import "github.com/viant/neighbourhood/vector"

// Layout exposes the elements of an implicit tree by position. The tree shape
// is fully determined by positions: the median of [lo, hi) sits at
// lo+(hi-lo)/2, its left subtree in [lo, mid) and its right in (mid, hi).
type Layout[T vector.Float] interface {
	Len() int
	// Point returns the coordinates stored at position i.
	Point(i int) []T
	// ID returns the identity reported to callers for position i.
	ID(i int) int
	Swap(i, j int)
}

// Points lays out owned points directly; the identity is the position.
type Points[T vector.Float] [][]T

func (p Points[T]) Len() int        { return len(p) }
func (p Points[T]) Point(i int) []T { return p[i] }
func (p Points[T]) ID(i int) int    { return i }
func (p Points[T]) Swap(i, j int)   { p[i], p[j] = p[j], p[i] }

// Indexed lays out borrowed points through a permutation; the identity is
// the index into Data.
type Indexed[T vector.Float] struct {
	Data [][]T
	Perm []int
}

// NewIndexed returns an identity permutation over data.
func NewIndexed[T vector.Float](data [][]T) Indexed[T] {
	perm := make([]int, len(data))
	for i := range perm {
		perm[i] = i
	}
	return Indexed[T]{Data: data, Perm: perm}
}

func (x Indexed[T]) Len() int        { return len(x.Perm) }
func (x Indexed[T]) Point(i int) []T { return x.Data[x.Perm[i]] }
func (x Indexed[T]) ID(i int) int    { return x.Perm[i] }
func (x Indexed[T]) Swap(i, j int)   { x.Perm[i], x.Perm[j] = x.Perm[j], x.Perm[i] }
