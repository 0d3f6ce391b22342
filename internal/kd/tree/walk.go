package tree

import "github.com/viant/neighbourhood/vector"

// visitor receives the elements reached by a walk and decides whether a far
// subtree, whose closest possible point lies bound away from the query, can
// still contribute.
type visitor[T vector.Float] interface {
	visit(id int, p []T)
	admit(bound T) bool
}

// walker descends an implicit tree nearest side first. bound holds the
// per-axis offsets between the query and the region of the current subtree;
// its norm is a lower bound on the distance to any point inside it.
type walker[T vector.Float, L Layout[T], V visitor[T]] struct {
	layout     L
	query      []T
	bound      []T
	bruteForce int
	// postorder offers the median after both subtrees instead of before.
	postorder bool
	visitor   V
}

func newWalker[T vector.Float, L Layout[T], V visitor[T]](l L, query []T, bruteForce int, postorder bool, v V) *walker[T, L, V] {
	return &walker[T, L, V]{
		layout:     l,
		query:      query,
		bound:      make([]T, len(query)),
		bruteForce: max(bruteForce, 1),
		postorder:  postorder,
		visitor:    v,
	}
}

func (w *walker[T, L, V]) walk(lo, hi, axis int) {
	if hi-lo <= w.bruteForce {
		for i := lo; i < hi; i++ {
			w.visitor.visit(w.layout.ID(i), w.layout.Point(i))
		}
		return
	}
	mid := lo + (hi-lo)/2
	median := w.layout.Point(mid)
	if !w.postorder {
		w.visitor.visit(w.layout.ID(mid), median)
	}
	next := axis + 1
	if next == len(w.query) {
		next = 0
	}
	if w.query[axis] <= median[axis] {
		w.descend(lo, mid, mid+1, hi, axis, next, median)
	} else {
		w.descend(mid+1, hi, lo, mid, axis, next, median)
	}
	if w.postorder {
		w.visitor.visit(w.layout.ID(mid), median)
	}
}

func (w *walker[T, L, V]) descend(nearLo, nearHi, farLo, farHi, axis, next int, median []T) {
	w.walk(nearLo, nearHi, next)
	saved := w.bound[axis]
	w.bound[axis] = w.query[axis] - median[axis]
	if w.visitor.admit(vector.Norm(w.bound)) {
		w.walk(farLo, farHi, next)
	}
	w.bound[axis] = saved
}
