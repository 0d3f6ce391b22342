package tree

import (
	"github.com/viant/neighbourhood/index"
	"github.com/viant/neighbourhood/vector"
)

type knnCollector[T vector.Float] struct {
	query  []T
	filter index.Filter
	best   *candidates[T]
}

func (c *knnCollector[T]) visit(id int, p []T) {
	d := vector.Distance(c.query, p)
	if !c.best.accepts(d) {
		return
	}
	if c.filter != nil && !c.filter(id) {
		return
	}
	c.best.insert(index.Neighbor[T]{Index: id, Distance: d, Point: p})
}

func (c *knnCollector[T]) admit(bound T) bool { return c.best.accepts(bound) }

// KNN returns up to k elements closest to query, nearest first. When filter
// is set only elements whose identity it accepts are returned.
func KNN[T vector.Float, L Layout[T]](l L, query []T, k int, filter index.Filter, bruteForce int) []index.Neighbor[T] {
	if k <= 0 || l.Len() == 0 {
		return []index.Neighbor[T]{}
	}
	c := &knnCollector[T]{query: query, filter: filter, best: newCandidates[T](k, l.Len())}
	newWalker(l, query, bruteForce, true, c).walk(0, l.Len(), 0)
	return c.best.items
}
