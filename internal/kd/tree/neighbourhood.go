package tree

import "github.com/viant/neighbourhood/vector"

type rangeCollector[T vector.Float] struct {
	query   []T
	epsilon T
	ids     []int
}

func (c *rangeCollector[T]) visit(id int, p []T) {
	if vector.Distance(c.query, p) <= c.epsilon {
		c.ids = append(c.ids, id)
	}
}

func (c *rangeCollector[T]) admit(bound T) bool { return bound <= c.epsilon }

type rangeCounter[T vector.Float] struct {
	query   []T
	epsilon T
	count   int
}

func (c *rangeCounter[T]) visit(_ int, p []T) {
	if vector.Distance(c.query, p) <= c.epsilon {
		c.count++
	}
}

func (c *rangeCounter[T]) admit(bound T) bool { return bound <= c.epsilon }

// Neighbourhood returns the identities of every element within epsilon of
// query, in walk order.
func Neighbourhood[T vector.Float, L Layout[T]](l L, query []T, epsilon T, bruteForce int) []int {
	if l.Len() == 0 || epsilon < 0 {
		return nil
	}
	c := &rangeCollector[T]{query: query, epsilon: epsilon}
	newWalker(l, query, bruteForce, false, c).walk(0, l.Len(), 0)
	return c.ids
}

// CountNeighbourhood returns the number of elements within epsilon of query
// without allocating per match.
func CountNeighbourhood[T vector.Float, L Layout[T]](l L, query []T, epsilon T, bruteForce int) int {
	if l.Len() == 0 || epsilon < 0 {
		return 0
	}
	c := &rangeCounter[T]{query: query, epsilon: epsilon}
	newWalker(l, query, bruteForce, false, c).walk(0, l.Len(), 0)
	return c.count
}
