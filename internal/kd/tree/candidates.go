package tree

import (
	"sort"

	"github.com/viant/neighbourhood/index"
	"github.com/viant/neighbourhood/vector"
)

// linearInsertMax is the largest k for which candidate positions are found by
// a linear scan rather than a binary search.
const linearInsertMax = 20

// candidates keeps the best k neighbours seen so far, ascending by distance.
// Equal distances keep arrival order.
type candidates[T vector.Float] struct {
	k     int
	items []index.Neighbor[T]
}

func newCandidates[T vector.Float](k, n int) *candidates[T] {
	return &candidates[T]{k: k, items: make([]index.Neighbor[T], 0, min(k, n))}
}

func (c *candidates[T]) full() bool { return len(c.items) == c.k }

// worst returns the largest kept distance; only valid when not empty.
func (c *candidates[T]) worst() T { return c.items[len(c.items)-1].Distance }

// accepts reports whether a candidate at distance d would be kept.
func (c *candidates[T]) accepts(d T) bool {
	return !c.full() || d < c.worst()
}

// position returns the index of the first kept item farther than d.
func (c *candidates[T]) position(d T) int {
	if c.k <= linearInsertMax || !c.full() {
		i := len(c.items)
		for i > 0 && c.items[i-1].Distance > d {
			i--
		}
		return i
	}
	return sort.Search(len(c.items), func(i int) bool { return c.items[i].Distance > d })
}

// insert adds n if it belongs in the best k, dropping the farthest item when
// the list overflows.
func (c *candidates[T]) insert(n index.Neighbor[T]) {
	if !c.accepts(n.Distance) {
		return
	}
	pos := c.position(n.Distance)
	if !c.full() {
		c.items = append(c.items, index.Neighbor[T]{})
	}
	copy(c.items[pos+1:], c.items[pos:len(c.items)-1])
	c.items[pos] = n
}
