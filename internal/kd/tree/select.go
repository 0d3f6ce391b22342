package tree

import (
	"math/bits"
	"sort"

	"github.com/viant/neighbourhood/vector"
)

// insertionCutoff is the range length below which selection sorts directly.
const insertionCutoff = 12

// selectNth reorders l[lo:hi) so that position nth holds the element that
// would be there if the range were sorted by the axis coordinate, with no
// greater coordinate before it and no smaller coordinate after it.
//
// Selection is a three-way quickselect with a median-of-three pivot. Once the
// iteration budget is spent the remaining range is sorted, which bounds the
// worst case at O(n log n).
func selectNth[T vector.Float, L Layout[T]](l L, lo, hi, nth, axis int) {
	budget := 2 * bits.Len(uint(hi-lo))
	for hi-lo > insertionCutoff {
		if budget == 0 {
			sort.Sort(axisOrder[T, L]{layout: l, lo: lo, hi: hi, axis: axis})
			return
		}
		budget--
		lt, gt := partition3[T](l, lo, hi, axis)
		switch {
		case nth < lt:
			hi = lt
		case nth >= gt:
			lo = gt
		default:
			return
		}
	}
	insertionSort[T](l, lo, hi, axis)
}

// partition3 splits l[lo:hi) around a pivot coordinate into
// [lo, lt) < pivot, [lt, gt) == pivot and [gt, hi) > pivot.
func partition3[T vector.Float, L Layout[T]](l L, lo, hi, axis int) (lt, gt int) {
	pivot := medianOfThree(
		l.Point(lo)[axis],
		l.Point(lo + (hi-lo)/2)[axis],
		l.Point(hi - 1)[axis],
	)
	lt, i, gt := lo, lo, hi
	for i < gt {
		v := l.Point(i)[axis]
		switch {
		case v < pivot:
			l.Swap(lt, i)
			lt++
			i++
		case v > pivot:
			gt--
			l.Swap(i, gt)
		default:
			i++
		}
	}
	return lt, gt
}

func medianOfThree[T vector.Float](a, b, c T) T {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}

func insertionSort[T vector.Float, L Layout[T]](l L, lo, hi, axis int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && l.Point(j)[axis] < l.Point(j - 1)[axis]; j-- {
			l.Swap(j, j-1)
		}
	}
}

// axisOrder sorts a sub-range of a layout by one coordinate.
type axisOrder[T vector.Float, L Layout[T]] struct {
	layout L
	lo, hi int
	axis   int
}

func (o axisOrder[T, L]) Len() int { return o.hi - o.lo }
func (o axisOrder[T, L]) Less(i, j int) bool {
	return o.layout.Point(o.lo + i)[o.axis] < o.layout.Point(o.lo + j)[o.axis]
}
func (o axisOrder[T, L]) Swap(i, j int) { o.layout.Swap(o.lo+i, o.lo+j) }
