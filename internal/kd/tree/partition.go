package tree

import "github.com/viant/neighbourhood/vector"

// Partition arranges l into an implicit balanced k-d tree whose root splits on
// axis. For every range [lo, hi) of the recursion, with mid = lo+(hi-lo)/2,
// no element of [lo, mid) exceeds the median on the range's axis and no
// element of (mid, hi) is below it. Axes cycle through dims.
func Partition[T vector.Float, L Layout[T]](l L, dims, axis int) {
	if dims <= 0 {
		return
	}
	partitionRange[T](l, 0, l.Len(), dims, axis%dims)
}

func partitionRange[T vector.Float, L Layout[T]](l L, lo, hi, dims, axis int) {
	n := hi - lo
	if n < 2 {
		return
	}
	mid := lo + n/2
	selectNth[T](l, lo, hi, mid, axis)
	if n <= 3 {
		return
	}
	next := axis + 1
	if next == dims {
		next = 0
	}
	if mid-lo > 1 {
		partitionRange[T](l, lo, mid, dims, next)
	}
	if hi-mid > 2 {
		partitionRange[T](l, mid+1, hi, dims, next)
	}
}

// Check reports the first range whose median property does not hold, or -1
// when the layout is a valid tree built with Partition(l, dims, axis).
func Check[T vector.Float, L Layout[T]](l L, dims, axis int) int {
	if dims <= 0 {
		return -1
	}
	return checkRange[T](l, 0, l.Len(), dims, axis%dims)
}

func checkRange[T vector.Float, L Layout[T]](l L, lo, hi, dims, axis int) int {
	if hi-lo < 2 {
		return -1
	}
	mid := lo + (hi-lo)/2
	m := l.Point(mid)[axis]
	for i := lo; i < mid; i++ {
		if l.Point(i)[axis] > m {
			return mid
		}
	}
	for i := mid + 1; i < hi; i++ {
		if l.Point(i)[axis] < m {
			return mid
		}
	}
	next := (axis + 1) % dims
	if bad := checkRange[T](l, lo, mid, dims, next); bad >= 0 {
		return bad
	}
	return checkRange[T](l, mid+1, hi, dims, next)
}
