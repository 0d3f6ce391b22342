package vector

import "golang.org/x/exp/constraints"

// Float is the coordinate type accepted by the indexes.
type Float interface {
	constraints.Float
}
