package testutil

import (
	"math/rand"
	"sync"

	"github.com/viant/neighbourhood/vector"
)

// RNG wraps a seeded random source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Points returns n points of dim coordinates drawn uniformly from [lo, hi).
func Points[T vector.Float](r *RNG, n, dim int, lo, hi T) [][]T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]T, n)
	for i := range out {
		p := make([]T, dim)
		for j := range p {
			p[j] = lo + T(r.rand.Float64())*(hi-lo)
		}
		out[i] = p
	}
	return out
}

// Lattice returns n points of dim integer coordinates in [0, span), which
// produces many duplicate coordinates and tied distances.
func Lattice[T vector.Float](r *RNG, n, dim, span int) [][]T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]T, n)
	for i := range out {
		p := make([]T, dim)
		for j := range p {
			p[j] = T(r.rand.Intn(span))
		}
		out[i] = p
	}
	return out
}

// Shuffle returns a shuffled shallow copy of points.
func Shuffle[T vector.Float](r *RNG, points [][]T) [][]T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([][]T(nil), points...)
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Grid returns every point of the cube {lo..hi}^dim.
func Grid[T vector.Float](dim, lo, hi int) [][]T {
	if dim == 0 || hi < lo {
		return nil
	}
	out := [][]T{{}}
	for d := 0; d < dim; d++ {
		next := make([][]T, 0, len(out)*(hi-lo+1))
		for _, prefix := range out {
			for v := lo; v <= hi; v++ {
				p := append(append(make([]T, 0, dim), prefix...), T(v))
				next = append(next, p)
			}
		}
		out = next
	}
	return out
}

// Clone deep-copies points.
func Clone[T vector.Float](points [][]T) [][]T {
	out := make([][]T, len(points))
	for i, p := range points {
		out[i] = append([]T(nil), p...)
	}
	return out
}
