// Package index defines the query surface shared by the spatial indexes of
// this module: fixed-radius neighbourhood, neighbourhood count and k-nearest
// neighbour search under Euclidean distance. Implementations include the k-d
// trees in kdtree and an exact brute-force baseline.
package index
