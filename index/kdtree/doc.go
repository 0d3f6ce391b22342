// Package kdtree provides static k-d tree indexes for fixed-radius
// neighbourhood, neighbourhood count and k-nearest neighbour queries under
// Euclidean distance.
//
// Tree owns its points and reorders them during construction; results
// identify points by their position in Data. IndexTree borrows the caller's
// slice and reorders a permutation instead; results identify points by their
// position in the caller's slice.
//
// Both trees are balanced by median partitioning and stored implicitly in an
// array. Neither supports insertion or removal: rebuild to change the point
// set. Queries do not modify the tree and may run concurrently.
package kdtree
