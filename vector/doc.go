// Package vector holds the point model shared by the indexes and the SQLite
// layer of this module. It includes:
//   - Float, the coordinate constraint used by the generic indexes
//   - Euclidean distance and norm helpers
//   - Point encoding (BLOB) for SQLite storage
//   - Point model, Store interface and a SQLite-backed store
package vector
