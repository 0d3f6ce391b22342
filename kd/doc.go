// Package kd implements a SQLite virtual table answering fixed-radius and
// k-nearest neighbour queries over points stored in a per-table shadow table.
//
//	CREATE VIRTUAL TABLE near USING kd(id, index=auto, brute_force=0);
//	SELECT id, distance FROM near WHERE dataset_id = 'd' AND id MATCH '[0,0,0]' AND radius = 1.2;
//	SELECT id, distance FROM near WHERE dataset_id = 'd' AND id MATCH '[0,0,0]' AND k = 5;
//
// Features:
//   - shadow table _kd_<name>(dataset_id, id, coords) created on first use
//   - triggers invalidating cached indexes on shadow writes (kd_invalidate)
//   - per-dataset k-d tree (or brute-force for small datasets) built on demand
//     and kept in a shared LRU cache
package kd
