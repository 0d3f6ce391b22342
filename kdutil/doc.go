// Package kdutil offers a Go API over a kd virtual table: upserting and
// deleting points in its shadow table, and running radius, count and nearest
// neighbour queries through SQL.
package kdutil
