// Package bruteforce provides an exact spatial index that answers every query
// by scanning all points. It serves small datasets and is the reference the
// tree indexes are tested against.
package bruteforce
