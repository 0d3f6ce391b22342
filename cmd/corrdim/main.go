// Command corrdim estimates the correlation dimension of a point set, by
// default a trajectory of the Lorenz attractor, using neighbourhood counts from
// a k-d tree.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
