// Package testutil provides seeded point generators shared by the tests of
// this module.
package testutil
