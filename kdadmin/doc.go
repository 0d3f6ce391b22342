// Package kdadmin exposes administrative operations on kd virtual tables
// through the kd_admin virtual table.
package kdadmin
