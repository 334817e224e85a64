// Package fixtures contains test data for assertdb testing.
//
// It provides snapshots of a small books table from a library domain (a start point, an end
// point after some lending, and the changes between the two) plus an in-memory SQLite database
// holding the same content for the dbsource tests.
//
// This is testing infrastructure - not production code.
package fixtures
