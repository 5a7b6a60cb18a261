// Package sqlite stores key sheets in a SQLite database through the pure Go
// modernc.org/sqlite driver. The store is only compiled with -tags sqlite.
package sqlite
