// Package database manages the SQLite connection to a registry export.
//
// The registry backend reads entity, device and area data from a local
// SQLite file instead of a live instance, which suits air-gapped setups
// and tests. The package owns connection pragmas (WAL, busy timeout,
// foreign keys), restrictive file permissions and a small versioned
// schema applier; query logic lives with the inventory source that uses
// the connection.
package database
