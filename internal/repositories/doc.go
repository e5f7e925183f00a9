// Package repositories implements SQLite persistence for playlist snapshots.
//
// [SnapshotRepository] stores every snapshot the proxy fetched successfully so that a restarted proxy can
// serve stale data while YouTube is unreachable. Items are stored as a JSON column; rows are ordered by a
// per-table sequence from [NextSequence].
package repositories
