// Package snapshot persists whole [collection.Snapshot] values.
//
// [Open] picks a backend from the file extension:
//
//	.yaml .yml   YAML document
//	.json        JSON document
//	.cbor        CBOR (core deterministic encoding)
//	.db .sqlite  SQLite database
//
// File backends replace the target atomically. A missing file loads as an
// empty snapshot.
package snapshot
