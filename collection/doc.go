// Package collection holds the study group records and the in-memory
// [Store] that owns them.
//
// Records are validated when they enter the store. Persistence is delegated
// to a [Storage] that loads and saves whole snapshots.
package collection
