// Package memory provides the in-memory key-value store for DistKV.
//
// The store is the entire state of a DistKV node: a mapping from string keys
// to string values that lives only as long as the process.
//
// Thread Safety:
//
// Every method runs as one critical section under a single store-wide
// sync.RWMutex. Reads (Get, Keys, Len) take the read lock, mutations take the
// write lock, so all operations are linearizable: they can be placed on one
// total order consistent with real time.
//
// Nothing is persisted; a restart begins with an empty store.
package memory
