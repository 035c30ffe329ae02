// Package cmap provides a concurrent map keyed by strings.
//
// Keys are spread across a fixed number of shards by their murmur3 hash,
// and each shard carries its own RWMutex:
//
//	m := cmap.New[*Conn]()
//	m.Set(id, conn)
//	l := m.GetOrCreate(ip, newLimiter)
//
// Iteration locks one shard at a time, so Range observes each shard
// consistently but not the map as a whole.
package cmap
