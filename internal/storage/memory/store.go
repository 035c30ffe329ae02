// Package memory provides the in-memory key-value store for DistKV.
package memory

import (
	"sort"
	"sync"
)

// Store is a concurrency-safe string map.
//
// The zero value is not usable; create one with New.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Set inserts or overwrites the value for key.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get returns the current value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}

// Update replaces the value of an existing key and returns the previous value.
//
// Unlike Set it never creates a key: when key is absent nothing changes and
// ok is false.
func (s *Store) Update(key, value string) (old string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok = s.data[key]
	if !ok {
		return "", false
	}
	s.data[key] = value
	return old, true
}

// Keys returns a snapshot of all keys at call time.
// Order is unspecified; use SortedKeys for display.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns Keys in ascending order.
func (s *Store) SortedKeys() []string {
	keys := s.Keys()
	sort.Strings(keys)
	return keys
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A fresh map releases the old buckets instead of keeping them sized for
	// the previous peak.
	s.data = make(map[string]string)
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
