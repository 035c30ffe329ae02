package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration. It runs under a shard read
// lock and must not modify the map; collect keys and delete afterwards.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// GetOrCreate returns the value for key, building and storing it with
// create when absent. create runs under the shard lock at most once per
// missing key.
func (m *Map[V]) GetOrCreate(key string, create func() V) V {
	s := m.getShard(key)

	s.mu.RLock()
	existing, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		return existing
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[key]; ok {
		return existing
	}
	v := create()
	s.items[key] = v
	return v
}
