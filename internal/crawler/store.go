// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawler

import "sync"

// Store maps a publication key (DOI or URL) to extracted text. Lookups of
// keys never written return the empty string. Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{m: make(map[string]string)}
}

// Get returns the text stored for key, or "" if none.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[key]
}

// Set stores text for key, replacing any previous value.
func (s *Store) Set(key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = text
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Snapshot returns a copy of the stored entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}
