// Package sources holds the user's enabled content sources.
package sources

import "sync"

// Known source keys, in the stable order used for display and requests.
var knownKeys = []string{"rss", "twitter", "reddit"}

// Store holds which content sources are enabled. It is independent of the
// session store: toggles made while a collection is in flight do not affect
// that request, because the orchestrator reads a snapshot when it starts.
type Store struct {
	mu      sync.RWMutex
	enabled map[string]bool
}

// NewStore creates a source store with the stock defaults:
// rss on, twitter on, reddit off.
func NewStore() *Store {
	return &Store{
		enabled: map[string]bool{
			"rss":     true,
			"twitter": true,
			"reddit":  false,
		},
	}
}

// Known returns the known source keys in stable order.
func Known() []string {
	out := make([]string, len(knownKeys))
	copy(out, knownKeys)
	return out
}

// IsKnown reports whether key names a known source.
func IsKnown(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Set forces the given source on or off. Returns false for unknown keys.
func (s *Store) Set(key string, on bool) bool {
	if !IsKnown(key) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[key] = on
	return true
}

// Toggle flips the given source and returns its new value. Returns ok=false
// for unknown keys, in which case nothing changes.
func (s *Store) Toggle(key string) (on bool, ok bool) {
	if !IsKnown(key) {
		return false, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[key] = !s.enabled[key]
	return s.enabled[key], true
}

// Snapshot returns a copy of the current source configuration.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.enabled))
	for k, v := range s.enabled {
		out[k] = v
	}
	return out
}

// Enabled returns the currently enabled source keys in stable order.
func (s *Store) Enabled() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, k := range knownKeys {
		if s.enabled[k] {
			out = append(out, k)
		}
	}
	return out
}
