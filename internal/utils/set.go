// Copyright (c) 2025 @AmarnathCJD

package utils

import "sync"

// SyncSet collects keys from several goroutines until they are drained in
// one batch, such as message ids waiting for a msgs_ack.
type SyncSet[T comparable] struct {
	mu sync.Mutex
	m  map[T]struct{}
}

func NewSyncSet[T comparable]() *SyncSet[T] {
	return &SyncSet[T]{m: make(map[T]struct{})}
}

// Add reports whether key was not in the set yet.
func (s *SyncSet[T]) Add(key T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; ok {
		return false
	}
	s.m[key] = struct{}{}
	return true
}

func (s *SyncSet[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Drain empties the set and returns its keys in no particular order.
func (s *SyncSet[T]) Drain() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]T, 0, len(s.m))
	for key := range s.m {
		keys = append(keys, key)
	}
	clear(s.m)
	return keys
}
