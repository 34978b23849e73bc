package model

import "time"

// Snapshot is a timestamped cached value of a given kind.
type Snapshot[T any] struct {
	Kind      CacheKind
	CreatedAt time.Time
	Value     T
}

// FreshAt reports whether the snapshot may still be served at now given the
// staleness window. A snapshot is fresh on [CreatedAt, CreatedAt+window).
func (s Snapshot[T]) FreshAt(now time.Time, window time.Duration) bool {
	if now.Before(s.CreatedAt) {
		return false
	}
	return now.Sub(s.CreatedAt) < window
}
