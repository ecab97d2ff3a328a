package memory

import (
	"context"
	"sync"

	"auditgate/internal/attempts"
)

// DefaultCapacity bounds how many attempts the in-memory store retains.
const DefaultCapacity = 10000

// RingStore is a bounded, thread-safe attempt store. When full, the oldest
// entries are overwritten.
type RingStore struct {
	mu       sync.Mutex
	entries  []attempts.Entry
	head     int // next write position
	count    int
	capacity int

	dropped int64
}

func NewRingStore(capacity int) *RingStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RingStore{
		entries:  make([]attempts.Entry, capacity),
		capacity: capacity,
	}
}

// Append adds an entry, overwriting the oldest when full.
func (b *RingStore) Append(_ context.Context, entry attempts.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == b.capacity {
		b.dropped++
	} else {
		b.count++
	}
	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.capacity
	return nil
}

// ListLeads walks from newest to oldest and returns up to limit lead entries.
func (b *RingStore) ListLeads(_ context.Context, limit int) ([]attempts.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []attempts.Entry
	for i := 0; i < b.count && len(out) < limit; i++ {
		idx := (b.head - 1 - i + b.capacity) % b.capacity
		if b.entries[idx].IsLead {
			out = append(out, b.entries[idx])
		}
	}
	return out, nil
}

// Recent returns up to n entries, newest first.
func (b *RingStore) Recent(n int) []attempts.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > b.count {
		n = b.count
	}
	out := make([]attempts.Entry, n)
	for i := range n {
		out[i] = b.entries[(b.head-1-i+b.capacity)%b.capacity]
	}
	return out
}

// Len returns the number of retained entries.
func (b *RingStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns how many entries were overwritten.
func (b *RingStore) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
