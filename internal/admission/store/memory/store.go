package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"auditgate/internal/admission/models"
	"auditgate/pkg/domain"
	"auditgate/pkg/platform/sentinel"
	"auditgate/pkg/requestcontext"
)

// InMemoryRecordStore keeps audit records in process memory. It backs local
// development and tests; records are lost on restart. The per-business index
// keeps every record. The per-address index only needs records inside the
// rate window and is pruned on insert when a retention is set.
type InMemoryRecordStore struct {
	mu        sync.RWMutex
	byKey     map[domain.BusinessKey]models.AuditRecord
	byAddress map[string][]models.AuditRecord
	retention time.Duration
}

type Option func(*InMemoryRecordStore)

// WithAddressRetention drops address-index entries older than d on each
// insert. d must be at least the rate window; zero keeps everything.
func WithAddressRetention(d time.Duration) Option {
	return func(s *InMemoryRecordStore) {
		if d > 0 {
			s.retention = d
		}
	}
}

func NewInMemoryRecordStore(opts ...Option) *InMemoryRecordStore {
	s := &InMemoryRecordStore{
		byKey:     make(map[domain.BusinessKey]models.AuditRecord),
		byAddress: make(map[string][]models.AuditRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryByBusinessKey returns at most one record: a business key is unique.
func (s *InMemoryRecordStore) HistoryByBusinessKey(_ context.Context, key domain.BusinessKey, limit int) ([]models.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byKey[key]
	if !ok || limit <= 0 {
		return nil, nil
	}
	return []models.AuditRecord{rec}, nil
}

// RecordsBySourceAddress returns records from address created within window
// of the request time, newest first.
func (s *InMemoryRecordStore) RecordsBySourceAddress(ctx context.Context, address string, window time.Duration) ([]models.AuditRecord, error) {
	cutoff := requestcontext.Now(ctx).Add(-window)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AuditRecord
	for _, rec := range s.byAddress[address] {
		if !rec.CreatedAt.Before(cutoff) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b models.AuditRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// InsertIfAbsent stores record unless its business key is already present.
func (s *InMemoryRecordStore) InsertIfAbsent(ctx context.Context, record models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[record.BusinessKey]; exists {
		return sentinel.ErrConflict
	}
	s.byKey[record.BusinessKey] = record
	s.byAddress[record.SourceAddress] = append(s.byAddress[record.SourceAddress], record)
	if s.retention > 0 {
		s.pruneAddresses(requestcontext.Now(ctx).Add(-s.retention))
	}
	return nil
}

// pruneAddresses removes address-index entries created before cutoff.
// Callers hold the write lock.
func (s *InMemoryRecordStore) pruneAddresses(cutoff time.Time) {
	for addr, recs := range s.byAddress {
		kept := slices.DeleteFunc(recs, func(r models.AuditRecord) bool {
			return r.CreatedAt.Before(cutoff)
		})
		if len(kept) == 0 {
			delete(s.byAddress, addr)
			continue
		}
		s.byAddress[addr] = kept
	}
}

// AddressEntries reports how many records the address index holds.
func (s *InMemoryRecordStore) AddressEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, recs := range s.byAddress {
		n += len(recs)
	}
	return n
}

// Ping always succeeds.
func (s *InMemoryRecordStore) Ping(context.Context) error {
	return nil
}

// Len reports how many records are stored.
func (s *InMemoryRecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
