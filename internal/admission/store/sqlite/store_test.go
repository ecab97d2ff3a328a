package sqlite_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditgate/internal/admission/models"
	"auditgate/internal/admission/store/sqlite"
	sqlitedb "auditgate/internal/platform/sqlite"
	"auditgate/pkg/domain"
	"auditgate/pkg/platform/sentinel"
	"auditgate/pkg/requestcontext"
)

// newTestStore returns a store over a private in-memory database with the
// production migrations applied.
func newTestStore(t *testing.T) *sqlite.SQLiteRecordStore {
	t.Helper()
	name := "test_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlitedb.OpenMemory(context.Background(), name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewSQLiteRecordStore(db)
}

func record(name, location, addr string, createdAt time.Time) models.AuditRecord {
	return models.AuditRecord{
		ID:            domain.NewAuditRecordID(),
		BusinessKey:   domain.NormalizeBusinessKey(name, location),
		BusinessName:  name,
		Location:      location,
		SourceAddress: addr,
		CreatedAt:     createdAt,
	}
}

func TestSQLiteRecordStore_InsertAndHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	createdAt := time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)
	score := 58.0
	rec := record("Mario's Pizza", "Austin, TX", "10.0.0.1", createdAt)
	rec.VisibilityScore = &score

	require.NoError(t, store.InsertIfAbsent(ctx, rec))

	got, err := store.HistoryByBusinessKey(ctx, "marios-pizza-austin-tx", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, createdAt, got[0].CreatedAt)
	require.NotNil(t, got[0].VisibilityScore)
	assert.Equal(t, 58.0, *got[0].VisibilityScore)

	none, err := store.HistoryByBusinessKey(ctx, "nobody", 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecordStore_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertIfAbsent(ctx, record("Acme", "Boise", "10.0.0.1", time.Now())))
	err := store.InsertIfAbsent(ctx, record("ACME", "boise", "10.0.0.2", time.Now()))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestSQLiteRecordStore_RecordsBySourceAddress(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	store := newTestStore(t)

	require.NoError(t, store.InsertIfAbsent(ctx, record("Stale", "X", "10.0.0.1", now.Add(-25*time.Hour))))
	require.NoError(t, store.InsertIfAbsent(ctx, record("Edge", "X", "10.0.0.1", now.Add(-24*time.Hour))))
	require.NoError(t, store.InsertIfAbsent(ctx, record("Recent", "X", "10.0.0.1", now.Add(-time.Hour))))
	require.NoError(t, store.InsertIfAbsent(ctx, record("Elsewhere", "X", "10.0.0.2", now.Add(-time.Hour))))

	got, err := store.RecordsBySourceAddress(ctx, "10.0.0.1", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Recent", got[0].BusinessName)
	assert.Equal(t, "Edge", got[1].BusinessName)
}
