package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_audit_records.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("audit_records.sql")
	assert.Error(t, err)

	_, err = parseVersion("nounderscore.sql")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, "migrate_idempotent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))

	var applied int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	ms, err := loadMigrations()
	require.NoError(t, err)
	assert.Equal(t, len(ms), applied)

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'audit_records'").Scan(&tables))
	assert.Equal(t, 1, tables)
}
