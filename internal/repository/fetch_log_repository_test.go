package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"order_history/internal/models"
)

// dryRunDB builds statements without touching a server.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var statements []string
	capture := func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture_create", capture))
	return db, &statements
}

func TestFetchLogRepositoryCreate(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewFetchLogRepository(db)

	err := repo.Create(context.Background(), &models.FetchLog{Outcome: string(models.FetchPopulated), RowCount: 2})

	require.NoError(t, err)
	require.Len(t, *statements, 1)
	assert.Contains(t, (*statements)[0], `INSERT INTO "fetch_logs"`)
}

func TestFetchLogRepositoryListRecent(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewFetchLogRepository(db)

	entries, err := repo.ListRecent(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, entries)
	require.Len(t, *statements, 1)
	assert.Contains(t, (*statements)[0], `FROM "fetch_logs"`)
	assert.Contains(t, (*statements)[0], "ORDER BY created_at DESC")
	assert.Contains(t, (*statements)[0], "LIMIT")
}

func TestFetchLogRepositoryListByIdentity(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewFetchLogRepository(db)

	_, err := repo.ListByIdentity(context.Background(), "abc", 10)

	require.NoError(t, err)
	require.Len(t, *statements, 1)
	assert.Contains(t, (*statements)[0], "identity_hash = $1")
}
