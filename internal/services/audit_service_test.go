package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_history/internal/models"
)

type memoryFetchLogs struct {
	entries   []models.FetchLog
	createErr error
	lastLimit int
	lastHash  string
}

func (m *memoryFetchLogs) Create(_ context.Context, entry *models.FetchLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryFetchLogs) ListRecent(_ context.Context, limit int) ([]models.FetchLog, error) {
	m.lastLimit = limit
	return m.entries, nil
}

func (m *memoryFetchLogs) ListByIdentity(_ context.Context, identityHash string, limit int) ([]models.FetchLog, error) {
	m.lastHash, m.lastLimit = identityHash, limit
	return nil, nil
}

func TestHashIdentity(t *testing.T) {
	assert.Empty(t, HashIdentity(""))
	assert.Len(t, HashIdentity("a@b.com"), 64)
	assert.Equal(t, HashIdentity("a@b.com"), HashIdentity("a@b.com"))
	assert.NotEqual(t, HashIdentity("a@b.com"), HashIdentity("A@b.com"))
}

func TestAuditServiceRecord(t *testing.T) {
	repo := &memoryFetchLogs{}
	audit := NewAuditService(repo)

	audit.Record(context.Background(), FetchRecord{
		Identity: "a@b.com",
		Outcome:  models.FetchFailed,
		Orders:   0,
		Duration: 1500 * time.Millisecond,
		Err:      errors.New("status 502"),
	})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, HashIdentity("a@b.com"), entry.IdentityHash)
	assert.NotContains(t, entry.IdentityHash, "a@b.com")
	assert.Equal(t, "failed", entry.Outcome)
	assert.Equal(t, int64(1500), entry.DurationMs)
	assert.Equal(t, "status 502", entry.Failure)
}

func TestAuditServiceRecordSurvivesCancelledRequest(t *testing.T) {
	repo := &memoryFetchLogs{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewAuditService(repo).Record(ctx, FetchRecord{Outcome: models.FetchEmpty})

	assert.Len(t, repo.entries, 1)
}

func TestAuditServiceRecordSwallowsErrors(t *testing.T) {
	repo := &memoryFetchLogs{createErr: errors.New("db down")}

	assert.NotPanics(t, func() {
		NewAuditService(repo).Record(context.Background(), FetchRecord{Outcome: models.FetchEmpty})
	})
}

func TestAuditServiceQueries(t *testing.T) {
	repo := &memoryFetchLogs{}
	audit := NewAuditService(repo)

	_, err := audit.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit)

	_, err = audit.Recent(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, 200, repo.lastLimit)

	_, err = audit.ForIdentity(context.Background(), "a@b.com", 5)
	require.NoError(t, err)
	assert.Equal(t, HashIdentity("a@b.com"), repo.lastHash)
	assert.Equal(t, 5, repo.lastLimit)
}

func TestNopAuditService(t *testing.T) {
	audit := NopAuditService()
	audit.Record(context.Background(), FetchRecord{})

	_, err := audit.Recent(context.Background(), 10)

	assert.ErrorIs(t, err, ErrAuditDisabled)
}
