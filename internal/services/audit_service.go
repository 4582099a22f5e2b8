package services

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"order_history/internal/models"
	"order_history/internal/repository"
)

var ErrAuditDisabled = errors.New("fetch audit log is disabled")

// FetchRecord describes one completed fetch.
type FetchRecord struct {
	Identity string
	Outcome  models.FetchOutcome
	Orders   int
	Rows     int
	Duration time.Duration
	Err      error
}

type AuditService interface {
	// Record stores a fetch. Failures are logged, never returned.
	Record(ctx context.Context, rec FetchRecord)
	Recent(ctx context.Context, limit int) ([]models.FetchLog, error)
	ForIdentity(ctx context.Context, identity string, limit int) ([]models.FetchLog, error)
}

type auditService struct {
	repo repository.FetchLogRepository
}

func NewAuditService(repo repository.FetchLogRepository) AuditService {
	return &auditService{repo: repo}
}

// HashIdentity pseudonymizes an identity for storage. The empty identity
// hashes to the empty string.
func HashIdentity(identity string) string {
	if identity == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])
}

func (s *auditService) Record(ctx context.Context, rec FetchRecord) {
	entry := &models.FetchLog{
		IdentityHash: HashIdentity(rec.Identity),
		Outcome:      string(rec.Outcome),
		OrderCount:   rec.Orders,
		RowCount:     rec.Rows,
		DurationMs:   rec.Duration.Milliseconds(),
	}
	if rec.Err != nil {
		entry.Failure = rec.Err.Error()
	}

	// The request may already be gone; the audit write should still land.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.repo.Create(writeCtx, entry); err != nil {
		log.WithError(err).WithField("outcome", entry.Outcome).Warn("failed to record fetch")
	}
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]models.FetchLog, error) {
	entries, err := s.repo.ListRecent(ctx, clampLimit(limit))
	return entries, errors.Wrap(err, "listing fetch logs")
}

func (s *auditService) ForIdentity(ctx context.Context, identity string, limit int) ([]models.FetchLog, error) {
	entries, err := s.repo.ListByIdentity(ctx, HashIdentity(identity), clampLimit(limit))
	return entries, errors.Wrap(err, "listing fetch logs for identity")
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 200:
		return 200
	default:
		return limit
	}
}

type nopAuditService struct{}

// NopAuditService is used when no database is configured.
func NopAuditService() AuditService {
	return nopAuditService{}
}

func (nopAuditService) Record(context.Context, FetchRecord) {}

func (nopAuditService) Recent(context.Context, int) ([]models.FetchLog, error) {
	return nil, ErrAuditDisabled
}

func (nopAuditService) ForIdentity(context.Context, string, int) ([]models.FetchLog, error) {
	return nil, ErrAuditDisabled
}
