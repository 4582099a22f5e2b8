package repository

import (
	"context"

	"gorm.io/gorm"

	"order_history/internal/models"
)

type FetchLogRepository interface {
	Create(ctx context.Context, entry *models.FetchLog) error
	ListRecent(ctx context.Context, limit int) ([]models.FetchLog, error)
	ListByIdentity(ctx context.Context, identityHash string, limit int) ([]models.FetchLog, error)
}

type fetchLogRepository struct {
	db *gorm.DB
}

func NewFetchLogRepository(db *gorm.DB) FetchLogRepository {
	return &fetchLogRepository{db: db}
}

func (r *fetchLogRepository) Create(ctx context.Context, entry *models.FetchLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *fetchLogRepository) ListRecent(ctx context.Context, limit int) ([]models.FetchLog, error) {
	var entries []models.FetchLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *fetchLogRepository) ListByIdentity(ctx context.Context, identityHash string, limit int) ([]models.FetchLog, error) {
	var entries []models.FetchLog
	err := r.db.WithContext(ctx).
		Where("identity_hash = ?", identityHash).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
