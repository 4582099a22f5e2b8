package models

import (
	"time"
)

type FetchLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	IdentityHash string    `json:"identity_hash" gorm:"size:64;index"`
	Outcome      string    `json:"outcome" gorm:"size:16;not null"` // populated, empty, failed
	OrderCount   int       `json:"order_count"`
	RowCount     int       `json:"row_count"`
	DurationMs   int64     `json:"duration_ms"`
	Failure      string    `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

type FetchOutcome string

const (
	FetchPopulated FetchOutcome = "populated"
	FetchEmpty     FetchOutcome = "empty"
	FetchFailed    FetchOutcome = "failed"
)
