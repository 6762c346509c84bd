package offer

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
	// RunPartial marks a run that stored some offers before its source failed.
	RunPartial RunStatus = "partial"
)

// CollectRun records one collection pass against a single source.
type CollectRun struct {
	ID           uuid.UUID  `json:"id"`
	Source       Source     `json:"source"`
	Keyword      string     `json:"keyword"`
	Status       RunStatus  `json:"status"`
	OffersFound  int        `json:"offers_found"`
	OffersSaved  int        `json:"offers_saved"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

type SourceStat struct {
	Source        Source    `json:"source"`
	TotalOffers   int       `json:"total_offers"`
	LastCollected time.Time `json:"last_collected"`
}
