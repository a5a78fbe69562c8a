package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot represents a row in the rate_history table: one full rate table as it
// stood after a refresh or a manual override.
type RateSnapshot struct {
	RateSnapshotID string                     `json:"rateSnapshotID"` // Primary Key (UUID)
	BaseCurrency   string                     `json:"baseCurrency"`
	Rates          map[string]decimal.Decimal `json:"rates"` // Stored as JSONB
	Source         string                     `json:"source"`
	FetchedAt      time.Time                  `json:"fetchedAt"`
	CreatedAt      time.Time                  `json:"createdAt"`
}
