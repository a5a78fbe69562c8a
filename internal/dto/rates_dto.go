package dto

import (
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetRateRequest defines the body of a manual rate override.
type SetRateRequest struct {
	BaseCurrency   string          `json:"baseCurrency" binding:"required,currencycode"`
	TargetCurrency string          `json:"targetCurrency" binding:"required,currencycode"`
	Rate           decimal.Decimal `json:"rate" binding:"required"`
}

// RateTableResponse defines the data returned for a rate-table snapshot.
type RateTableResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	FetchedAt    time.Time                  `json:"fetchedAt"`
	Source       string                     `json:"source"`
}

// ToRateTableResponse converts a domain.RateTable to a RateTableResponse DTO
func ToRateTableResponse(t *domain.RateTable) RateTableResponse {
	return RateTableResponse{
		BaseCurrency: t.BaseCurrency(),
		Rates:        t.Rates(),
		FetchedAt:    t.FetchedAt(),
		Source:       t.Source(),
	}
}

// ToListRateTableResponse converts historical snapshots to DTOs, preserving order.
func ToListRateTableResponse(tables []*domain.RateTable) []RateTableResponse {
	res := make([]RateTableResponse, len(tables))
	for i, t := range tables {
		res[i] = ToRateTableResponse(t)
	}
	return res
}

// RefreshResponse reports the outcome of an explicit refresh request.
type RefreshResponse struct {
	Updated bool              `json:"updated"`
	Table   RateTableResponse `json:"table"`
}
