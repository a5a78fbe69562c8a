package services

import (
	"context"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateReaderSvc defines read operations on the rate cache.
type RateReaderSvc interface {
	// GetRates returns the current rate table, refreshing it first when the cached
	// snapshot is older than the TTL.
	GetRates(ctx context.Context) (*domain.RateTable, error)

	// ListRateHistory retrieves up to limit historical snapshots, newest first.
	ListRateHistory(ctx context.Context, limit int) ([]*domain.RateTable, error)
}

// RateAdminSvc defines administrative operations on the rate cache.
type RateAdminSvc interface {
	// FetchRates refreshes the table from the external source. Without force the call is
	// a no-op while the cache is still valid; the boolean reports whether a fetch ran.
	FetchRates(ctx context.Context, force bool) (bool, *domain.RateTable, error)

	// SetRate installs a manual override for target, expressed relative to base. The
	// rate must be positive and base must differ from target.
	SetRate(ctx context.Context, base, target string, rate decimal.Decimal) (*domain.RateTable, error)

	// DeleteRate removes target's rate. Only supported when base equals the cache's
	// base currency.
	DeleteRate(ctx context.Context, base, target string) (*domain.RateTable, error)
}

// RateSvcFacade combines all rate-cache service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateAdminSvc
}
