package repositories

import (
	"context"

	"github.com/openmerch/pricing-service/internal/core/domain"
)

// RateHistoryRepository defines persistence for rate-table snapshots. The history is
// bounded at read time; retention of old rows is the database's concern, not an
// in-process array.
type RateHistoryRepository interface {
	// SaveRateSnapshot appends the given table as a history row.
	SaveRateSnapshot(ctx context.Context, table *domain.RateTable) error

	// ListRateSnapshots retrieves up to limit snapshots, newest first.
	ListRateSnapshots(ctx context.Context, limit int) ([]*domain.RateTable, error)
}
