package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	"github.com/openmerch/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

type PgxRateHistoryRepository struct {
	BaseRepository
}

// newPgxRateHistoryRepository creates a new repository for rate-table snapshots.
func newPgxRateHistoryRepository(pool *pgxpool.Pool) portsrepo.RateHistoryRepository {
	return &PgxRateHistoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RateHistoryRepository = (*PgxRateHistoryRepository)(nil)

// SaveRateSnapshot appends the given table as a history row.
func (r *PgxRateHistoryRepository) SaveRateSnapshot(ctx context.Context, table *domain.RateTable) error {
	ratesJSON, err := json.Marshal(table.Rates())
	if err != nil {
		return fmt.Errorf("failed to encode rate snapshot: %w", err)
	}

	query := `
		INSERT INTO rate_history (rate_snapshot_id, base_currency, rates, source, fetched_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err = r.Pool.Exec(ctx, query,
		uuid.NewString(),
		table.BaseCurrency(),
		ratesJSON,
		table.Source(),
		table.FetchedAt(),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save rate snapshot: %w", err)
	}
	return nil
}

// ListRateSnapshots retrieves up to limit snapshots, newest first.
func (r *PgxRateHistoryRepository) ListRateSnapshots(ctx context.Context, limit int) ([]*domain.RateTable, error) {
	query := `
		SELECT rate_snapshot_id, base_currency, rates, source, fetched_at, created_at
		FROM rate_history
		ORDER BY fetched_at DESC
		LIMIT $1;
	`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	var tables []*domain.RateTable
	for rows.Next() {
		var m models.RateSnapshot
		var ratesRaw []byte
		if err := rows.Scan(&m.RateSnapshotID, &m.BaseCurrency, &ratesRaw, &m.Source, &m.FetchedAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate snapshot row: %w", err)
		}
		rates := make(map[string]decimal.Decimal)
		if len(ratesRaw) > 0 {
			if err := json.Unmarshal(ratesRaw, &rates); err != nil {
				return nil, fmt.Errorf("failed to decode rate snapshot %s: %w", m.RateSnapshotID, err)
			}
		}
		tables = append(tables, domain.NewRateTable(m.BaseCurrency, rates, m.Source, m.FetchedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating rate history rows: %w", err)
	}

	return tables, nil
}
