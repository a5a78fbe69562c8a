package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	"github.com/openmerch/pricing-service/internal/models"
	"github.com/openmerch/pricing-service/internal/utils/mapping"
)

const uniqueViolationCode = "23505"

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_code, symbol, name, exchange_rate, is_default, is_active, decimal_places, display_format, created_at, created_by, last_updated_at, last_updated_by`

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyCode,
		modelCurr.Symbol,
		modelCurr.Name,
		modelCurr.ExchangeRate,
		modelCurr.IsDefault,
		modelCurr.IsActive,
		modelCurr.DecimalPlaces,
		modelCurr.DisplayFormat,
		modelCurr.CreatedAt,
		modelCurr.CreatedBy,
		modelCurr.LastUpdatedAt,
		modelCurr.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("currency %s: %w", modelCurr.CurrencyCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save currency %s: %w", modelCurr.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1;`

	modelCurr, err := r.scanCurrency(r.Pool.QueryRow(ctx, query, currencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}

	domainCurr := mapping.ToDomainCurrency(*modelCurr)
	return &domainCurr, nil
}

// FindDefaultCurrency retrieves the currency flagged as the system default.
func (r *PgxCurrencyRepository) FindDefaultCurrency(ctx context.Context) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE is_default = TRUE LIMIT 1;`

	modelCurr, err := r.scanCurrency(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default currency: %w", err)
	}

	domainCurr := mapping.ToDomainCurrency(*modelCurr)
	return &domainCurr, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var modelCurrs []models.Currency
	for rows.Next() {
		modelCurr, err := r.scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		modelCurrs = append(modelCurrs, *modelCurr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating currency rows: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrs), nil
}

// SetDefaultCurrency atomically moves the default flag: clears the previous default and
// marks the new one with its exchange rate pinned to 1 in a single transaction.
func (r *PgxCurrencyRepository) SetDefaultCurrency(ctx context.Context, currencyCode string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		UPDATE currencies
		SET is_default = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE is_default = TRUE AND currency_code <> $3;
	`, now, userID, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to clear previous default currency: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE currencies
		SET is_default = TRUE, exchange_rate = 1, last_updated_at = $1, last_updated_by = $2
		WHERE currency_code = $3;
	`, now, userID, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to set default currency %s: %w", currencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("currency %s: %w", currencyCode, apperrors.ErrNotFound)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCurrencyRepository) scanCurrency(row pgx.Row) (*models.Currency, error) {
	var modelCurr models.Currency
	err := row.Scan(
		&modelCurr.CurrencyCode,
		&modelCurr.Symbol,
		&modelCurr.Name,
		&modelCurr.ExchangeRate,
		&modelCurr.IsDefault,
		&modelCurr.IsActive,
		&modelCurr.DecimalPlaces,
		&modelCurr.DisplayFormat,
		&modelCurr.CreatedAt,
		&modelCurr.CreatedBy,
		&modelCurr.LastUpdatedAt,
		&modelCurr.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &modelCurr, nil
}
