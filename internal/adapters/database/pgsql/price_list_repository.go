package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	"github.com/openmerch/pricing-service/internal/models"
	"github.com/openmerch/pricing-service/internal/utils/mapping"
)

type PgxPriceListRepository struct {
	BaseRepository
}

// newPgxPriceListRepository creates a new repository for price-list and product-price data.
func newPgxPriceListRepository(pool *pgxpool.Pool) portsrepo.PriceListRepositoryFacade {
	return &PgxPriceListRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PriceListRepositoryFacade = (*PgxPriceListRepository)(nil)

const priceListColumns = `price_list_id, name, currency_code, customer_group_id, active, priority, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

const productPriceColumns = `product_price_id, price_list_id, product_id, variant_id, base_price, sale_price, sale_start_date, sale_end_date, tiered_prices, active, created_at, created_by, last_updated_at, last_updated_by`

// FindActivePriceLists retrieves lists in the given currency, active at asOf, visible
// to the given customer groups. Lists with no group always qualify.
func (r *PgxPriceListRepository) FindActivePriceLists(ctx context.Context, currencyCode string, customerGroupIDs []string, asOf time.Time) ([]domain.PriceList, error) {
	query := `
		SELECT ` + priceListColumns + `
		FROM price_lists
		WHERE currency_code = $1
		  AND active = TRUE
		  AND (start_date IS NULL OR start_date <= $2)
		  AND (end_date IS NULL OR end_date >= $2)
		  AND (customer_group_id IS NULL OR customer_group_id = ANY($3))
		ORDER BY priority DESC;
	`

	if customerGroupIDs == nil {
		customerGroupIDs = []string{}
	}
	rows, err := r.Pool.Query(ctx, query, currencyCode, asOf, customerGroupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query active price lists: %w", err)
	}
	defer rows.Close()

	var modelLists []models.PriceList
	for rows.Next() {
		modelList, err := scanPriceList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price list row: %w", err)
		}
		modelLists = append(modelLists, *modelList)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating price list rows: %w", err)
	}

	return mapping.ToDomainPriceListSlice(modelLists), nil
}

// FindDefaultPriceList retrieves the highest-priority active "everyone" list in the
// given currency.
func (r *PgxPriceListRepository) FindDefaultPriceList(ctx context.Context, currencyCode string, asOf time.Time) (*domain.PriceList, error) {
	query := `
		SELECT ` + priceListColumns + `
		FROM price_lists
		WHERE currency_code = $1
		  AND active = TRUE
		  AND customer_group_id IS NULL
		  AND (start_date IS NULL OR start_date <= $2)
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY priority DESC
		LIMIT 1;
	`

	modelList, err := scanPriceList(r.Pool.QueryRow(ctx, query, currencyCode, asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default price list for %s: %w", currencyCode, err)
	}

	domainList := mapping.ToDomainPriceList(*modelList)
	return &domainList, nil
}

// FindProductPrice retrieves the active price record for a product in a list. With
// multiple variant rows, the variant-less record wins.
func (r *PgxPriceListRepository) FindProductPrice(ctx context.Context, priceListID, productID string) (*domain.ProductPrice, error) {
	query := `
		SELECT ` + productPriceColumns + `
		FROM product_prices
		WHERE price_list_id = $1 AND product_id = $2 AND active = TRUE
		ORDER BY variant_id NULLS FIRST
		LIMIT 1;
	`

	modelPrice, err := scanProductPrice(r.Pool.QueryRow(ctx, query, priceListID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product price for %s in list %s: %w", productID, priceListID, err)
	}

	domainPrice := mapping.ToDomainProductPrice(*modelPrice)
	return &domainPrice, nil
}

// FindProductPrices retrieves the active price records for several products in one
// round trip, keyed by product ID.
func (r *PgxPriceListRepository) FindProductPrices(ctx context.Context, priceListID string, productIDs []string) (map[string]domain.ProductPrice, error) {
	query := `
		SELECT DISTINCT ON (product_id) ` + productPriceColumns + `
		FROM product_prices
		WHERE price_list_id = $1 AND product_id = ANY($2) AND active = TRUE
		ORDER BY product_id, variant_id NULLS FIRST;
	`

	rows, err := r.Pool.Query(ctx, query, priceListID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query product prices in list %s: %w", priceListID, err)
	}
	defer rows.Close()

	result := make(map[string]domain.ProductPrice, len(productIDs))
	for rows.Next() {
		modelPrice, err := scanProductPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product price row: %w", err)
		}
		result[modelPrice.ProductID] = mapping.ToDomainProductPrice(*modelPrice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating product price rows: %w", err)
	}

	return result, nil
}

func scanPriceList(row pgx.Row) (*models.PriceList, error) {
	var m models.PriceList
	err := row.Scan(
		&m.PriceListID,
		&m.Name,
		&m.CurrencyCode,
		&m.CustomerGroupID,
		&m.Active,
		&m.Priority,
		&m.StartDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanProductPrice(row pgx.Row) (*models.ProductPrice, error) {
	var m models.ProductPrice
	var tiersRaw []byte
	err := row.Scan(
		&m.ProductPriceID,
		&m.PriceListID,
		&m.ProductID,
		&m.VariantID,
		&m.BasePrice,
		&m.SalePrice,
		&m.SaleStartDate,
		&m.SaleEndDate,
		&tiersRaw,
		&m.Active,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(tiersRaw) > 0 {
		if err := json.Unmarshal(tiersRaw, &m.TieredPrices); err != nil {
			return nil, fmt.Errorf("failed to decode tiered prices for %s: %w", m.ProductPriceID, err)
		}
	}
	return &m, nil
}
