package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all pgx-backed repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:    newPgxCurrencyRepository(pool),
		PriceListRepo:   newPgxPriceListRepository(pool),
		RateHistoryRepo: newPgxRateHistoryRepository(pool),
	}
}
