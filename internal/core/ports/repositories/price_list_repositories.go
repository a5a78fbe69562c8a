package repositories

import (
	"context"
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
)

// PriceListReader defines read operations for price lists and product prices. The
// engine only reads; the admin write path lives outside this service.
type PriceListReader interface {
	// FindActivePriceLists retrieves lists in the given currency that are active at asOf
	// and visible to the given customer groups (lists with a NULL group always qualify).
	// Ordering is left to the resolver.
	FindActivePriceLists(ctx context.Context, currencyCode string, customerGroupIDs []string, asOf time.Time) ([]domain.PriceList, error)

	// FindDefaultPriceList retrieves the highest-priority active list with no customer
	// group in the given currency, or ErrNotFound.
	FindDefaultPriceList(ctx context.Context, currencyCode string, asOf time.Time) (*domain.PriceList, error)

	// FindProductPrice retrieves the active price record for a product in a list, or
	// ErrNotFound.
	FindProductPrice(ctx context.Context, priceListID, productID string) (*domain.ProductPrice, error)

	// FindProductPrices retrieves the active price records for several products in a
	// list in one round trip, keyed by product ID. Missing products are simply absent.
	FindProductPrices(ctx context.Context, priceListID string, productIDs []string) (map[string]domain.ProductPrice, error)
}

// PriceListRepositoryFacade combines all price-list repository interfaces
type PriceListRepositoryFacade interface {
	PriceListReader
}
