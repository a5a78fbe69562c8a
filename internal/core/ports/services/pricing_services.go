package services

import (
	"context"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/dto"
)

// PricingSvcFacade is the public entry point of the price resolution engine.
type PricingSvcFacade interface {
	// Resolve determines the single price to charge for a product at the given quantity.
	// The only hard failure is apperrors.ErrPriceNotFound; a missing conversion rate
	// degrades to the source currency instead of failing.
	Resolve(ctx context.Context, productID string, quantity int64, opts dto.ResolveOptions) (*domain.PriceResult, error)

	// ResolveMany resolves several products with one price-list resolution pass and one
	// rate-table read. Products with no reachable price are absent from the result.
	ResolveMany(ctx context.Context, productIDs []string, quantity int64, opts dto.ResolveOptions) (map[string]*domain.PriceResult, error)
}
