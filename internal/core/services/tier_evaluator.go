package services

import (
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EffectivePrice is the outcome of evaluating a price record at a quantity: the unit
// price to charge and what shaped it.
type EffectivePrice struct {
	UnitPrice   decimal.Decimal
	OnSale      bool
	AppliedTier *domain.PriceTier
}

// TierEvaluator computes the effective unit price of a product price record, honoring
// the sale window and quantity tiers. It is pure: no state, no I/O.
type TierEvaluator struct{}

// NewTierEvaluator creates a new TierEvaluator.
func NewTierEvaluator() TierEvaluator {
	return TierEvaluator{}
}

// EffectiveUnitPrice returns the unit price for the given quantity at asOf. The sale
// price applies inside its inclusive window. For quantities above one, the tier with
// the largest MinQuantity not exceeding the quantity wins outright — a matching tier
// replaces the sale price rather than stacking on it. Tiers are not assumed sorted.
func (TierEvaluator) EffectiveUnitPrice(record domain.ProductPrice, quantity int64, asOf time.Time) EffectivePrice {
	onSale := record.IsOnSaleAt(asOf)
	base := record.BasePrice
	if onSale {
		base = *record.SalePrice
	}

	result := EffectivePrice{UnitPrice: base, OnSale: onSale}
	if quantity <= 1 || len(record.Tiers) == 0 {
		return result
	}

	var best *domain.PriceTier
	for i := range record.Tiers {
		tier := &record.Tiers[i]
		if tier.MinQuantity > quantity {
			continue
		}
		if best == nil || tier.MinQuantity > best.MinQuantity {
			best = tier
		}
	}
	if best != nil {
		applied := *best
		result.UnitPrice = applied.Price
		result.AppliedTier = &applied
	}
	return result
}
