package domain

import "github.com/shopspring/decimal"

// PriceResult is the outcome of resolving a product's price: the unit price to charge,
// where it came from, and any sale or tier that shaped it.
type PriceResult struct {
	ProductID          string           `json:"productID"`
	Price              decimal.Decimal  `json:"price"`
	OriginalPrice      decimal.Decimal  `json:"originalPrice"`
	CurrencyCode       string           `json:"currency"`
	FormattedPrice     string           `json:"formattedPrice,omitempty"`
	OnSale             bool             `json:"onSale"`
	PriceListID        string           `json:"priceListID"`
	CustomerGroupID    *string          `json:"customerGroupID,omitempty"`
	AppliedTier        *PriceTier       `json:"appliedTier,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
}
