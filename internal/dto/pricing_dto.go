package dto

import (
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ResolveOptions carries the caller-controlled knobs of a price resolution. The zero
// value means: default currency, anonymous customer, raw price, resolve as of now.
type ResolveOptions struct {
	CurrencyCode     string     // Target currency; empty means the system default
	CustomerGroupIDs []string   // Empty for anonymous customers
	FormatPrice      bool       // Also render the price with the currency's display template
	Decimals         *int32     // Override the currency's decimal places for rounding
	AsOf             *time.Time // Resolution instant; nil means now
}

// ResolvePriceRequest defines the body of a single price resolution call.
type ResolvePriceRequest struct {
	ProductID        string   `json:"productID" binding:"required"`
	Quantity         int64    `json:"quantity" binding:"omitempty,gt=0"`
	Currency         string   `json:"currency" binding:"omitempty,currencycode"`
	CustomerGroupIDs []string `json:"customerGroupIDs"`
	FormatPrice      bool     `json:"formatPrice"`
}

// ResolvePricesRequest defines the body of a batch price resolution call.
type ResolvePricesRequest struct {
	ProductIDs       []string `json:"productIDs" binding:"required,min=1,max=200"`
	Quantity         int64    `json:"quantity" binding:"omitempty,gt=0"`
	Currency         string   `json:"currency" binding:"omitempty,currencycode"`
	CustomerGroupIDs []string `json:"customerGroupIDs"`
	FormatPrice      bool     `json:"formatPrice"`
}

// PriceTierResponse describes the tier that produced a resolved price.
type PriceTierResponse struct {
	MinQuantity int64           `json:"minQuantity"`
	Price       decimal.Decimal `json:"price"`
	Name        string          `json:"name,omitempty"`
}

// PriceResultResponse defines the data returned for a resolved price.
type PriceResultResponse struct {
	ProductID          string             `json:"productID"`
	Price              decimal.Decimal    `json:"price"`
	OriginalPrice      decimal.Decimal    `json:"originalPrice"`
	Currency           string             `json:"currency"`
	FormattedPrice     string             `json:"formattedPrice,omitempty"`
	OnSale             bool               `json:"onSale"`
	PriceListID        string             `json:"priceListID"`
	CustomerGroupID    *string            `json:"customerGroupID,omitempty"`
	AppliedTier        *PriceTierResponse `json:"appliedTier,omitempty"`
	DiscountPercentage *decimal.Decimal   `json:"discountPercentage,omitempty"`
}

// ToPriceResultResponse converts a domain.PriceResult to a PriceResultResponse DTO
func ToPriceResultResponse(r *domain.PriceResult) PriceResultResponse {
	resp := PriceResultResponse{
		ProductID:          r.ProductID,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice,
		Currency:           r.CurrencyCode,
		FormattedPrice:     r.FormattedPrice,
		OnSale:             r.OnSale,
		PriceListID:        r.PriceListID,
		CustomerGroupID:    r.CustomerGroupID,
		DiscountPercentage: r.DiscountPercentage,
	}
	if r.AppliedTier != nil {
		resp.AppliedTier = &PriceTierResponse{
			MinQuantity: r.AppliedTier.MinQuantity,
			Price:       r.AppliedTier.Price,
			Name:        r.AppliedTier.Name,
		}
	}
	return resp
}
