package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTier is a quantity breakpoint at which a different unit price applies.
type PriceTier struct {
	MinQuantity int64           `json:"minQuantity"`
	Price       decimal.Decimal `json:"price"`
	Name        string          `json:"name,omitempty"`
}

// ProductPrice is a product's price record within a single price list, unique per
// (priceListID, productID, variantID). The engine treats these as read-only.
type ProductPrice struct {
	ProductPriceID string           `json:"productPriceID"` // Primary Key (UUID)
	PriceListID    string           `json:"priceListID"`
	ProductID      string           `json:"productID"`
	VariantID      *string          `json:"variantID,omitempty"`
	BasePrice      decimal.Decimal  `json:"basePrice"`
	SalePrice      *decimal.Decimal `json:"salePrice,omitempty"`
	SaleStartDate  *time.Time       `json:"saleStartDate,omitempty"`
	SaleEndDate    *time.Time       `json:"saleEndDate,omitempty"`
	Tiers          []PriceTier      `json:"tieredPrices,omitempty"`
	Active         bool             `json:"active"`
	AuditFields
}

// IsOnSaleAt reports whether a sale price applies at the given instant. The sale window
// is inclusive at both ends; a nil boundary leaves that side open.
func (p ProductPrice) IsOnSaleAt(asOf time.Time) bool {
	if p.SalePrice == nil {
		return false
	}
	if p.SaleStartDate != nil && asOf.Before(*p.SaleStartDate) {
		return false
	}
	if p.SaleEndDate != nil && asOf.After(*p.SaleEndDate) {
		return false
	}
	return true
}
