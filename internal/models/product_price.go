package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTier is one entry of the tiered_prices JSONB column.
type PriceTier struct {
	MinQuantity int64           `json:"minQuantity"`
	Price       decimal.Decimal `json:"price"`
	Name        string          `json:"name,omitempty"`
}

// ProductPrice represents a row in the product_prices table.
// Unique per (price_list_id, product_id, variant_id).
type ProductPrice struct {
	ProductPriceID string           `json:"productPriceID"` // Primary Key (UUID)
	PriceListID    string           `json:"priceListID"`
	ProductID      string           `json:"productID"`
	VariantID      *string          `json:"variantID"`
	BasePrice      decimal.Decimal  `json:"basePrice"`
	SalePrice      *decimal.Decimal `json:"salePrice"`
	SaleStartDate  *time.Time       `json:"saleStartDate"`
	SaleEndDate    *time.Time       `json:"saleEndDate"`
	TieredPrices   []PriceTier      `json:"tieredPrices"` // Stored as JSONB
	Active         bool             `json:"active"`
	AuditFields
}
