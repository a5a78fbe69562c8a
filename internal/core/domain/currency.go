package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode  string          `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol        string          `json:"symbol"`       // e.g., "$"
	Name          string          `json:"name"`         // e.g., "US Dollar"
	ExchangeRate  decimal.Decimal `json:"exchangeRate"` // Relative to the default currency; 1 for the default itself
	IsDefault     bool            `json:"isDefault"`    // Exactly one currency is the default at a time
	IsActive      bool            `json:"isActive"`
	DecimalPlaces int32           `json:"decimalPlaces"` // Rounding precision for display
	DisplayFormat string          `json:"displayFormat"` // Optional template with {symbol} and {amount} placeholders
	AuditFields
}

// FormatAmount renders an amount for display using the currency's template when one is
// set, otherwise "<symbol> <amount>".
func (c Currency) FormatAmount(amount decimal.Decimal) string {
	rendered := amount.StringFixed(c.DecimalPlaces)
	if c.DisplayFormat == "" {
		return c.Symbol + " " + rendered
	}
	out := strings.ReplaceAll(c.DisplayFormat, "{symbol}", c.Symbol)
	out = strings.ReplaceAll(out, "{amount}", rendered)
	return out
}
