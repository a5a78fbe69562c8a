package models

import "github.com/shopspring/decimal"

// Currency represents a row in the currencies table.
type Currency struct {
	CurrencyCode  string          `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	IsDefault     bool            `json:"isDefault"`
	IsActive      bool            `json:"isActive"`
	DecimalPlaces int32           `json:"decimalPlaces"`
	DisplayFormat string          `json:"displayFormat"`
	AuditFields
}
