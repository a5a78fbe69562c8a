package dto

import (
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode  string          `json:"currencyCode" binding:"required,currencycode"`
	Symbol        string          `json:"symbol" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate" binding:"required"`
	DecimalPlaces int32           `json:"decimalPlaces" binding:"gte=0,lte=8"`
	DisplayFormat string          `json:"displayFormat"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string          `json:"currencyCode"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	IsDefault     bool            `json:"isDefault"`
	IsActive      bool            `json:"isActive"`
	DecimalPlaces int32           `json:"decimalPlaces"`
	DisplayFormat string          `json:"displayFormat,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  curr.CurrencyCode,
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		ExchangeRate:  curr.ExchangeRate,
		IsDefault:     curr.IsDefault,
		IsActive:      curr.IsActive,
		DecimalPlaces: curr.DecimalPlaces,
		DisplayFormat: curr.DisplayFormat,
		CreatedAt:     curr.CreatedAt,
		LastUpdatedAt: curr.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
