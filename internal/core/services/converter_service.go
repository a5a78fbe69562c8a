package services

import (
	"fmt"

	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConverterService converts amounts between currencies using a rate-table snapshot.
// It is pure: no state, no I/O.
type ConverterService struct{}

// NewConverterService creates a new ConverterService.
func NewConverterService() ConverterService {
	return ConverterService{}
}

// Convert converts amount from one currency to another through the table's base
// currency and rounds to the given number of decimal places. Both currencies must be
// present in the table or the call fails with ErrRateNotFound.
func (ConverterService) Convert(amount decimal.Decimal, from, to string, table *domain.RateTable, decimals int32) (decimal.Decimal, error) {
	if from == to {
		return amount.Round(decimals), nil
	}

	fromRate, ok := table.Rate(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s missing from rate table", apperrors.ErrRateNotFound, from)
	}
	toRate, ok := table.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s missing from rate table", apperrors.ErrRateNotFound, to)
	}
	if fromRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s has a zero rate", apperrors.ErrRateNotFound, from)
	}

	return amount.Mul(toRate).Div(fromRate).Round(decimals), nil
}

// FormatPrice renders an amount for display in the given currency. A nil currency
// entity falls back to "<code> <amount>" with two decimal places.
func (ConverterService) FormatPrice(amount decimal.Decimal, currencyCode string, currency *domain.Currency) string {
	if currency == nil {
		return currencyCode + " " + amount.StringFixed(2)
	}
	return currency.FormatAmount(amount)
}
