package services_test

import (
	"testing"
	"time"

	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRateTable() *domain.RateTable {
	return domain.NewRateTable("USD", map[string]decimal.Decimal{
		"EUR": dec("0.85"),
		"GBP": dec("0.75"),
		"JPY": dec("150"),
	}, "test", time.Now())
}

func TestConvert_SameCurrencyRoundsOnly(t *testing.T) {
	converter := services.NewConverterService()

	result, err := converter.Convert(dec("10.999"), "USD", "USD", testRateTable(), 2)

	require.NoError(t, err)
	assert.True(t, result.Equal(dec("11.00")), "got %s", result)
}

func TestConvert_ThroughBase(t *testing.T) {
	converter := services.NewConverterService()
	table := testRateTable()

	tests := []struct {
		name     string
		amount   string
		from     string
		to       string
		decimals int32
		expected string
	}{
		{"base to target", "80", "USD", "EUR", 2, "68.00"},
		{"target to base", "68", "EUR", "USD", 2, "80.00"},
		{"cross rate", "100", "EUR", "GBP", 2, "88.24"},
		{"zero decimal currency", "10", "USD", "JPY", 0, "1500"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := converter.Convert(dec(tc.amount), tc.from, tc.to, table, tc.decimals)
			require.NoError(t, err)
			assert.True(t, result.Equal(dec(tc.expected)), "got %s, want %s", result, tc.expected)
		})
	}
}

func TestConvert_RoundTripStaysClose(t *testing.T) {
	converter := services.NewConverterService()
	table := testRateTable()

	original := dec("123.45")
	there, err := converter.Convert(original, "USD", "EUR", table, 6)
	require.NoError(t, err)
	back, err := converter.Convert(there, "EUR", "USD", table, 2)
	require.NoError(t, err)

	diff := back.Sub(original).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")), "round trip drifted by %s", diff)
}

func TestConvert_MissingRate(t *testing.T) {
	converter := services.NewConverterService()
	table := testRateTable()

	_, err := converter.Convert(dec("10"), "USD", "CHF", table, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)

	_, err = converter.Convert(dec("10"), "CHF", "USD", table, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)
}

func TestConvert_ZeroSourceRate(t *testing.T) {
	converter := services.NewConverterService()
	table := domain.NewRateTable("USD", map[string]decimal.Decimal{
		"XXX": decimal.Zero,
	}, "test", time.Now())

	_, err := converter.Convert(dec("10"), "XXX", "USD", table, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)
}

func TestFormatPrice(t *testing.T) {
	converter := services.NewConverterService()

	eur := &domain.Currency{
		CurrencyCode:  "EUR",
		Symbol:        "€",
		DecimalPlaces: 2,
		DisplayFormat: "{amount} {symbol}",
	}

	assert.Equal(t, "68.00 €", converter.FormatPrice(dec("68"), "EUR", eur))

	// Without a currency entity we fall back to code + amount.
	assert.Equal(t, "CHF 12.50", converter.FormatPrice(dec("12.5"), "CHF", nil))
}
