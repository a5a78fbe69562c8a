package ratesource

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is one response from an external rate provider: every rate is expressed
// relative to the requested base currency.
type Quote struct {
	BaseCurrency string
	Rates        map[string]decimal.Decimal
	Source       string
}

// Source is the outbound port for fetching exchange-rate quotes. Implementations must
// honor context cancellation; the cache bounds every call with a timeout.
type Source interface {
	FetchRates(ctx context.Context, baseCurrency string) (*Quote, error)
}
