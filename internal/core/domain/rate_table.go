package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateTable is an immutable snapshot of exchange rates, each expressed relative to the
// table's base currency (the base itself carries rate 1). A refresh builds a brand-new
// table; readers holding a reference never observe a half-updated one. The rate map is
// unexported so no caller can mutate a shared snapshot.
type RateTable struct {
	baseCurrency string
	rates        map[string]decimal.Decimal
	fetchedAt    time.Time
	source       string
}

// NewRateTable builds a snapshot from the given rates. The input map is copied and the
// base currency entry is pinned to 1.
func NewRateTable(baseCurrency string, rates map[string]decimal.Decimal, source string, fetchedAt time.Time) *RateTable {
	copied := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		copied[code] = rate
	}
	copied[baseCurrency] = decimal.NewFromInt(1)
	return &RateTable{
		baseCurrency: baseCurrency,
		rates:        copied,
		fetchedAt:    fetchedAt,
		source:       source,
	}
}

// BaseCurrency returns the currency all rates are expressed against.
func (t *RateTable) BaseCurrency() string { return t.baseCurrency }

// FetchedAt returns when the snapshot was taken.
func (t *RateTable) FetchedAt() time.Time { return t.fetchedAt }

// Source identifies where the snapshot came from (provider name or "manual").
func (t *RateTable) Source() string { return t.source }

// Rate returns the exchange rate for a currency code relative to the base currency.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

// Len returns the number of currencies in the snapshot, base included.
func (t *RateTable) Len() int { return len(t.rates) }

// Rates returns a copy of the rate map for serialization.
func (t *RateTable) Rates() map[string]decimal.Decimal {
	copied := make(map[string]decimal.Decimal, len(t.rates))
	for code, rate := range t.rates {
		copied[code] = rate
	}
	return copied
}

// WithRate derives a new snapshot with one entry replaced. The receiver is unchanged.
func (t *RateTable) WithRate(code string, rate decimal.Decimal, source string, at time.Time) *RateTable {
	next := NewRateTable(t.baseCurrency, t.rates, source, at)
	next.rates[code] = rate
	next.rates[t.baseCurrency] = decimal.NewFromInt(1)
	return next
}

// WithoutRate derives a new snapshot with one entry removed. The receiver is unchanged.
func (t *RateTable) WithoutRate(code string, source string, at time.Time) *RateTable {
	next := NewRateTable(t.baseCurrency, t.rates, source, at)
	delete(next.rates, code)
	next.rates[t.baseCurrency] = decimal.NewFromInt(1)
	return next
}

// Age reports how long ago the snapshot was fetched.
func (t *RateTable) Age(now time.Time) time.Duration {
	return now.Sub(t.fetchedAt)
}
