package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/core/ports/ratesource"
	"github.com/openmerch/pricing-service/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRateSource counts outbound fetches; mock.Mock is awkward under concurrency so the
// cache tests use a plain fake.
type fakeRateSource struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, baseCurrency string) (*ratesource.Quote, error)
}

func (f *fakeRateSource) FetchRates(ctx context.Context, baseCurrency string) (*ratesource.Quote, error) {
	f.mu.Lock()
	f.calls++
	fn := f.fn
	f.mu.Unlock()
	return fn(ctx, baseCurrency)
}

func (f *fakeRateSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRateSource) SetFn(fn func(ctx context.Context, baseCurrency string) (*ratesource.Quote, error)) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
}

func quoteFn(rates map[string]decimal.Decimal) func(context.Context, string) (*ratesource.Quote, error) {
	return func(ctx context.Context, baseCurrency string) (*ratesource.Quote, error) {
		return &ratesource.Quote{BaseCurrency: baseCurrency, Rates: rates, Source: "fake"}, nil
	}
}

func failFn(err error) func(context.Context, string) (*ratesource.Quote, error) {
	return func(ctx context.Context, baseCurrency string) (*ratesource.Quote, error) {
		return nil, err
	}
}

// fakeHistoryRepo records every snapshot and the limits requested from it.
type fakeHistoryRepo struct {
	mu        sync.Mutex
	snapshots []*domain.RateTable
	limits    []int
}

func (f *fakeHistoryRepo) SaveRateSnapshot(ctx context.Context, table *domain.RateTable) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, table)
	return nil
}

func (f *fakeHistoryRepo) ListRateSnapshots(ctx context.Context, limit int) ([]*domain.RateTable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if limit > len(f.snapshots) {
		limit = len(f.snapshots)
	}
	return f.snapshots[:limit], nil
}

func (f *fakeHistoryRepo) SnapshotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snapshots)
}

func newRateCache(source *fakeRateSource, history *fakeHistoryRepo, ttl time.Duration) *services.RateCacheService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewRateCacheService(source, history, "USD", ttl, time.Second, 100, logger)
}

func usdRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"EUR": dec("0.85"),
		"GBP": dec("0.75"),
	}
}

func TestGetRates_FetchesOnceWithinTTL(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	first, err := cache.GetRates(ctx)
	require.NoError(t, err)
	rate, ok := first.Rate("EUR")
	require.True(t, ok)
	assert.True(t, rate.Equal(dec("0.85")))

	second, err := cache.GetRates(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "a fresh table should be reused, not refetched")
	assert.Equal(t, 1, source.Calls())
}

func TestGetRates_BasePinnedToOne(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)

	table, err := cache.GetRates(context.Background())
	require.NoError(t, err)

	base, ok := table.Rate("USD")
	require.True(t, ok)
	assert.True(t, base.Equal(dec("1")))
	assert.Equal(t, "USD", table.BaseCurrency())
}

func TestGetRates_CoalescesConcurrentRefreshes(t *testing.T) {
	release := make(chan struct{})
	source := &fakeRateSource{fn: func(ctx context.Context, baseCurrency string) (*ratesource.Quote, error) {
		<-release
		return &ratesource.Quote{BaseCurrency: baseCurrency, Rates: usdRates(), Source: "fake"}, nil
	}}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	tables := make([]*domain.RateTable, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], errs[i] = cache.GetRates(context.Background())
		}(i)
	}

	// Let every caller reach the in-flight guard before the fetch completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, source.Calls(), "concurrent callers must share one outbound fetch")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, tables[i])
		_, ok := tables[i].Rate("EUR")
		assert.True(t, ok)
	}
}

func TestGetRates_ServesStaleAfterFailedRefresh(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, 10*time.Millisecond)
	ctx := context.Background()

	_, err := cache.GetRates(ctx)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	source.SetFn(failFn(assert.AnError))

	table, err := cache.GetRates(ctx)
	require.NoError(t, err, "a failed refresh must fall back to the stale table")
	_, ok := table.Rate("EUR")
	assert.True(t, ok)
	assert.Equal(t, 2, source.Calls())
}

func TestGetRates_ErrorWhenNothingCached(t *testing.T) {
	source := &fakeRateSource{fn: failFn(assert.AnError)}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)

	table, err := cache.GetRates(context.Background())

	require.Error(t, err)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, apperrors.ErrRateSourceUnavailable)
}

func TestFetchRates_NoopWhileFresh(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	_, err := cache.GetRates(ctx)
	require.NoError(t, err)

	updated, table, err := cache.FetchRates(ctx, false)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NotNil(t, table)
	assert.Equal(t, 1, source.Calls())

	updated, _, err = cache.FetchRates(ctx, true)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 2, source.Calls())
}

func TestFetchRates_SurfacesFailure(t *testing.T) {
	source := &fakeRateSource{fn: failFn(assert.AnError)}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)

	updated, _, err := cache.FetchRates(context.Background(), true)

	require.Error(t, err)
	assert.False(t, updated)
	assert.ErrorIs(t, err, apperrors.ErrRateSourceUnavailable)
}

func TestSetRate_RejectsInvalidInput(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	_, err := cache.SetRate(ctx, "USD", "USD", dec("1.5"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidRateInput)

	_, err = cache.SetRate(ctx, "USD", "EUR", dec("0"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidRateInput)

	_, err = cache.SetRate(ctx, "USD", "EUR", dec("-1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidRateInput)
}

func TestSetRate_StoresAgainstBase(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	_, _, err := cache.FetchRates(ctx, true)
	require.NoError(t, err)

	table, err := cache.SetRate(ctx, "USD", "CHF", dec("0.9"))
	require.NoError(t, err)

	rate, ok := table.Rate("CHF")
	require.True(t, ok)
	assert.True(t, rate.Equal(dec("0.9")))
	assert.Equal(t, "manual", table.Source())
}

func TestSetRate_RederivesThroughBase(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	_, _, err := cache.FetchRates(ctx, true)
	require.NoError(t, err)

	// 1 EUR = 1.2 CHF, and 1 USD = 0.85 EUR, so 1 USD = 1.02 CHF.
	table, err := cache.SetRate(ctx, "EUR", "CHF", dec("1.2"))
	require.NoError(t, err)

	rate, ok := table.Rate("CHF")
	require.True(t, ok)
	assert.True(t, rate.Equal(dec("1.02")), "got %s", rate)
}

func TestSetRate_UnknownIntermediateBase(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	_, _, err := cache.FetchRates(ctx, true)
	require.NoError(t, err)

	_, err = cache.SetRate(ctx, "XXX", "CHF", dec("1.2"))

	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)
}

func TestDeleteRate(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)
	ctx := context.Background()

	_, _, err := cache.FetchRates(ctx, true)
	require.NoError(t, err)

	_, err = cache.DeleteRate(ctx, "EUR", "GBP")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRateInput, "deletes must be expressed against the base currency")

	_, err = cache.DeleteRate(ctx, "USD", "USD")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRateInput, "the base currency's own rate is not deletable")

	_, err = cache.DeleteRate(ctx, "USD", "CHF")
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)

	table, err := cache.DeleteRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	_, ok := table.Rate("EUR")
	assert.False(t, ok)
	_, ok = table.Rate("GBP")
	assert.True(t, ok, "unrelated rates must survive a delete")
}

func TestRateMutationsRecordHistory(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	history := &fakeHistoryRepo{}
	cache := newRateCache(source, history, time.Minute)
	ctx := context.Background()

	_, _, err := cache.FetchRates(ctx, true)
	require.NoError(t, err)
	_, err = cache.SetRate(ctx, "USD", "CHF", dec("0.9"))
	require.NoError(t, err)

	assert.Equal(t, 2, history.SnapshotCount())
}

func TestListRateHistory_ClampsLimit(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	history := &fakeHistoryRepo{}
	cache := newRateCache(source, history, time.Minute)
	ctx := context.Background()

	_, err := cache.ListRateHistory(ctx, 0)
	require.NoError(t, err)
	_, err = cache.ListRateHistory(ctx, 5000)
	require.NoError(t, err)
	_, err = cache.ListRateHistory(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 100, 5}, history.limits)
}

func TestStartPeriodicRefresh(t *testing.T) {
	source := &fakeRateSource{fn: quoteFn(usdRates())}
	cache := newRateCache(source, &fakeHistoryRepo{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.StartPeriodicRefresh(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return source.Calls() >= 2
	}, 2*time.Second, 5*time.Millisecond, "background refresher should keep fetching")
}
