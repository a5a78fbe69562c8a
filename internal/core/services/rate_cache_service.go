package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	"github.com/openmerch/pricing-service/internal/core/ports/ratesource"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const refreshFlightKey = "rate-refresh"

// RateCacheService holds the current rate table and refreshes it from the external
// source. Reads are lock-free (atomic snapshot pointer); refreshes are coalesced through
// a singleflight group so N concurrent callers past the TTL cause exactly one outbound
// fetch, and the periodic background refresh shares the same in-flight guard.
type RateCacheService struct {
	source       ratesource.Source
	historyRepo  portsrepo.RateHistoryRepository
	baseCurrency string
	ttl          time.Duration
	fetchTimeout time.Duration
	historyLimit int
	logger       *slog.Logger

	table  atomic.Pointer[domain.RateTable]
	flight singleflight.Group
	mu     sync.Mutex // serializes manual overrides with refresh swaps
}

// NewRateCacheService creates a rate cache seeded with an empty, already-expired table
// so the first read triggers a fetch.
func NewRateCacheService(
	source ratesource.Source,
	historyRepo portsrepo.RateHistoryRepository,
	baseCurrency string,
	ttl time.Duration,
	fetchTimeout time.Duration,
	historyLimit int,
	logger *slog.Logger,
) *RateCacheService {
	s := &RateCacheService{
		source:       source,
		historyRepo:  historyRepo,
		baseCurrency: baseCurrency,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		historyLimit: historyLimit,
		logger:       logger,
	}
	s.table.Store(domain.NewRateTable(baseCurrency, nil, "seed", time.Time{}))
	return s
}

// GetRates returns the cached table while it is younger than the TTL, otherwise
// refreshes first. When a refresh fails but a previously fetched table is still held,
// the stale table is returned instead of an error; price display beats rate freshness.
func (s *RateCacheService) GetRates(ctx context.Context) (*domain.RateTable, error) {
	current := s.table.Load()
	if s.isFresh(current) {
		return current, nil
	}

	refreshed, err := s.refreshShared(ctx)
	if err != nil {
		stale := s.table.Load()
		if !stale.FetchedAt().IsZero() {
			s.logger.Warn("serving stale rate table after failed refresh",
				slog.Duration("age", stale.Age(time.Now())),
				slog.String("error", err.Error()))
			return stale, nil
		}
		return nil, err
	}
	return refreshed, nil
}

// FetchRates refreshes the table from the external source. Without force it is a no-op
// while the cache is still valid. Unlike GetRates, a failed fetch is surfaced to the
// caller; this is the path behind the explicit admin refresh.
func (s *RateCacheService) FetchRates(ctx context.Context, force bool) (bool, *domain.RateTable, error) {
	current := s.table.Load()
	if !force && s.isFresh(current) {
		return false, current, nil
	}

	refreshed, err := s.refreshShared(ctx)
	if err != nil {
		return false, s.table.Load(), err
	}
	return true, refreshed, nil
}

// SetRate installs a manual override for target, expressed relative to base. When base
// is not the cache's base currency the override is re-derived through it before storing.
// The mutation produces a brand-new snapshot; concurrent readers keep the old one.
func (s *RateCacheService) SetRate(ctx context.Context, base, target string, rate decimal.Decimal) (*domain.RateTable, error) {
	if base == target {
		return nil, fmt.Errorf("%w: base and target currencies cannot be the same", apperrors.ErrInvalidRateInput)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrInvalidRateInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.table.Load()
	stored := rate
	if base != current.BaseCurrency() {
		baseRate, ok := current.Rate(base)
		if !ok {
			return nil, fmt.Errorf("%w: no rate for %s to re-derive against %s", apperrors.ErrRateNotFound, base, current.BaseCurrency())
		}
		stored = baseRate.Mul(rate)
	}

	next := current.WithRate(target, stored, "manual", time.Now())
	s.table.Store(next)
	s.recordSnapshot(ctx, next)
	return next, nil
}

// DeleteRate removes target's rate. Only supported when base equals the cache's base
// currency; a rate expressed relative to anything else cannot be deleted.
func (s *RateCacheService) DeleteRate(ctx context.Context, base, target string) (*domain.RateTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.table.Load()
	if base != current.BaseCurrency() {
		return nil, fmt.Errorf("%w: rates can only be deleted relative to the base currency %s", apperrors.ErrInvalidRateInput, current.BaseCurrency())
	}
	if target == current.BaseCurrency() {
		return nil, fmt.Errorf("%w: cannot delete the base currency's own rate", apperrors.ErrInvalidRateInput)
	}
	if _, ok := current.Rate(target); !ok {
		return nil, fmt.Errorf("%w: no rate stored for %s", apperrors.ErrRateNotFound, target)
	}

	next := current.WithoutRate(target, "manual", time.Now())
	s.table.Store(next)
	s.recordSnapshot(ctx, next)
	return next, nil
}

// ListRateHistory retrieves up to limit historical snapshots, newest first. The limit is
// clamped to the configured maximum.
func (s *RateCacheService) ListRateHistory(ctx context.Context, limit int) ([]*domain.RateTable, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	tables, err := s.historyRepo.ListRateSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	return tables, nil
}

// StartPeriodicRefresh launches the background refresher. It stops when ctx is
// cancelled. Failures are logged and swallowed; the existing table stays in place.
func (s *RateCacheService) StartPeriodicRefresh(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.refreshShared(ctx); err != nil {
					s.logger.Warn("background rate refresh failed",
						slog.String("error", err.Error()))
				}
			}
		}
	}()
}

func (s *RateCacheService) isFresh(t *domain.RateTable) bool {
	return !t.FetchedAt().IsZero() && t.Age(time.Now()) < s.ttl
}

// refreshShared funnels every refresh through the singleflight group; all waiters
// receive the table produced by the single outbound fetch.
func (s *RateCacheService) refreshShared(ctx context.Context) (*domain.RateTable, error) {
	v, err, _ := s.flight.Do(refreshFlightKey, func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.RateTable), nil
}

func (s *RateCacheService) refresh(ctx context.Context) (*domain.RateTable, error) {
	// Detached from the first waiter's cancellation: the fetch result benefits every
	// caller coalesced onto this flight, not just the one that triggered it.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	quote, err := s.source.FetchRates(fetchCtx, s.baseCurrency)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: fetch timed out after %s", apperrors.ErrRateSourceUnavailable, s.fetchTimeout)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateSourceUnavailable, err)
	}

	next := domain.NewRateTable(s.baseCurrency, quote.Rates, quote.Source, time.Now())

	s.mu.Lock()
	s.table.Store(next)
	s.mu.Unlock()

	s.recordSnapshot(ctx, next)
	s.logger.Info("rate table refreshed",
		slog.String("source", next.Source()),
		slog.Int("currencies", next.Len()))
	return next, nil
}

// recordSnapshot appends the table to the history store. History is best effort: a
// failed insert must never fail the rate operation that produced the table.
func (s *RateCacheService) recordSnapshot(ctx context.Context, table *domain.RateTable) {
	if err := s.historyRepo.SaveRateSnapshot(context.WithoutCancel(ctx), table); err != nil {
		s.logger.Warn("failed to record rate snapshot", slog.String("error", err.Error()))
	}
}
