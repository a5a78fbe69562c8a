package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	"github.com/openmerch/pricing-service/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	currencyCacheSize  = 256
	defaultCurrencyKey = "\x00default"
)

type cachedCurrency struct {
	currency  domain.Currency
	expiresAt time.Time
}

// CurrencyService is the currency registry: lookups, administration, and the single
// system default. Lookups sit on the hot path of every price resolution, so they go
// through a small TTL'd LRU in front of the repository.
type CurrencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryWithTx
	cache        *lru.Cache[string, cachedCurrency]
	cacheTTL     time.Duration
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryWithTx, cacheTTL time.Duration) *CurrencyService {
	cache, _ := lru.New[string, cachedCurrency](currencyCacheSize)
	return &CurrencyService{
		currencyRepo: currencyRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// CreateCurrency persists a new currency. New currencies are never the default; the
// default only moves through SetDefaultCurrency.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	if req.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode:  req.CurrencyCode,
		Symbol:        req.Symbol,
		Name:          req.Name,
		ExchangeRate:  req.ExchangeRate,
		IsDefault:     false,
		IsActive:      true,
		DecimalPlaces: req.DecimalPlaces,
		DisplayFormat: req.DisplayFormat,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.cache.Remove(currency.CurrencyCode)
	return &currency, nil
}

// GetCurrencyByCode retrieves a specific currency by its 3-letter code.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}

	if cached, ok := s.cache.Get(currencyCode); ok && time.Now().Before(cached.expiresAt) {
		currency := cached.currency
		return &currency, nil
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}

	s.cache.Add(currencyCode, cachedCurrency{currency: *currency, expiresAt: time.Now().Add(s.cacheTTL)})
	return currency, nil
}

// GetDefaultCurrency retrieves the system default currency.
func (s *CurrencyService) GetDefaultCurrency(ctx context.Context) (*domain.Currency, error) {
	if cached, ok := s.cache.Get(defaultCurrencyKey); ok && time.Now().Before(cached.expiresAt) {
		currency := cached.currency
		return &currency, nil
	}

	currency, err := s.currencyRepo.FindDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get default currency in service: %w", err)
	}

	s.cache.Add(defaultCurrencyKey, cachedCurrency{currency: *currency, expiresAt: time.Now().Add(s.cacheTTL)})
	return currency, nil
}

// ListCurrencies retrieves all currencies.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// SetDefaultCurrency makes the given currency the single system default. The repository
// clears the previous default, marks the new one and pins its rate to 1 in one
// transaction, so there is never a moment with zero or two defaults.
func (s *CurrencyService) SetDefaultCurrency(ctx context.Context, currencyCode string, userID string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(currencyCode)
	currency, err := s.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, err
	}
	if !currency.IsActive {
		return nil, fmt.Errorf("%w: cannot make inactive currency %s the default", apperrors.ErrValidation, currencyCode)
	}

	if err := s.currencyRepo.SetDefaultCurrency(ctx, currencyCode, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to set default currency in service: %w", err)
	}

	// Every cached entry may now carry a stale IsDefault flag.
	s.cache.Purge()

	updated, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to reload default currency in service: %w", err)
	}
	return updated, nil
}
