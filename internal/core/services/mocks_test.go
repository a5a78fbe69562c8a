package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindDefaultCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SetDefaultCurrency(ctx context.Context, currencyCode string, userID string, now time.Time) error {
	args := m.Called(ctx, currencyCode, userID, now)
	return args.Error(0)
}

func (m *MockCurrencyRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockCurrencyRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCurrencyRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock PriceListRepository ---

type MockPriceListRepository struct {
	mock.Mock
}

func (m *MockPriceListRepository) FindActivePriceLists(ctx context.Context, currencyCode string, customerGroupIDs []string, asOf time.Time) ([]domain.PriceList, error) {
	args := m.Called(ctx, currencyCode, customerGroupIDs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceList), args.Error(1)
}

func (m *MockPriceListRepository) FindDefaultPriceList(ctx context.Context, currencyCode string, asOf time.Time) (*domain.PriceList, error) {
	args := m.Called(ctx, currencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceList), args.Error(1)
}

func (m *MockPriceListRepository) FindProductPrice(ctx context.Context, priceListID, productID string) (*domain.ProductPrice, error) {
	args := m.Called(ctx, priceListID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockPriceListRepository) FindProductPrices(ctx context.Context, priceListID string, productIDs []string) (map[string]domain.ProductPrice, error) {
	args := m.Called(ctx, priceListID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ProductPrice), args.Error(1)
}

// --- Mock CurrencySvc ---

type MockCurrencySvc struct {
	mock.Mock
}

func (m *MockCurrencySvc) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) GetDefaultCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) SetDefaultCurrency(ctx context.Context, currencyCode string, userID string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

// --- Mock RateSvc ---

type MockRateSvc struct {
	mock.Mock
}

func (m *MockRateSvc) GetRates(ctx context.Context) (*domain.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

func (m *MockRateSvc) ListRateHistory(ctx context.Context, limit int) ([]*domain.RateTable, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RateTable), args.Error(1)
}

func (m *MockRateSvc) FetchRates(ctx context.Context, force bool) (bool, *domain.RateTable, error) {
	args := m.Called(ctx, force)
	if args.Get(1) == nil {
		return args.Bool(0), nil, args.Error(2)
	}
	return args.Bool(0), args.Get(1).(*domain.RateTable), args.Error(2)
}

func (m *MockRateSvc) SetRate(ctx context.Context, base, target string, rate decimal.Decimal) (*domain.RateTable, error) {
	args := m.Called(ctx, base, target, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

func (m *MockRateSvc) DeleteRate(ctx context.Context, base, target string) (*domain.RateTable, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}
