package services

import (
	"log/slog"

	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	"github.com/openmerch/pricing-service/internal/core/ports/ratesource"
	portssvc "github.com/openmerch/pricing-service/internal/core/ports/services"
	"github.com/openmerch/pricing-service/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	source ratesource.Source,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo, cfg.CurrencyCacheTTL)

	container.Rates = NewRateCacheService(
		source,
		repos.RateHistoryRepo,
		cfg.BaseCurrency,
		cfg.RateCacheTTL,
		cfg.RateFetchTimeout,
		cfg.RateHistoryLimit,
		logger,
	)

	resolver := NewPriceListService(repos.PriceListRepo)
	container.Pricing = NewPricingService(repos.PriceListRepo, resolver, container.Currency, container.Rates)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)
	_ portssvc.RateSvcFacade     = (*RateCacheService)(nil)
	_ portssvc.PricingSvcFacade  = (*PricingService)(nil)
)
