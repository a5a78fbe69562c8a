package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openmerch/pricing-service/internal/apperrors"
	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
	portssvc "github.com/openmerch/pricing-service/internal/core/ports/services"
	"github.com/openmerch/pricing-service/internal/dto"
	"github.com/shopspring/decimal"
)

const defaultDecimalPlaces = int32(2)

// PricingService orchestrates price resolution: applicable price lists, per-list price
// lookup with first-match-wins, tier evaluation, and currency conversion against the
// cached rate table. It is the engine's public entry point.
type PricingService struct {
	priceListRepo portsrepo.PriceListRepositoryFacade
	resolver      *PriceListService
	evaluator     TierEvaluator
	converter     ConverterService
	currencySvc   portssvc.CurrencySvcFacade
	rates         portssvc.RateSvcFacade
}

// NewPricingService creates a new PricingService.
func NewPricingService(
	priceListRepo portsrepo.PriceListRepositoryFacade,
	resolver *PriceListService,
	currencySvc portssvc.CurrencySvcFacade,
	rates portssvc.RateSvcFacade,
) *PricingService {
	return &PricingService{
		priceListRepo: priceListRepo,
		resolver:      resolver,
		evaluator:     NewTierEvaluator(),
		converter:     NewConverterService(),
		currencySvc:   currencySvc,
		rates:         rates,
	}
}

// resolveContext carries the per-call state shared across products: the target
// currency, rounding precision, and a lazily fetched rate table so a batch performs at
// most one cache read.
type resolveContext struct {
	asOf         time.Time
	targetCode   string
	targetCur    *domain.Currency
	decimals     int32
	format       bool
	table        *domain.RateTable
	tableFetched bool
}

// Resolve determines the single price to charge for a product at the given quantity.
func (s *PricingService) Resolve(ctx context.Context, productID string, quantity int64, opts dto.ResolveOptions) (*domain.PriceResult, error) {
	rc, lists, err := s.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	record, list, err := s.lookupFirstMatch(ctx, productID, lists, rc)
	if err != nil {
		return nil, err
	}

	return s.buildResult(ctx, rc, *record, *list, productID, quantity), nil
}

// ResolveMany resolves several products sharing a single price-list resolution pass and
// a single rate-table read. Products with no reachable price are absent from the
// result rather than failing the batch.
func (s *PricingService) ResolveMany(ctx context.Context, productIDs []string, quantity int64, opts dto.ResolveOptions) (map[string]*domain.PriceResult, error) {
	rc, lists, err := s.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*domain.PriceResult, len(productIDs))
	remaining := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		remaining[id] = struct{}{}
	}

	tried := make(map[string]struct{}, len(lists)+1)
	for _, list := range lists {
		if len(remaining) == 0 {
			break
		}
		tried[list.PriceListID] = struct{}{}
		if err := s.collectBatch(ctx, rc, list, quantity, remaining, results); err != nil {
			return nil, err
		}
	}

	if len(remaining) > 0 {
		fallback, err := s.defaultFallbackList(ctx, rc.asOf)
		if err != nil {
			return nil, err
		}
		if fallback != nil {
			if _, done := tried[fallback.PriceListID]; !done {
				if err := s.collectBatch(ctx, rc, *fallback, quantity, remaining, results); err != nil {
					return nil, err
				}
			}
		}
	}

	return results, nil
}

// prepare resolves the per-call context and the ordered candidate price lists.
func (s *PricingService) prepare(ctx context.Context, opts dto.ResolveOptions) (*resolveContext, []domain.PriceList, error) {
	asOf := time.Now()
	if opts.AsOf != nil {
		asOf = *opts.AsOf
	}

	targetCode := opts.CurrencyCode
	if targetCode == "" {
		defaultCur, err := s.currencySvc.GetDefaultCurrency(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve default currency: %w", err)
		}
		targetCode = defaultCur.CurrencyCode
	}

	rc := &resolveContext{
		asOf:       asOf,
		targetCode: targetCode,
		targetCur:  s.currencyOrNil(ctx, targetCode),
		format:     opts.FormatPrice,
	}
	rc.decimals = defaultDecimalPlaces
	if rc.targetCur != nil {
		rc.decimals = rc.targetCur.DecimalPlaces
	}
	if opts.Decimals != nil {
		rc.decimals = *opts.Decimals
	}

	lists, err := s.resolver.FindApplicable(ctx, targetCode, opts.CustomerGroupIDs, asOf)
	if err != nil {
		return nil, nil, err
	}
	return rc, lists, nil
}

// lookupFirstMatch walks the candidate lists in priority order and returns the first
// price record found, falling back to the default list before giving up with
// ErrPriceNotFound.
func (s *PricingService) lookupFirstMatch(ctx context.Context, productID string, lists []domain.PriceList, rc *resolveContext) (*domain.ProductPrice, *domain.PriceList, error) {
	tried := make(map[string]struct{}, len(lists)+1)
	for i := range lists {
		list := lists[i]
		tried[list.PriceListID] = struct{}{}
		record, err := s.priceListRepo.FindProductPrice(ctx, list.PriceListID, productID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("failed to look up price for product %s: %w", productID, err)
		}
		return record, &list, nil
	}

	fallback, err := s.defaultFallbackList(ctx, rc.asOf)
	if err != nil {
		return nil, nil, err
	}
	if fallback != nil {
		if _, done := tried[fallback.PriceListID]; !done {
			record, err := s.priceListRepo.FindProductPrice(ctx, fallback.PriceListID, productID)
			if err == nil {
				return record, fallback, nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, fmt.Errorf("failed to look up fallback price for product %s: %w", productID, err)
			}
		}
	}

	return nil, nil, fmt.Errorf("%w: product %s has no price under any applicable list", apperrors.ErrPriceNotFound, productID)
}

// defaultFallbackList returns the highest-priority active "everyone" list in the system
// default currency, or nil when none exists.
func (s *PricingService) defaultFallbackList(ctx context.Context, asOf time.Time) (*domain.PriceList, error) {
	defaultCur, err := s.currencySvc.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default currency: %w", err)
	}
	list, err := s.priceListRepo.FindDefaultPriceList(ctx, defaultCur.CurrencyCode, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find default price list: %w", err)
	}
	return list, nil
}

// collectBatch fetches price records for the remaining products in one list and folds
// the hits into results.
func (s *PricingService) collectBatch(ctx context.Context, rc *resolveContext, list domain.PriceList, quantity int64, remaining map[string]struct{}, results map[string]*domain.PriceResult) error {
	ids := make([]string, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	records, err := s.priceListRepo.FindProductPrices(ctx, list.PriceListID, ids)
	if err != nil {
		return fmt.Errorf("failed to look up prices in list %s: %w", list.PriceListID, err)
	}
	for productID, record := range records {
		results[productID] = s.buildResult(ctx, rc, record, list, productID, quantity)
		delete(remaining, productID)
	}
	return nil
}

// buildResult evaluates the record and converts into the target currency. Conversion
// failure degrades to the source currency instead of failing the call: a price the
// storefront can display beats a hard error.
func (s *PricingService) buildResult(ctx context.Context, rc *resolveContext, record domain.ProductPrice, list domain.PriceList, productID string, quantity int64) *domain.PriceResult {
	effective := s.evaluator.EffectiveUnitPrice(record, quantity, rc.asOf)
	sourceCode := list.CurrencyCode

	price := effective.UnitPrice
	original := record.BasePrice
	resultCode := rc.targetCode
	decimals := rc.decimals

	if sourceCode != rc.targetCode {
		converted, convErr := s.convertPair(ctx, rc, price, original, sourceCode)
		if convErr != nil {
			// Graceful degradation: tag the unconverted price with its source currency.
			resultCode = sourceCode
			if srcCur := s.currencyOrNil(ctx, sourceCode); srcCur != nil {
				decimals = srcCur.DecimalPlaces
			}
			price = price.Round(decimals)
			original = original.Round(decimals)
		} else {
			price = converted[0]
			original = converted[1]
		}
	} else {
		price = price.Round(decimals)
		original = original.Round(decimals)
	}

	result := &domain.PriceResult{
		ProductID:       productID,
		Price:           price,
		OriginalPrice:   original,
		CurrencyCode:    resultCode,
		OnSale:          effective.OnSale,
		PriceListID:     list.PriceListID,
		CustomerGroupID: list.CustomerGroupID,
		AppliedTier:     effective.AppliedTier,
	}

	if effective.OnSale && record.BasePrice.IsPositive() {
		pct := record.BasePrice.Sub(effective.UnitPrice).
			Div(record.BasePrice).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		result.DiscountPercentage = &pct
	}

	if rc.format {
		cur := rc.targetCur
		if resultCode != rc.targetCode {
			cur = s.currencyOrNil(ctx, resultCode)
		}
		result.FormattedPrice = s.converter.FormatPrice(price, resultCode, cur)
	}

	return result
}

// convertPair converts the effective and original prices with the shared rate table.
// The table is fetched at most once per resolve call.
func (s *PricingService) convertPair(ctx context.Context, rc *resolveContext, price, original decimal.Decimal, sourceCode string) ([2]decimal.Decimal, error) {
	if !rc.tableFetched {
		rc.tableFetched = true
		table, err := s.rates.GetRates(ctx)
		if err == nil {
			rc.table = table
		}
	}
	if rc.table == nil {
		return [2]decimal.Decimal{}, apperrors.ErrRateNotFound
	}

	convertedPrice, err := s.converter.Convert(price, sourceCode, rc.targetCode, rc.table, rc.decimals)
	if err != nil {
		return [2]decimal.Decimal{}, err
	}
	convertedOriginal, err := s.converter.Convert(original, sourceCode, rc.targetCode, rc.table, rc.decimals)
	if err != nil {
		return [2]decimal.Decimal{}, err
	}
	return [2]decimal.Decimal{convertedPrice, convertedOriginal}, nil
}

// currencyOrNil looks up a currency entity, treating every failure as absence. Display
// metadata is optional; resolution must not fail because of it.
func (s *PricingService) currencyOrNil(ctx context.Context, code string) *domain.Currency {
	cur, err := s.currencySvc.GetCurrencyByCode(ctx, code)
	if err != nil {
		return nil
	}
	return cur
}
