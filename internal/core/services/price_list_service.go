package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
	portsrepo "github.com/openmerch/pricing-service/internal/core/ports/repositories"
)

// PriceListService resolves which price lists apply to a request: currency, customer
// groups and date window filter the candidates, then priority orders them.
type PriceListService struct {
	priceListRepo portsrepo.PriceListRepositoryFacade
}

// NewPriceListService creates a new PriceListService.
func NewPriceListService(priceListRepo portsrepo.PriceListRepositoryFacade) *PriceListService {
	return &PriceListService{priceListRepo: priceListRepo}
}

// FindApplicable returns the ordered, deduplicated price lists applicable at asOf for
// the given currency and customer groups. Ordering: priority descending, and at equal
// priority a customer-group-specific list sorts before the "everyone" list. Priority is
// the primary key — a general list with higher priority outranks a group list with
// lower priority. That mirrors the long-standing resolution behavior; changing it would
// silently change pricing outcomes.
func (s *PriceListService) FindApplicable(ctx context.Context, currencyCode string, customerGroupIDs []string, asOf time.Time) ([]domain.PriceList, error) {
	candidates, err := s.priceListRepo.FindActivePriceLists(ctx, currencyCode, customerGroupIDs, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find active price lists: %w", err)
	}

	groups := make(map[string]struct{}, len(customerGroupIDs))
	for _, id := range customerGroupIDs {
		groups[id] = struct{}{}
	}

	// The repository already filters; re-check here so the ordering contract holds even
	// against a loose implementation.
	seen := make(map[string]struct{}, len(candidates))
	applicable := make([]domain.PriceList, 0, len(candidates))
	for _, list := range candidates {
		if _, dup := seen[list.PriceListID]; dup {
			continue
		}
		if list.CurrencyCode != currencyCode || !list.IsApplicableAt(asOf) {
			continue
		}
		if list.IsGroupSpecific() {
			if _, member := groups[*list.CustomerGroupID]; !member {
				continue
			}
		}
		seen[list.PriceListID] = struct{}{}
		applicable = append(applicable, list)
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		a, b := applicable[i], applicable[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.IsGroupSpecific() && !b.IsGroupSpecific()
	})

	return applicable, nil
}
