package mapping

import (
	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/models"
)

// ToModelPriceList converts a domain PriceList to a model PriceList
func ToModelPriceList(d domain.PriceList) models.PriceList {
	return models.PriceList{
		PriceListID:     d.PriceListID,
		Name:            d.Name,
		CurrencyCode:    d.CurrencyCode,
		CustomerGroupID: d.CustomerGroupID,
		Active:          d.Active,
		Priority:        d.Priority,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPriceList converts a model PriceList to a domain PriceList
func ToDomainPriceList(m models.PriceList) domain.PriceList {
	return domain.PriceList{
		PriceListID:     m.PriceListID,
		Name:            m.Name,
		CurrencyCode:    m.CurrencyCode,
		CustomerGroupID: m.CustomerGroupID,
		Active:          m.Active,
		Priority:        m.Priority,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPriceListSlice converts a slice of model PriceLists to a slice of domain PriceLists
func ToDomainPriceListSlice(ms []models.PriceList) []domain.PriceList {
	ds := make([]domain.PriceList, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPriceList(m)
	}
	return ds
}
