package mapping

import (
	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/models"
)

// ToModelProductPrice converts a domain ProductPrice to a model ProductPrice
func ToModelProductPrice(d domain.ProductPrice) models.ProductPrice {
	tiers := make([]models.PriceTier, len(d.Tiers))
	for i, t := range d.Tiers {
		tiers[i] = models.PriceTier{MinQuantity: t.MinQuantity, Price: t.Price, Name: t.Name}
	}
	return models.ProductPrice{
		ProductPriceID: d.ProductPriceID,
		PriceListID:    d.PriceListID,
		ProductID:      d.ProductID,
		VariantID:      d.VariantID,
		BasePrice:      d.BasePrice,
		SalePrice:      d.SalePrice,
		SaleStartDate:  d.SaleStartDate,
		SaleEndDate:    d.SaleEndDate,
		TieredPrices:   tiers,
		Active:         d.Active,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProductPrice converts a model ProductPrice to a domain ProductPrice
func ToDomainProductPrice(m models.ProductPrice) domain.ProductPrice {
	tiers := make([]domain.PriceTier, len(m.TieredPrices))
	for i, t := range m.TieredPrices {
		tiers[i] = domain.PriceTier{MinQuantity: t.MinQuantity, Price: t.Price, Name: t.Name}
	}
	return domain.ProductPrice{
		ProductPriceID: m.ProductPriceID,
		PriceListID:    m.PriceListID,
		ProductID:      m.ProductID,
		VariantID:      m.VariantID,
		BasePrice:      m.BasePrice,
		SalePrice:      m.SalePrice,
		SaleStartDate:  m.SaleStartDate,
		SaleEndDate:    m.SaleEndDate,
		Tiers:          tiers,
		Active:         m.Active,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
