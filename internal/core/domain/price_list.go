package domain

import "time"

// PriceList is a named, prioritized set of per-product prices scoped to a currency and
// optionally a customer group. A nil CustomerGroupID means the list applies to everyone.
type PriceList struct {
	PriceListID     string     `json:"priceListID"` // Primary Key (UUID)
	Name            string     `json:"name"`
	CurrencyCode    string     `json:"currencyCode"`
	CustomerGroupID *string    `json:"customerGroupID,omitempty"`
	Active          bool       `json:"active"`
	Priority        int        `json:"priority"` // Higher wins
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	AuditFields
}

// IsApplicableAt reports whether the list is active and its date window (inclusive at
// both ends) contains the given instant.
func (p PriceList) IsApplicableAt(asOf time.Time) bool {
	if !p.Active {
		return false
	}
	if p.StartDate != nil && asOf.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && asOf.After(*p.EndDate) {
		return false
	}
	return true
}

// IsGroupSpecific reports whether the list is scoped to a customer group.
func (p PriceList) IsGroupSpecific() bool {
	return p.CustomerGroupID != nil
}
