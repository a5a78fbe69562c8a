package models

import "time"

// PriceList represents a row in the price_lists table.
type PriceList struct {
	PriceListID     string     `json:"priceListID"` // Primary Key (UUID)
	Name            string     `json:"name"`
	CurrencyCode    string     `json:"currencyCode"`
	CustomerGroupID *string    `json:"customerGroupID"` // NULL means the list applies to everyone
	Active          bool       `json:"active"`
	Priority        int        `json:"priority"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	AuditFields
}
