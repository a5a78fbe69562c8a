package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/openmerch/pricing-service/internal/core/ports/ratesource"
	"github.com/shopspring/decimal"
)

// HTTPSource fetches rate quotes from a remote provider over HTTP. Cancellation and
// timeouts come from the caller's context; the cache bounds every fetch.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates a new HTTP-backed rate source.
func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

// Ensure implementation matches interface
var _ ratesource.Source = (*HTTPSource)(nil)

// quoteResponse is the provider's wire format: rates keyed by currency code, each
// relative to the requested base.
type quoteResponse struct {
	Base     string                     `json:"base"`
	Rates    map[string]decimal.Decimal `json:"rates"`
	Provider string                     `json:"provider"`
}

// FetchRates requests the latest quotes for the given base currency.
func (s *HTTPSource) FetchRates(ctx context.Context, baseCurrency string) (*ratesource.Quote, error) {
	endpoint := fmt.Sprintf("%s/latest?base=%s", s.baseURL, url.QueryEscape(baseCurrency))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate source returned no rates for base %s", baseCurrency)
	}

	provider := body.Provider
	if provider == "" {
		provider = s.baseURL
	}

	return &ratesource.Quote{
		BaseCurrency: baseCurrency,
		Rates:        body.Rates,
		Source:       provider,
	}, nil
}
