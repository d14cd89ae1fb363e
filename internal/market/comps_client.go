package market

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const compsApiBaseUrl = "https://api.soldcomps.example.com"

// compsResponse is the provider's sold-listings payload.
type compsResponse struct {
	Items []compsItem `json:"items"`
}

type compsItem struct {
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	SoldAt     string  `json:"sold_at"`
}

// CompsClientOpts configures a CompsClient. BaseURL is overridable for
// tests; APIKey is required for live use.
type CompsClientOpts struct {
	BaseURL string
	APIKey  string
	Limit   int
}

// CompsClient fetches sold-listing price comps from the comps provider.
// It implements Source.
type CompsClient struct {
	httpClient *resty.Client
	apiKey     string
	limit      int
}

// NewCompsClient creates a comps provider client.
func NewCompsClient(opts CompsClientOpts) *CompsClient {
	baseURL := compsApiBaseUrl
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	c := &CompsClient{apiKey: opts.APIKey, limit: limit}
	c.httpClient = resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return c
}

func (c *CompsClient) Name() string { return "comps" }

// Fetch returns sold-price observations for the query, most recent last.
// A missing API key is reported as ErrMissingAPIKey so callers can surface
// it as a configuration problem rather than a market failure.
func (c *CompsClient) Fetch(ctx context.Context, q Query) ([]Observation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("comps provider: %w", ErrMissingAPIKey)
	}

	result := &compsResponse{}
	res, err := c.httpClient.NewRequest().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetQueryParams(map[string]string{
			"q":     q.Text,
			"brand": q.Brand,
			"model": q.Model,
			"limit": strconv.Itoa(c.limit),
		}).
		SetResult(result).
		Get("/v1/sold")
	if _, err := handleError(res, err); err != nil {
		return nil, err
	}

	obs := make([]Observation, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Price <= 0 {
			continue
		}
		o := Observation{Price: item.Price, Confidence: item.Confidence}
		if t, err := time.Parse(time.RFC3339, item.SoldAt); err == nil {
			o.ObservedAt = t
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}
