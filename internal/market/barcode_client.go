package market

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const barcodeApiBaseUrl = "https://api.barcodedb.example.com"

// ProductInfo is the result of a barcode lookup: identity and retail
// context for one product, or nothing when the barcode is unknown.
type ProductInfo struct {
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Model       string            `json:"model"`
	Category    string            `json:"category"`
	Size        string            `json:"size"`
	Colorway    string            `json:"colorway"`
	RetailPrice float64           `json:"retail_price"`
	ReleaseYear int               `json:"release_year"`
	Specs       map[string]string `json:"specs"`
	Confidence  float64           `json:"confidence"`
}

// BarcodeClientOpts configures a BarcodeClient.
type BarcodeClientOpts struct {
	BaseURL string
	APIKey  string
}

// BarcodeClient looks products up by barcode in an external product
// database.
type BarcodeClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewBarcodeClient creates a barcode database client.
func NewBarcodeClient(opts BarcodeClientOpts) *BarcodeClient {
	baseURL := barcodeApiBaseUrl
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	c := &BarcodeClient{apiKey: opts.APIKey}
	c.httpClient = resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return c
}

// Lookup resolves a barcode to product info. "No match" is (nil, nil), not
// an error: an unknown barcode just means the vision-only path is used.
func (c *BarcodeClient) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("barcode provider: %w", ErrMissingAPIKey)
	}
	if barcode == "" {
		return nil, nil
	}

	result := &ProductInfo{}
	res, err := c.httpClient.NewRequest().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetPathParam("barcode", barcode).
		SetResult(result).
		Get("/v1/products/{barcode}")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if _, err := handleError(res, nil); err != nil {
		return nil, err
	}
	return result, nil
}
