package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompsClientFetch(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"price":45.0,"confidence":0.9,"sold_at":"2026-08-01T12:00:00Z"},
			{"price":52.5,"confidence":0.8,"sold_at":"2026-08-10T12:00:00Z"},
			{"price":0,"confidence":0.5,"sold_at":"2026-08-11T12:00:00Z"}
		]}`))
	}))
	defer ts.Close()

	client := NewCompsClient(CompsClientOpts{BaseURL: ts.URL, APIKey: "key"})
	obs, err := client.Fetch(context.Background(), Query{Text: "nike hoodie", Brand: "nike"})
	require.NoError(t, err)

	// Zero-price rows are dropped.
	require.Len(t, obs, 2)
	assert.Equal(t, 45.0, obs[0].Price)
	assert.Equal(t, 52.5, obs[1].Price)
	assert.False(t, obs[0].ObservedAt.IsZero())

	assert.Equal(t, "/v1/sold", req.URL.Path)
	assert.Equal(t, "nike hoodie", req.URL.Query().Get("q"))
	assert.Equal(t, "nike", req.URL.Query().Get("brand"))
	assert.Equal(t, "key", req.Header.Get("X-Api-Key"))
}

func TestCompsClientMissingAPIKey(t *testing.T) {
	client := NewCompsClient(CompsClientOpts{BaseURL: "http://localhost"})
	_, err := client.Fetch(context.Background(), Query{})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestCompsClientUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewCompsClient(CompsClientOpts{BaseURL: ts.URL, APIKey: "key"})
	_, err := client.Fetch(context.Background(), Query{Text: "x"})
	assert.Error(t, err)
}

func TestBarcodeClientLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/products/012345":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"Air Jordan 1","brand":"Nike","category":"sneakers","retail_price":170,"confidence":0.95}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := NewBarcodeClient(BarcodeClientOpts{BaseURL: ts.URL, APIKey: "key"})

	info, err := client.Lookup(context.Background(), "012345")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Air Jordan 1", info.Name)
	assert.Equal(t, 170.0, info.RetailPrice)

	// Unknown barcode is a no-match, not an error.
	info, err = client.Lookup(context.Background(), "999999")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestBarcodeClientEmptyBarcode(t *testing.T) {
	client := NewBarcodeClient(BarcodeClientOpts{BaseURL: "http://localhost", APIKey: "key"})
	info, err := client.Lookup(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, info)
}
