package stork

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentkit/internal/services/rest"
)

func TestLatestPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/prices/latest", r.URL.Path)
		assert.Equal(t, "BTCUSD", r.URL.Query().Get("assets"))
		assert.Equal(t, "Basic tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"BTCUSD":{"price":"65000500000000000000000","timestamp":1700000000123}}}`))
	}))
	defer srv.Close()

	c := New(rest.New("stork", srv.URL, rest.WithHeader("Authorization", "Basic tok")))
	p, err := c.LatestPrice(context.Background(), "btcusd")
	require.NoError(t, err)
	assert.InDelta(t, 65000.5, p.Price, 1e-6)
	assert.Equal(t, int64(1700000000123), p.Timestamp)
}

func TestLatestPrice_MissingAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	_, err := New(rest.New("stork", srv.URL)).LatestPrice(context.Background(), "ETHUSD")
	assert.EqualError(t, err, "no data found for asset ETHUSD")
}

func TestLatestPrice_BadPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"SOLUSD":{"price":"n/a","timestamp":1}}}`))
	}))
	defer srv.Close()

	_, err := New(rest.New("stork", srv.URL)).LatestPrice(context.Background(), "SOLUSD")
	assert.ErrorContains(t, err, "invalid price")
}
