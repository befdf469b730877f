package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Chair","price":10.99,"category":"furniture"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, 0)
	product, err := client.Product(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "Chair", product.Title)
	assert.Equal(t, "furniture", product.Category)
	assert.Equal(t, "10.99", product.Price.String(), "price is kept verbatim, never through float64")
}

func TestProductNotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, 0)
	product, err := client.Product(context.Background(), "999")
	require.NoError(t, err, "a catalog miss is not an error")
	assert.Nil(t, product)
}

func TestProductNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, 0)
	product, err := client.Product(context.Background(), "999")
	require.NoError(t, err, "a 200 with a null body is a catalog miss")
	assert.Nil(t, product)
}

func TestProductEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, 0)
	product, err := client.Product(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, time.Second, nil, 0)
	_, err := client.Product(context.Background(), "1")
	assert.Error(t, err, "transport failures must surface to the caller")
}

func TestProductMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, 0)
	_, err := client.Product(context.Background(), "1")
	assert.Error(t, err)
}
