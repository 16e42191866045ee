package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"catalog_portal/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogBody = `[{"productId":"101","productName":"Camiseta","Género":["Niño"]},{"productId":"102","productName":"Falda"}]`

type memCache struct {
	data map[string][]byte
	ttl  time.Duration
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	c.ttl = ttl
	return nil
}

func TestListProducts_ReturnsUpstreamBytesUnmodified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	got, err := NewProductService(srv.URL, srv.Client()).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalogBody, string(got))
}

func TestListProducts_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewProductService(srv.URL, srv.Client()).ListProducts(context.Background())
			assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
			assert.Equal(t, common.MsgUpstreamUnavailable, common.PublicMessage(err))
		})
	}
}

func TestListProducts_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewProductService(url, nil).ListProducts(context.Background())
	assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
}

func TestGetProduct_FiltersByIDAndReturnsFirst(t *testing.T) {
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("fq")
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	got, err := NewProductService(srv.URL+"/search/", srv.Client()).GetProduct(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "productId:101", gotFilter)
	assert.Equal(t, `{"productId":"101","productName":"Camiseta","Género":["Niño"]}`, string(got))
}

func TestGetProduct_EmptyResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewProductService(srv.URL, srv.Client()).GetProduct(context.Background(), "999")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListProducts_CacheHitSkipsUpstream(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	cache := &memCache{data: map[string][]byte{}}
	svc := NewProductService(srv.URL, srv.Client()).WithCache(cache, 30*time.Second)

	for i := 0; i < 3; i++ {
		got, err := svc.ListProducts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, catalogBody, string(got))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 30*time.Second, cache.ttl)
}

func TestWithCache_ZeroTTLDisables(t *testing.T) {
	svc := NewProductService("http://example.invalid", nil).WithCache(&memCache{data: map[string][]byte{}}, 0)
	assert.Nil(t, svc.cache)
}
