package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"catalog_portal/internal/common"
	"catalog_portal/internal/platform/logger"
	"catalog_portal/internal/platform/metrics"

	"github.com/tidwall/gjson"
)

// Cache stores upstream payloads verbatim.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ProductService proxies the upstream catalog search endpoint.
type ProductService struct {
	baseURL string
	client  *http.Client
	cache   Cache
	ttl     time.Duration
}

func NewProductService(baseURL string, client *http.Client) *ProductService {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProductService{baseURL: baseURL, client: client}
}

// WithCache enables response caching. A nil cache or non-positive ttl disables it.
func (s *ProductService) WithCache(c Cache, ttl time.Duration) *ProductService {
	if c == nil || ttl <= 0 {
		s.cache, s.ttl = nil, 0
		return s
	}
	s.cache, s.ttl = c, ttl
	return s
}

// ListProducts returns the upstream catalog body unmodified.
func (s *ProductService) ListProducts(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, s.baseURL)
}

// GetProduct filters upstream by productId and returns the first match unmodified.
func (s *ProductService) GetProduct(ctx context.Context, id string) (json.RawMessage, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	q := u.Query()
	q.Set("fq", "productId:"+id)
	u.RawQuery = q.Encode()

	body, err := s.fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return body, nil
	}
	first := doc.Get("0")
	if !first.Exists() {
		metrics.RecordUpstream("not_found")
		return nil, common.Errorf("product %s: %w", id, common.ErrNotFound)
	}
	return json.RawMessage(first.Raw), nil
}

func (s *ProductService) fetch(ctx context.Context, target string) (json.RawMessage, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, target); err != nil {
			logger.Log.WithError(err).Warn("catalog cache read failed")
		} else if ok {
			metrics.RecordUpstream("cache_hit")
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.upstreamError(target, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, s.upstreamError(target, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.upstreamError(target, fmt.Errorf("read body: %w", err))
	}
	if !json.Valid(body) {
		return nil, s.upstreamError(target, fmt.Errorf("upstream returned invalid JSON"))
	}
	metrics.RecordUpstream("ok")

	if s.cache != nil {
		if err := s.cache.Set(ctx, target, body, s.ttl); err != nil {
			logger.Log.WithError(err).Warn("catalog cache write failed")
		}
	}
	return body, nil
}

func (s *ProductService) upstreamError(target string, cause error) error {
	metrics.RecordUpstream("error")
	logger.Log.WithError(cause).WithField("url", target).Error("Error al obtener productos del catálogo")
	return fmt.Errorf("%w: %w", common.ErrUpstreamUnavailable, cause)
}
