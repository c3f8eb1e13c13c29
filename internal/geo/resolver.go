// Package geo resolves the user's address to geocoding candidates through
// the Google Maps Geocoding API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/myproject/weather-agent/internal/cache"
	"github.com/myproject/weather-agent/internal/upstream"
)

const (
	DefaultAddress = "Manchester, Greater Manchester"
	DefaultTimeout = 10 * time.Second

	service = "geocode"
)

type Config struct {
	APIKey         string
	DefaultAddress string
	BaseURL        string
	Timeout        time.Duration
	// RateLimit is the maximum number of geocoding requests per second.
	// Zero keeps the maps client's default.
	RateLimit int
	Cache     cache.Cache
	CacheTTL  time.Duration
}

type Resolver struct {
	client         *maps.Client
	defaultAddress string
	timeout        time.Duration
	cache          cache.Cache
	cacheTTL       time.Duration
	logger         *zap.SugaredLogger
}

func NewResolver(cfg Config, logger *zap.SugaredLogger) (*Resolver, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", service, upstream.ErrMissingAPIKey)
	}
	if cfg.DefaultAddress == "" {
		cfg.DefaultAddress = DefaultAddress
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RateLimit))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Resolver{
		client:         client,
		defaultAddress: cfg.DefaultAddress,
		timeout:        cfg.Timeout,
		cache:          cfg.Cache,
		cacheTTL:       cfg.CacheTTL,
		logger:         logger,
	}, nil
}

func (r *Resolver) DefaultAddress() string {
	return r.defaultAddress
}

// ResolveDefault geocodes the configured address.
func (r *Resolver) ResolveDefault(ctx context.Context) ([]maps.GeocodingResult, error) {
	return r.Resolve(ctx, r.defaultAddress)
}

// Resolve geocodes address and returns every candidate the service found.
// An empty candidate list is reported as upstream.ErrNoResults.
func (r *Resolver) Resolve(ctx context.Context, address string) ([]maps.GeocodingResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, upstream.InvalidArgument(service, "address is empty")
	}

	cacheKey := "geocode:" + strings.ToLower(address)
	if raw, ok := r.cache.Get(ctx, cacheKey); ok {
		var results []maps.GeocodingResult
		if err := json.Unmarshal(raw, &results); err == nil && len(results) > 0 {
			r.logger.Debugw("geocode cache hit", "address", address)
			return results, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results, err := r.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, classify(address, err)
	}
	if len(results) == 0 {
		return nil, upstream.NoResults(service, fmt.Sprintf("no candidates for %q", address))
	}

	if raw, err := Encode(results); err == nil {
		r.cache.Set(ctx, cacheKey, raw, r.cacheTTL)
	}
	r.logger.Debugw("geocoded address", "address", address, "candidates", len(results))
	return results, nil
}

// classify maps errors from the maps client onto the upstream kinds. The
// client reports service statuses as "maps: STATUS - message".
func classify(address string, err error) error {
	if upstream.IsTransport(err) {
		return upstream.Network(service, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "ZERO_RESULTS") {
		return upstream.NoResults(service, fmt.Sprintf("no candidates for %q", address))
	}
	return upstream.Status(service, 0, strings.TrimPrefix(msg, "maps: "))
}
