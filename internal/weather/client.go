// Package weather fetches current conditions and daily forecasts from the
// Google Weather API. Response bodies are returned untouched.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/myproject/weather-agent/internal/cache"
	"github.com/myproject/weather-agent/internal/upstream"
)

const (
	DefaultBaseURL    = "https://weather.googleapis.com"
	DefaultTimeout    = 10 * time.Second
	DefaultDays       = 1
	MaxDays           = 10
	DefaultMaxRetries = 2

	currentPath  = "/v1/currentConditions:lookup"
	forecastPath = "/v1/forecast/days:lookup"
	service      = "weather"
)

// Coordinates is the argument shape the tools receive from the model.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return upstream.InvalidArgument(service, fmt.Sprintf("latitude %v out of range [-90, 90]", c.Lat))
	}
	if c.Lng < -180 || c.Lng > 180 {
		return upstream.InvalidArgument(service, fmt.Sprintf("longitude %v out of range [-180, 180]", c.Lng))
	}
	return nil
}

func (c Coordinates) key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

type Client struct {
	apiKey      string
	baseURL     string
	unitsSystem string
	httpClient  *http.Client
	timeout     time.Duration
	limiter     *rate.Limiter
	maxRetries  uint64
	retryBase   time.Duration
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *zap.SugaredLogger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds each request. It applies to a copy of the HTTP client,
// so a client passed to WithHTTPClient is left untouched whatever the option
// order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUnitsSystem sets the unitsSystem query parameter (METRIC or IMPERIAL).
func WithUnitsSystem(units string) Option {
	return func(c *Client) {
		c.unitsSystem = units
	}
}

// WithRateLimit caps outbound requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithRetry(maxRetries uint64, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		if base > 0 {
			c.retryBase = base
		}
	}
}

func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if store != nil {
			c.cache = store
			c.cacheTTL = ttl
		}
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryBase:  200 * time.Millisecond,
		cache:      cache.Nop{},
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// CurrentConditions returns the current-conditions payload for coords.
func (c *Client) CurrentConditions(ctx context.Context, coords Coordinates) (json.RawMessage, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	return c.lookup(ctx, currentPath, "current:"+coords.key(), c.query(coords))
}

// DailyForecast returns the daily forecast payload for coords. days <= 0
// selects DefaultDays; anything above MaxDays is rejected.
func (c *Client) DailyForecast(ctx context.Context, coords Coordinates, days int) (json.RawMessage, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		return nil, upstream.InvalidArgument(service, fmt.Sprintf("days %d exceeds maximum of %d", days, MaxDays))
	}
	q := c.query(coords)
	q.Set("days", strconv.Itoa(days))
	return c.lookup(ctx, forecastPath, fmt.Sprintf("forecast:%s:%d", coords.key(), days), q)
}

func (c *Client) query(coords Coordinates) url.Values {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location.latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(coords.Lng, 'f', -1, 64))
	if c.unitsSystem != "" {
		q.Set("unitsSystem", c.unitsSystem)
	}
	return q
}

func (c *Client) lookup(ctx context.Context, path, cacheKey string, q url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", service, upstream.ErrMissingAPIKey)
	}
	if body, ok := c.cache.Get(ctx, cacheKey); ok {
		c.logger.Debugw("weather cache hit", "key", cacheKey)
		return json.RawMessage(body), nil
	}

	u := c.baseURL + path + "?" + q.Encode()
	var body []byte
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := c.fetch(ctx, u)
		if err != nil {
			if retryable(err) {
				c.logger.Debugw("weather request failed, retrying", "path", path, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		var ue *upstream.Error
		if !errors.As(err, &ue) && upstream.IsTransport(err) {
			err = upstream.Network(service, err)
		}
		return nil, err
	}

	c.cache.Set(ctx, cacheKey, body, c.cacheTTL)
	return json.RawMessage(body), nil
}

func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, upstream.Network(service, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.Network(service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstream.Network(service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream.Status(service, resp.StatusCode, errorMessage(body))
	}
	if !json.Valid(body) {
		return nil, upstream.Status(service, resp.StatusCode, "response is not valid JSON")
	}
	return body, nil
}

// errorMessage pulls the message out of a Google API error body:
// {"error": {"code": 400, "message": "...", "status": "INVALID_ARGUMENT"}}.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	return ""
}

func retryable(err error) bool {
	if errors.Is(err, upstream.ErrNetwork) {
		return !errors.Is(err, context.Canceled)
	}
	code := upstream.StatusCode(err)
	return code == http.StatusTooManyRequests || code >= 500
}
