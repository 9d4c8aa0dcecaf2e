// Package gateway implements the remote data gateway over HTTP and JSON.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/service"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// Config holds gateway client settings.
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	// RateLimit caps outgoing requests per second. Zero disables throttling.
	RateLimit float64
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is reports 404 responses as common.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == common.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client implements service.Gateway.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    *url.URL
	timeout    time.Duration
}

var _ service.Gateway = (*Client)(nil)

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: gateway base URL", common.ErrMissingConfig)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: gateway base URL: %v", common.ErrInvalidConfig, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: gateway base URL must be http or https, got %q", common.ErrInvalidConfig, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    base,
		timeout:    timeout,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return c, nil
}

// ListCategories returns every category in server order.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListVenuesByCategory returns the venues of one category.
func (c *Client) ListVenuesByCategory(ctx context.Context, categoryID string) ([]model.Venue, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("category id cannot be empty")
	}

	var venues []model.Venue
	if err := c.do(ctx, http.MethodGet, "/markets/category/"+url.PathEscape(categoryID), &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// GetVenue returns the detail of one venue. A null body yields a nil detail.
func (c *Client) GetVenue(ctx context.Context, venueID string) (*model.VenueDetail, error) {
	if venueID == "" {
		return nil, fmt.Errorf("venue id cannot be empty")
	}

	var detail *model.VenueDetail
	if err := c.do(ctx, http.MethodGet, "/markets/"+url.PathEscape(venueID), &detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// RedeemCoupon exchanges a scanned code for a coupon.
func (c *Client) RedeemCoupon(ctx context.Context, code string) (model.Coupon, error) {
	if code == "" {
		return model.Coupon{}, fmt.Errorf("coupon code cannot be empty")
	}

	var coupon model.Coupon
	if err := c.do(ctx, http.MethodPost, "/coupons/"+url.PathEscape(code), &coupon); err != nil {
		return model.Coupon{}, err
	}
	if coupon.Code == "" {
		return model.Coupon{}, fmt.Errorf("POST /coupons/%s: response carried no coupon", code)
	}
	return coupon, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: rate limiter: %w", method, path, err)
		}
	}

	endpoint := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: request failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("gateway request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: failed to parse response: %w", method, path, err)
	}
	return nil
}

func newAPIError(method, path string, resp *http.Response) error {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}

// IsTimeout reports whether err came from the per-request deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
