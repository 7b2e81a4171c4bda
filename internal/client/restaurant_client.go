// Package client holds the reservation service's HTTP client for the
// restaurant service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/patrickmn/go-cache"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

// errNotFound is an internal marker for a 404 answer.
var errNotFound = errors.New("restaurant service: not found")

// statusError reports a non-2xx answer other than 404.
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("restaurant service returned status %d", e.Code)
}

// decodeError reports a 200 answer with an unreadable body.
type decodeError struct {
	path string
	err  error
}

func (e *decodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.path, e.err) }
func (e *decodeError) Unwrap() error { return e.err }

type existsResponse struct {
	Exists bool `json:"exists"`
}

type restaurantResponse struct {
	ID            uint64   `json:"id"`
	Name          string   `json:"name"`
	TotalCapacity *int     `json:"total_capacity"`
	OpenTime      *string  `json:"open_time"`
	CloseTime     *string  `json:"close_time"`
	AveragePrice  *float64 `json:"average_price"`
}

// RestaurantClient implements service.RestaurantDirectory against the
// restaurant service's REST API.  Each attempt is bounded by Timeout;
// transport errors and 5xx answers are retried up to Retries times.
// Restaurant info is cached for CacheTTL.
type RestaurantClient struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
	Retries int

	cache *cache.Cache
}

// NewRestaurantClient builds a client from cfg.
func NewRestaurantClient(cfg config.ClientConfig) *RestaurantClient {
	rc := &RestaurantClient{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client:  &http.Client{},
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
	}
	if cfg.CacheTTL > 0 {
		rc.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return rc
}

// Exists asks GET /api/restaurants/:id/exists.
func (rc *RestaurantClient) Exists(ctx context.Context, id uint64) (bool, error) {
	if rc.cache != nil {
		if _, ok := rc.cache.Get(cacheKey(id)); ok {
			return true, nil
		}
	}
	var out existsResponse
	err := rc.get(ctx, "exists", fmt.Sprintf("/api/restaurants/%d/exists", id), &out)
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.Exists, nil
}

// GetCapacityAndHours fetches GET /api/restaurants/:id.
func (rc *RestaurantClient) GetCapacityAndHours(ctx context.Context, id uint64) (service.RestaurantInfo, error) {
	if rc.cache != nil {
		if v, ok := rc.cache.Get(cacheKey(id)); ok {
			return v.(service.RestaurantInfo), nil
		}
	}
	var out restaurantResponse
	err := rc.get(ctx, "restaurant", fmt.Sprintf("/api/restaurants/%d", id), &out)
	if errors.Is(err, errNotFound) {
		return service.RestaurantInfo{}, service.ErrUnknownRestaurant
	}
	if err != nil {
		return service.RestaurantInfo{}, err
	}
	info := service.RestaurantInfo{
		ID:           out.ID,
		Name:         out.Name,
		Capacity:     out.TotalCapacity,
		OpenTime:     out.OpenTime,
		CloseTime:    out.CloseTime,
		AveragePrice: out.AveragePrice,
	}
	if rc.cache != nil {
		rc.cache.SetDefault(cacheKey(id), info)
	}
	return info, nil
}

func cacheKey(id uint64) string { return strconv.FormatUint(id, 10) }

// get performs a GET with retries and decodes a 200 body into out.
func (rc *RestaurantClient) get(ctx context.Context, endpoint, path string, out any) error {
	var err error
	for attempt := 0; attempt <= rc.Retries; attempt++ {
		if attempt > 0 {
			metrics.RestaurantClientCalls.WithLabelValues(endpoint, "retry").Inc()
			log.Warnf("restaurant client: retrying %s after: %v", path, err)
		}
		err = rc.do(ctx, path, out)
		if err == nil {
			metrics.RestaurantClientCalls.WithLabelValues(endpoint, "ok").Inc()
			return nil
		}
		if errors.Is(err, errNotFound) {
			metrics.RestaurantClientCalls.WithLabelValues(endpoint, "not_found").Inc()
			return err
		}
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	metrics.RestaurantClientCalls.WithLabelValues(endpoint, "error").Inc()
	return err
}

func (rc *RestaurantClient) do(ctx context.Context, path string, out any) error {
	if rc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := rc.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &statusError{Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{path: path, err: err}
	}
	return nil
}

// retryable reports whether err is a transport failure or a 5xx.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}
