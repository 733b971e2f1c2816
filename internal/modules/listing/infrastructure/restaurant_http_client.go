package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefrontWs/internal/modules/listing/application/port"
	"storefrontWs/internal/modules/listing/domain"
	"storefrontWs/internal/platform/restclient"
	"storefrontWs/internal/shared/normalization"
)

const restaurantsPath = "/api/restaurants"

// RestaurantHTTPClient reads restaurants and menus from the storefront REST API.
type RestaurantHTTPClient struct {
	rest    *restclient.RESTClient
	timeout time.Duration
}

func NewRestaurantHTTPClient(rest *restclient.RESTClient, timeout time.Duration) *RestaurantHTTPClient {
	return &RestaurantHTTPClient{rest: rest, timeout: restclient.TimeoutOrDefault(timeout)}
}

// FetchPage implements port.RestaurantFetcher.
func (c *RestaurantHTTPClient) FetchPage(ctx context.Context, query domain.PageQuery) ([]domain.Restaurant, error) {
	payload, err := c.get(ctx, restaurantsPath, query.ToURLValues())
	if err != nil {
		return nil, err
	}
	items := extractList(payload, "restaurants")
	restaurants := domain.NormalizeRestaurants(items)
	slog.Debug("restaurant page fetched",
		slog.Int("page", query.Normalize().Page),
		slog.Int("received", len(items)),
		slog.Int("normalized", len(restaurants)),
	)
	return restaurants, nil
}

// FetchRestaurant implements port.RestaurantCatalog.
func (c *RestaurantHTTPClient) FetchRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Restaurant{}, port.ErrRestaurantNotFound
	}
	payload, err := c.get(ctx, restaurantsPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Restaurant{}, err
	}
	raw := normalization.MapFromPayload(payload)
	if nested, ok := raw["restaurant"].(map[string]any); ok {
		raw = nested
	}
	restaurant, ok := domain.NormalizeRestaurant(raw)
	if !ok {
		return domain.Restaurant{}, port.ErrRestaurantNotFound
	}
	return restaurant, nil
}

// FetchMenus implements port.RestaurantCatalog.
func (c *RestaurantHTTPClient) FetchMenus(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil, port.ErrRestaurantNotFound
	}
	payload, err := c.get(ctx, restaurantsPath+"/"+url.PathEscape(restaurantID)+"/menus", nil)
	if err != nil {
		return nil, err
	}
	items := extractList(payload, "menus", "dishes", "items")
	menus := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if menu, ok := domain.NormalizeMenuItem(raw, restaurantID); ok {
			menus = append(menus, menu)
		}
	}
	return menus, nil
}

func (c *RestaurantHTTPClient) get(ctx context.Context, path string, values url.Values) (any, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.rest.DoIdempotent(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := c.rest.NewRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		restclient.SetJSONHeaders(req, "")
		if len(values) > 0 {
			req.URL.RawQuery = values.Encode()
		}
		slog.Debug("restaurant request", slog.String("url", req.URL.String()))
		return req, nil
	})
	if err != nil {
		slog.Error("restaurant request error", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", port.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, port.ErrUpstreamForbidden
	case res.StatusCode == http.StatusNotFound:
		return nil, port.ErrRestaurantNotFound
	case res.StatusCode != http.StatusOK:
		body := restclient.ReadErrorBody(res)
		slog.Error("restaurant fetch unexpected status", slog.Int("status", res.StatusCode), slog.String("path", path), slog.String("body", body))
		return nil, fmt.Errorf("%w: unexpected restaurant response %d", port.ErrUpstreamUnavailable, res.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		slog.Error("restaurant payload decode failed", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("%w: decode restaurant payload: %w", port.ErrUpstreamUnavailable, err)
	}
	return payload, nil
}

// extractList accepts a bare array, {"data": [...]}, {"data": {"<key>": [...]}} or {"<key>": [...]}.
func extractList(payload any, keys ...string) []any {
	if list := normalization.AsInterfaceSlice(payload); list != nil {
		return list
	}
	root, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	if list := normalization.AsInterfaceSlice(root["data"]); list != nil {
		return list
	}
	for _, candidate := range []map[string]any{normalization.MapFromPayload(root), root} {
		for _, key := range keys {
			if list := normalization.AsInterfaceSlice(candidate[key]); list != nil {
				return list
			}
		}
	}
	return nil
}
