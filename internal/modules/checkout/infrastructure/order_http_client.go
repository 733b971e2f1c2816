package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefrontWs/internal/modules/checkout/application/port"
	"storefrontWs/internal/modules/checkout/domain"
	"storefrontWs/internal/platform/restclient"
	"storefrontWs/internal/shared/normalization"
)

const (
	checkoutPath = "/api/order/checkout"
	myOrdersPath = "/api/order/my-order"
)

// OrderHTTPClient implements port.OrderGateway against the storefront order API.
type OrderHTTPClient struct {
	rest    *restclient.RESTClient
	timeout time.Duration
}

func NewOrderHTTPClient(rest *restclient.RESTClient, timeout time.Duration) *OrderHTTPClient {
	return &OrderHTTPClient{rest: rest, timeout: restclient.TimeoutOrDefault(timeout)}
}

// PlaceOrder posts once; checkout is never retried.
func (c *OrderHTTPClient) PlaceOrder(ctx context.Context, token string, request domain.OrderRequest) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(request)
	if err != nil {
		return domain.Order{}, fmt.Errorf("encode order request: %w", err)
	}
	req, err := c.rest.NewRequest(ctx, http.MethodPost, checkoutPath, bytes.NewReader(body))
	if err != nil {
		return domain.Order{}, err
	}
	restclient.SetJSONHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("checkout request error", slog.Any("error", err))
		return domain.Order{}, fmt.Errorf("%w: %w", port.ErrOrderServiceUnavailable, err)
	}
	defer res.Body.Close()

	if err := c.checkStatus(res, "checkout"); err != nil {
		return domain.Order{}, err
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.Order{}, fmt.Errorf("%w: decode checkout response: %w", port.ErrOrderServiceUnavailable, err)
	}
	raw := normalization.MapFromPayload(payload)
	if transaction, ok := raw["transaction"].(map[string]any); ok {
		raw = transaction
	}
	order, ok := domain.NormalizeOrder(raw)
	if !ok {
		slog.Warn("checkout response without order identity")
	}
	return order, nil
}

// ListOrders reads one page of the caller's order history.
func (c *OrderHTTPClient) ListOrders(ctx context.Context, token string, query domain.OrderQuery) (domain.OrderPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query = query.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	values.Set("limit", strconv.Itoa(query.Limit))
	if query.Status != "" {
		values.Set("status", query.Status)
	}

	res, err := c.rest.DoIdempotent(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := c.rest.NewRequest(ctx, http.MethodGet, myOrdersPath, nil)
		if err != nil {
			return nil, err
		}
		restclient.SetJSONHeaders(req, token)
		req.URL.RawQuery = values.Encode()
		return req, nil
	})
	if err != nil {
		slog.Error("order history request error", slog.Any("error", err))
		return domain.OrderPage{}, fmt.Errorf("%w: %w", port.ErrOrderServiceUnavailable, err)
	}
	defer res.Body.Close()

	if err := c.checkStatus(res, "order history"); err != nil {
		return domain.OrderPage{}, err
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.OrderPage{}, fmt.Errorf("%w: decode order history: %w", port.ErrOrderServiceUnavailable, err)
	}
	return decodeOrderPage(payload, query), nil
}

func (c *OrderHTTPClient) checkStatus(res *http.Response, operation string) error {
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return port.ErrOrderUnauthorized
	case res.StatusCode >= 400 && res.StatusCode < 500:
		body := restclient.ReadErrorBody(res)
		slog.Warn(operation+" rejected", slog.Int("status", res.StatusCode), slog.String("body", body))
		return fmt.Errorf("%w: status %d", port.ErrOrderRejected, res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		body := restclient.ReadErrorBody(res)
		slog.Error(operation+" unexpected status", slog.Int("status", res.StatusCode), slog.String("body", body))
		return fmt.Errorf("%w: unexpected %s response %d", port.ErrOrderServiceUnavailable, operation, res.StatusCode)
	}
	return nil
}

func decodeOrderPage(payload any, query domain.OrderQuery) domain.OrderPage {
	data := normalization.MapFromPayload(payload)
	page := domain.OrderPage{Orders: []domain.Order{}, Page: query.Page, Limit: query.Limit}
	for _, entry := range normalization.AsInterfaceSlice(data["orders"]) {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if order, ok := domain.NormalizeOrder(raw); ok {
			page.Orders = append(page.Orders, order)
		}
	}
	if pagination, ok := data["pagination"].(map[string]any); ok {
		if v := normalization.AsInt(pagination["page"]); v > 0 {
			page.Page = v
		}
		if v := normalization.AsInt(pagination["limit"]); v > 0 {
			page.Limit = v
		}
		page.Total = normalization.AsInt(pagination["total"])
		page.TotalPages = normalization.AsInt(pagination["totalPages"])
	}
	return page
}
