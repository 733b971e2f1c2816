package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefrontWs/internal/modules/reviews/application/port"
	"storefrontWs/internal/modules/reviews/domain"
	"storefrontWs/internal/platform/restclient"
	"storefrontWs/internal/shared/normalization"
)

const (
	reviewsPath           = "/api/review"
	restaurantReviewsPath = "/api/review/restaurant/"
	myReviewsPath         = "/api/review/my-reviews"
)

// ReviewHTTPClient implements port.ReviewGateway against the storefront review API.
type ReviewHTTPClient struct {
	rest    *restclient.RESTClient
	timeout time.Duration
}

func NewReviewHTTPClient(rest *restclient.RESTClient, timeout time.Duration) *ReviewHTTPClient {
	return &ReviewHTTPClient{rest: rest, timeout: restclient.TimeoutOrDefault(timeout)}
}

// createReviewBody carries the restaurant id as a JSON number, as the review service expects.
type createReviewBody struct {
	TransactionID string      `json:"transactionId"`
	RestaurantID  json.Number `json:"restaurantId"`
	Star          int         `json:"star"`
	Comment       string      `json:"comment"`
}

func (c *ReviewHTTPClient) CreateReview(ctx context.Context, token string, input domain.CreateReviewInput) (domain.Review, error) {
	body := createReviewBody{
		TransactionID: input.TransactionID,
		RestaurantID:  json.Number(input.RestaurantID),
		Star:          input.Star,
		Comment:       input.Comment,
	}
	payload, err := c.send(ctx, http.MethodPost, reviewsPath, token, body, "create review")
	if err != nil {
		return domain.Review{}, err
	}
	return decodeReview(payload)
}

func (c *ReviewHTTPClient) UpdateReview(ctx context.Context, token, reviewID string, input domain.UpdateReviewInput) (domain.Review, error) {
	payload, err := c.send(ctx, http.MethodPut, reviewsPath+"/"+url.PathEscape(reviewID), token, input, "update review")
	if err != nil {
		return domain.Review{}, err
	}
	return decodeReview(payload)
}

func (c *ReviewHTTPClient) DeleteReview(ctx context.Context, token, reviewID string) error {
	_, err := c.send(ctx, http.MethodDelete, reviewsPath+"/"+url.PathEscape(reviewID), token, nil, "delete review")
	return err
}

func (c *ReviewHTTPClient) RestaurantReviews(ctx context.Context, restaurantID string, query domain.ReviewQuery) (domain.RestaurantReviews, error) {
	query = query.Normalize()
	values := pageValues(query)
	if query.Rating > 0 {
		values.Set("rating", strconv.Itoa(query.Rating))
	}
	payload, err := c.get(ctx, restaurantReviewsPath+url.PathEscape(restaurantID), "", values, "restaurant reviews")
	if err != nil {
		return domain.RestaurantReviews{}, err
	}

	data := normalization.MapFromPayload(payload)
	out := domain.RestaurantReviews{
		Reviews:    domain.NormalizeReviews(data["reviews"]),
		Statistics: domain.NormalizeStatistics(asMap(data["statistics"])),
		Pagination: domain.NormalizePagination(asMap(data["pagination"]), query),
	}
	if restaurant := asMap(data["restaurant"]); restaurant != nil {
		out.Restaurant = domain.RatedRestaurant{
			ID:   normalization.AsString(restaurant["id"]),
			Name: normalization.AsString(restaurant["name"]),
			Star: normalization.AsFloat64(restaurant["star"]),
		}
	}
	if out.Restaurant.ID == "" {
		out.Restaurant.ID = restaurantID
	}
	return out, nil
}

func (c *ReviewHTTPClient) MyReviews(ctx context.Context, token string, query domain.ReviewQuery) (domain.ReviewPage, error) {
	query = query.Normalize()
	payload, err := c.get(ctx, myReviewsPath, token, pageValues(query), "my reviews")
	if err != nil {
		return domain.ReviewPage{}, err
	}
	data := normalization.MapFromPayload(payload)
	return domain.ReviewPage{
		Reviews:    domain.NormalizeReviews(data["reviews"]),
		Pagination: domain.NormalizePagination(asMap(data["pagination"]), query),
	}, nil
}

func (c *ReviewHTTPClient) get(ctx context.Context, endpoint, token string, values url.Values, operation string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.rest.DoIdempotent(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := c.rest.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		restclient.SetJSONHeaders(req, token)
		req.URL.RawQuery = values.Encode()
		return req, nil
	})
	if err != nil {
		slog.Error(operation+" request error", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", port.ErrReviewServiceUnavailable, err)
	}
	defer res.Body.Close()
	return c.decode(res, operation)
}

// send issues a write once; review writes are never retried.
func (c *ReviewHTTPClient) send(ctx context.Context, method, endpoint, token string, body any, operation string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := c.rest.NewRequest(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	restclient.SetJSONHeaders(req, token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error(operation+" request error", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", port.ErrReviewServiceUnavailable, err)
	}
	defer res.Body.Close()
	return c.decode(res, operation)
}

func (c *ReviewHTTPClient) decode(res *http.Response, operation string) (any, error) {
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, port.ErrReviewUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return nil, port.ErrReviewNotFound
	case res.StatusCode >= 400 && res.StatusCode < 500:
		body := restclient.ReadErrorBody(res)
		slog.Warn(operation+" rejected", slog.Int("status", res.StatusCode), slog.String("body", body))
		return nil, fmt.Errorf("%w: status %d", port.ErrReviewRejected, res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		body := restclient.ReadErrorBody(res)
		slog.Error(operation+" unexpected status", slog.Int("status", res.StatusCode), slog.String("body", body))
		return nil, fmt.Errorf("%w: unexpected %s response %d", port.ErrReviewServiceUnavailable, operation, res.StatusCode)
	case res.StatusCode == http.StatusNoContent:
		return nil, nil
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decode %s: %w", port.ErrReviewServiceUnavailable, operation, err)
	}
	return payload, nil
}

func decodeReview(payload any) (domain.Review, error) {
	data := normalization.MapFromPayload(payload)
	if nested := asMap(data["review"]); nested != nil {
		data = nested
	}
	review, ok := domain.NormalizeReview(data)
	if !ok {
		return domain.Review{}, fmt.Errorf("%w: response without review", port.ErrReviewServiceUnavailable)
	}
	return review, nil
}

func pageValues(query domain.ReviewQuery) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	values.Set("limit", strconv.Itoa(query.Limit))
	return values
}

func asMap(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

var _ port.ReviewGateway = (*ReviewHTTPClient)(nil)
