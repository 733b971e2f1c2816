package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefrontWs/internal/modules/profile/application/port"
	"storefrontWs/internal/modules/profile/domain"
	"storefrontWs/internal/platform/restclient"
	"storefrontWs/internal/shared/normalization"
)

const profilePath = "/api/auth/profile"

// ProfileHTTPClient implements port.ProfileGateway against the auth service.
type ProfileHTTPClient struct {
	rest    *restclient.RESTClient
	timeout time.Duration
}

func NewProfileHTTPClient(rest *restclient.RESTClient, timeout time.Duration) *ProfileHTTPClient {
	return &ProfileHTTPClient{rest: rest, timeout: restclient.TimeoutOrDefault(timeout)}
}

func (c *ProfileHTTPClient) GetProfile(ctx context.Context, token string) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.rest.DoIdempotent(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := c.rest.NewRequest(ctx, http.MethodGet, profilePath, nil)
		if err != nil {
			return nil, err
		}
		restclient.SetJSONHeaders(req, token)
		return req, nil
	})
	if err != nil {
		slog.Error("profile request error", slog.Any("error", err))
		return domain.Profile{}, fmt.Errorf("%w: %w", port.ErrProfileServiceUnavailable, err)
	}
	defer res.Body.Close()
	return decodeProfile(res, "profile")
}

func (c *ProfileHTTPClient) UpdateProfile(ctx context.Context, token string, input domain.UpdateProfileInput) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(input)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("encode profile update: %w", err)
	}
	req, err := c.rest.NewRequest(ctx, http.MethodPut, profilePath, bytes.NewReader(body))
	if err != nil {
		return domain.Profile{}, err
	}
	restclient.SetJSONHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("profile update request error", slog.Any("error", err))
		return domain.Profile{}, fmt.Errorf("%w: %w", port.ErrProfileServiceUnavailable, err)
	}
	defer res.Body.Close()
	return decodeProfile(res, "profile update")
}

func decodeProfile(res *http.Response, operation string) (domain.Profile, error) {
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return domain.Profile{}, port.ErrProfileUnauthorized
	case res.StatusCode >= 400 && res.StatusCode < 500:
		body := restclient.ReadErrorBody(res)
		slog.Warn(operation+" rejected", slog.Int("status", res.StatusCode), slog.String("body", body))
		return domain.Profile{}, fmt.Errorf("%w: status %d", port.ErrProfileRejected, res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		body := restclient.ReadErrorBody(res)
		slog.Error(operation+" unexpected status", slog.Int("status", res.StatusCode), slog.String("body", body))
		return domain.Profile{}, fmt.Errorf("%w: unexpected %s response %d", port.ErrProfileServiceUnavailable, operation, res.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: decode %s: %w", port.ErrProfileServiceUnavailable, operation, err)
	}
	profile, ok := domain.NormalizeProfile(normalization.MapFromPayload(payload))
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: %s response without user", port.ErrProfileServiceUnavailable, operation)
	}
	return profile, nil
}

var _ port.ProfileGateway = (*ProfileHTTPClient)(nil)
