package restclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RESTClient wraps http.Client with base URL handling shared by the upstream adapters.
type RESTClient struct {
	baseURL      string
	client       *http.Client
	retries      int
	retryBackoff time.Duration
}

func NewRESTClient(baseURL string, timeout time.Duration, client *http.Client) *RESTClient {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = "http://localhost:3000"
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if client == nil {
		client = &http.Client{Timeout: TimeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &RESTClient{baseURL: trimmed, client: client, retryBackoff: 200 * time.Millisecond}
}

// WithRetries sets how many extra attempts DoIdempotent makes after the first one.
func (c *RESTClient) WithRetries(retries int) *RESTClient {
	if retries < 0 {
		retries = 0
	}
	c.retries = retries
	return c
}

// WithRetryBackoff sets the wait before the first retry.
func (c *RESTClient) WithRetryBackoff(wait time.Duration) *RESTClient {
	if wait > 0 {
		c.retryBackoff = wait
	}
	return c
}

func (c *RESTClient) BaseURL() string { return c.baseURL }

func (c *RESTClient) NewRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	return http.NewRequestWithContext(ctx, method, url, body)
}

func (c *RESTClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// DoIdempotent sends the request built by build, retrying transport failures and 5xx
// responses up to the configured retry count. The last response is returned as is,
// whatever its status.
func (c *RESTClient) DoIdempotent(ctx context.Context, build func(context.Context) (*http.Request, error)) (*http.Response, error) {
	var (
		response *http.Response
		attempt  int
	)
	operation := func() error {
		attempt++
		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		res, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if res.StatusCode >= http.StatusInternalServerError && attempt <= c.retries {
			_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 2048))
			_ = res.Body.Close()
			return fmt.Errorf("upstream status %d", res.StatusCode)
		}
		response = res
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBackoff
	policy.MaxElapsedTime = 0
	retrying := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retries)), ctx)

	err := backoff.RetryNotify(operation, retrying, func(err error, wait time.Duration) {
		slog.Warn("rest request retry", slog.Int("attempt", attempt), slog.Duration("wait", wait), slog.Any("error", err))
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ReadErrorBody returns at most 2KB of an unexpected response body for logging.
func ReadErrorBody(res *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
	return strings.TrimSpace(string(body))
}

// SetJSONHeaders sets Accept and, when token is non-empty, the bearer Authorization header.
func SetJSONHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/json")
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		req.Header.Set("Authorization", "Bearer "+trimmed)
	}
}

func TimeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
