package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoIdempotentRetriesServerErrorsOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL+"/", time.Second, nil).WithRetries(1).WithRetryBackoff(time.Millisecond)
	res, err := client.DoIdempotent(context.Background(), func(ctx context.Context) (*http.Request, error) {
		return client.NewRequest(ctx, http.MethodGet, "/api/restaurants", nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after retry, got %d", res.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestDoIdempotentReturnsLastServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, time.Second, nil).WithRetries(1).WithRetryBackoff(time.Millisecond)
	res, err := client.DoIdempotent(context.Background(), func(ctx context.Context) (*http.Request, error) {
		return client.NewRequest(ctx, http.MethodGet, "x", nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestDoIdempotentWithoutRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, time.Second, nil)
	res, err := client.DoIdempotent(context.Background(), func(ctx context.Context) (*http.Request, error) {
		return client.NewRequest(ctx, http.MethodGet, "x", nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res.Body.Close()
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestNewRequestJoinsBaseURL(t *testing.T) {
	client := NewRESTClient(" http://api.local/ ", 0, nil)
	req, err := client.NewRequest(context.Background(), http.MethodGet, "/api/order/my-order", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.URL.String(); got != "http://api.local/api/order/my-order" {
		t.Fatalf("unexpected url %s", got)
	}
	SetJSONHeaders(req, " tok ")
	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("unexpected authorization %q", got)
	}
	if TimeoutOrDefault(0) != 10*time.Second {
		t.Fatalf("expected default timeout")
	}
}
