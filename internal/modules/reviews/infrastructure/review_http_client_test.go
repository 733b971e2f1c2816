package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefrontWs/internal/modules/reviews/application/port"
	"storefrontWs/internal/modules/reviews/domain"
	"storefrontWs/internal/platform/restclient"
)

func newReviewClient(t *testing.T, handler http.HandlerFunc) *ReviewHTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rest := restclient.NewRESTClient(srv.URL, time.Second, nil).WithRetries(1).WithRetryBackoff(time.Millisecond)
	return NewReviewHTTPClient(rest, time.Second)
}

func TestCreateReviewPostsNumericRestaurantID(t *testing.T) {
	var received map[string]any
	client := newReviewClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/review" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected authorization %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"review":{"id":12,"star":4,"comment":"enak","transactionId":"TX-1","createdAt":"2024-05-01T10:00:00Z","user":{"id":3,"name":"Budi"},"restaurant":{"id":7,"name":"Warung"}}}}`))
	})

	review, err := client.CreateReview(context.Background(), "tok", domain.CreateReviewInput{
		TransactionID: "TX-1", RestaurantID: "7", Star: 4, Comment: "enak",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.ID != "12" || review.Star != 4 || review.User.Name != "Budi" {
		t.Fatalf("unexpected review %+v", review)
	}
	if review.Restaurant == nil || review.Restaurant.ID != "7" {
		t.Fatalf("expected restaurant on review, got %+v", review.Restaurant)
	}
	if review.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be parsed")
	}
	if id, ok := received["restaurantId"].(float64); !ok || id != 7 {
		t.Fatalf("expected numeric restaurant id, got %+v", received)
	}
}

func TestRestaurantReviewsSendsPagingAndFillsDistribution(t *testing.T) {
	client := newReviewClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/restaurant/7" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" || q.Get("rating") != "5" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("restaurant reviews are public, got authorization header")
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"restaurant":{"id":7,"name":"Warung","star":4.5},"reviews":[{"id":1,"star":5},{"star":3}],"statistics":{"totalReviews":8,"averageRating":4.5,"ratingDistribution":{"5":6,"4":2}},"pagination":{"page":2,"total":8,"totalPages":1}}}`))
	})

	out, err := client.RestaurantReviews(context.Background(), "7", domain.ReviewQuery{Page: 2, Rating: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Restaurant.Name != "Warung" || out.Restaurant.Star != 4.5 {
		t.Fatalf("unexpected restaurant %+v", out.Restaurant)
	}
	if len(out.Reviews) != 1 || out.Reviews[0].ID != "1" {
		t.Fatalf("expected the review without id to be skipped, got %+v", out.Reviews)
	}
	dist := out.Statistics.RatingDistribution
	if len(dist) != 5 || dist["5"] != 6 || dist["4"] != 2 || dist["1"] != 0 {
		t.Fatalf("unexpected distribution %+v", dist)
	}
	if out.Pagination.Page != 2 || out.Pagination.Limit != 10 || out.Pagination.Total != 8 {
		t.Fatalf("unexpected pagination %+v", out.Pagination)
	}
}

func TestMyReviewsRetriesServerErrors(t *testing.T) {
	var calls int32
	client := newReviewClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/my-reviews" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"reviews":[{"id":4,"star":2}],"pagination":{"total":1}}}`))
	})

	page, err := client.MyReviews(context.Background(), "tok", domain.ReviewQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Reviews) != 1 || page.Pagination.Page != 1 || page.Pagination.Total != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected one retry, got %d calls", got)
	}
}

func TestDeleteReviewAcceptsNoContent(t *testing.T) {
	client := newReviewClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/review/12" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteReview(context.Background(), "tok", "12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReviewWriteStatusMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized:        port.ErrReviewUnauthorized,
		http.StatusForbidden:           port.ErrReviewUnauthorized,
		http.StatusNotFound:            port.ErrReviewNotFound,
		http.StatusConflict:            port.ErrReviewRejected,
		http.StatusInternalServerError: port.ErrReviewServiceUnavailable,
	}
	for status, expected := range cases {
		var calls int32
		client := newReviewClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(status)
		})
		_, err := client.UpdateReview(context.Background(), "tok", "12", domain.UpdateReviewInput{Star: 3})
		if !errors.Is(err, expected) {
			t.Fatalf("status %d: expected %v, got %v", status, expected, err)
		}
		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Fatalf("status %d: review writes must not be retried, got %d calls", status, got)
		}
	}
}
