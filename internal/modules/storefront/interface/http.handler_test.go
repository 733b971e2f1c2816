package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutport "storefrontWs/internal/modules/checkout/application/port"
	checkoutusecase "storefrontWs/internal/modules/checkout/application/usecase"
	checkout "storefrontWs/internal/modules/checkout/domain"
	listingport "storefrontWs/internal/modules/listing/application/port"
	listing "storefrontWs/internal/modules/listing/domain"
	profileusecase "storefrontWs/internal/modules/profile/application/usecase"
	profile "storefrontWs/internal/modules/profile/domain"
	rtusecase "storefrontWs/internal/modules/realtime/application/usecase"
	"storefrontWs/internal/modules/realtime/infrastructure"
	rttransport "storefrontWs/internal/modules/realtime/interface"
	reviewport "storefrontWs/internal/modules/reviews/application/port"
	reviewusecase "storefrontWs/internal/modules/reviews/application/usecase"
	reviews "storefrontWs/internal/modules/reviews/domain"
	"storefrontWs/internal/modules/storefront/application/usecase"
	"storefrontWs/internal/shared/auth"
	"storefrontWs/internal/shared/validation"
)

const testSecret = "test-secret"

type listingFetcher struct {
	mu   sync.Mutex
	fail bool
}

func (f *listingFetcher) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *listingFetcher) FetchPage(_ context.Context, query listing.PageQuery) ([]listing.Restaurant, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return nil, errors.Join(listingport.ErrUpstreamUnavailable, errors.New("status 503"))
	}
	if query.Page > 1 {
		return nil, nil
	}
	out := make([]listing.Restaurant, 3)
	for i := range out {
		out[i] = listing.Restaurant{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Resto %d", i+1)}
	}
	return out, nil
}

type catalogStub struct{}

func (catalogStub) FetchRestaurant(_ context.Context, id string) (listing.Restaurant, error) {
	if id == "404" {
		return listing.Restaurant{}, listingport.ErrRestaurantNotFound
	}
	return listing.Restaurant{ID: id, Name: "Warung"}, nil
}

func (catalogStub) FetchMenus(_ context.Context, id string) ([]listing.MenuItem, error) {
	return []listing.MenuItem{{ID: "m1", Name: "Soto", Price: 20000, RestaurantID: id}}, nil
}

type gatewayStub struct {
	mu        sync.Mutex
	tokens    []string
	addresses []string
}

func (g *gatewayStub) PlaceOrder(_ context.Context, token string, request checkout.OrderRequest) (checkout.Order, error) {
	g.mu.Lock()
	g.tokens = append(g.tokens, token)
	g.addresses = append(g.addresses, request.DeliveryAddress)
	g.mu.Unlock()
	return checkout.Order{ID: "o1", Status: "preparing", PaymentMethod: request.PaymentMethod}, nil
}

func (g *gatewayStub) ListOrders(_ context.Context, _ string, query checkout.OrderQuery) (checkout.OrderPage, error) {
	return checkout.OrderPage{Orders: []checkout.Order{}, Page: query.Page, Limit: query.Limit}, nil
}

type reviewStub struct {
	mu      sync.Mutex
	created []reviews.CreateReviewInput
}

func (r *reviewStub) CreateReview(_ context.Context, _ string, input reviews.CreateReviewInput) (reviews.Review, error) {
	r.mu.Lock()
	r.created = append(r.created, input)
	r.mu.Unlock()
	return reviews.Review{ID: "r1", Star: input.Star, Restaurant: &reviews.ReviewedRestaurant{ID: input.RestaurantID}}, nil
}

func (r *reviewStub) RestaurantReviews(_ context.Context, restaurantID string, query reviews.ReviewQuery) (reviews.RestaurantReviews, error) {
	return reviews.RestaurantReviews{
		Restaurant: reviews.RatedRestaurant{ID: restaurantID},
		Reviews:    []reviews.Review{},
		Statistics: reviews.NormalizeStatistics(nil),
		Pagination: reviews.Pagination{Page: query.Page, Limit: query.Limit},
	}, nil
}

func (r *reviewStub) MyReviews(_ context.Context, _ string, query reviews.ReviewQuery) (reviews.ReviewPage, error) {
	return reviews.ReviewPage{Reviews: []reviews.Review{}, Pagination: reviews.Pagination{Page: query.Page, Limit: query.Limit}}, nil
}

func (r *reviewStub) UpdateReview(_ context.Context, _, reviewID string, input reviews.UpdateReviewInput) (reviews.Review, error) {
	if reviewID == "404" {
		return reviews.Review{}, reviewport.ErrReviewNotFound
	}
	return reviews.Review{ID: reviewID, Star: input.Star}, nil
}

func (r *reviewStub) DeleteReview(_ context.Context, _, _ string) error { return nil }

type profileStub struct{}

func (profileStub) GetProfile(_ context.Context, _ string) (profile.Profile, error) {
	return profile.Profile{ID: "user-1", Name: "Budi", Address: "Jl. Sudirman 5"}, nil
}

func (profileStub) UpdateProfile(_ context.Context, _ string, input profile.UpdateProfileInput) (profile.Profile, error) {
	return profile.Profile{ID: "user-1", Name: input.Name}, nil
}

type testServer struct {
	echo     *echo.Echo
	fetcher  *listingFetcher
	gateway  *gatewayStub
	reviews  *reviewStub
	sessions *usecase.Registry
	hub      *infrastructure.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hub := infrastructure.NewHub()
	t.Cleanup(hub.Close)
	broadcastUC := rtusecase.NewBroadcastUseCase(hub)
	fetcher := &listingFetcher{}
	gateway := &gatewayStub{}
	sessions := usecase.NewRegistry(usecase.Dependencies{
		ListFetcher: fetcher,
		Notifier:    broadcastUC,
		Location:    time.UTC,
	})
	reviewGateway := &reviewStub{}
	profileUC := profileusecase.NewProfileUseCase(profileStub{})
	checkoutUC := checkoutusecase.NewCheckoutUseCase(gateway, nil, checkout.Fees{DeliveryFee: 10000, ServiceFee: 1000}).WithAddressBook(profileUC)
	handler := NewHandler(sessions, catalogStub{}, checkoutUC).
		WithAccount(reviewusecase.NewReviewUseCase(reviewGateway, sessions), profileUC)
	resolver := NewIdentityResolver(auth.NewJWTValidator(testSecret, ""))

	e := echo.New()
	e.Validator = validation.EchoValidator{}
	handler.Register(e.Group("/api/v1", resolver.Middleware()))
	e.GET("/ws/storefront", rttransport.NewWebsocketHandler(hub, resolver.Resolve, handler.Commands(), handler.OnConnect))
	return &testServer{echo: e, fetcher: fetcher, gateway: gateway, reviews: reviewGateway, sessions: sessions, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if session != "" {
		req.Header.Set(auth.SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestSessionIdentityResolution(t *testing.T) {
	srv := newTestServer(t)

	anonymous := srv.do(t, http.MethodGet, "/api/v1/cart", "", "")
	require.Equal(t, http.StatusOK, anonymous.Code)
	assert.NotEmpty(t, anonymous.Header().Get(auth.SessionHeader))

	named := srv.do(t, http.MethodGet, "/api/v1/cart", "s-1", "")
	assert.Equal(t, "s-1", named.Header().Get(auth.SessionHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-9"))
	req.Header.Set(auth.SessionHeader, "ignored")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, "user-9", rec.Header().Get(auth.SessionHeader))

	bad := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	bad.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRoutes(t *testing.T) {
	srv := newTestServer(t)
	item := `{"id":1,"menuItemId":1,"name":"Soto","price":20000,"quantity":2,"restaurantId":7,"restaurantName":"Warung"}`

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", item)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 40000.0, decode(t, rec)["total"])

	rec = srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", item)
	assert.Equal(t, 80000.0, decode(t, rec)["total"])

	rec = srv.do(t, http.MethodPut, "/api/v1/cart/items/1", "s-1", `{"quantity":0}`)
	assert.Equal(t, 20000.0, decode(t, rec)["total"], "quantity clamps to one")

	rec = srv.do(t, http.MethodPatch, "/api/v1/cart/items/1", "s-1", `{"delta":2}`)
	assert.Equal(t, 60000.0, decode(t, rec)["total"])

	rec = srv.do(t, http.MethodPatch, "/api/v1/cart/items/1", "s-1", `{"delta":-3}`)
	body := decode(t, rec)
	assert.Equal(t, 0.0, body["total"])
	assert.Empty(t, body["items"])

	srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", item)
	rec = srv.do(t, http.MethodDelete, "/api/v1/cart/items/1", "s-1", "")
	assert.Equal(t, 0.0, decode(t, rec)["total"])

	srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", item)
	rec = srv.do(t, http.MethodDelete, "/api/v1/cart", "s-1", "")
	assert.Equal(t, 0.0, decode(t, rec)["total"])

	other := srv.do(t, http.MethodGet, "/api/v1/cart", "s-2", "")
	assert.Equal(t, 0.0, decode(t, other)["total"])
}

func TestCartRouteValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", `{"id":1,"price":100,"restaurantId":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, true, decode(t, rec)["isError"])

	rec = srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", `{"name":"Soto","price":100,"restaurantId":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/cart/items", "s-1", `{"id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/v1/cart/items/1", "s-1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/filters/actions", "s-1", `{"type":"toggleRating","payload":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{4.0}, decode(t, rec)["rating"])

	rec = srv.do(t, http.MethodPost, "/api/v1/filters/actions", "s-1", `{"type":"setSortBy","payload":"bogus"}`)
	assert.Equal(t, "name-asc", decode(t, rec)["sortBy"])

	rec = srv.do(t, http.MethodPost, "/api/v1/filters/actions", "s-1", `{"type":"shuffle"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/filters/presets/discount", "s-1", "")
	body := decode(t, rec)
	assert.Equal(t, "50000", body["priceMax"])
	assert.Empty(t, body["rating"])

	rec = srv.do(t, http.MethodPost, "/api/v1/filters/presets/unknown", "s-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/v1/filters", "s-1", "")
	assert.Equal(t, "", decode(t, rec)["priceMax"])
}

func TestListingRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/listings/home?lat=-6.2&long=106.8", "s-1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "plain", body["mode"])
	assert.Equal(t, "loaded", body["state"])
	assert.Equal(t, false, body["hasMore"])
	assert.Len(t, body["restaurants"], 3)

	rec = srv.do(t, http.MethodPost, "/api/v1/listings/home/more", "s-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/listings/bogus", "s-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/listings/home?location=abc", "s-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingUpstreamFailureIsFlagged(t *testing.T) {
	srv := newTestServer(t)
	srv.fetcher.setFail(true)

	rec := srv.do(t, http.MethodGet, "/api/v1/listings/category", "s-1", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["isError"])
	assert.Equal(t, "error", body["state"])

	srv.fetcher.setFail(false)
	rec = srv.do(t, http.MethodGet, "/api/v1/listings/category", "s-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loaded", decode(t, rec)["state"])
}

func TestRestaurantRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/restaurants/7", "s-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Warung", decode(t, rec)["name"])

	rec = srv.do(t, http.MethodGet, "/api/v1/restaurants/404", "s-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/restaurants/7/menus", "s-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["menus"], 1)
}

func TestCheckoutRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := signedToken(t, "user-1")
	input := `{"paymentMethod":"bca","deliveryAddress":"Jl. Sudirman 1","notes":""}`

	authed := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		return rec
	}

	rec := authed(http.MethodPost, "/api/v1/checkout", input)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "empty cart")

	authed(http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"Soto","price":20000,"quantity":1,"restaurantId":7}`)

	rec = authed(http.MethodGet, "/api/v1/checkout/summary", "")
	pricing := decode(t, rec)["pricing"].(map[string]any)
	assert.Equal(t, 31000.0, pricing["totalPrice"])

	rec = authed(http.MethodPost, "/api/v1/checkout", `{"paymentMethod":"paypal","deliveryAddress":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = authed(http.MethodPost, "/api/v1/checkout", input)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "o1", body["order"].(map[string]any)["id"])
	assert.Empty(t, body["cart"].(map[string]any)["items"])
	assert.Equal(t, []string{token}, srv.gateway.tokens)

	anonymous := srv.do(t, http.MethodPost, "/api/v1/checkout", "s-anon", input)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	rec = authed(http.MethodGet, "/api/v1/orders?page=2&limit=5&status=done", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode(t, rec)
	assert.Equal(t, 2.0, page["page"])
	assert.Equal(t, 5.0, page["limit"])

	rec = authed(http.MethodGet, "/api/v1/orders?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := signedToken(t, "user-1")

	authed := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		return rec
	}

	rec := srv.do(t, http.MethodPost, "/api/v1/reviews", "s-anon", `{"transactionId":"TX-1","restaurantId":"7","star":4}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = authed(http.MethodPost, "/api/v1/reviews", `{"transactionId":"TX-1","restaurantId":"7","star":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = authed(http.MethodPost, "/api/v1/reviews", `{"transactionId":" TX-1 ","restaurantId":"7","star":4,"comment":"enak"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "r1", decode(t, rec)["id"])
	require.Len(t, srv.reviews.created, 1)
	assert.Equal(t, "TX-1", srv.reviews.created[0].TransactionID)

	rec = srv.do(t, http.MethodGet, "/api/v1/restaurants/7/reviews?rating=5", "s-anon", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Len(t, body["statistics"].(map[string]any)["ratingDistribution"], 5)
	assert.Equal(t, 1.0, body["pagination"].(map[string]any)["page"])

	rec = srv.do(t, http.MethodGet, "/api/v1/restaurants/7/reviews?limit=500", "s-anon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = authed(http.MethodGet, "/api/v1/reviews/mine?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2.0, decode(t, rec)["pagination"].(map[string]any)["page"])

	rec = authed(http.MethodPut, "/api/v1/reviews/404", `{"star":3}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = authed(http.MethodDelete, "/api/v1/reviews/r1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = authed(http.MethodGet, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Budi", decode(t, rec)["name"])

	rec = authed(http.MethodPut, "/api/v1/profile", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = authed(http.MethodPut, "/api/v1/profile", `{"name":"Budi S"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Budi S", decode(t, rec)["name"])

	rec = srv.do(t, http.MethodGet, "/api/v1/profile", "s-anon", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutUsesSavedAddress(t *testing.T) {
	srv := newTestServer(t)
	token := signedToken(t, "user-1")

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		return rec
	}

	send(http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"Soto","price":20000,"quantity":1,"restaurantId":7}`)
	rec := send(http.MethodPost, "/api/v1/checkout", `{"paymentMethod":"bca"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Jl. Sudirman 5"}, srv.gateway.addresses)
}

func TestErrorMapperCoversCheckoutErrors(t *testing.T) {
	mapper := newErrorMapper()
	assert.Equal(t, http.StatusBadGateway, mapper.Map(checkoutport.ErrOrderServiceUnavailable).Status)
	assert.Equal(t, http.StatusConflict, mapper.Map(listingport.ErrStaleGeneration).Status)
	assert.Equal(t, "order rejected by order service: out of stock",
		mapper.Map(fmt.Errorf("%w: out of stock", checkoutport.ErrOrderRejected)).Message)

	unknown := mapper.Map(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, unknown.Status)
	assert.Equal(t, "storefront request failed", unknown.Message)
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebsocketSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	server := httptest.NewServer(srv.echo)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/storefront?session=s-ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	assert.Equal(t, "system.connected", readMessage(t, conn)["topic"])
	assert.Equal(t, "cart.snapshot", readMessage(t, conn)["topic"])
	assert.Equal(t, "filters.snapshot", readMessage(t, conn)["topic"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "cart",
		"payload": map[string]any{
			"type":    "add",
			"payload": map[string]any{"id": "m1", "name": "Soto", "price": 15000, "quantity": 2, "restaurantId": "7"},
		},
	}))
	updated := readMessage(t, conn)
	assert.Equal(t, "cart.updated", updated["topic"])
	assert.Equal(t, 30000.0, updated["data"].(map[string]any)["total"])

	rec := srv.do(t, http.MethodGet, "/api/v1/cart", "s-ws", "")
	assert.Equal(t, 30000.0, decode(t, rec)["total"], "socket and REST share the session")

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "listing", "payload": map[string]any{"context": "home"}}))
	listingMsg := readMessage(t, conn)
	assert.Equal(t, "listing.updated", listingMsg["topic"])
	assert.Equal(t, "home", listingMsg["metadata"].(map[string]any)["context"])

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "teleport"}))
	errMsg := readMessage(t, conn)
	assert.Equal(t, "system.error", errMsg["topic"])
	assert.Equal(t, "unsupported action", errMsg["data"].(map[string]any)["message"])

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "ping"}))
	assert.Equal(t, "system.pong", readMessage(t, conn)["topic"])
}
