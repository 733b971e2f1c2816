package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	cart "storefrontWs/internal/modules/cart/domain"
	checkoutport "storefrontWs/internal/modules/checkout/application/port"
	checkoutusecase "storefrontWs/internal/modules/checkout/application/usecase"
	checkout "storefrontWs/internal/modules/checkout/domain"
	filters "storefrontWs/internal/modules/filters/domain"
	listingport "storefrontWs/internal/modules/listing/application/port"
	listingusecase "storefrontWs/internal/modules/listing/application/usecase"
	listing "storefrontWs/internal/modules/listing/domain"
	profileport "storefrontWs/internal/modules/profile/application/port"
	profileusecase "storefrontWs/internal/modules/profile/application/usecase"
	reviewport "storefrontWs/internal/modules/reviews/application/port"
	reviewusecase "storefrontWs/internal/modules/reviews/application/usecase"
	"storefrontWs/internal/modules/storefront/application/usecase"
	"storefrontWs/internal/modules/storefront/domain"
	"storefrontWs/internal/shared/auth"
	"storefrontWs/internal/shared/httputil"
	"storefrontWs/internal/shared/validation"
)

var errInvalidRequest = errors.New("invalid request")

// Handler serves the storefront REST surface.
type Handler struct {
	sessions *usecase.Registry
	catalog  listingport.RestaurantCatalog
	checkout *checkoutusecase.CheckoutUseCase
	reviews  *reviewusecase.ReviewUseCase
	profile  *profileusecase.ProfileUseCase
	errors   *httputil.ErrorMapper
}

func NewHandler(sessions *usecase.Registry, catalog listingport.RestaurantCatalog, checkoutUC *checkoutusecase.CheckoutUseCase) *Handler {
	return &Handler{
		sessions: sessions,
		catalog:  catalog,
		checkout: checkoutUC,
		errors:   newErrorMapper(),
	}
}

func newErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithDefault(http.StatusInternalServerError, "storefront request failed").
		WithMapping(errInvalidRequest, http.StatusBadRequest, "").
		WithMapping(validation.ErrValidation, http.StatusBadRequest, "").
		WithMapping(domain.ErrInvalidPayload, http.StatusBadRequest, "").
		WithMapping(domain.ErrUnknownAction, http.StatusBadRequest, "").
		WithMapping(usecase.ErrMissingSession, http.StatusBadRequest, "missing session id").
		WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
		WithMapping(listingport.ErrStaleGeneration, http.StatusConflict, "listing superseded by a newer request").
		WithMapping(listingport.ErrRestaurantNotFound, http.StatusNotFound, "restaurant not found").
		WithMapping(listingport.ErrUpstreamForbidden, http.StatusForbidden, "forbidden").
		WithMapping(listingport.ErrUpstreamUnavailable, http.StatusBadGateway, "restaurant service unavailable").
		WithMapping(checkoutport.ErrEmptyCart, http.StatusUnprocessableEntity, "cart is empty").
		WithMapping(checkoutport.ErrOrderUnauthorized, http.StatusUnauthorized, "sign in to place orders").
		WithMapping(checkoutport.ErrOrderRejected, http.StatusUnprocessableEntity, "").
		WithMapping(checkoutport.ErrOrderServiceUnavailable, http.StatusBadGateway, "order service unavailable").
		WithMapping(reviewport.ErrReviewUnauthorized, http.StatusUnauthorized, "sign in to manage reviews").
		WithMapping(reviewport.ErrReviewNotFound, http.StatusNotFound, "review not found").
		WithMapping(reviewport.ErrReviewRejected, http.StatusUnprocessableEntity, "").
		WithMapping(reviewport.ErrReviewServiceUnavailable, http.StatusBadGateway, "review service unavailable").
		WithMapping(profileport.ErrProfileUnauthorized, http.StatusUnauthorized, "sign in to view your profile").
		WithMapping(profileport.ErrProfileRejected, http.StatusUnprocessableEntity, "").
		WithMapping(profileport.ErrProfileServiceUnavailable, http.StatusBadGateway, "auth service unavailable")
}

// Register mounts the REST routes on g. The identity middleware must already be installed.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/cart", h.getCart)
	g.POST("/cart/items", h.addCartItem)
	g.PUT("/cart/items/:id", h.setCartItemQuantity)
	g.PATCH("/cart/items/:id", h.changeCartItemQuantity)
	g.DELETE("/cart/items/:id", h.removeCartItem)
	g.DELETE("/cart", h.clearCart)

	g.GET("/filters", h.getFilters)
	g.POST("/filters/actions", h.dispatchFilterAction)
	g.DELETE("/filters", h.clearFilters)
	g.POST("/filters/presets/:preset", h.applyPreset)

	g.GET("/listings/:context", h.getListing)
	g.POST("/listings/:context/more", h.loadMoreListing)

	g.GET("/restaurants/:id", h.getRestaurant)
	g.GET("/restaurants/:id/menus", h.getRestaurantMenus)

	g.GET("/checkout/summary", h.checkoutSummary)
	g.POST("/checkout", h.placeOrder)
	g.GET("/orders", h.listOrders)

	h.registerAccount(g)
}

func (h *Handler) session(c echo.Context) (*usecase.Session, error) {
	return h.sessions.Get(c.Request().Context(), identityFrom(c).SessionID)
}

func (h *Handler) fail(c echo.Context, err error) error {
	info := h.errors.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("storefront request failed", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		slog.Debug("storefront request rejected", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return h.errors.Respond(c, err)
}

// bind decodes the body into dst and runs the echo validator.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: malformed body", errInvalidRequest)
	}
	return c.Validate(dst)
}

func (h *Handler) getCart(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session.Cart.Snapshot())
}

func (h *Handler) addCartItem(c echo.Context) error {
	var body domain.LineItemPayload
	if err := bind(c, &body); err != nil {
		return h.fail(c, err)
	}
	line := body.LineItem()
	if line.ID == "" && line.MenuItemID == "" {
		return h.fail(c, fmt.Errorf("%w: missing id", domain.ErrInvalidPayload))
	}
	return h.dispatchCart(c, cart.AddLine{Item: line})
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
	Delta    *int `json:"delta"`
}

func (h *Handler) setCartItemQuantity(c echo.Context) error {
	var body quantityRequest
	if err := bind(c, &body); err != nil {
		return h.fail(c, err)
	}
	if body.Quantity == nil {
		return h.fail(c, fmt.Errorf("%w: quantity is required", errInvalidRequest))
	}
	return h.dispatchCart(c, cart.SetQuantity{ID: c.Param("id"), Quantity: *body.Quantity})
}

func (h *Handler) changeCartItemQuantity(c echo.Context) error {
	var body quantityRequest
	if err := bind(c, &body); err != nil {
		return h.fail(c, err)
	}
	if body.Delta == nil {
		return h.fail(c, fmt.Errorf("%w: delta is required", errInvalidRequest))
	}
	return h.dispatchCart(c, cart.ChangeQuantityBy{ID: c.Param("id"), Delta: *body.Delta})
}

func (h *Handler) removeCartItem(c echo.Context) error {
	return h.dispatchCart(c, cart.RemoveLine{ID: c.Param("id")})
}

func (h *Handler) clearCart(c echo.Context) error {
	return h.dispatchCart(c, cart.Clear{})
}

func (h *Handler) dispatchCart(c echo.Context, action cart.Action) error {
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session.Cart.Dispatch(c.Request().Context(), action))
}

func (h *Handler) getFilters(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session.Filters.State())
}

type filterActionRequest struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Handler) dispatchFilterAction(c echo.Context) error {
	var body filterActionRequest
	if err := bind(c, &body); err != nil {
		return h.fail(c, err)
	}
	action, err := domain.DecodeFilterAction(body.Type, body.Payload)
	if err != nil {
		return h.fail(c, err)
	}
	return h.dispatchFilters(c, action)
}

func (h *Handler) clearFilters(c echo.Context) error {
	return h.dispatchFilters(c, filters.ClearFilters{})
}

func (h *Handler) dispatchFilters(c echo.Context, action filters.Action) error {
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session.Filters.Dispatch(action))
}

func (h *Handler) applyPreset(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	state, ok := session.Filters.ApplyPreset(c.Param("preset"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown preset")
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) getListing(c echo.Context) error {
	session, listingContext, err := h.listingTarget(c)
	if err != nil {
		return h.fail(c, err)
	}
	view, err := session.RefreshListing(c.Request().Context(), listingContext)
	return h.respondListing(c, view, err)
}

func (h *Handler) loadMoreListing(c echo.Context) error {
	session, listingContext, err := h.listingTarget(c)
	if err != nil {
		return h.fail(c, err)
	}
	view, err := session.Listing(listingContext).LoadMore(c.Request().Context())
	return h.respondListing(c, view, err)
}

// listingTarget resolves the session and context and records a location passed as
// ?location=lat,long or ?lat=&long=.
func (h *Handler) listingTarget(c echo.Context) (*usecase.Session, listing.Context, error) {
	listingContext, err := listing.ParseContext(c.Param("context"))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	location, err := locationFromQuery(c)
	if err != nil {
		return nil, "", err
	}
	session, err := h.session(c)
	if err != nil {
		return nil, "", err
	}
	session.SetLocation(location)
	return session, listingContext, nil
}

func locationFromQuery(c echo.Context) (*listing.GeoPoint, error) {
	raw := strings.TrimSpace(c.QueryParam("location"))
	if raw == "" {
		lat, long := strings.TrimSpace(c.QueryParam("lat")), strings.TrimSpace(c.QueryParam("long"))
		if lat == "" && long == "" {
			return nil, nil
		}
		raw = lat + "," + long
	}
	point, err := listing.ParseGeoPoint(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return &point, nil
}

// respondListing always answers with the view. Failures carry isError and the mapped status;
// a superseded request gets 409.
func (h *Handler) respondListing(c echo.Context, view listingusecase.View, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, view)
	}
	if errors.Is(err, listingport.ErrStaleGeneration) {
		return h.fail(c, err)
	}
	info := h.errors.Map(err)
	slog.Warn("storefront listing failed", slog.String("context", string(view.Context)), slog.Int("status", info.Status), slog.Any("error", err))
	return c.JSON(info.Status, view)
}

func (h *Handler) getRestaurant(c echo.Context) error {
	restaurant, err := h.catalog.FetchRestaurant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

func (h *Handler) getRestaurantMenus(c echo.Context) error {
	menus, err := h.catalog.FetchMenus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"restaurantId": c.Param("id"), "menus": menus})
}

func (h *Handler) checkoutSummary(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.checkout.Summarize(session.Cart.Snapshot()))
}

func (h *Handler) placeOrder(c echo.Context) error {
	var input checkoutusecase.CheckoutInput
	if err := c.Bind(&input); err != nil {
		return h.fail(c, fmt.Errorf("%w: malformed body", errInvalidRequest))
	}
	session, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	identity := identityFrom(c)
	result, err := h.checkout.Checkout(c.Request().Context(), checkoutusecase.Caller{
		SessionID: session.ID,
		UserID:    identity.UserID,
		Token:     identity.Token,
	}, session.Cart, input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) listOrders(c echo.Context) error {
	var query checkout.OrderQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return h.fail(c, fmt.Errorf("%w: malformed query", errInvalidRequest))
	}
	page, err := h.checkout.ListOrders(c.Request().Context(), identityFrom(c).Token, query)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
