package transport

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	profileusecase "storefrontWs/internal/modules/profile/application/usecase"
	profile "storefrontWs/internal/modules/profile/domain"
	reviewusecase "storefrontWs/internal/modules/reviews/application/usecase"
	reviews "storefrontWs/internal/modules/reviews/domain"
)

// WithAccount enables the review and profile routes. Either may be nil.
func (h *Handler) WithAccount(reviewUC *reviewusecase.ReviewUseCase, profileUC *profileusecase.ProfileUseCase) *Handler {
	h.reviews = reviewUC
	h.profile = profileUC
	return h
}

func (h *Handler) registerAccount(g *echo.Group) {
	if h.reviews != nil {
		g.POST("/reviews", h.createReview)
		g.GET("/reviews/mine", h.myReviews)
		g.PUT("/reviews/:id", h.updateReview)
		g.DELETE("/reviews/:id", h.deleteReview)
		g.GET("/restaurants/:id/reviews", h.restaurantReviews)
	}
	if h.profile != nil {
		g.GET("/profile", h.getProfile)
		g.PUT("/profile", h.updateProfile)
	}
}

// decodeBody binds without validating; the use cases trim before they validate.
func decodeBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: malformed body", errInvalidRequest)
	}
	return nil
}

func bindReviewQuery(c echo.Context) (reviews.ReviewQuery, error) {
	var query reviews.ReviewQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return query, fmt.Errorf("%w: malformed query", errInvalidRequest)
	}
	return query, nil
}

func (h *Handler) createReview(c echo.Context) error {
	var input reviews.CreateReviewInput
	if err := decodeBody(c, &input); err != nil {
		return h.fail(c, err)
	}
	review, err := h.reviews.Create(c.Request().Context(), identityFrom(c).Token, input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) restaurantReviews(c echo.Context) error {
	query, err := bindReviewQuery(c)
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.reviews.RestaurantReviews(c.Request().Context(), c.Param("id"), query)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) myReviews(c echo.Context) error {
	query, err := bindReviewQuery(c)
	if err != nil {
		return h.fail(c, err)
	}
	page, err := h.reviews.MyReviews(c.Request().Context(), identityFrom(c).Token, query)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) updateReview(c echo.Context) error {
	var input reviews.UpdateReviewInput
	if err := decodeBody(c, &input); err != nil {
		return h.fail(c, err)
	}
	review, err := h.reviews.Update(c.Request().Context(), identityFrom(c).Token, c.Param("id"), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) deleteReview(c echo.Context) error {
	if err := h.reviews.Delete(c.Request().Context(), identityFrom(c).Token, c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) getProfile(c echo.Context) error {
	out, err := h.profile.Get(c.Request().Context(), identityFrom(c).Token)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) updateProfile(c echo.Context) error {
	var input profile.UpdateProfileInput
	if err := decodeBody(c, &input); err != nil {
		return h.fail(c, err)
	}
	out, err := h.profile.Update(c.Request().Context(), identityFrom(c).Token, input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
