package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	realtime "storefrontWs/internal/modules/realtime/interface"
	"storefrontWs/internal/shared/auth"
)

const identityContextKey = "storefront.identity"

// IdentityResolver decides which storefront session a request belongs to: the subject of a
// valid bearer token, else the X-Session-ID header (or "session" query), else a fresh id.
type IdentityResolver struct {
	validator auth.TokenValidator
	newID     func() string
}

// NewIdentityResolver builds a resolver. A nil validator treats bearer tokens as opaque: they are
// forwarded upstream but never decide the session.
func NewIdentityResolver(validator auth.TokenValidator) *IdentityResolver {
	return &IdentityResolver{validator: validator, newID: uuid.NewString}
}

func (r *IdentityResolver) Resolve(c echo.Context) (realtime.Identity, error) {
	req := c.Request()
	identity := realtime.Identity{Token: auth.ExtractToken(req, "token")}

	if identity.Token != "" && r.validator != nil {
		claims, err := r.validator.Validate(identity.Token)
		if err != nil {
			return realtime.Identity{}, err
		}
		identity.UserID = claims.UserID()
		identity.SessionID = claims.UserID()
	}
	if identity.SessionID == "" {
		identity.SessionID = auth.ExtractSessionID(req)
	}
	if identity.SessionID == "" {
		identity.SessionID = r.newID()
	}
	c.Response().Header().Set(auth.SessionHeader, identity.SessionID)
	return identity, nil
}

// Middleware resolves the identity once per request and stores it on the echo context.
func (r *IdentityResolver) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := r.Resolve(c)
			if err != nil {
				slog.Warn("storefront identity rejected", slog.String("path", c.Path()), slog.Any("error", err))
				if errors.Is(err, auth.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return echo.NewHTTPError(http.StatusBadRequest, "unable to resolve session")
			}
			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

func identityFrom(c echo.Context) realtime.Identity {
	identity, _ := c.Get(identityContextKey).(realtime.Identity)
	return identity
}
