package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	domain "storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/modules/realtime/infrastructure"
	"storefrontWs/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Identity is who a socket belongs to.
type Identity struct {
	SessionID string
	UserID    string
	Token     string
}

// SessionResolver maps the upgrade request to a storefront session.
type SessionResolver func(c echo.Context) (Identity, error)

// ConnectHook runs once the client is attached, typically to push the initial state.
type ConnectHook func(ctx context.Context, client *infrastructure.Client)

// NewWebsocketHandler exposes /ws/storefront. Every socket joins the session topics plus any
// extra topics listed in the "topics" query parameter; "*" subscribes to everything.
func NewWebsocketHandler(
	hub *infrastructure.Hub,
	resolve SessionResolver,
	commands infrastructure.CommandHandler,
	onConnect ConnectHook,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := c.Logger()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		identity, err := resolve(c)
		if err != nil {
			status := http.StatusBadRequest
			message := "unable to resolve session"
			if errors.Is(err, auth.ErrInvalidToken) {
				status = http.StatusUnauthorized
				message = "invalid token"
			}
			slog.Warn("ws handler session rejected", slog.String("ip", peerIP), slog.Int("status", status), slog.Any("error", err))
			logger.Warnf("ws rejected ip=%s reqID=%s: %v", peerIP, requestID, err)
			return echo.NewHTTPError(status, message)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("sessionId", identity.SessionID), slog.Any("error", err))
			logger.Errorf("ws upgrade failed session=%s ip=%s reqID=%s: %v", identity.SessionID, peerIP, requestID, err)
			return err
		}

		client := infrastructure.NewClient(hub, conn, identity.UserID, identity.SessionID, identity.Token, 16, commands)
		requested := c.QueryParam("topics")
		topics := resolveTopics(requested)
		if strings.TrimSpace(requested) == "*" {
			hub.AttachClientToAll(client)
			topics = []string{"*"}
		} else {
			hub.AttachClient(client, topics)
		}

		go client.WritePump()
		go client.ReadPump()

		connected := domain.BuildSessionMessage(domain.SystemEntity, domain.ActionConnected, identity.SessionID, map[string]any{
			"clientId":      client.ID(),
			"sessionId":     identity.SessionID,
			"authenticated": identity.UserID != "",
			"topics":        topics,
		}, time.Now(), domain.Metadata{domain.MetaUserID: identity.UserID})
		client.SendDomainMessage(connected)

		if onConnect != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			go func() {
				defer cancel()
				onConnect(ctx, client)
			}()
		}

		slog.Info("ws handler connected",
			slog.String("clientId", client.ID()),
			slog.String("sessionId", identity.SessionID),
			slog.String("userId", identity.UserID),
			slog.Int("topics", len(topics)),
		)
		logger.Infof("ws connected session=%s user=%s ip=%s reqID=%s", identity.SessionID, identity.UserID, peerIP, requestID)
		return nil
	}
}
