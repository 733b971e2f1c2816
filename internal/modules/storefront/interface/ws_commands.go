package transport

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	listingport "storefrontWs/internal/modules/listing/application/port"
	listing "storefrontWs/internal/modules/listing/domain"
	realtime "storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/modules/realtime/infrastructure"
	rttransport "storefrontWs/internal/modules/realtime/interface"
	"storefrontWs/internal/modules/storefront/application/usecase"
	"storefrontWs/internal/modules/storefront/domain"
)

// Commands handles the storefront websocket actions. State changes are not answered directly:
// they reach every socket of the session through the store listeners.
func (h *Handler) Commands() infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		action := strings.ToLower(strings.TrimSpace(cmd.Action))
		session, err := h.sessions.Get(ctx, client.SessionID())
		if err != nil {
			rttransport.SendCommandError(client, action, err.Error())
			return
		}

		switch action {
		case realtime.CommandSnapshot:
			payload, err := rttransport.DecodePayload[realtime.SnapshotCommand](cmd)
			if err != nil {
				rttransport.SendCommandError(client, action, "invalid payload")
				return
			}
			h.sendSnapshot(client, session, payload)
		case realtime.CommandCart:
			payload, err := rttransport.DecodePayload[realtime.StateActionCommand](cmd)
			if err != nil {
				rttransport.SendCommandError(client, action, "invalid payload")
				return
			}
			cartAction, err := domain.DecodeCartAction(payload.Type, payload.Payload)
			if err != nil {
				rttransport.SendCommandError(client, action, err.Error())
				return
			}
			session.Cart.Dispatch(ctx, cartAction)
		case realtime.CommandFilters:
			payload, err := rttransport.DecodePayload[realtime.StateActionCommand](cmd)
			if err != nil {
				rttransport.SendCommandError(client, action, "invalid payload")
				return
			}
			filterAction, err := domain.DecodeFilterAction(payload.Type, payload.Payload)
			if err != nil {
				rttransport.SendCommandError(client, action, err.Error())
				return
			}
			session.Filters.Dispatch(filterAction)
		case realtime.CommandFiltersPreset:
			payload, err := rttransport.DecodePayload[realtime.PresetCommand](cmd)
			if err != nil {
				rttransport.SendCommandError(client, action, "invalid payload")
				return
			}
			if _, ok := session.Filters.ApplyPreset(payload.Preset); !ok {
				rttransport.SendCommandError(client, action, "unknown preset")
			}
		case realtime.CommandListing, realtime.CommandListingMore:
			h.handleListingCommand(ctx, client, session, action, cmd)
		default:
			slog.Debug("ws storefront unknown action", slog.String("sessionId", session.ID), slog.String("action", cmd.Action))
			rttransport.SendCommandError(client, action, "unsupported action")
		}
	}
}

func (h *Handler) handleListingCommand(ctx context.Context, client *infrastructure.Client, session *usecase.Session, action string, cmd infrastructure.Command) {
	payload, err := rttransport.DecodePayload[realtime.ListingCommand](cmd)
	if err != nil {
		rttransport.SendCommandError(client, action, "invalid payload")
		return
	}
	listingContext, err := listing.ParseContext(payload.Context)
	if err != nil {
		rttransport.SendCommandError(client, action, err.Error())
		return
	}
	if payload.Latitude != nil && payload.Longitude != nil {
		session.SetLocation(&listing.GeoPoint{Latitude: *payload.Latitude, Longitude: *payload.Longitude})
	}

	if action == realtime.CommandListingMore {
		_, err = session.Listing(listingContext).LoadMore(ctx)
	} else {
		_, err = session.RefreshListing(ctx, listingContext)
	}
	// Failures already reached the session as a listing.updated view with isError set.
	if err != nil && !errors.Is(err, listingport.ErrStaleGeneration) {
		slog.Warn("ws storefront listing failed", slog.String("sessionId", session.ID), slog.String("context", string(listingContext)), slog.Any("error", err))
	}
}

// OnConnect pushes the session state to a freshly connected socket.
func (h *Handler) OnConnect(ctx context.Context, client *infrastructure.Client) {
	session, err := h.sessions.Get(ctx, client.SessionID())
	if err != nil {
		slog.Warn("ws storefront connect without session", slog.String("clientId", client.ID()), slog.Any("error", err))
		return
	}
	h.sendSnapshot(client, session, realtime.SnapshotCommand{})
}

// sendSnapshot answers only the requesting socket. An empty scope sends cart, filters and every
// listing rendered so far.
func (h *Handler) sendSnapshot(client *infrastructure.Client, session *usecase.Session, cmd realtime.SnapshotCommand) {
	now := time.Now()
	scope := strings.ToLower(strings.TrimSpace(cmd.Scope))
	if scope == "" || scope == realtime.CartEntity {
		client.SendDomainMessage(realtime.BuildSessionMessage(realtime.CartEntity, realtime.ActionSnapshot, session.ID, session.Cart.Snapshot(), now, nil))
	}
	if scope == "" || scope == realtime.FiltersEntity {
		client.SendDomainMessage(realtime.BuildSessionMessage(realtime.FiltersEntity, realtime.ActionSnapshot, session.ID, session.Filters.State(), now, nil))
	}
	if scope != "" && scope != realtime.ListingEntity {
		return
	}
	for listingContext, aggregator := range session.Listings() {
		if cmd.Context != "" && string(listingContext) != strings.ToLower(strings.TrimSpace(cmd.Context)) {
			continue
		}
		client.SendDomainMessage(realtime.BuildSessionMessage(realtime.ListingEntity, realtime.ActionSnapshot, session.ID, aggregator.View(), now, realtime.Metadata{
			realtime.MetaContext: string(listingContext),
		}))
	}
}
