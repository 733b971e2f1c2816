package transport

import (
	"encoding/json"
	"log/slog"
	"time"

	domain "storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/modules/realtime/infrastructure"
)

// DecodePayload unmarshals a command payload. An empty payload leaves the zero value.
func DecodePayload[T any](cmd infrastructure.Command) (T, error) {
	var payload T
	if len(cmd.Payload) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(cmd.Payload, &payload)
	return payload, err
}

// SendCommandError answers a failed command on the socket that sent it.
func SendCommandError(client *infrastructure.Client, action, reason string) {
	slog.Debug("ws command error", slog.String("clientId", client.ID()), slog.String("action", action), slog.String("reason", reason))
	client.SendDomainMessage(domain.BuildErrorMessage(client.SessionID(), action, reason, time.Now()))
}
