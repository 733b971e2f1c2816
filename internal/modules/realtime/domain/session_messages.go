package domain

import (
	"strings"
	"time"
)

// BuildSessionMessage composes a message delivered only to the sockets of sessionID.
func BuildSessionMessage(entity, action, sessionID string, data any, at time.Time, extras Metadata) *Message {
	entityName := strings.TrimSpace(entity)
	metadata := Metadata{MetaSessionID: strings.TrimSpace(sessionID)}
	metadata = mergeInto(metadata, extras)
	return &Message{
		Topic:     CustomTopic(entityName, action),
		Entity:    entityName,
		Action:    strings.TrimSpace(action),
		Metadata:  metadata,
		Data:      data,
		Timestamp: at.UTC(),
	}
}

// BuildBroadcastMessage composes a message for every subscriber of the topic.
func BuildBroadcastMessage(entity, action, resourceID string, data any, at time.Time, extras Metadata) *Message {
	entityName := strings.TrimSpace(entity)
	return &Message{
		Topic:      CustomTopic(entityName, action),
		Entity:     entityName,
		Action:     strings.TrimSpace(action),
		ResourceID: strings.TrimSpace(resourceID),
		Metadata:   mergeInto(nil, extras),
		Data:       data,
		Timestamp:  at.UTC(),
	}
}

// BuildErrorMessage reports a failed websocket command back to one session.
func BuildErrorMessage(sessionID, command, reason string, at time.Time) *Message {
	return BuildSessionMessage(SystemEntity, ActionError, sessionID, map[string]any{
		"command": command,
		"isError": true,
		"message": reason,
	}, at, nil)
}

func mergeInto(target Metadata, extras Metadata) Metadata {
	if len(extras) == 0 {
		return target
	}
	if target == nil {
		target = Metadata{}
	}
	for key, value := range extras {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		target[trimmedKey] = trimmedValue
	}
	return target
}
