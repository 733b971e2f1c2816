package domain

import (
	"strings"
	"time"
)

// Metadata carries routing hints. The hub delivers a message carrying "sessionId"
// or "userId" only to matching clients.
type Metadata map[string]string

const (
	MetaSessionID = "sessionId"
	MetaUserID    = "userId"
	MetaContext   = "context"
)

func (m Metadata) SessionID() string { return strings.TrimSpace(m[MetaSessionID]) }
func (m Metadata) UserID() string    { return strings.TrimSpace(m[MetaUserID]) }

// Message is the envelope pushed to websocket clients and read from the event bus.
type Message struct {
	Topic      string    `json:"topic"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resourceId,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EnsureTopic fills Topic from Entity and Action when the producer left it empty.
func (m *Message) EnsureTopic() {
	if m == nil || strings.TrimSpace(m.Topic) != "" {
		return
	}
	m.Topic = buildEntityTopic(m.Entity, m.Action)
}
