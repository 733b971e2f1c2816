package infrastructure

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"storefrontWs/internal/modules/realtime/application/port"
	"storefrontWs/internal/modules/realtime/domain"
)

// HandlerRegistry routes event-bus messages to the handler registered for their topic.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.TrimSpace(h.Topic())] = h
}

// Topics lists the registered topics.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	msg.EnsureTopic()
	r.mu.RLock()
	handler, ok := r.handlers[msg.Topic]
	r.mu.RUnlock()
	if !ok {
		slog.Debug("event without handler", slog.String("topic", msg.Topic))
		return nil
	}
	return handler.Handle(ctx, msg)
}
