package infrastructure

import (
	"context"
	"errors"
	"testing"

	"storefrontWs/internal/modules/realtime/domain"
)

type recordingHandler struct {
	topic string
	got   []*domain.Message
	err   error
}

func (h *recordingHandler) Topic() string { return h.topic }

func (h *recordingHandler) Handle(_ context.Context, msg *domain.Message) error {
	h.got = append(h.got, msg)
	return h.err
}

func TestHandlerRegistryDispatch(t *testing.T) {
	registry := NewHandlerRegistry()
	boom := errors.New("boom")
	handler := &recordingHandler{topic: "restaurants.updated", err: boom}
	registry.Register(handler)

	if err := registry.Dispatch(context.Background(), &domain.Message{Entity: "restaurants", Action: "updated"}); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if len(handler.got) != 1 {
		t.Fatalf("expected handler to run once, got %d", len(handler.got))
	}
	if err := registry.Dispatch(context.Background(), &domain.Message{Topic: "unknown.topic"}); err != nil {
		t.Fatalf("unknown topics are ignored, got %v", err)
	}
	if topics := registry.Topics(); len(topics) != 1 || topics[0] != "restaurants.updated" {
		t.Fatalf("unexpected topics %v", topics)
	}
}
