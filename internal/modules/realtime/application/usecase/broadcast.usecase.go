package usecase

import (
	"context"
	"time"

	"storefrontWs/internal/modules/realtime/application/port"
	"storefrontWs/internal/modules/realtime/domain"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
	now         func() time.Time
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b, now: time.Now}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if uc == nil || uc.broadcaster == nil || msg == nil {
		return
	}
	uc.broadcaster.Broadcast(ctx, msg)
}

// ToSession pushes entity.action with data to the sockets of one session.
func (uc *BroadcastUseCase) ToSession(ctx context.Context, sessionID, entity, action string, data any, extras domain.Metadata) {
	if uc == nil || sessionID == "" {
		return
	}
	uc.Execute(ctx, domain.BuildSessionMessage(entity, action, sessionID, data, uc.now(), extras))
}
