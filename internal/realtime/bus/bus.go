package bus

import (
	"context"

	"github.com/yungbote/neurobridge-coach/internal/realtime"
)

// Bus fans safeguarding events out across service instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// localBus delivers straight to an in-process hub. Used when no redis is configured.
type localBus struct {
	hub *realtime.SSEHub
}

func NewLocalBus(hub *realtime.SSEHub) Bus {
	return &localBus{hub: hub}
}

func (b *localBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	b.hub.Broadcast(msg)
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	return nil
}

func (b *localBus) Close() error { return nil }
