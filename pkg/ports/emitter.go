package ports

import (
	"context"

	"github.com/aretw0/recolor/pkg/domain"
)

// EventEmitter delivers outbound events to whoever requested the run.
type EventEmitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// Notifier shows a short message to the operator.
type Notifier interface {
	Notify(ctx context.Context, message string, isError bool)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(ctx context.Context, event domain.Event) error

func (f EmitterFunc) Emit(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, domain.Event) error { return nil }

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, bool) {}
