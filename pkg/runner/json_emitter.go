package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/recolor/pkg/domain"
)

// flusher is implemented by buffered writers and http.ResponseWriter.
type flusher interface {
	Flush()
}

// JSONEmitter implements ports.EventEmitter as JSON Lines.
// Each event is flushed as soon as it is written. Safe for concurrent use.
type JSONEmitter struct {
	mu      sync.Mutex
	writer  io.Writer
	encoder *json.Encoder
}

// NewJSONEmitter creates an emitter writing to w (stdout when nil).
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONEmitter{
		writer:  w,
		encoder: json.NewEncoder(w),
	}
}

func (e *JSONEmitter) Emit(ctx context.Context, event domain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.encoder.Encode(event); err != nil {
		return err
	}
	if f, ok := e.writer.(flusher); ok {
		f.Flush()
	}
	return nil
}

// Notify writes a notification as a pseudo-event so stream clients see it in order.
func (e *JSONEmitter) Notify(ctx context.Context, message string, isError bool) {
	_ = e.Emit(ctx, domain.Event{Type: EventNotify, Payload: NotifyPayload{Message: message, Error: isError}})
}

// EventNotify is the stream-only event type carrying operator notifications.
const EventNotify domain.EventType = "notify"

// NotifyPayload is the payload of an EventNotify event.
type NotifyPayload struct {
	Message string `json:"message"`
	Error   bool   `json:"error,omitempty"`
}
