package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/aretw0/recolor/pkg/domain"
)

// TextEmitter renders events and notifications as human readable lines.
// Colors follow the terminal profile of the writer and degrade to plain text.
type TextEmitter struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewTextEmitter creates a text emitter writing to w (stdout when nil).
func NewTextEmitter(w io.Writer, opts ...termenv.OutputOption) *TextEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &TextEmitter{out: termenv.NewOutput(w, opts...)}
}

func (e *TextEmitter) Emit(_ context.Context, event domain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var line termenv.Style
	switch p := event.Payload.(type) {
	case domain.NodesFoundPayload:
		line = e.out.String(fmt.Sprintf("Found %d nodes", p.Total)).Bold()
	case domain.LimitExceededPayload:
		line = e.out.String(fmt.Sprintf("✗ Node limit exceeded (%d)", p.Limit)).Foreground(e.out.Color("1")).Bold()
	case domain.NodesConvertedPayload:
		line = e.out.String(fmt.Sprintf("Converted %d nodes", p.Converted)).Foreground(e.out.Color("2"))
	case domain.MessagePayload:
		if event.Type == domain.EventError {
			line = e.out.String("✗ " + p.Message).Foreground(e.out.Color("1")).Bold()
		} else {
			line = e.out.String("  " + p.Message).Faint()
		}
	default:
		if event.Type == domain.EventComplete {
			line = e.out.String("✓ Complete").Foreground(e.out.Color("2")).Bold()
		} else {
			line = e.out.String(string(event.Type))
		}
	}
	_, err := fmt.Fprintln(e.out, line)
	return err
}

// Notify prints an operator notification. Errors are highlighted.
func (e *TextEmitter) Notify(_ context.Context, message string, isError bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	style := e.out.String("! " + message).Foreground(e.out.Color("3"))
	if isError {
		style = e.out.String("! " + message).Foreground(e.out.Color("1"))
	}
	fmt.Fprintln(e.out, style)
}

// PrintOutcome writes a one-paragraph summary of a finished run.
func (e *TextEmitter) PrintOutcome(o domain.Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := e.out.String(string(o.Status)).Bold()
	switch o.Status {
	case domain.StatusComplete:
		status = status.Foreground(e.out.Color("2"))
	default:
		status = status.Foreground(e.out.Color("1"))
	}
	fmt.Fprintf(e.out, "\nstatus: %s  found: %d  processed: %d  converted: %d  (%s)\n",
		status, o.Found, o.Processed, o.Converted, o.Duration.Round(time.Millisecond))
	for _, key := range o.ImportFailures {
		fmt.Fprintf(e.out, "  unimported variable: %s\n", key)
	}
}
