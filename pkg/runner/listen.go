package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/recolor/internal/dto"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

// Converter runs one conversion. Implemented by the engine and the recolor facade.
type Converter interface {
	Convert(ctx context.Context, req domain.ConvertRequest, emitter ports.EventEmitter) (domain.Outcome, error)
}

// ListenOption configures Listen.
type ListenOption func(*listener)

type listener struct {
	logger   *slog.Logger
	notifier ports.Notifier
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) ListenOption {
	return func(l *listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithNotifier receives notifications for rejected messages.
func WithNotifier(n ports.Notifier) ListenOption {
	return func(l *listener) {
		if n != nil {
			l.notifier = n
		}
	}
}

// Listen reads convert messages from r, one per line, and runs them one at a time,
// streaming events to emitter. It returns nil at end of input and ctx.Err() when
// cancelled between runs.
//
// A malformed or oversized message is answered with an error event and does not stop
// the loop; the rest of an oversized line is discarded. Run failures are reported by
// the run's own events.
func Listen(ctx context.Context, r io.Reader, conv Converter, emitter ports.EventEmitter, opts ...ListenOption) error {
	l := &listener{
		logger:   slog.New(slog.DiscardHandler),
		notifier: ports.NopNotifier{},
	}
	for _, opt := range opts {
		opt(l)
	}

	br := bufio.NewReader(r)
	limit := maxMessageSize()

	for {
		line, err := readLine(br, limit)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, ErrMessageTooLarge) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		var req domain.ConvertRequest
		if err == nil {
			if len(line) == 0 {
				continue
			}
			req, err = decodeLine(line)
		}
		if err != nil {
			l.logger.Warn("rejected message", "err", err)
			msg := fmt.Sprintf("Invalid request: %v", err)
			l.notifier.Notify(ctx, msg, true)
			if emitErr := emitter.Emit(ctx, domain.Failure(msg)); emitErr != nil {
				return emitErr
			}
			continue
		}

		out, err := conv.Convert(ctx, req, emitter)
		if err != nil {
			l.logger.Debug("run ended with error", "status", out.Status, "err", err)
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
	}
}

// readLine returns the next line without its terminator. A line longer than limit is
// consumed up to its newline and reported as ErrMessageTooLarge.
func readLine(br *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	overflow := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !overflow {
			line = append(line, chunk...)
			// Room for a trailing "\r\n".
			if len(line) > limit+2 {
				overflow, line = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || (len(line) == 0 && !overflow)) {
			return nil, err
		}
		break
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if overflow || len(line) > limit {
		return nil, fmt.Errorf("%w: limit=%d", ErrMessageTooLarge, limit)
	}
	return line, nil
}

func decodeLine(line []byte) (domain.ConvertRequest, error) {
	if err := SanitizeMessage(line); err != nil {
		return domain.ConvertRequest{}, err
	}
	var msg dto.Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return domain.ConvertRequest{}, fmt.Errorf("malformed JSON: %w", err)
	}
	return dto.DecodeMessage(msg)
}
