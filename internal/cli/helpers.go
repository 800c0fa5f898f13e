package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/aretw0/recolor/internal/logging"
	"github.com/aretw0/recolor/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it keeps the signal for the exit report.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger configures the application logger from a level name, as text or JSON on stderr.
// An unknown level falls back to info and is reported once.
func NewLogger(level string, jsonFormat bool) *slog.Logger {
	lvl, err := logging.ParseLevel(level)
	logger := logging.New(lvl)
	if jsonFormat {
		logger = logging.NewJSON(os.Stderr, lvl)
	}
	if err != nil {
		logger.Warn("invalid log level, using info", "err", err)
	}
	return logger
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or 0 when unknown.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "rules", e.Rules, "limit", e.Limit)
		},
		OnNodeConverted: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("Node Converted", "node_id", e.NodeID, "kind", e.Kind, "changed", e.Changed)
		},
		OnImportFailure: func(ctx context.Context, e *domain.ImportFailureEvent) {
			logger.Debug("Import Failed", "key", e.Key, "err", e.Err)
		},
		OnRunFinish: func(ctx context.Context, o *domain.Outcome) {
			logger.Debug("Run Finish", "status", o.Status, "converted", o.Converted, "duration", o.Duration)
		},
	}
}

// logNotifier sends operator notifications to the log when nobody is watching a terminal.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(_ context.Context, message string, isError bool) {
	if isError {
		n.logger.Error(message)
		return
	}
	n.logger.Info(message)
}
