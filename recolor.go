package recolor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/recolor/internal/runtime"
	"github.com/aretw0/recolor/pkg/adapters/memory"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/mappings"
	"github.com/aretw0/recolor/pkg/ports"
)

// Engine is the high-level entry point for the recolor library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	scene       ports.SceneGraph
	importer    ports.VariableImporter
	binder      ports.PaintBinder
	tables      *domain.Tables
	runtimeOpts []runtime.EngineOption
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithScene injects a custom SceneGraph, bypassing the scene file.
func WithScene(s ports.SceneGraph) Option {
	return func(e *Engine) {
		e.scene = s
	}
}

// WithImporter sets the variable library. Defaults to an empty in-memory library,
// where every import fails.
func WithImporter(i ports.VariableImporter) Option {
	return func(e *Engine) {
		e.importer = i
	}
}

// WithBinder sets the paint binding primitive (default: memory.Binder).
func WithBinder(b ports.PaintBinder) Option {
	return func(e *Engine) {
		e.binder = b
	}
}

// WithTables replaces the built-in mapping tables.
func WithTables(t domain.Tables) Option {
	return func(e *Engine) {
		e.tables = &t
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithNotifier sets where operator notifications go.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithNotifier(n))
	}
}

// WithNodeLimit sets the node ceiling (default 3000). A value <= 0 disables the check.
func WithNodeLimit(limit int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithNodeLimit(limit))
	}
}

// WithImportConcurrency bounds parallel variable imports.
func WithImportConcurrency(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithImportConcurrency(n))
	}
}

// WithProgressEvery sets how many nodes pass between progress events.
func WithProgressEvery(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithProgressEvery(n))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// New initializes a new Engine.
// By default, it loads a YAML or JSON scene document from scenePath.
// If WithScene is provided, scenePath can be empty and is only used as a label.
func New(scenePath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if scenePath != "" {
		eng.Name = filepath.Base(scenePath)
	}
	if eng.scene == nil {
		if scenePath == "" {
			return nil, fmt.Errorf("scenePath is required when no custom scene is provided")
		}
		scene, err := memory.LoadScene(scenePath)
		if err != nil {
			return nil, err
		}
		eng.scene = scene
	}

	if eng.importer == nil {
		eng.importer = memory.NewLibrary()
	}
	if eng.binder == nil {
		eng.binder = memory.Binder{}
	}
	tables := mappings.Default()
	if eng.tables != nil {
		tables = *eng.tables
	}
	if err := mappings.Validate(tables); err != nil {
		return nil, fmt.Errorf("invalid mapping tables: %w", err)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.DiscardHandler)
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("scene", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithTables(tables),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(eng.scene, eng.importer, eng.binder, runtimeOpts...)
	return eng, nil
}

// Convert runs one conversion over the current selection.
// See internal/runtime.Engine.Convert for the outcome and error contract.
func (e *Engine) Convert(ctx context.Context, req domain.ConvertRequest, emitter ports.EventEmitter) (domain.Outcome, error) {
	return e.runtime.Convert(ctx, req, emitter)
}

// Tables returns the mapping tables the engine converts with.
func (e *Engine) Tables() domain.Tables {
	return e.runtime.Tables()
}

// Rules returns the advanced rule catalog.
func (e *Engine) Rules() []domain.AdvancedMappingEntry {
	return e.runtime.Tables().Advanced
}

// Scene returns the scene the engine converts.
func (e *Engine) Scene() ports.SceneGraph {
	return e.scene
}
