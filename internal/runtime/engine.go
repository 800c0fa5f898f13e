package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/recolor/internal/collector"
	"github.com/aretw0/recolor/internal/resolver"
	"github.com/aretw0/recolor/internal/variables"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

// Operator-facing messages.
const (
	msgEmptySelection = "Please select one or more frames or nodes."
	msgNoNodes        = "No convertible nodes found in selection."
	msgLimitExceeded  = "The number of selected nodes exceeds the limit (%d). Please reduce your selection and try again."
	msgImportFailed   = "Error importing variable key %s. Ensure it's published."
	msgFailed         = "Conversion failed: %v"
)

// Engine is the conversion state machine.
// A single Engine may serve many runs, but runs over the same scene must not overlap.
type Engine struct {
	scene    ports.SceneGraph
	importer ports.VariableImporter
	binder   ports.PaintBinder
	notifier ports.Notifier
	tables   domain.Tables

	limit         int
	concurrency   int
	progressEvery int

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNotifier sets the operator notification sink.
func WithNotifier(n ports.Notifier) EngineOption {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithTables sets the mapping tables used by every run.
func WithTables(t domain.Tables) EngineOption {
	return func(e *Engine) {
		e.tables = t
	}
}

// WithNodeLimit sets the node ceiling. A value <= 0 disables the check.
func WithNodeLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.limit = limit
	}
}

// WithImportConcurrency bounds parallel variable imports.
func WithImportConcurrency(n int) EngineOption {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithProgressEvery sets the progress cadence in nodes.
func WithProgressEvery(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.progressEvery = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(scene ports.SceneGraph, importer ports.VariableImporter, binder ports.PaintBinder, opts ...EngineOption) *Engine {
	e := &Engine{
		scene:         scene,
		importer:      importer,
		binder:        binder,
		notifier:      ports.NopNotifier{},
		limit:         domain.DefaultNodeLimit,
		concurrency:   variables.DefaultConcurrency,
		progressEvery: domain.DefaultProgressEvery,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the mapping tables of the engine.
func (e *Engine) Tables() domain.Tables {
	return e.tables
}

// Convert runs one conversion: collect, limit check, import, resolve and mutate.
//
// The returned Outcome is always populated. The error is non-nil for every terminal
// status other than complete and wraps the matching domain sentinel
// (ErrEmptySelection, ErrNoConvertibleNodes, ErrNodeLimitExceeded) or the host failure.
// Variable import failures, per-paint bind failures and rejected paint writes never
// produce an error; only a failing selection read or a host panic does.
func (e *Engine) Convert(ctx context.Context, req domain.ConvertRequest, emitter ports.EventEmitter) (out domain.Outcome, err error) {
	if emitter == nil {
		emitter = ports.NopEmitter{}
	}
	rules := req.EnabledRules()
	r := &run{
		engine:  e,
		ctx:     ctx,
		emitter: emitter,
		logger:  e.logger,
		out:     domain.Outcome{Phase: domain.PhaseIdle},
	}

	started := time.Now()
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{Timestamp: started, Rules: len(rules), Limit: e.limit})
	}
	e.logger.Info("conversion requested", "rules", len(rules), "limit", e.limit)

	defer func() {
		out.Duration = time.Since(started)
		e.logger.Info("conversion finished",
			"status", out.Status,
			"found", out.Found,
			"processed", out.Processed,
			"converted", out.Converted,
			"import_failures", len(out.ImportFailures),
			"duration", out.Duration,
		)
		if e.hooks.OnRunFinish != nil {
			e.hooks.OnRunFinish(ctx, &out)
		}
	}()

	return r.execute(rules)
}

// run holds the state of a single conversion.
type run struct {
	engine  *Engine
	ctx     context.Context
	emitter ports.EventEmitter
	logger  *slog.Logger
	out     domain.Outcome
}

func (r *run) execute(rules []domain.AdvancedMappingEntry) (domain.Outcome, error) {
	e := r.engine

	// 1. Collect
	r.advance(domain.PhaseCollectingNodes)
	roots, err := e.scene.Selection(r.ctx)
	if err != nil {
		return r.fail(fmt.Errorf("failed to read selection: %w", err))
	}
	if len(roots) == 0 {
		return r.reject(domain.ErrEmptySelection, msgEmptySelection)
	}
	nodes := collector.Collect(roots)
	r.out.Found = len(nodes)
	r.emit(domain.NodesFound(len(nodes)))
	if len(nodes) == 0 {
		return r.reject(domain.ErrNoConvertibleNodes, msgNoNodes)
	}

	// 2. Limit check (all or nothing)
	r.advance(domain.PhaseLimitCheck)
	if e.limit > 0 && len(nodes) > e.limit {
		msg := fmt.Sprintf(msgLimitExceeded, e.limit)
		r.advance(domain.PhaseLimitExceeded)
		r.out.Status = domain.StatusLimitExceeded
		r.out.Message = msg
		e.notifier.Notify(r.ctx, msg, true)
		r.emit(domain.LimitExceeded(e.limit))
		return r.out, fmt.Errorf("%w: %d nodes, limit %d", domain.ErrNodeLimitExceeded, len(nodes), e.limit)
	}
	r.progress("Found %d nodes to process. Importing variables...", len(nodes))

	// 3. Import
	r.advance(domain.PhaseImportingVariables)
	cache := variables.ImportAll(r.ctx, e.importer, variables.Keys(e.tables, rules), e.concurrency, r.logger)
	for _, f := range cache.Failures() {
		r.out.ImportFailures = append(r.out.ImportFailures, f.Key)
		e.notifier.Notify(r.ctx, fmt.Sprintf(msgImportFailed, f.Key), true)
		if e.hooks.OnImportFailure != nil {
			e.hooks.OnImportFailure(r.ctx, &domain.ImportFailureEvent{Timestamp: time.Now(), Key: f.Key, Err: f.Err})
		}
	}
	r.progress("Variables imported. Starting node conversion...")

	// 4. Convert
	r.advance(domain.PhaseConverting)
	res := resolver.New(e.tables, rules, e.binder, r.logger)
	if err := r.convertAll(nodes, res, cache); err != nil {
		return r.fail(err)
	}

	msg := fmt.Sprintf("Conversion complete. Processed %d nodes.", r.out.Processed)
	r.progress("%s", msg)
	e.notifier.Notify(r.ctx, msg, false)
	r.emit(domain.NodesConverted(r.out.Converted))
	r.emit(domain.Complete())
	r.advance(domain.PhaseComplete)
	r.out.Status = domain.StatusComplete
	return r.out, nil
}

// convertAll visits nodes in collection order. A panic raised by the host while
// converting a node aborts the run with the counters reached so far.
func (r *run) convertAll(nodes []domain.Paintable, res *resolver.Resolver, cache *variables.Cache) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while converting: %v", p)
		}
	}()

	total := len(nodes)
	for _, node := range nodes {
		r.out.Processed++
		if r.out.Processed%r.engine.progressEvery == 0 || r.out.Processed == total {
			r.progress("Processing node %d/%d... (%s)", r.out.Processed, total, node.Name())
		}

		changed := r.convertNode(node, res, cache)
		if changed {
			r.out.Converted++
		}
		if h := r.engine.hooks.OnNodeConverted; h != nil {
			h(r.ctx, &domain.NodeEvent{
				Timestamp: time.Now(),
				NodeID:    node.ID(),
				NodeName:  node.Name(),
				Kind:      node.Kind(),
				Changed:   changed,
			})
		}
	}
	return nil
}

// convertNode processes fills then strokes; the two lists share no resolution state.
func (r *run) convertNode(node domain.Paintable, res *resolver.Resolver, cache *variables.Cache) bool {
	changed := false
	for _, target := range domain.Targets {
		changed = r.convertTarget(node, target, res, cache) || changed
	}
	r.logger.Debug("node processed", "node", node.ID(), "kind", node.Kind(), "changed", changed)
	return changed
}

// convertTarget snapshots the list, applies the plan, and compares.
// The list is written back wholesale and only when a slot was rebound.
//
// A write rejected by the host never ends the run. When the plan came from the style
// table the list is resolved again without it; otherwise the list is skipped.
func (r *run) convertTarget(node domain.Paintable, target domain.PaintTarget, res *resolver.Resolver, cache *variables.Cache) bool {
	before := domain.ClonePaints(node.Paints(target))

	plan := res.Resolve(node, target, cache)
	err := r.apply(node, plan)
	if err != nil && plan.FromStyle {
		r.logger.Warn("style rebinding rejected, falling back to paint tables",
			"node", node.ID(), "target", target, "err", err)
		plan = res.ResolvePaints(node, target, cache)
		err = r.apply(node, plan)
	}
	if err != nil {
		r.out.WriteFailures++
		r.logger.Warn("paint list write rejected, skipping",
			"node", node.ID(), "target", target, "rule", plan.Rule, "err", err)
	}

	return domain.PaintsChanged(before, node.Paints(target))
}

// apply writes plan to node: the style detach first, then the paint list.
func (r *run) apply(node domain.Paintable, plan resolver.Plan) error {
	if plan.ClearStyle {
		if err := node.ClearStyle(plan.Target); err != nil {
			return fmt.Errorf("clear %s style: %w", plan.Target, err)
		}
		r.out.StylesCleared++
	}
	if plan.Dirty() {
		if err := node.SetPaints(plan.Target, plan.Paints); err != nil {
			return fmt.Errorf("set %ss: %w", plan.Target, err)
		}
		r.logger.Debug("paints rebound", "node", node.ID(), "target", plan.Target, "slots", len(plan.Bound), "rule", plan.Rule)
	}
	return nil
}

func (r *run) advance(p domain.Phase) {
	r.logger.Debug("phase transition", "from", r.out.Phase, "to", p)
	r.out.Phase = p
}

func (r *run) emit(ev domain.Event) {
	if err := r.emitter.Emit(r.ctx, ev); err != nil {
		r.logger.Warn("failed to emit event", "type", ev.Type, "err", err)
	}
}

func (r *run) progress(format string, args ...any) {
	r.emit(domain.Progress(fmt.Sprintf(format, args...)))
}

// reject ends the run on an operator error (empty selection, nothing to convert).
func (r *run) reject(sentinel error, msg string) (domain.Outcome, error) {
	r.terminate(msg)
	return r.out, sentinel
}

// fail ends the run on a hard failure, keeping the counters reached so far.
func (r *run) fail(err error) (domain.Outcome, error) {
	r.logger.Error("conversion failed", "err", err, "processed", r.out.Processed, "converted", r.out.Converted)
	r.terminate(fmt.Sprintf(msgFailed, err))
	return r.out, fmt.Errorf("conversion failed: %w", err)
}

func (r *run) terminate(msg string) {
	r.advance(domain.PhaseError)
	r.out.Status = domain.StatusError
	r.out.Message = msg
	r.engine.notifier.Notify(r.ctx, msg, true)
	r.emit(domain.Failure(msg))
}
