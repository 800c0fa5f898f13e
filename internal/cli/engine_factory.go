package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/recolor"
	"github.com/aretw0/recolor/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/recolor/pkg/adapters/redis"
	"github.com/aretw0/recolor/pkg/config"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/observability"
	"github.com/aretw0/recolor/pkg/ports"
)

// DefaultLibraryName is picked up next to the scene when no library is given.
const DefaultLibraryName = "library.yaml"

// EngineOptions describes where a CLI run takes its scene, library and settings from.
type EngineOptions struct {
	ScenePath   string
	LibraryPath string
	// UseRedis imports variables from the Redis library configured in Config.
	UseRedis bool
	Config   *config.Config
	Notifier ports.Notifier
	Metrics  *observability.Metrics
	Debug    bool
	// Persist writes the scene back to ScenePath after every run that converted a node.
	Persist bool
}

// Built is an engine plus the resources it holds.
type Built struct {
	Engine *recolor.Engine
	Scene  *memory.Scene
	// Redis is set when the library lives in Redis; its client also backs the run lock.
	Redis *redisAdapter.Library
}

// Close releases the Redis connection, if any.
func (b *Built) Close() error {
	if b.Redis != nil {
		return b.Redis.Client().Close()
	}
	return nil
}

// Locker returns the lock serializing runs: Redis when configured, in-process otherwise.
func (b *Built) Locker(prefix string) ports.Locker {
	if b.Redis != nil {
		return redisAdapter.NewLocker(b.Redis.Client(), redisAdapter.WithPrefix(prefix))
	}
	return memory.NewLocker()
}

// CreateEngine initializes an engine with standard CLI conventions.
func CreateEngine(opts EngineOptions, logger *slog.Logger) (*Built, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	tables, err := cfg.Tables()
	if err != nil {
		return nil, fmt.Errorf("error loading mappings: %w", err)
	}
	if opts.ScenePath == "" {
		return nil, fmt.Errorf("a scene file is required")
	}
	scene, err := memory.LoadScene(opts.ScenePath)
	if err != nil {
		return nil, err
	}

	built := &Built{Scene: scene}
	engineOpts := []recolor.Option{
		recolor.WithScene(scene),
		recolor.WithLogger(logger),
		recolor.WithTables(tables),
		recolor.WithNodeLimit(cfg.NodeLimit),
		recolor.WithImportConcurrency(cfg.ImportConcurrency),
		recolor.WithProgressEvery(cfg.ProgressEvery),
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = logNotifier{logger: logger}
	}
	engineOpts = append(engineOpts, recolor.WithNotifier(notifier))

	var hooks []domain.LifecycleHooks
	if opts.Debug {
		hooks = append(hooks, createDebugHooks(logger))
	}
	if opts.Metrics != nil {
		hooks = append(hooks, opts.Metrics.Hooks())
	}
	if opts.Persist {
		hooks = append(hooks, createPersistHooks(scene, opts.ScenePath, logger))
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, recolor.WithLifecycleHooks(observability.CombineHooks(hooks...)))
	}

	switch {
	case opts.UseRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("--redis needs redis.addr in the config")
		}
		built.Redis = redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisAdapter.WithPrefix(cfg.Redis.Prefix))
		engineOpts = append(engineOpts, recolor.WithImporter(built.Redis))
	default:
		path := opts.LibraryPath
		if path == "" {
			path = findLibrary(opts.ScenePath)
		}
		if path != "" {
			library, err := memory.LoadLibrary(path)
			if err != nil {
				return nil, err
			}
			logger.Debug("library loaded", "path", path, "variables", len(library.Keys()))
			engineOpts = append(engineOpts, recolor.WithImporter(library))
		} else {
			logger.Warn("no variable library configured, every import will fail")
		}
	}

	engine, err := recolor.New(opts.ScenePath, engineOpts...)
	if err != nil {
		_ = built.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	built.Engine = engine
	return built, nil
}

// createPersistHooks saves the scene once a run has changed it, paints or style bindings.
// Runs that fail midway still persist what they converted, like the host would.
func createPersistHooks(scene *memory.Scene, path string, logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunFinish: func(ctx context.Context, o *domain.Outcome) {
			if o.Converted == 0 && o.StylesCleared == 0 {
				return
			}
			if err := scene.Save(path); err != nil {
				logger.Error("failed to save scene", "path", path, "err", err)
				return
			}
			logger.Info("scene saved", "path", path, "converted", o.Converted, "styles_cleared", o.StylesCleared)
		},
	}
}

// findLibrary returns the default library file next to the scene, or "".
func findLibrary(scenePath string) string {
	if scenePath == "" {
		return ""
	}
	path := filepath.Join(filepath.Dir(scenePath), DefaultLibraryName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
