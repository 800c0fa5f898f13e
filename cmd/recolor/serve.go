package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor/internal/cli"
	"github.com/aretw0/recolor/internal/presentation/tui"
	httpAdapter "github.com/aretw0/recolor/pkg/adapters/http"
	"github.com/aretw0/recolor/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scene>",
	Short: "Serve conversions over HTTP",
	Long: `Loads a scene and exposes POST /convert (NDJSON event stream), GET /rules, GET /mappings,
GET /healthz and GET /metrics. Runs are serialized by a lock, kept in Redis with --redis.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		useRedis, _ := cmd.Flags().GetBool("redis")
		inPlace, _ := cmd.Flags().GetBool("in-place")
		lockTTL, _ := cmd.Flags().GetDuration("lock-ttl")
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		metrics := observability.NewMetrics(nil)
		built, err := cli.CreateEngine(cli.EngineOptions{
			ScenePath: args[0],
			UseRedis:  useRedis,
			Config:    cfg,
			Metrics:   metrics,
			Debug:     cfg.LogLevel == "debug",
			Persist:   inPlace,
		}, logger)
		if err != nil {
			return err
		}
		defer built.Close()

		handler := httpAdapter.NewHandler(built.Engine, built.Engine.Tables(),
			httpAdapter.WithLocker(built.Locker(cfg.Redis.Prefix), built.Engine.Name, lockTTL),
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "scene", args[0])
			serverErrors <- srv.ListenAndServe()
		}()

		if cli.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-ctx.Done():
			logger.Info("shutting down", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().Bool("redis", false, "Use the Redis library and lock from the config")
	serveCmd.Flags().Bool("in-place", false, "Write the scene back to its file after every run")
	serveCmd.Flags().Duration("lock-ttl", 10*time.Minute, "How long a crashed run may hold the lock")
}
