package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/recolor/pkg/adapters/redis"
	"github.com/aretw0/recolor/pkg/config"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the shared variable library in Redis",
}

var libraryPushCmd = &cobra.Command{
	Use:   "push <library-file>",
	Short: "Publish every variable of a library file to Redis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		file, err := memory.LoadLibrary(args[0])
		if err != nil {
			return err
		}

		lib, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer lib.Client().Close()

		for _, key := range file.Keys() {
			v, err := file.ImportByKey(cmd.Context(), key)
			if err != nil {
				return err
			}
			if err := lib.Publish(cmd.Context(), v); err != nil {
				return err
			}
		}
		logger.Info("library published", "variables", len(file.Keys()), "addr", cfg.Redis.Addr)
		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the variable keys published in Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lib, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer lib.Client().Close()

		keys, err := lib.Keys(cmd.Context())
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

func openLibrary(cfg *config.Config) (*redisAdapter.Library, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis.addr is not configured")
	}
	return redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisAdapter.WithPrefix(cfg.Redis.Prefix)), nil
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryPushCmd, libraryListCmd)
}
