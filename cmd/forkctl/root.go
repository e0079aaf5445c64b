package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/forkful-backend/internal/adapter/postgres"
	"github.com/heartmarshall/forkful-backend/internal/app"
	"github.com/heartmarshall/forkful-backend/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	cc := &commandContext{configFlag: &configFlag}

	root := &cobra.Command{
		Use:           "forkctl",
		Short:         "Forkful operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cc.ensureConfig()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			cc.close(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (overrides CONFIG_PATH)")

	root.AddCommand(
		newMigrateCommand(cc),
		newClassifyCommand(),
		newRescoreCommand(cc),
		newImageCommand(cc),
		newPendingCommand(cc),
		newTasksCommand(cc),
		newImportCommand(cc),
	)
	return root
}

// commandContext lazily loads configuration and connects only what a
// command needs.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger

	components *app.Components
	pool       *pgxpool.Pool
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		cfg, err := config.LoadFrom(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = app.NewLogger(cfg.Log)
	})
	return c.config, c.configErr
}

// build wires the full component graph.
func (c *commandContext) build(ctx context.Context) (*app.Components, error) {
	if c.components != nil {
		return c.components, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	comps, err := app.Build(ctx, cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.components = comps
	return comps, nil
}

// dbPool connects to PostgreSQL only, for commands that need no models.
func (c *commandContext) dbPool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.components != nil {
		return c.components.Pool, nil
	}
	if c.pool != nil {
		return c.pool, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return pool, nil
}

func (c *commandContext) close(ctx context.Context) {
	if c.components != nil {
		c.components.Close(ctx)
		c.components = nil
	}
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
