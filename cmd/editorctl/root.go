package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/snehn77/Editor/pkg/config"
	"github.com/snehn77/Editor/pkg/database"
	"github.com/snehn77/Editor/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "editorctl",
	Short:        "editorctl - administer the RC table editor",
	Long:         "editorctl applies schema migrations and inspects drafts and submission history.",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newDraftsCmd())
	rootCmd.AddCommand(newHistoryCmd())
}

// env holds the connections a command opened.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *sqlx.DB
	drafts *sqlx.DB
}

type envOptions struct {
	postgres bool
	drafts   bool
}

func openEnv(opts envOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	e := &env{cfg: cfg, logger: logr}
	if opts.postgres {
		if e.pg, err = database.NewPostgres(cfg.Database); err != nil {
			e.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	}
	if opts.drafts {
		if e.drafts, err = database.NewSQLite(cfg.Drafts.Path); err != nil {
			e.Close()
			return nil, fmt.Errorf("open draft store: %w", err)
		}
	}
	return e, nil
}

func (e *env) Close() {
	if e.pg != nil {
		_ = e.pg.Close()
	}
	if e.drafts != nil {
		_ = e.drafts.Close()
	}
	_ = e.logger.Sync()
}

func validateFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}
