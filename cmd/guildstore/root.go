package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/guildstore/internal/config"
	"github.com/parsascontentcorner/guildstore/internal/database"
	"github.com/parsascontentcorner/guildstore/pkg/logger"
)

// app carries the state every subcommand shares
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "guildstore",
		Short:         "Store Discord guild channels and members in PostgreSQL",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.log != nil {
				// Sync errors on stderr are expected for non-syncable descriptors
				_ = a.log.Sync()
			}
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newStatusCmd(a),
		newChannelsCmd(a),
		newMembersCmd(a),
		newSyncCmd(a),
	)

	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// withDB opens the database for the duration of fn
func (a *app) withDB(fn func(db *database.DB) error) error {
	db, err := database.NewDB(&a.cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			a.log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	return fn(db)
}
