package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/guildstore/internal/config"
	"github.com/parsascontentcorner/guildstore/internal/database"
	"github.com/parsascontentcorner/guildstore/internal/discord"
	"github.com/parsascontentcorner/guildstore/internal/repository"
)

func newSyncCmd(a *app) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror guild channels and members from the Discord gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateDiscord(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			return runSync(cmd.Context(), newSyncApp(a.cfg, a.log, migrateFirst), a.log)
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", true, "apply pending migrations before connecting")

	return cmd
}

// syncOptions builds the dependency graph of the sync daemon
func syncOptions(cfg *config.Config, log *zap.Logger, migrateFirst bool) fx.Option {
	return fx.Options(
		fx.Supply(cfg, log),
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*database.DB, error) {
				return provideDB(lc, cfg, log, migrateFirst)
			},
			provideHandle,
			fx.Annotate(repository.NewGuildChannelRepository, fx.As(new(discord.ChannelStore))),
			fx.Annotate(repository.NewGuildMemberRepository, fx.As(new(discord.MemberStore))),
			provideSyncer,
			provideSession,
		),
		fx.Invoke(func(*discord.Session) {}),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
}

func newSyncApp(cfg *config.Config, log *zap.Logger, migrateFirst bool) *fx.App {
	return fx.New(syncOptions(cfg, log, migrateFirst))
}

func runSync(ctx context.Context, app *fx.App, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop sync cleanly: %w", err)
	}

	return nil
}

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, migrateFirst bool) (*database.DB, error) {
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrateFirst {
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func provideHandle(db *database.DB) repository.Handle {
	return db
}

func provideSyncer(channels discord.ChannelStore, members discord.MemberStore, cfg *config.Config, log *zap.Logger) *discord.Syncer {
	return discord.NewSyncer(channels, members, discord.SyncerConfig{
		SyncMembers: cfg.Discord.SyncMembers,
		GuildIDs:    cfg.Discord.GuildIDs,
	}, log)
}

func provideSession(lc fx.Lifecycle, cfg *config.Config, syncer *discord.Syncer, log *zap.Logger) (*discord.Session, error) {
	session, err := discord.NewSession(cfg.Discord, syncer, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return session.Open()
		},
		OnStop: func(ctx context.Context) error {
			return session.Close()
		},
	})
	return session, nil
}
