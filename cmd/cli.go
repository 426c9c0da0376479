package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the fulfillment CLI with its serve, migrate and
// reconcile subcommands.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "fulfillment",
		Short:         "Manufacturing order fulfillment ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the scheduled jobs",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd.Context(), configPath, serve)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd.Context(), configPath, migrate)
			},
		},
		&cobra.Command{
			Use:   "reconcile",
			Short: "Run one rollup reconciliation pass and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd.Context(), configPath, reconcileOnce)
			},
		},
	)
	return root
}

type runtimeDeps struct {
	cfg    Config
	db     *gorm.DB
	logger *zap.Logger
}

func withRuntime(ctx context.Context, configPath string, run func(context.Context, runtimeDeps) error) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := NewLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := gorm.Open(gormpostgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, runtimeDeps{cfg: cfg, db: db, logger: logger})
}

func migrate(ctx context.Context, deps runtimeDeps) error {
	if err := deps.db.WithContext(ctx).AutoMigrate(orderrepo.Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	deps.logger.Info("Database schema is up to date")
	return nil
}

func reconcileOnce(ctx context.Context, deps runtimeDeps) error {
	root, err := NewCompositionRoot(deps.cfg, deps.db, nil, deps.logger)
	if err != nil {
		return err
	}

	handler := root.CreateReconcileRollupsCommandHandler()
	result, err := handler.Handle(ctx, commands.NewReconcileRollupsCommand())
	deps.logger.Info("Rollup reconciliation finished",
		zap.Int("checked", result.Checked),
		zap.Int("reconciled", len(result.Reconciled)),
	)
	return err
}

func serve(ctx context.Context, deps runtimeDeps) error {
	logger := deps.logger

	var publisher ports.EventPublisher
	if deps.cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, deps.cfg.Redis.Addr, deps.cfg.Redis.Password, deps.cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		publisher = redis.NewPublisher(client, deps.cfg.Redis.ChannelPrefix, logger)
	} else {
		logger.Warn("redis.addr is empty, change notifications are disabled")
	}

	root, err := NewCompositionRoot(deps.cfg, deps.db, publisher, logger)
	if err != nil {
		return err
	}

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e, err := root.CreateHTTPServer(ctx)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", deps.cfg.HTTP.Port)
		logger.Info("HTTP server listening", zap.String("addr", addr))
		serveErr <- e.Start(addr)
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
