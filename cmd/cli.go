package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "fastship/internal/adapters/in/http"
	"fastship/internal/adapters/out/postgres"
	"fastship/internal/adapters/out/queue"
	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand creates the fastship CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "fastship",
		Short:         "FastShip shipment tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to a config file (default ./config.yaml if present)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newWorkerCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedTagsCommand(opts))

	return cmd
}

// runtime is what every subcommand starts from.
type runtime struct {
	cfg    Config
	logger *zap.Logger
	db     *gorm.DB
	root   *CompositionRoot
}

func bootstrap(opts *RootOptions) (*runtime, error) {
	cfg, err := LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	lg := logger.New(cfg.LoggerOptions())

	db, err := postgres.Open(cfg.DatabaseOptions(), lg)
	if err != nil {
		_ = lg.Sync()
		return nil, err
	}
	root, err := NewCompositionRoot(cfg, lg, db)
	if err != nil {
		_ = lg.Sync()
		return nil, err
	}
	return &runtime{cfg: cfg, logger: lg, db: db, root: root}, nil
}

func (r *runtime) close() {
	if err := r.root.Close(); err != nil {
		r.logger.Warn("closing clients", zap.Error(err))
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.logger.Sync()
}

func newServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *runtime) error {
	routes, err := rt.root.RouteMiddleware()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(rt.cfg.Server.LogLevel))
	e.HTTPErrorHandler = httpapi.ErrorHandler(rt.logger)
	e.Use(middleware.Recover())
	e.Use(requestLogger(rt.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	httpapi.RegisterDocs(e)
	httpapi.RegisterHandlers(e, httpapi.NewServer(rt.root.Handlers()), routes)

	if rt.cfg.Jobs.Enabled {
		jm := rt.root.JobManager()
		if err := jm.StartAll(); err != nil {
			return err
		}
		defer jm.StopAll()
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("http server listening", zap.String("addr", rt.cfg.Server.Addr()))
		if err := e.Start(rt.cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func requestLogger(lg *zap.Logger) echo.MiddlewareFunc {
	lg = lg.With(zap.String("component", "http"))
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			lg.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func newWorkerCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume the notification queue",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rt, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			opts := rt.cfg.QueueOptions()
			srv := asynq.NewServer(opts.RedisOpt(), opts.ServerConfig(rt.logger))
			rt.logger.Info("worker started", zap.String("queue", queue.DefaultQueue))
			// Run blocks until SIGINT or SIGTERM.
			return srv.Run(rt.root.Consumer().NewServeMux())
		},
	}
}

func newMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, then seed tags and role policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := postgres.Migrate(rt.db); err != nil {
				return err
			}
			rt.logger.Info("schema migrated")

			if err := seedTags(cmd.Context(), rt); err != nil {
				return err
			}
			_, err = rt.root.Authorizer()
			return err
		},
	}
}

func newSeedTagsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-tags",
		Short: "Insert the tag vocabulary rows that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()
			return seedTags(cmd.Context(), rt)
		},
	}
}

func seedTags(ctx context.Context, rt *runtime) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	added, err := rt.root.CreateSeedTagsCommandHandler().Handle(ctx, commands.NewSeedTagsCommand())
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	rt.logger.Info("tags seeded", zap.Int("added", added))
	return nil
}
