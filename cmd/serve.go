package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/config"
	"github.com/healthtrack/backend/logging"
	"github.com/healthtrack/backend/metrics"
	"github.com/healthtrack/backend/repositories"
	"github.com/healthtrack/backend/routes"
	"github.com/healthtrack/backend/services"
	"github.com/healthtrack/backend/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := config.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if migrateOnStart {
		if err := repositories.Migrate(db); err != nil {
			return err
		}
	}

	store, closeStore, err := config.NewCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	m := metrics.New()
	instrumented := cache.NewInstrumented(store, m.CacheRequests)
	repos := repositories.New(db)
	deps := services.Deps{
		Repos:       repos,
		UoW:         repositories.NewUnitOfWork(db),
		Cache:       instrumented,
		Invalidator: services.NewCacheInvalidator(instrumented, log, m.CacheInvalidations, nil),
		Log:         log,
	}

	var uploader services.AvatarUploader
	if cfg.S3.Bucket != "" {
		client, err := utils.NewS3Client(ctx, cfg.S3.Region)
		if err != nil {
			return err
		}
		uploader = utils.NewS3AvatarUploader(client, cfg.S3.Bucket, cfg.S3.PublicURL)
	}

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(routes.Deps{
		Dashboard:  services.NewDashboardService(deps, cfg.Cache.DashboardTTL),
		Users:      services.NewUserService(deps, cfg.Cache.UserTTL, uploader),
		MealLogs:   services.NewMealLogService(deps, cfg.Cache.MealLogsTTL),
		HealthData: services.NewHealthDataService(deps),
		UserRepo:   repos.Users,
		JWTSecret:  cfg.Auth.JWTSecret,
		Log:        log,
		Metrics:    m,
		Ready:      sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr),
			zap.String("db", cfg.DB.Driver), zap.String("cache", cfg.Cache.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
