package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"barangay-health-server/internal/analytics"
	"barangay-health-server/internal/config"
	"barangay-health-server/internal/logger"
	"barangay-health-server/internal/metrics"
	"barangay-health-server/internal/pipeline"
	"barangay-health-server/internal/routes"
	"barangay-health-server/internal/schema"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables or indexes of the configured store",
	RunE:  runMigrate,
}

var createUser struct {
	firstName, lastName, username, password, email, role string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a staff account (the first account is always an admin)",
	RunE:  runCreateUser,
}

func init() {
	f := createUserCmd.Flags()
	f.StringVar(&createUser.firstName, "first-name", "", "first name")
	f.StringVar(&createUser.lastName, "last-name", "", "last name")
	f.StringVar(&createUser.username, "username", "", "login name")
	f.StringVar(&createUser.password, "password", "", "password (at least 8 characters)")
	f.StringVar(&createUser.email, "email", "", "email address")
	f.StringVar(&createUser.role, "role", "", "admin or staff (default staff)")
	for _, name := range []string{"first-name", "last-name", "username", "password", "email"} {
		_ = createUserCmd.MarkFlagRequired(name)
	}
}

// setup loads configuration and builds the logger and store shared by
// every command.
func setup() (*config.Config, *zap.Logger, *backend, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building logger: %w", err)
	}
	be, err := openBackend(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, be, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, be, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var cache analytics.Cache
	if cfg.Redis.URL != "" {
		rc, err := analytics.NewRedisCache(cfg.Redis.URL, cfg.Redis.CacheTTL, log)
		if err != nil {
			return fmt.Errorf("configuring analytics cache: %w", err)
		}
		defer rc.Close()
		cache = rc
	}
	summary := analytics.NewService(be.cols, cache, time.Local, log)

	set := pipeline.NewSet(be.cols, pipeline.Options{
		Logger:    log,
		Observers: []pipeline.Observer{m, summary},
	})

	// The store connects on first use; a failed attempt here only means
	// requests report the store unavailable until it comes up.
	connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	if err := be.connect(connectCtx); err != nil {
		log.Warn("record store not reachable at startup", zap.Error(err))
	}
	cancel()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginzap.Ginzap(log, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(log, true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		Config:    cfg,
		Pipelines: set,
		Users:     be.cols.Users,
		Analytics: summary,
		Gatherer:  registry,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port), zap.String("driver", cfg.Database.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	be.close(shutdownCtx)
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, be, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StoreTimeout)
	defer cancel()
	if err := be.connect(ctx); err != nil {
		return fmt.Errorf("migrating %s store: %w", cfg.Database.Driver, err)
	}
	be.close(ctx)
	log.Info("migration complete", zap.String("driver", cfg.Database.Driver))
	return nil
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	cfg, log, be, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StoreTimeout)
	defer cancel()
	defer be.close(ctx)

	users := pipeline.NewSet(be.cols, pipeline.Options{Logger: log}).Users
	res := users.Create(ctx, schema.Fields{
		"firstName": {createUser.firstName},
		"lastName":  {createUser.lastName},
		"username":  {createUser.username},
		"password":  {createUser.password},
		"email":     {createUser.email},
		"role":      {createUser.role},
	})
	if !res.OK {
		if len(res.FieldErrors) > 0 {
			return fmt.Errorf("%s: %s", res.Message, res.FieldErrors.Error())
		}
		return errors.New(res.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (%s)\n", res.Payload.Role, res.Payload.Username, res.Payload.ID)
	return nil
}
