package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/uk-gov-mirror/ministryofjustice.licences/api/swagger"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/forms"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/handler"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/repository"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/service"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/tasklist"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/cache"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/config"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/database"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/jobs"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/logger"
)

// @title Licences API
// @version 1.0.0
// @description Home detention curfew licence workflow and task lists.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	registry, err := forms.LoadRegistryFile(cfg.Workflow.FormsFile)
	if err != nil {
		return fmt.Errorf("load forms: %w", err)
	}
	engine, err := tasklist.LoadFile(cfg.Workflow.CatalogFile)
	if err != nil {
		return fmt.Errorf("load task catalogs: %w", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	checks := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}

	metrics := service.NewMetricsService()
	if !cfg.Metrics.Enabled {
		metrics = nil
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, case-list cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close()
			cacheRepo = repo
			checks["redis"] = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CaseListTTL, logr, cacheRepo != nil)

	licenceRepo := repository.NewLicenceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	auth := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []service.LicenceServiceOption{
		service.WithLicenceAudit(auditRepo),
		service.WithLicenceCache(cacheSvc),
		service.WithLicenceMetrics(metrics),
	}
	if cfg.Handover.NotifyEnabled {
		notifier := service.NewHandoverNotifier(service.NewLogSender(logr), metrics, jobs.QueueConfig{
			Workers:    cfg.Handover.Workers,
			MaxRetries: cfg.Handover.Retries,
			RetryDelay: time.Second,
			Logger:     logr,
		})
		notifier.Start(ctx)
		defer notifier.Stop()
		opts = append(opts, service.WithHandoverNotifier(notifier))
	}

	formValidator, err := forms.NewValidator(registry, validator.New())
	if err != nil {
		return fmt.Errorf("form validator: %w", err)
	}
	licences := service.NewLicenceService(licenceRepo, formValidator, logr, opts...)
	tasks := service.NewTaskListService(licences, engine, nil, logr)
	caselist := service.NewCaseListService(licenceRepo, cacheSvc, cfg.Cache.CaseListTTL, logr)

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Swagger:        cfg.Swagger.Enabled && !cfg.IsProduction(),
		Logger:         logr,
		Auth:           auth,
		Audit:          auditRepo,
		Metrics:        metrics,
		Licences:       handler.NewLicenceHandler(licences, tasks),
		CaseList:       handler.NewCaseListHandler(caselist),
		History:        handler.NewAuditHandler(auditRepo),
		Probes:         handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
