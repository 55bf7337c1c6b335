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
	"go.uber.org/zap"

	_ "github.com/snehn77/Editor/api/swagger"
	"github.com/snehn77/Editor/internal/handler"
	"github.com/snehn77/Editor/internal/repository"
	"github.com/snehn77/Editor/internal/service"
	"github.com/snehn77/Editor/pkg/cache"
	"github.com/snehn77/Editor/pkg/config"
	"github.com/snehn77/Editor/pkg/database"
	"github.com/snehn77/Editor/pkg/docstore"
	"github.com/snehn77/Editor/pkg/logger"
)

// @title RC Table Editor API
// @version 1.0.0
// @description Draft, review and submit changes to the RC session table.
// @BasePath /api
// @schemes http https
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if err := database.MigratePostgres(pg); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}

	draftsDB, err := database.NewSQLite(cfg.Drafts.Path)
	if err != nil {
		return fmt.Errorf("open draft store: %w", err)
	}
	defer draftsDB.Close()
	if err := database.MigrateDrafts(draftsDB); err != nil {
		return fmt.Errorf("migrate draft store: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache)
	if err != nil {
		// the editor works uncached when redis is unreachable
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	uploader, err := docstore.New(cfg.DocStore, logr.Named("docstore"))
	if err != nil {
		return fmt.Errorf("init document store: %w", err)
	}

	rowRepo, err := repository.NewRowRepository(pg, cfg.Database.SourceTable)
	if err != nil {
		return err
	}
	historyRepo := repository.NewHistoryRepository(pg)
	draftRepo := repository.NewDraftRepository(draftsDB, logr.Named("drafts"))
	cacheRepo := repository.NewCacheRepository(redisClient, "editor", logr.Named("cache"))
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.RowsTTL, logr.Named("cache"), cfg.Cache.Enabled && redisClient != nil)
	identity := service.NewIdentityService(cfg.JWT.Secret, cfg.JWT.Issuer)
	renderer := service.NewWorkbookRenderer()
	historySvc := service.NewHistoryService(historyRepo, logr.Named("history"))

	tableData := service.NewTableDataService(rowRepo, draftRepo, draftRepo, cacheSvc, renderer, service.TableDataConfig{
		MaxImportBytes: cfg.Import.MaxFileSizeBytes,
		RowsCacheTTL:   cfg.Cache.RowsTTL,
	}, logr.Named("tabledata"))

	deps := dependencies{
		tableData: tableData,
		filters:   service.NewFilterService(rowRepo, cacheSvc, cfg.Cache.FilterTTL, logr.Named("filters")),
		drafts:    service.NewDraftService(draftRepo, metrics, logr.Named("drafts")),
		review:    service.NewReviewService(tableData, draftRepo),
		submission: service.NewSubmissionService(tableData, draftRepo, draftRepo, historyRepo, renderer, uploader, metrics, service.SubmissionConfig{
			RootFolder:     cfg.DocStore.RootFolder,
			RejectResubmit: cfg.Submit.RejectResubmit,
		}, logr.Named("submission")),
		history:  historySvc,
		metrics:  metrics,
		identity: identity,
		checks: map[string]handler.HealthCheck{
			"postgres": pg.PingContext,
			"drafts":   draftsDB.PingContext,
			"redis":    cacheRepo.Ping,
		},
	}
	if local, ok := docstore.AsLocal(uploader); ok {
		deps.documents = local
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, logr, deps)

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
