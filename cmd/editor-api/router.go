package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/snehn77/Editor/internal/handler"
	"github.com/snehn77/Editor/internal/middleware"
	"github.com/snehn77/Editor/internal/service"
	"github.com/snehn77/Editor/pkg/config"
	"github.com/snehn77/Editor/pkg/docstore"
	"github.com/snehn77/Editor/pkg/logger"
	corsmiddleware "github.com/snehn77/Editor/pkg/middleware/cors"
	reqidmiddleware "github.com/snehn77/Editor/pkg/middleware/requestid"
)

type dependencies struct {
	tableData  *service.TableDataService
	filters    *service.FilterService
	drafts     *service.DraftService
	review     *service.ReviewService
	submission *service.SubmissionService
	history    *service.HistoryService
	metrics    *service.MetricsService
	identity   *service.IdentityService
	documents  *docstore.Local
	checks     map[string]handler.HealthCheck
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, "/metrics", "/health"))
	r.Use(middleware.Audit(logr.Named("audit")))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if deps.documents != nil {
		r.GET("/documents/:token", handler.NewDocumentHandler(deps.documents).Download)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.OptionalJWT(deps.identity))

	tableData := handler.NewTableDataHandler(deps.tableData)
	api.POST("/tabledata/query", tableData.Query)
	api.POST("/tabledata/import", tableData.Import)
	api.GET("/tabledata/export/:batchId", tableData.Export)
	api.GET("/tabledata/:batchId", tableData.Rows)

	filters := handler.NewFilterHandler(deps.filters)
	api.GET("/filters/process", filters.Processes)
	api.GET("/filters/layers/:process", filters.Layers)
	api.GET("/filters/operations/:process/:layer", filters.Operations)

	drafts := handler.NewDraftHandler(deps.drafts)
	api.GET("/drafts/:batchId", drafts.Get)
	api.POST("/drafts/:batchId", drafts.Save)
	api.POST("/drafts/:batchId/changes", drafts.Merge)
	api.DELETE("/drafts/:batchId", drafts.Discard)

	api.GET("/review/:batchId", handler.NewReviewHandler(deps.review).Review)

	submit := handler.NewSubmitHandler(deps.submission, deps.history)
	api.POST("/submit/:id", submit.Submit)
	api.GET("/submit/:id/status", submit.Status)

	history := handler.NewHistoryHandler(deps.history)
	api.GET("/history", history.List)
	api.GET("/history/:changeId", history.Get)
	api.GET("/history/:changeId/excel", history.Excel)

	return r
}
