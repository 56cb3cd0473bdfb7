package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/middleware"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/service"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/logger"
	corsmiddleware "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/middleware/cors"
	reqidmiddleware "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/middleware/requestid"
)

// RouterConfig collects everything the HTTP surface is built from.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	Swagger        bool
	Logger         *zap.Logger

	Auth     middleware.TokenValidator
	Audit    middleware.AuditWriter
	Metrics  *service.MetricsService
	Licences *LicenceHandler
	CaseList *CaseListHandler
	History  *AuditHandler
	Probes   *MetricsHandler
}

// NewRouter wires middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	probes := cfg.Probes
	if probes == nil {
		probes = NewMetricsHandler(cfg.Metrics, nil)
	}
	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	if cfg.Metrics != nil {
		r.GET("/metrics", probes.Prometheus)
	}
	if cfg.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.Auth))

	if h := cfg.Licences; h != nil {
		anyRole := middleware.RequireRoles(models.RoleCA, models.RoleRO, models.RoleDM, models.RoleAdmin)
		caOnly := middleware.RequireRoles(models.RoleCA, models.RoleAdmin)
		editors := middleware.RequireRoles(models.RoleCA, models.RoleRO, models.RoleAdmin)
		deciders := middleware.RequireRoles(models.RoleCA, models.RoleDM, models.RoleAdmin)

		licences := api.Group("/licences/:bookingId")
		licences.GET("", anyRole, h.Get)
		licences.POST("", caOnly, h.Create)
		licences.GET("/tasks", anyRole, h.Tasks)
		licences.PUT("/sections/:section/:form", anyRole, h.UpdateSection)
		licences.POST("/vary/:form", caOnly, h.VaryInput)
		licences.POST("/conditions", editors, h.UpdateConditions)
		licences.DELETE("/conditions/:conditionId", editors, h.DeleteCondition)
		licences.POST("/address/reject", editors, h.RejectAddress)
		licences.POST("/address/reinstate", editors, h.ReinstateAddress)
		licences.POST("/bass/reject", caOnly, h.RejectBass)
		licences.POST("/bass/withdraw", caOnly, h.WithdrawBass)
		licences.POST("/bass/reinstate", caOnly, h.ReinstateBass)
		licences.POST("/handover", anyRole, h.Handover)
		licences.POST("/template", caOnly, h.Template)
		licences.DELETE("/decision", deciders, h.RemoveDecision)
		licences.GET("/changes", anyRole, h.Changes)
		licences.GET("/validation", anyRole, h.Validation)
		if cfg.History != nil {
			licences.GET("/audit", caOnly, cfg.History.History)
		}

		admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		admin.DELETE("/licences", h.Reset)
		admin.GET("/status", probes.Status)
	}

	if h := cfg.CaseList; h != nil {
		caselist := api.Group("/caselist", middleware.WithResponseMeta())
		caselist.GET("", h.List)
		caselist.GET("/export", middleware.Audit(cfg.Audit, cfg.Logger, models.AuditActionExport, models.AuditResourceCaseList), h.Export)
	}

	return r
}
