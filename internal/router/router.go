// Package router maps HTTP routes onto handlers.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/placement-cell-api/api/swagger"
	"github.com/noah-isme/placement-cell-api/internal/app"
	"github.com/noah-isme/placement-cell-api/internal/handler"
	"github.com/noah-isme/placement-cell-api/internal/middleware"
	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/pkg/config"
	"github.com/noah-isme/placement-cell-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/placement-cell-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/placement-cell-api/pkg/middleware/requestid"
)

// New returns the gin engine serving the placement API.
func New(a *app.App) *gin.Engine {
	cfg := a.Config
	logr := a.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	metricsHandler := handler.NewMetricsHandler(a.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(a.Auth)
	dashboardHandler := handler.NewDashboardHandler(a.Dashboard)
	studentHandler := handler.NewStudentHandler(a.Dashboard, a.Roster, a.Cache, logr)
	companyHandler := handler.NewCompanyHandler(a.Companies)
	ledgerHandler := handler.NewLedgerHandler(a.Ledger)
	statisticsHandler := handler.NewStatisticsHandler(a.Statistics)
	exportHandler := handler.NewExportHandler(a.Exports)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/auth/login", authHandler.Login)
	// Downloads authenticate through the signed token in the path.
	api.GET("/exports/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(a.Auth))
	{
		secured.GET("/auth/me", authHandler.Me)

		secured.GET("/dashboard", dashboardHandler.Summary)
		secured.GET("/dashboard/recruiters", dashboardHandler.Recruiters)
		secured.GET("/recruiters/codes", dashboardHandler.RecruiterCodes)

		secured.GET("/students", studentHandler.List)
		secured.GET("/students/search", studentHandler.Search)
		secured.GET("/students/lookup", studentHandler.Lookup)

		secured.GET("/companies", companyHandler.List)
		secured.GET("/companies/overview", companyHandler.Overview)
		secured.GET("/companies/ongoing", companyHandler.Ongoing)
		secured.GET("/companies/:id/stats", companyHandler.Stats)

		secured.GET("/placements", ledgerHandler.List)
		secured.GET("/placements/:id", ledgerHandler.Get)

		secured.GET("/statistics", statisticsHandler.Global)
		secured.GET("/statistics/funnels", statisticsHandler.Funnels)
		secured.GET("/statistics/funnels/:id", statisticsHandler.CompanyFunnel)
		secured.GET("/statistics/students", statisticsHandler.AllStudents)
		secured.GET("/statistics/students/history", statisticsHandler.StudentHistory)
		secured.GET("/statistics/performance", statisticsHandler.Performance)
		secured.GET("/statistics/name-match", statisticsHandler.NameMatch)

		secured.POST("/exports", exportHandler.Generate)
		secured.GET("/system/metrics", metricsHandler.System)
	}

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/placements", middleware.Audit(logr, "placement.create"), ledgerHandler.Create)
		admin.PUT("/placements/:id", middleware.Audit(logr, "placement.update"), ledgerHandler.Update)
		admin.DELETE("/placements/:id", middleware.Audit(logr, "placement.delete"), ledgerHandler.Delete)
		admin.POST("/students/reload", middleware.Audit(logr, "roster.reload"), studentHandler.Reload)
	}

	return r
}
