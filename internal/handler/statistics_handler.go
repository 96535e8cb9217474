package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/pkg/response"
)

type statisticsService interface {
	Global(ctx context.Context) (models.GlobalStats, bool, error)
	Funnels(ctx context.Context) (models.CompanyFunnels, bool, error)
	CompanyFunnel(ctx context.Context, companyID string) (*models.CompanyFunnel, error)
	StudentHistory(ctx context.Context, query string) (*models.StudentHistory, error)
	AllStudents(ctx context.Context) (models.AllStudentsAnalysis, bool, error)
	Performance(ctx context.Context) (models.PerformanceReport, bool, error)
	NameMatchReport(ctx context.Context) (*models.NameMatchReport, error)
}

// StatisticsHandler exposes the funnel and student analysis endpoints.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler constructs StatisticsHandler.
func NewStatisticsHandler(service statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// Global godoc
// @Summary Global placement statistics
// @Description Overall funnel, round pass rates, company and class breakdowns and activity lists
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics [get]
func (h *StatisticsHandler) Global(c *gin.Context) {
	stats, cacheHit, err := h.service.Global(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, stats, cacheHit)
}

// Funnels godoc
// @Summary Company funnels
// @Description One funnel per company with a round matrix
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics/funnels [get]
func (h *StatisticsHandler) Funnels(c *gin.Context) {
	funnels, cacheHit, err := h.service.Funnels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, funnels, cacheHit)
}

// CompanyFunnel godoc
// @Summary Company funnel
// @Tags Statistics
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics/funnels/{id} [get]
func (h *StatisticsHandler) CompanyFunnel(c *gin.Context) {
	funnel, err := h.service.CompanyFunnel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, funnel, nil)
}

// StudentHistory godoc
// @Summary Student history
// @Description Resolve a student and trace them through every company round
// @Tags Statistics
// @Produce json
// @Param name query string true "Student name or registration number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics/students/history [get]
func (h *StatisticsHandler) StudentHistory(c *gin.Context) {
	history, err := h.service.StudentHistory(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// AllStudents godoc
// @Summary All students analysis
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics/students [get]
func (h *StatisticsHandler) AllStudents(c *gin.Context) {
	analysis, cacheHit, err := h.service.AllStudents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, analysis, cacheHit)
}

// Performance godoc
// @Summary Student performance
// @Description Applications, selections and rounds cleared per student
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics/performance [get]
func (h *StatisticsHandler) Performance(c *gin.Context) {
	report, cacheHit, err := h.service.Performance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, report, cacheHit)
}

// NameMatch godoc
// @Summary Name match report
// @Description Reconcile the overall analysis sheet against the roster
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /statistics/name-match [get]
func (h *StatisticsHandler) NameMatch(c *gin.Context) {
	report, err := h.service.NameMatchReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
