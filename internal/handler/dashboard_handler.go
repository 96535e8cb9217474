package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	"github.com/noah-isme/placement-cell-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (models.DashboardSummary, bool, error)
	Recruiters(ctx context.Context) ([]models.RecruiterSummary, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Placement dashboard summary
// @Description Totals, class counts, recruiter, campus and origin breakdowns and top companies
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, summary, cacheHit)
}

// Recruiters godoc
// @Summary Recruiter dashboard
// @Description Drives, companies, students and average package per placement representative
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard/recruiters [get]
func (h *DashboardHandler) Recruiters(c *gin.Context) {
	recruiters, cacheHit, err := h.service.Recruiters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, recruiters, cacheHit)
}

// RecruiterCodes godoc
// @Summary Recruiter code table
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /recruiters/codes [get]
func (h *DashboardHandler) RecruiterCodes(c *gin.Context) {
	response.JSON(c, http.StatusOK, placement.Recruiters(), nil)
}
