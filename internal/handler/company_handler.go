package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/pkg/response"
)

type companyService interface {
	Overview(ctx context.Context) (models.CompaniesOverview, bool, error)
	Collapsed(ctx context.Context) ([]models.CompanyRecord, error)
	Ongoing(ctx context.Context) ([]models.CompanyRecordGroup, error)
	Stats(ctx context.Context, companyID string) (*models.CompanyStats, error)
}

// CompanyHandler exposes company endpoints.
type CompanyHandler struct {
	service companyService
}

// NewCompanyHandler constructs CompanyHandler.
func NewCompanyHandler(service companyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// List godoc
// @Summary Collapsed companies
// @Description One record per company with roles, packages and names merged across ledger rows
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.service.Collapsed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if companies == nil {
		companies = []models.CompanyRecord{}
	}
	response.JSON(c, http.StatusOK, companies, nil, map[string]interface{}{"total": len(companies)})
}

// Overview godoc
// @Summary Companies overview
// @Description Collapsed companies with student counts and on/off campus breakdowns
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /companies/overview [get]
func (h *CompanyHandler) Overview(c *gin.Context) {
	overview, cacheHit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, overview, cacheHit)
}

// Ongoing godoc
// @Summary Ongoing companies
// @Description Companies with On-going rows and no Completed row
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /companies/ongoing [get]
func (h *CompanyHandler) Ongoing(c *gin.Context) {
	groups, err := h.service.Ongoing(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if groups == nil {
		groups = []models.CompanyRecordGroup{}
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Stats godoc
// @Summary Company statistics
// @Description Students listed for a company resolved against the roster
// @Tags Companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /companies/{id}/stats [get]
func (h *CompanyHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
