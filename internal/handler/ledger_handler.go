package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-cell-api/internal/middleware"
	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
	"github.com/noah-isme/placement-cell-api/pkg/response"
)

type ledgerService interface {
	List(ctx context.Context) ([]models.PlacementRecord, error)
	Get(ctx context.Context, recordID int) (*models.PlacementRecord, error)
	Create(ctx context.Context, input models.PlacementRecordInput) (*models.LedgerMutationResult, error)
	Update(ctx context.Context, recordID int, input models.PlacementRecordInput) (*models.LedgerMutationResult, error)
	Delete(ctx context.Context, recordID int) error
}

// LedgerHandler exposes placement record CRUD endpoints.
type LedgerHandler struct {
	service ledgerService
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(service ledgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// List godoc
// @Summary List placement records
// @Tags Placements
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placements [get]
func (h *LedgerHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if rows == nil {
		rows = []models.PlacementRecord{}
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"total": len(rows)})
}

// Get godoc
// @Summary Get placement record
// @Tags Placements
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /placements/{id} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	row, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}

// Create godoc
// @Summary Create placement record
// @Tags Placements
// @Accept json
// @Produce json
// @Param payload body models.PlacementRecordInput true "Placement record"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /placements [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	var input models.PlacementRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditRecord(c, result.Record.RecordID)
	response.Created(c, result)
}

// Update godoc
// @Summary Update placement record
// @Tags Placements
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param payload body models.PlacementRecordInput true "Placement record"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /placements/{id} [put]
func (h *LedgerHandler) Update(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input models.PlacementRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement payload"))
		return
	}
	result, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete placement record
// @Tags Placements
// @Param id path int true "Record ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /placements/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	id, err := recordIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
