package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/middleware"
	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
	"github.com/noah-isme/placement-cell-api/pkg/response"
)

type studentService interface {
	Students(ctx context.Context) ([]models.StudentListItem, bool, error)
	Search(ctx context.Context, q string) ([]models.StudentSearchResult, error)
}

type studentResolver interface {
	Resolve(ctx context.Context, query string) (models.Student, bool, error)
	Reload(ctx context.Context) error
}

type statsInvalidator interface {
	InvalidateStats(ctx context.Context) error
}

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	students studentService
	roster   studentResolver
	cache    statsInvalidator
	logger   *zap.Logger
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, roster studentResolver, cache statsInvalidator, logger *zap.Logger) *StudentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentHandler{students: students, roster: roster, cache: cache, logger: logger}
}

// List godoc
// @Summary List students
// @Description Every roster student with placed status and first placement
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, cacheHit, err := h.students.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.StampProcessingTime(c)
	meta := middleware.ExtractMeta(c)
	meta["total"] = len(students)
	response.JSON(c, http.StatusOK, students, nil, meta)
}

// Search godoc
// @Summary Search students
// @Description Substring search over names and registration numbers, at most 10 results
// @Tags Students
// @Produce json
// @Param q query string true "Query (at least 2 characters)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	results, err := h.students.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if results == nil {
		results = []models.StudentSearchResult{}
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Lookup godoc
// @Summary Resolve a student
// @Description Fuzzy-match a free-text name or registration number against the roster
// @Tags Students
// @Produce json
// @Param name query string true "Name or registration number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/lookup [get]
func (h *StudentHandler) Lookup(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name is required"))
		return
	}
	student, ok, err := h.roster.Resolve(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %q not found", name)))
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Reload godoc
// @Summary Reload roster
// @Description Re-read the roster file, drop memoized matches and cached statistics
// @Tags Students
// @Produce json
// @Success 204
// @Security BearerAuth
// @Router /students/reload [post]
func (h *StudentHandler) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.roster.Reload(ctx); err != nil {
		response.Error(c, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.InvalidateStats(ctx); err != nil {
			h.logger.Warn("stats cache not cleared after roster reload", zap.Error(err))
		}
	}
	response.NoContent(c)
}
