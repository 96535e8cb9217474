package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/placement-cell-api/internal/middleware"
	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

type fakeDashboardSrv struct {
	summary       models.DashboardSummary
	summaryHit    bool
	recruiters    []models.RecruiterSummary
	recruitersHit bool
	err           error
}

func (f *fakeDashboardSrv) Summary(context.Context) (models.DashboardSummary, bool, error) {
	return f.summary, f.summaryHit, f.err
}

func (f *fakeDashboardSrv) Recruiters(context.Context) ([]models.RecruiterSummary, bool, error) {
	return f.recruiters, f.recruitersHit, f.err
}

func TestDashboardHandlerSummarySuccess(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		summary:    models.DashboardSummary{TotalStudents: 176, TotalPlaced: 41, AvgPackage: 5.25},
		summaryHit: true,
	})
	c, w := newGinContext(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[responseEnvelope](t, w)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(176), envelope.Data["total_students"])
	assert.Equal(t, float64(41), envelope.Data["total_placed"])
	assert.Equal(t, 5.25, envelope.Data["avg_package"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestDashboardHandlerSummaryReportsProcessingTime(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{summary: models.DashboardSummary{TotalStudents: 3}})
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.GET("/dashboard", handler.Summary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[responseEnvelope](t, w)
	assert.Equal(t, false, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestDashboardHandlerSummaryError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.Clone(appErrors.ErrSourceUnavailable, "roster missing")})
	c, w := newGinContext(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	envelope := decode[responseEnvelope](t, w)
	if assert.NotNil(t, envelope.Error) {
		assert.Equal(t, "SOURCE_UNAVAILABLE", envelope.Error.Code)
	}
}

func TestDashboardHandlerRecruiters(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		recruiters: []models.RecruiterSummary{{Code: "PR01", Name: "PARICHOY NANDI", Drives: 2}},
	})
	c, w := newGinContext(http.MethodGet, "/dashboard/recruiters", nil)

	handler.Recruiters(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[listEnvelope](t, w)
	assert.Equal(t, false, envelope.Meta["cache_hit"])
	if assert.Len(t, envelope.Data, 1) {
		assert.Equal(t, "PR01", envelope.Data[0]["code"])
		assert.Equal(t, float64(2), envelope.Data[0]["drives"])
	}
}

func TestDashboardHandlerRecruitersUnexpectedError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})
	c, w := newGinContext(http.MethodGet, "/dashboard/recruiters", nil)

	handler.Recruiters(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardHandlerRecruiterCodes(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{})
	c, w := newGinContext(http.MethodGet, "/recruiters/codes", nil)

	handler.RecruiterCodes(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[listEnvelope](t, w)
	if assert.Len(t, envelope.Data, 12) {
		assert.Equal(t, "PR01", envelope.Data[0]["code"])
		assert.Equal(t, "MARIA BOBY", envelope.Data[11]["name"])
	}
}
