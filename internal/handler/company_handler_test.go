package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

type fakeCompanySrv struct {
	overview    models.CompaniesOverview
	overviewHit bool
	collapsed   []models.CompanyRecord
	ongoing     []models.CompanyRecordGroup
	stats       map[string]*models.CompanyStats
	lastStatsID string
}

func (f *fakeCompanySrv) Overview(context.Context) (models.CompaniesOverview, bool, error) {
	return f.overview, f.overviewHit, nil
}

func (f *fakeCompanySrv) Collapsed(context.Context) ([]models.CompanyRecord, error) {
	return f.collapsed, nil
}

func (f *fakeCompanySrv) Ongoing(context.Context) ([]models.CompanyRecordGroup, error) {
	return f.ongoing, nil
}

func (f *fakeCompanySrv) Stats(_ context.Context, id string) (*models.CompanyStats, error) {
	f.lastStatsID = id
	if s, ok := f.stats[id]; ok {
		return s, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "company not found")
}

func TestCompanyHandlerList(t *testing.T) {
	handler := NewCompanyHandler(&fakeCompanySrv{collapsed: []models.CompanyRecord{
		{CompanyID: "CMP01", CompanyName: "Acme", Status: "Completed", Role: "Developer, Tester"},
	}})
	c, w := newGinContext(http.MethodGet, "/companies", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[listEnvelope](t, w)
	assert.Equal(t, float64(1), envelope.Meta["total"])
	assert.Equal(t, "Developer, Tester", envelope.Data[0]["role"])
}

func TestCompanyHandlerOverviewCacheHit(t *testing.T) {
	handler := NewCompanyHandler(&fakeCompanySrv{overview: models.CompaniesOverview{CompanyCount: 3}, overviewHit: true})
	c, w := newGinContext(http.MethodGet, "/companies/overview", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[responseEnvelope](t, w)
	assert.Equal(t, float64(3), envelope.Data["company_count"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestCompanyHandlerOngoingEmpty(t *testing.T) {
	handler := NewCompanyHandler(&fakeCompanySrv{})
	c, w := newGinContext(http.MethodGet, "/companies/ongoing", nil)

	handler.Ongoing(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestCompanyHandlerStats(t *testing.T) {
	srv := &fakeCompanySrv{stats: map[string]*models.CompanyStats{
		"CMP01": {CompanyID: "CMP01", CompanyName: "Acme", TotalStudents: 2, TotalDrives: 2},
	}}
	handler := NewCompanyHandler(srv)

	c, w := newGinContext(http.MethodGet, "/companies/CMP01/stats", nil)
	c.Params = gin.Params{{Key: "id", Value: "CMP01"}}
	handler.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CMP01", srv.lastStatsID)
	envelope := decode[responseEnvelope](t, w)
	assert.Equal(t, float64(2), envelope.Data["total_students"])

	c, w = newGinContext(http.MethodGet, "/companies/CMP99/stats", nil)
	c.Params = gin.Params{{Key: "id", Value: "CMP99"}}
	handler.Stats(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
