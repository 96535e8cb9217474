package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

type fakeLedgerSrv struct {
	rows      []models.PlacementRecord
	created   *models.PlacementRecordInput
	updatedID int
	deletedID int
	notices   []string
}

func (f *fakeLedgerSrv) List(context.Context) ([]models.PlacementRecord, error) {
	return f.rows, nil
}

func (f *fakeLedgerSrv) Get(_ context.Context, id int) (*models.PlacementRecord, error) {
	for i := range f.rows {
		if f.rows[i].RecordID == id {
			return &f.rows[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "placement record not found")
}

func (f *fakeLedgerSrv) Create(_ context.Context, input models.PlacementRecordInput) (*models.LedgerMutationResult, error) {
	f.created = &input
	return &models.LedgerMutationResult{
		Record:  models.PlacementRecord{RecordID: 5, CompanyID: "CMP04", CompanyName: input.CompanyName, Status: input.Status},
		Notices: f.notices,
	}, nil
}

func (f *fakeLedgerSrv) Update(_ context.Context, id int, input models.PlacementRecordInput) (*models.LedgerMutationResult, error) {
	if _, err := f.Get(context.Background(), id); err != nil {
		return nil, err
	}
	f.updatedID = id
	return &models.LedgerMutationResult{Record: models.PlacementRecord{RecordID: id, Status: input.Status}}, nil
}

func (f *fakeLedgerSrv) Delete(_ context.Context, id int) error {
	if _, err := f.Get(context.Background(), id); err != nil {
		return err
	}
	f.deletedID = id
	return nil
}

func ledgerFixture() *fakeLedgerSrv {
	return &fakeLedgerSrv{rows: []models.PlacementRecord{
		{RecordID: 1, CompanyID: "CMP01", CompanyName: "Acme", Status: "Completed"},
		{RecordID: 3, CompanyID: "CMP02", CompanyName: "Globex", Status: "On-going"},
	}}
}

func TestLedgerHandlerList(t *testing.T) {
	handler := NewLedgerHandler(ledgerFixture())
	c, w := newGinContext(http.MethodGet, "/placements", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[listEnvelope](t, w)
	assert.Equal(t, float64(2), envelope.Meta["total"])
	assert.Equal(t, "Globex", envelope.Data[1]["company_name"])
}

func TestLedgerHandlerGet(t *testing.T) {
	handler := NewLedgerHandler(ledgerFixture())

	c, w := newGinContext(http.MethodGet, "/placements/3", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decode[responseEnvelope](t, w)
	assert.Equal(t, "CMP02", envelope.Data["company_id"])

	c, w = newGinContext(http.MethodGet, "/placements/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/placements/0", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/placements/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLedgerHandlerCreate(t *testing.T) {
	srv := ledgerFixture()
	srv.notices = []string{"company CMP02 already has On-going record(s) (ID: 3)"}
	handler := NewLedgerHandler(srv)

	payload, _ := json.Marshal(models.PlacementRecordInput{CompanyName: "Umbrella", Status: "Completed", StudentNames: "anson thomas"})
	c, w := newGinContext(http.MethodPost, "/placements", payload)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, srv.created)
	assert.Equal(t, "anson thomas", srv.created.StudentNames)
	envelope := decode[responseEnvelope](t, w)
	record := envelope.Data["record"].(map[string]interface{})
	assert.Equal(t, float64(5), record["record_id"])
	assert.Len(t, envelope.Data["notices"], 1)
}

func TestLedgerHandlerCreateRejectsMalformedJSON(t *testing.T) {
	srv := ledgerFixture()
	handler := NewLedgerHandler(srv)
	c, w := newGinContext(http.MethodPost, "/placements", []byte(`{"company_name":`))

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, srv.created)
}

func TestLedgerHandlerUpdateAndDelete(t *testing.T) {
	srv := ledgerFixture()
	handler := NewLedgerHandler(srv)

	payload, _ := json.Marshal(models.PlacementRecordInput{CompanyName: "Globex", Status: "Completed"})
	c, w := newGinContext(http.MethodPut, "/placements/3", payload)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.Update(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, srv.updatedID)

	c, w = newGinContext(http.MethodDelete, "/placements/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, srv.deletedID)

	c, w = newGinContext(http.MethodDelete, "/placements/8", nil)
	c.Params = gin.Params{{Key: "id", Value: "8"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
