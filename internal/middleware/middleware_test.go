package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/service"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndRoles(t *testing.T) {
	viewer := stubValidator{claims: &models.JWTClaims{Username: "user1", Role: models.RoleViewer}}
	r := gin.New()
	r.GET("/read", JWT(viewer), func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Username)
	})
	r.POST("/write", JWT(viewer), RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/read", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/read", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/read", "Bearer bad").Code)

	rec := do(r, http.MethodGet, "/read", "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user1", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/write", "Bearer good").Code)

	admin := stubValidator{claims: &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}}
	r2 := gin.New()
	r2.POST("/write", JWT(admin), RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusCreated) })
	assert.Equal(t, http.StatusCreated, do(r2, http.MethodPost, "/write", "bearer good").Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/", "").Code)
}

func TestResponseMetaAndCacheHit(t *testing.T) {
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		StampProcessingTime(c)
		c.JSON(http.StatusOK, gin.H{"meta": ExtractMeta(c)})
	})

	rec := do(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.Contains(t, body.Meta, "processing_time_ms")
}

func TestStampProcessingTimeOutsideMetaGroup(t *testing.T) {
	r := gin.New()
	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		StampProcessingTime(c)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	do(r, http.MethodGet, "/", "")
	assert.Nil(t, meta)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/api/v1/companies/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/api/v1/companies/CMP01", "")
	do(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `path="/api/v1/companies/:id"`)
	assert.Contains(t, body, `path="unmatched"`)
}

func TestAuditLogsSuccessfulMutations(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	admin := stubValidator{claims: &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}}
	r := gin.New()
	r.DELETE("/ledger/:id", JWT(admin), Audit(zap.New(core), "ledger.delete"), func(c *gin.Context) {
		if c.Param("id") == "404" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	})

	do(r, http.MethodDelete, "/ledger/7", "Bearer good")
	do(r, http.MethodDelete, "/ledger/404", "Bearer good")

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ledger.delete", fields["action"])
	assert.Equal(t, "admin", fields["user"])
	assert.Equal(t, "7", fields["record_id"])
}

func TestAuditUsesRecordAllocatedByHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	admin := stubValidator{claims: &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}}
	r := gin.New()
	r.POST("/ledger", JWT(admin), Audit(zap.New(core), "ledger.create"), func(c *gin.Context) {
		SetAuditRecord(c, 42)
		c.Status(http.StatusCreated)
	})

	do(r, http.MethodPost, "/ledger", "Bearer good")

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0].ContextMap()["record_id"])
}
