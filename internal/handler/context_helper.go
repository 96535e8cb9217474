package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-cell-api/internal/middleware"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
	"github.com/noah-isme/placement-cell-api/pkg/response"
)

// respondCached writes data with the cache_hit flag and processing time merged
// into response meta.
func respondCached(c *gin.Context, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.StampProcessingTime(c)
	response.JSON(c, http.StatusOK, data, nil, middleware.ExtractMeta(c))
}

func recordIDParam(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "record id must be a positive integer")
	}
	return id, nil
}
