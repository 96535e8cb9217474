package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/pkg/middleware/requestid"
)

const auditRecordKey = "audit_record_id"

// SetAuditRecord records the id of a row created by the current request.
func SetAuditRecord(c *gin.Context, recordID int) {
	c.Set(auditRecordKey, recordID)
}

// Audit logs successful ledger mutations with the acting user.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		username := ""
		if claims, ok := CurrentUser(c); ok {
			username = claims.Username
		}
		recordID := c.Param("id")
		if v, ok := c.Get(auditRecordKey); ok {
			if id, ok := v.(int); ok {
				recordID = strconv.Itoa(id)
			}
		}
		logger.Info("audit",
			zap.String("action", action),
			zap.String("user", username),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("record_id", recordID),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", requestid.Value(c)),
		)
	}
}
