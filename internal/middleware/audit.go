package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/repository"
	"github.com/sahajlabs/exam-admin-gateway/pkg/middleware/requestid"
)

// maxAuditPayload caps the request-body snapshot stored per entry.
const maxAuditPayload = 32 << 10

// Audit records a successful mutation in the gateway's audit trail. The
// write is best effort: a failed insert never fails the request. A nil
// repository disables auditing.
func Audit(repo *repository.AuditRepository, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			c.Next()
			return
		}

		var payload []byte
		if c.Request.Body != nil && c.Request.Method != http.MethodDelete {
			payload, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditPayload))
			c.Request.Body = io.NopCloser(bytes.NewReader(payload))
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		actor := "unknown"
		if identity, ok := CurrentIdentity(c); ok && identity.Subject != "" {
			actor = identity.Subject
		}

		raw := c.Param("id")
		if raw == "" {
			raw = c.Param("subscriptionId")
		}
		var resourceID *int64
		if raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				resourceID = &id
			}
		}

		_ = repo.Create(c.Request.Context(), &models.AuditEntry{
			Actor:      actor,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Payload:    payload,
			Outcome:    strconv.Itoa(c.Writer.Status()),
			RequestID:  requestid.Value(c),
			IP:         c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		})
	}
}
