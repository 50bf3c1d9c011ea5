// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/models"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

const redacted = "[REDACTED]"

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestLogger emits one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"request_id":  GetRequestID(c),
		}
		if identity, ok := utils.GetIdentityFromContext(c); ok {
			fields["user_id"] = identity.UserID
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request processed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// MaxRequestBodyBytes caps the body of a mutating request.
const MaxRequestBodyBytes = 1 << 20

// AuditLogMiddleware records every mutating request in audit_logs once the
// response has been written. Password fields never reach the table.
func AuditLogMiddleware(store *database.Handle) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		// Read request body
		var requestBody []byte
		if c.Request.Body != nil {
			var err error
			requestBody, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					utils.AbortWithError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
						i18n.T(utils.GetLangFromContext(c), i18n.KeyPayloadTooLarge))
					return
				}
				utils.AbortWithError(c, http.StatusBadRequest, "BAD_REQUEST",
					i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "request"))
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if store.Degraded() {
			return
		}

		auditLog := &models.AuditLog{
			Action:       c.Request.Method + " " + routeOrPath(c),
			ResourceType: extractResourceType(c.Request.URL.Path),
			ResourceID:   extractResourceID(c, blw.body.Bytes()),
			Status:       c.Writer.Status(),
			RequestID:    GetRequestID(c),
			NewValues:    redact(requestBody),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}
		if identity, ok := utils.GetIdentityFromContext(c); ok {
			userID := identity.UserID
			auditLog.UserID = &userID
		}

		db, cancel := store.WithTimeout(context.Background())
		defer cancel()
		if err := db.Create(auditLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to create audit log")
		}
	}
}

func routeOrPath(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}

// extractResourceType maps /api/fragrances/12 to "fragrances".
func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

// extractResourceID prefers the :id path parameter and falls back to the id
// of a created resource in the response envelope.
func extractResourceID(c *gin.Context, responseBody []byte) *uint {
	if raw := c.Param("id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			v := uint(id)
			return &v
		}
	}

	var envelope struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(responseBody, &envelope); err == nil && envelope.Data.ID != 0 {
		return &envelope.Data.ID
	}
	return nil
}

func redact(body []byte) models.JSONB {
	if len(body) == 0 {
		return nil
	}

	var values map[string]interface{}
	if err := json.Unmarshal(body, &values); err != nil {
		return nil
	}
	for key := range values {
		if strings.Contains(strings.ToLower(key), "password") {
			values[key] = redacted
		}
	}
	return models.JSONB(values)
}
