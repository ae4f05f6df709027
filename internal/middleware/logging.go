// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/database"
	"github.com/javajoker/commodity-admin/internal/models"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"

	maxAuditBody = 64 << 10
)

var redactedFields = []string{"password", "token"}

// RequestID tags every request with an id, reusing the caller's header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AuditLogMiddleware records every mutating /v1 request through recorder.
// Recording runs in the background and never fails the request.
func AuditLogMiddleware(recorder database.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" || !strings.HasPrefix(c.Request.URL.Path, "/v1/") {
			c.Next()
			return
		}

		var requestBody []byte
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		var requestData map[string]interface{}
		if len(requestBody) > 0 {
			json.Unmarshal(requestBody, &requestData)
		}
		for _, field := range redactedFields {
			if _, ok := requestData[field]; ok {
				requestData[field] = "[REDACTED]"
			}
		}

		email := c.GetString(ContextAdminEmail)
		if email == "" {
			if v, ok := requestData["email"].(string); ok {
				email = strings.ToLower(v)
			}
		}

		entry := &models.AuditLog{
			ID:           uuid.New(),
			CreatedAt:    start,
			AdminEmail:   email,
			Action:       c.Request.Method + " " + routeOf(c),
			ResourceType: extractResourceType(c.Request.URL.Path),
			ResourceIDs:  resourceIDs(c),
			Status:       c.Writer.Status(),
			DurationMs:   duration.Milliseconds(),
			RequestID:    c.GetString(ContextRequestID),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			NewValues:    models.JSONB(requestData),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recorder.Record(ctx, entry); err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

// RequestLogger replaces gin's default logger with structured logrus output.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"request_id": c.GetString(ContextRequestID),
		})
		if email := c.GetString(ContextAdminEmail); email != "" {
			entry = entry.WithField("admin_email", email)
		}

		switch {
		case status >= 500:
			entry.Error("Request processed")
		case status >= 400:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "v1" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func resourceIDs(c *gin.Context) pq.StringArray {
	var ids pq.StringArray
	for _, p := range c.Params {
		if p.Key == "level" || p.Key == "index" {
			continue
		}
		ids = append(ids, p.Value)
	}
	return ids
}
