// internal/handlers/audit.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/database"
	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/utils"
)

type AuditHandler struct {
	reader database.AuditReader
}

// NewAuditHandler takes a nil reader when no database is configured; the
// listing is then always empty.
func NewAuditHandler(reader database.AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// GET /v1/audit-logs
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	if h.reader == nil {
		utils.PaginatedResponse(c, utils.CreatePaginationResult([]models.AuditLog{}, 0, params))
		return
	}

	filter := database.AuditFilter{
		AdminEmail:   c.Query("admin_email"),
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
	}
	logs, total, err := h.reader.List(c.Request.Context(), params, filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}
