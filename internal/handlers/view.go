// internal/handlers/view.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/utils"
)

type ViewHandler struct{}

func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

type SetViewRequest struct {
	Tab models.Tab `json:"tab" validate:"required,dashboard_tab"`
}

// GET /v1/menu
func (h *ViewHandler) GetMenu(c *gin.Context) {
	utils.SuccessResponse(c, models.SidebarMenu)
}

// GET /v1/view
func (h *ViewHandler) GetView(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	utils.SuccessResponse(c, gin.H{
		"view":        ws.View(),
		"email":       ws.Email,
		"open_drafts": ws.Forms.Count(),
	})
}

// PUT /v1/view
func (h *ViewHandler) SetView(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}

	var req struct {
		SetViewRequest
		ToggleCategoryMenu bool `json:"toggle_category_menu"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if req.ToggleCategoryMenu && req.Tab == "" {
		utils.SuccessResponse(c, gin.H{"view": ws.ToggleCategoryMenu()})
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req.SetViewRequest)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	view, err := ws.SetTab(req.Tab)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"view": view})
}
