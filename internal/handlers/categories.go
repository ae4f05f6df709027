// internal/handlers/categories.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

// CategoryHandler serves the three category administration tabs.
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func parseLevel(c *gin.Context) (models.CategoryLevel, bool) {
	level, err := models.ParseCategoryLevel(c.Param("level"))
	if err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return 0, false
	}
	return level, true
}

func boardResponse(c *gin.Context, state services.BoardState, notice *models.Notice) {
	utils.SuccessResponse(c, gin.H{
		"board":  state,
		"notice": utils.RenderNotice(c, notice),
	})
}

// afterCategoryChange pushes the new lists into the session's open forms.
func afterCategoryChange(c *gin.Context, ws *services.Workspace) {
	ws.Forms.RefreshReferences(c.Request.Context())
}

// GET /v1/categories/:level
// The board always carries all three lists.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	if _, ok := parseLevel(c); !ok {
		return
	}
	state, err := ws.Board.Load(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	boardResponse(c, state, nil)
}

// POST /v1/categories/:level
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	level, ok := parseLevel(c)
	if !ok {
		return
	}
	var req models.CategoryInput
	if !bindAndValidate(c, &req) {
		return
	}

	state, err := ws.Board.Create(c.Request.Context(), level, req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	afterCategoryChange(c, ws)
	boardResponse(c, state, models.NewNotice(models.NoticeSuccess, i18n.KeyCategoryCreated))
}

// PUT /v1/categories/:level/:id/enabled
func (h *CategoryHandler) SetEnabled(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	level, ok := parseLevel(c)
	if !ok {
		return
	}
	if level != models.CategoryLevel1 {
		respondError(c, services.ErrNotToggleable, nil)
		return
	}
	var req services.ToggleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	state, err := ws.Board.ToggleEnabled(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		// The switch has already been reverted; the board travels with the error.
		notice := models.NewNotice(models.NoticeError, i18n.KeyCategoryToggleFailed)
		respondErrorDetails(c, err, gin.H{
			"board":  state,
			"notice": utils.RenderNotice(c, notice),
		})
		return
	}
	afterCategoryChange(c, ws)
	boardResponse(c, state, models.NewNotice(models.NoticeSuccess, i18n.KeyCategoryUpdated))
}

// PUT /v1/categories/:level/:id/parent
func (h *CategoryHandler) SetParent(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	level, ok := parseLevel(c)
	if !ok {
		return
	}
	var req services.ReparentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	state, err := ws.Board.Reparent(c.Request.Context(), level, c.Param("id"), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	afterCategoryChange(c, ws)
	boardResponse(c, state, models.NewNotice(models.NoticeSuccess, i18n.KeyCategoryUpdated))
}

// DELETE /v1/categories/:level/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	level, ok := parseLevel(c)
	if !ok {
		return
	}

	state, err := ws.Board.Delete(c.Request.Context(), level, c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	afterCategoryChange(c, ws)
	boardResponse(c, state, models.NewNotice(models.NoticeSuccess, i18n.KeyCategoryDeleted))
}

// PUT /v1/category-picker
// Drives the cat1/cat2 picker of the level-3 create form.
func (h *CategoryHandler) SelectCreateParents(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	var req services.CreateParentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	picker, err := ws.Board.SelectCreateParents(req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"picker": picker})
}
