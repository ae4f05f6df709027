// internal/handlers/drafts.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

// DraftHandler exposes the product form of the "Add New Product" tab and of
// the product edit page.
type DraftHandler struct{}

func NewDraftHandler() *DraftHandler {
	return &DraftHandler{}
}

// SelectCategoryRequest is one cascading selector event.
type SelectCategoryRequest struct {
	Level string `json:"level" validate:"required,oneof=main sub third"`
	ID    string `json:"id"`
}

func formResponse(c *gin.Context, form *services.ProductForm, extra gin.H) {
	state := form.State()
	data := gin.H{
		"form":   state,
		"notice": utils.RenderNotice(c, state.Notice),
	}
	for k, v := range extra {
		data[k] = v
	}
	utils.SuccessResponse(c, data)
}

// loadForm resolves :id to an open draft of the session.
func loadForm(c *gin.Context) (*services.Workspace, *services.ProductForm, bool) {
	ws := workspace(c)
	if ws == nil {
		return nil, nil, false
	}
	form, err := ws.Forms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return nil, nil, false
	}
	return ws, form, true
}

// POST /v1/drafts
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	form := ws.Forms.NewDraft(c.Request.Context())
	state := form.State()
	utils.CreatedResponse(c, gin.H{
		"form":   state,
		"notice": utils.RenderNotice(c, state.Notice),
	})
}

// POST /v1/drafts/edit/:slug
func (h *DraftHandler) EditDraft(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	form, err := ws.Forms.EditDraft(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	formResponse(c, form, nil)
}

// GET /v1/drafts/:id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}
	formResponse(c, form, nil)
}

// PATCH /v1/drafts/:id
// Body: {"name": "...", "description": "..."}.
func (h *DraftHandler) UpdateFields(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if err := form.UpdateFields(fields); err != nil {
		respondError(c, err, nil)
		return
	}
	formResponse(c, form, nil)
}

// PATCH /v1/drafts/:id/variants/:index
// Body: any of {"size", "color", "images", "stock", "price"}.
func (h *DraftHandler) UpdateVariant(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, services.ErrVariantIndex, nil)
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if err := form.UpdateVariantFields(index, fields); err != nil {
		respondError(c, err, nil)
		return
	}
	formResponse(c, form, nil)
}

// POST /v1/drafts/:id/variants
func (h *DraftHandler) AddVariant(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}
	index := form.AddVariant()
	formResponse(c, form, gin.H{"index": index})
}

// DELETE /v1/drafts/:id/variants/:index
func (h *DraftHandler) RemoveVariant(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, services.ErrVariantIndex, nil)
		return
	}
	if err := form.RemoveVariant(index); err != nil {
		respondError(c, err, form.State().Notice)
		return
	}
	formResponse(c, form, nil)
}

// PUT /v1/drafts/:id/category
func (h *DraftHandler) SelectCategory(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}
	var req SelectCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	selector := form.Selector()
	var err error
	switch req.Level {
	case "main":
		err = selector.SelectMain(req.ID)
	case "sub":
		err = selector.SelectSub(req.ID)
	case "third":
		err = selector.SelectThird(req.ID)
	}
	if err != nil {
		respondError(c, err, nil)
		return
	}
	formResponse(c, form, nil)
}

// PUT /v1/drafts/:id/brand
func (h *DraftHandler) SetBrand(c *gin.Context) {
	_, form, ok := loadForm(c)
	if !ok {
		return
	}
	var req models.BrandChoice
	if !bindAndValidate(c, &req) {
		return
	}

	brand, err := form.SetBrand(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	formResponse(c, form, gin.H{"brand": brand})
}

// POST /v1/drafts/:id/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	ws, form, ok := loadForm(c)
	if !ok {
		return
	}

	outcome, err := form.Submit(c.Request.Context())
	if err != nil {
		var notice *models.Notice
		if outcome != nil {
			notice = outcome.Notice
		}
		respondError(c, err, notice)
		return
	}

	data := gin.H{"outcome": outcome}
	if outcome.RedirectSlug != "" {
		data["redirect"] = "/product/" + outcome.RedirectSlug
		ws.Forms.Discard(form.ID())
	}
	formResponse(c, form, data)
}

// DELETE /v1/drafts/:id
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	if !ws.Forms.Discard(c.Param("id")) {
		respondError(c, services.ErrDraftNotFound, nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"discarded": c.Param("id")})
}
