// internal/handlers/products.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

type SetPageRequest struct {
	Page *int `json:"page" validate:"required,min=0"`
}

type SetPageSizeRequest struct {
	PageSize int `json:"page_size" validate:"required,min=1,max=100"`
}

type SortRequest struct {
	Column string `json:"column" validate:"required,sortable_column"`
}

// listResponse writes a list snapshot. A failed fetch keeps the previous rows
// and reports the error alongside them.
func listResponse(c *gin.Context, snap services.ListSnapshot, err error) {
	if err != nil {
		respondError(c, err, snap.Notice)
		return
	}
	utils.SuccessResponseWithMeta(c, snap, gin.H{
		"notice": utils.RenderNotice(c, snap.Notice),
		"pagination": gin.H{
			"page":        snap.Cursor.Page,
			"limit":       snap.Cursor.PageSize,
			"total":       snap.Total,
			"total_pages": snap.TotalPages,
		},
	})
}

// GET /v1/products
// Fetches the page at the workspace's current cursor.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	snap, err := ws.List.Refresh(c.Request.Context())
	listResponse(c, snap, err)
}

// GET /v1/products/state
// Returns the controller state without fetching, e.g. while a fetch runs.
func (h *ProductHandler) GetState(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	listResponse(c, ws.List.Snapshot(), nil)
}

// POST /v1/products/refresh
func (h *ProductHandler) Refresh(c *gin.Context) {
	h.GetProducts(c)
}

// PUT /v1/products/page
func (h *ProductHandler) SetPage(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	var req SetPageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	snap, err := ws.List.SetPage(c.Request.Context(), *req.Page)
	listResponse(c, snap, err)
}

// PUT /v1/products/page-size
func (h *ProductHandler) SetPageSize(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	var req SetPageSizeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	snap, err := ws.List.SetPageSize(c.Request.Context(), req.PageSize)
	listResponse(c, snap, err)
}

// PUT /v1/products/sort
func (h *ProductHandler) Sort(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	var req SortRequest
	if !bindAndValidate(c, &req) {
		return
	}
	snap, err := ws.List.Sort(c.Request.Context(), req.Column)
	listResponse(c, snap, err)
}

// DELETE /v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	snap, err := ws.List.DeleteProduct(c.Request.Context(), c.Param("id"))
	listResponse(c, snap, err)
}

// DELETE /v1/products
func (h *ProductHandler) DeleteAll(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	snap, err := ws.List.DeleteAll(c.Request.Context())
	listResponse(c, snap, err)
}
