// internal/handlers/brands.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

type BrandHandler struct {
	brandService *services.BrandService
}

func NewBrandHandler(brandService *services.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

// GET /v1/brands
func (h *BrandHandler) GetBrands(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	brands, err := h.brandService.List(c.Request.Context(), ws.API)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	utils.SuccessResponse(c, brands)
}

// POST /v1/brands
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	var req services.CreateBrandRequest
	if !bindAndValidate(c, &req) {
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), ws.API, req.Label)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"brand":  brand,
		"notice": utils.RenderNotice(c, models.NewNotice(models.NoticeSuccess, i18n.KeyBrandCreated, brand.Label)),
	})
}
