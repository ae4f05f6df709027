// internal/handlers/uploads.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

// UploadHandler serves the bulk CSV upload tab.
type UploadHandler struct {
	maxBytes int64
}

func NewUploadHandler(maxBytes int64) *UploadHandler {
	return &UploadHandler{maxBytes: maxBytes}
}

func uploadResponse(c *gin.Context, state services.UploadState, err error) {
	if err != nil {
		respondError(c, err, state.Status)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"upload": state,
		"status": utils.RenderNotice(c, state.Status),
	})
}

// GET /v1/uploads
func (h *UploadHandler) GetUpload(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	uploadResponse(c, ws.Upload.State(), nil)
}

// POST /v1/uploads
// Multipart form with the file in "csvFile" and an optional "source"
// (picker or drop). Stages the file without sending it.
func (h *UploadHandler) StageFile(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}

	header, err := c.FormFile(catalog.CSVFormField)
	if err != nil {
		respondError(c, services.ErrNoFile, nil)
		return
	}

	source := services.UploadSource(c.DefaultPostForm("source", string(services.SourcePicker)))
	if source != services.SourcePicker && source != services.SourceDrop {
		source = services.SourcePicker
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	defer file.Close()

	// One byte over the limit is enough for the controller to reject it.
	reader := io.Reader(file)
	if h.maxBytes > 0 {
		reader = io.LimitReader(file, h.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	state, err := ws.Upload.Stage(source, header.Filename, header.Header.Get("Content-Type"), data)
	uploadResponse(c, state, err)
}

// DELETE /v1/uploads
func (h *UploadHandler) ClearFile(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	uploadResponse(c, ws.Upload.Clear(), nil)
}

// POST /v1/uploads/submit
func (h *UploadHandler) Submit(c *gin.Context) {
	ws := workspace(c)
	if ws == nil {
		return
	}
	state, err := ws.Upload.Submit(c.Request.Context(), utils.GetAdminEmailFromContext(c))
	uploadResponse(c, state, err)
}
