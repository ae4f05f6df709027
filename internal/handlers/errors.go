// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/middleware"
	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

var badRequestErrors = []error{
	services.ErrLastVariant,
	services.ErrVariantIndex,
	services.ErrReadOnlyField,
	services.ErrUnknownField,
	services.ErrInvalidNumber,
	services.ErrUnknownBrandKind,
	services.ErrBrandNotSpecified,
	services.ErrEmptyBrandLabel,
	services.ErrUnsortableColumn,
	services.ErrInvalidPage,
	services.ErrInvalidPageSize,
	services.ErrNotCSV,
	services.ErrNoFile,
	services.ErrParentNotSelected,
	services.ErrUnknownOption,
	services.ErrNotToggleable,
	services.ErrInvalidParent,
	services.ErrMissingParent,
	services.ErrUnknownTab,
}

// errorKeys translate local rule violations for the admin.
var errorKeys = map[error]string{
	services.ErrLastVariant:       i18n.KeyVariantLastRequired,
	services.ErrInvalidNumber:     i18n.KeyVariantInvalidValue,
	services.ErrReadOnlyField:     i18n.KeyDraftReadOnlyField,
	services.ErrUnsortableColumn:  i18n.KeyProductUnsortable,
	services.ErrNotCSV:            i18n.KeyUploadOnlyCSV,
	services.ErrNoFile:            i18n.KeyUploadNoFile,
	services.ErrFileTooLarge:      i18n.KeyUploadTooLarge,
	services.ErrUploadInProgress:  i18n.KeyUploadInProgress,
	services.ErrToggleInProgress:  i18n.KeyCategoryTogglePending,
	services.ErrParentNotSelected: i18n.KeyCategoryParentRequired,
	services.ErrMissingParent:     i18n.KeyCategoryParentRequired,
	services.ErrUnknownOption:     i18n.KeyCategoryInvalidOption,
	services.ErrDraftNotFound:     i18n.KeyDraftNotFound,
	services.ErrUnknownCategory:   i18n.KeyCategoryNotFound,
	catalog.ErrNotFound:           i18n.KeyProductNotFound,
}

// messageArgs is implemented by errors that carry the values of a
// parameterised message, such as the offending field name.
type messageArgs interface {
	MessageArgs() []interface{}
}

func translatedMessage(c *gin.Context, err error) string {
	lang := utils.GetLangFromContext(c)
	var args []interface{}
	var withArgs messageArgs
	if errors.As(err, &withArgs) {
		args = withArgs.MessageArgs()
	}
	for target, key := range errorKeys {
		if errors.Is(err, target) {
			return i18n.T(lang, key, args...)
		}
	}
	return err.Error()
}

// respondError maps a service or catalog error onto the response envelope.
// notice, when set, is the controller's own user-facing message for the
// failure and travels in the error details.
func respondError(c *gin.Context, err error, notice *models.Notice) {
	var details interface{}
	if notice != nil {
		details = utils.RenderNotice(c, notice)
	}
	respondErrorDetails(c, err, details)
}

func respondErrorDetails(c *gin.Context, err error, details interface{}) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			utils.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", translatedMessage(c, err), details)
			return
		}
	}

	switch {
	case errors.Is(err, services.ErrDraftNotFound),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, catalog.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", translatedMessage(c, err), details)
		return
	case errors.Is(err, services.ErrFileTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", translatedMessage(c, err), details)
		return
	case errors.Is(err, services.ErrSubmitInProgress),
		errors.Is(err, services.ErrUploadInProgress),
		errors.Is(err, services.ErrToggleInProgress):
		utils.ConflictResponse(c, translatedMessage(c, err))
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInvalidCredentials))
		return
	}

	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		// Client errors (including an expired catalog session) pass through.
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		utils.UpstreamErrorResponse(c, status, catalog.UserMessage(err), details)
		return
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(middleware.ContextRequestID),
	}).Error("Catalog call failed")
	utils.UpstreamErrorResponse(c, http.StatusBadGateway, catalog.GenericErrorMessage, details)
}

// workspace returns the session workspace, answering 401 when absent.
func workspace(c *gin.Context) *services.Workspace {
	ws := middleware.WorkspaceFromContext(c)
	if ws == nil {
		utils.UnauthorizedResponse(c, "")
		return nil
	}
	return ws
}

// bindAndValidate binds the JSON body into req and runs struct validation.
// It writes the error response itself and reports whether to continue.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}
