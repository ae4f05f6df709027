// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess      = "success"
	KeyError        = "error"
	KeyGenericError = "error.generic"
	KeyRateLimited  = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Products
	KeyProductCreated         = "product.created"
	KeyProductCreateFailed    = "product.create_failed"
	KeyProductUpdated         = "product.updated"
	KeyProductUpdateFailed    = "product.update_failed"
	KeyProductDeleted         = "product.deleted"
	KeyProductDeleteFailed    = "product.delete_failed"
	KeyProductDeletedAll      = "product.deleted_all"
	KeyProductDeleteAllFailed = "product.delete_all_failed"
	KeyProductNotFound        = "product.not_found"
	KeyProductListFailed      = "product.list_failed"
	KeyProductUnsortable      = "product.unsortable_column"

	// Drafts
	KeyDraftNotFound       = "draft.not_found"
	KeyDraftReadOnlyField  = "draft.read_only_field"
	KeyVariantLastRequired = "variant.last_required"
	KeyVariantInvalidValue = "variant.invalid_value"

	// Categories
	KeyCategoryCreated        = "category.created"
	KeyCategoryUpdated        = "category.updated"
	KeyCategoryDeleted        = "category.deleted"
	KeyCategoryToggleFailed   = "category.toggle_failed"
	KeyCategoryTogglePending  = "category.toggle_pending"
	KeyCategoryParentRequired = "category.parent_required"
	KeyCategoryNotFound       = "category.not_found"
	KeyCategoryInvalidOption  = "category.invalid_option"

	// Brands
	KeyBrandCreated = "brand.created"

	// Bulk upload
	KeyUploadOnlyCSV    = "upload.only_csv"
	KeyUploadTooLarge   = "upload.too_large"
	KeyUploadInProgress = "upload.in_progress"
	KeyUploadInserted   = "upload.inserted"
	KeyUploadFailed     = "upload.failed"
	KeyUploadNoFile     = "upload.no_file"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
