// internal/services/product_form.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/models"
)

var (
	ErrLastVariant       = errors.New("a product must keep at least one variant")
	ErrVariantIndex      = errors.New("variant index out of range")
	ErrReadOnlyField     = errors.New("field is assigned by the catalog and cannot be edited")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidNumber     = errors.New("value must be a non-negative number")
	ErrSubmitInProgress  = errors.New("submit already in progress")
	ErrUnknownBrandKind  = errors.New("unknown brand choice")
	ErrBrandNotSpecified = errors.New("brand id or label is required")
)

// ProductForm owns one product draft: field edits, variant edits, the
// cascading category selector, the brand choice, and submit.
type ProductForm struct {
	mu         sync.Mutex
	id         string
	draft      models.ProductDraft
	selector   *CategorySelector
	api        CommodityAPI
	brandAPI   BrandAPI
	brands     *BrandService
	submitting bool
	refsLoaded bool
	notice     *models.Notice
}

// FormState is what the dashboard renders for one draft.
type FormState struct {
	DraftID    string              `json:"draft_id"`
	Mode       string              `json:"mode"`
	Draft      models.ProductDraft `json:"draft"`
	Category   SelectorState       `json:"category"`
	Colors     []models.Color      `json:"colors"`
	Submitting bool                `json:"submitting"`
	Notice     *models.Notice      `json:"notice,omitempty"`
}

// SubmitOutcome tells the caller what to do after a submit.
type SubmitOutcome struct {
	Created      bool           `json:"created"`
	Updated      bool           `json:"updated"`
	RedirectSlug string         `json:"redirect_slug,omitempty"`
	Reset        bool           `json:"reset"`
	Notice       *models.Notice `json:"notice"`
}

func newProductForm(id string, draft models.ProductDraft, api CommodityAPI, brandAPI BrandAPI, brands *BrandService) *ProductForm {
	if len(draft.Variants) == 0 {
		draft.Variants = []models.Variant{models.EmptyVariant()}
	}
	return &ProductForm{
		id:       id,
		draft:    draft,
		selector: NewCategorySelector(),
		api:      api,
		brandAPI: brandAPI,
		brands:   brands,
	}
}

func (f *ProductForm) ID() string { return f.id }

func (f *ProductForm) Selector() *CategorySelector { return f.selector }

func (f *ProductForm) IsEditing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.ID != ""
}

func (f *ProductForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft := f.draft.Clone()
	draft.Category = f.selector.Selection()
	mode := "create"
	if draft.ID != "" {
		mode = "edit"
	}
	return FormState{
		DraftID:    f.id,
		Mode:       mode,
		Draft:      draft,
		Category:   f.selector.State(),
		Colors:     models.Colors,
		Submitting: f.submitting,
		Notice:     f.notice,
	}
}

// FieldError ties a rejected value to the field it was sent for.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// MessageArgs fills the field name into the translated message.
func (e *FieldError) MessageArgs() []interface{} { return []interface{}{e.Field} }

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// UpdateField merges one top-level scalar field into the draft.
func (f *ProductForm) UpdateField(name, value string) error {
	return f.UpdateFields(map[string]string{name: value})
}

// UpdateFields merges several top-level fields at once. Nothing is applied
// unless every field is accepted.
func (f *ProductForm) UpdateFields(fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft := f.draft
	for _, name := range sortedKeys(fields) {
		if err := applyDraftField(&draft, name, fields[name]); err != nil {
			return err
		}
	}
	f.draft.Name = draft.Name
	f.draft.Description = draft.Description
	return nil
}

func applyDraftField(d *models.ProductDraft, name, value string) error {
	switch name {
	case "name":
		d.Name = value
	case "description":
		d.Description = value
	case "sku", "slug", "id", "_id":
		return fieldError(name, ErrReadOnlyField)
	default:
		return fieldError(name, ErrUnknownField)
	}
	return nil
}

// UpdateVariant sets one field of one variant. stock and price are coerced
// to numbers; size is normalised to an upper-case set; color is resolved
// against the color list.
func (f *ProductForm) UpdateVariant(index int, field string, value interface{}) error {
	return f.UpdateVariantFields(index, map[string]interface{}{field: value})
}

// UpdateVariantFields sets several fields of one variant. The variant is
// replaced only when every field is accepted.
func (f *ProductForm) UpdateVariantFields(index int, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.draft.Variants) {
		return ErrVariantIndex
	}
	v := f.draft.Variants[index].Clone()
	for _, field := range sortedKeys(fields) {
		if err := applyVariantField(&v, field, fields[field]); err != nil {
			return err
		}
	}

	f.draft.Variants[index] = v
	return nil
}

func applyVariantField(v *models.Variant, field string, value interface{}) error {
	switch field {
	case "stock", "price":
		n, err := toNonNegativeNumber(value)
		if err != nil {
			return fieldError(field, err)
		}
		if field == "stock" {
			v.Stock = n
		} else {
			v.Price = n
		}
	case "size":
		sizes, err := toStringList(value)
		if err != nil {
			return fieldError(field, err)
		}
		v.Size = models.NormalizeSizes(sizes)
	case "images":
		images, err := toStringList(value)
		if err != nil {
			return fieldError(field, err)
		}
		v.Images = nonBlank(images)
	case "color":
		s, ok := value.(string)
		if !ok && value != nil {
			return fieldError(field, ErrUnknownField)
		}
		v.Color = models.ResolveColor(s)
	default:
		return fieldError(field, ErrUnknownField)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddVariant appends a blank variant and returns its index.
func (f *ProductForm) AddVariant() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Variants = append(f.draft.Variants, models.EmptyVariant())
	return len(f.draft.Variants) - 1
}

// RemoveVariant drops a variant. The last remaining variant cannot be removed.
func (f *ProductForm) RemoveVariant(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.draft.Variants) {
		return ErrVariantIndex
	}
	if len(f.draft.Variants) == 1 {
		f.notice = models.NewNotice(models.NoticeError, i18n.KeyVariantLastRequired)
		return ErrLastVariant
	}

	variants := make([]models.Variant, 0, len(f.draft.Variants)-1)
	variants = append(variants, f.draft.Variants[:index]...)
	variants = append(variants, f.draft.Variants[index+1:]...)
	f.draft.Variants = variants
	return nil
}

// SetBrand applies a brand choice. A request for a new brand is created in
// the catalog first and the draft only ever stores the resulting id.
func (f *ProductForm) SetBrand(ctx context.Context, choice models.BrandChoice) (*models.Brand, error) {
	var resolved *models.Brand

	switch choice.Kind {
	case models.BrandNone:
	case models.BrandExisting:
		if choice.ID == "" {
			return nil, ErrBrandNotSpecified
		}
		resolved = &models.Brand{ID: choice.ID, Label: choice.Label}
	case models.BrandNewRequest:
		if strings.TrimSpace(choice.Label) == "" {
			return nil, ErrBrandNotSpecified
		}
		brand, err := f.brands.Create(ctx, f.brandAPI, choice.Label)
		if err != nil {
			return nil, err
		}
		resolved = brand
	default:
		return nil, ErrUnknownBrandKind
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if resolved == nil {
		f.draft.Brand = ""
	} else {
		f.draft.Brand = resolved.ID
	}
	return resolved, nil
}

// Submit sends the draft: an update when it carries a persisted id, a create
// otherwise. On create success the draft resets to blank unless the catalog
// returned a slug to redirect to.
func (f *ProductForm) Submit(ctx context.Context) (*SubmitOutcome, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f.submitting = true
	draft := f.draft.Clone()
	draft.Category = f.selector.Selection()
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	payload := draft.Payload()
	outcome := &SubmitOutcome{}

	if draft.ID != "" {
		result, err := f.api.UpdateCommodity(ctx, payload)
		if err != nil || (result != nil && !result.Success) {
			return f.fail(outcome, draft, err, i18n.KeyProductUpdateFailed)
		}
		outcome.Updated = true
		outcome.Notice = models.NewNotice(models.NoticeSuccess, i18n.KeyProductUpdated)
		f.setNotice(outcome.Notice)
		logrus.WithField("product_id", draft.ID).Info("Product updated")
		return outcome, nil
	}

	result, err := f.api.AddCommodity(ctx, payload)
	if err != nil || result == nil || !result.Success {
		return f.fail(outcome, draft, err, i18n.KeyProductCreateFailed)
	}

	outcome.Created = true
	outcome.Notice = models.NewNotice(models.NoticeSuccess, i18n.KeyProductCreated)
	if slug := result.CreatedSlug(); slug != "" {
		outcome.RedirectSlug = slug
	} else {
		outcome.Reset = true
		f.mu.Lock()
		f.draft = models.BlankDraft()
		f.mu.Unlock()
		f.selector.SelectMain("")
	}
	f.setNotice(outcome.Notice)
	logrus.WithField("slug", outcome.RedirectSlug).Info("Product created")
	return outcome, nil
}

func (f *ProductForm) fail(outcome *SubmitOutcome, draft models.ProductDraft, err error, key string) (*SubmitOutcome, error) {
	if err == nil {
		err = errors.New("catalog reported failure")
	}
	outcome.Notice = models.NewNotice(models.NoticeError, key)
	f.setNotice(outcome.Notice)
	logrus.WithError(err).WithFields(logrus.Fields{
		"product_id": draft.ID,
		"name":       draft.Name,
	}).Error("Product submit failed")
	return outcome, err
}

func (f *ProductForm) setNotice(n *models.Notice) {
	f.mu.Lock()
	f.notice = n
	f.mu.Unlock()
}

// ClearNotice drops the last notice once it has been shown.
func (f *ProductForm) ClearNotice() {
	f.setNotice(nil)
}

func toNonNegativeNumber(value interface{}) (float64, error) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrInvalidNumber
		}
		n = parsed
	case nil:
		return 0, nil
	default:
		return 0, ErrInvalidNumber
	}
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrInvalidNumber
	}
	return n, nil
}

// toStringList accepts a JSON array of strings or a comma separated string.
func toStringList(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return strings.Split(v, ","), nil
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list, got %T", value)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
