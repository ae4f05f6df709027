// internal/services/product_form_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/models"
)

var ErrDraftNotFound = errors.New("draft not found")

// maxOpenDrafts bounds the drafts one admin can keep open at a time.
const maxOpenDrafts = 20

// ProductFormService keeps the open product drafts of one admin workspace.
type ProductFormService struct {
	mu         sync.Mutex
	api        CatalogAPI
	categories *CategoryService
	brands     *BrandService
	forms      map[string]*ProductForm
	order      []string
}

func NewProductFormService(api CatalogAPI, categories *CategoryService, brands *BrandService) *ProductFormService {
	return &ProductFormService{
		api:        api,
		categories: categories,
		brands:     brands,
		forms:      make(map[string]*ProductForm),
	}
}

// NewDraft opens a blank create form.
func (s *ProductFormService) NewDraft(ctx context.Context) *ProductForm {
	form := newProductForm(uuid.NewString(), models.BlankDraft(), s.api, s.api, s.brands)
	s.loadReferences(ctx, form)
	s.store(form)
	return form
}

// EditDraft fetches a product by slug and opens it for editing. Its category
// triple is hydrated before the reference lists load so it is never cleared.
func (s *ProductFormService) EditDraft(ctx context.Context, slug string) (*ProductForm, error) {
	product, err := s.api.GetCommodity(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %q: %w", slug, err)
	}

	draft := models.DraftFromProduct(product)
	form := newProductForm(uuid.NewString(), draft, s.api, s.api, s.brands)
	form.selector.Hydrate(draft.Category)
	s.loadReferences(ctx, form)
	s.store(form)
	return form, nil
}

// Get returns an open draft, retrying the reference load if it failed earlier.
func (s *ProductFormService) Get(ctx context.Context, id string) (*ProductForm, error) {
	s.mu.Lock()
	form, ok := s.forms[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrDraftNotFound
	}

	form.mu.Lock()
	loaded := form.refsLoaded
	form.mu.Unlock()
	if !loaded {
		s.loadReferences(ctx, form)
	}
	return form, nil
}

func (s *ProductFormService) Discard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		return false
	}
	delete(s.forms, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ProductFormService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// RefreshReferences pushes fresh reference lists into every open form, e.g.
// after a category was deleted.
func (s *ProductFormService) RefreshReferences(ctx context.Context) {
	s.mu.Lock()
	forms := make([]*ProductForm, 0, len(s.forms))
	for _, f := range s.forms {
		forms = append(forms, f)
	}
	s.mu.Unlock()

	for _, f := range forms {
		s.loadReferences(ctx, f)
	}
}

// loadReferences feeds the selector. The first successful load ends the
// hydrating phase of an edit form.
func (s *ProductFormService) loadReferences(ctx context.Context, form *ProductForm) {
	refs, err := s.categories.References(ctx, s.api)
	if err != nil {
		logrus.WithError(err).WithField("draft_id", form.id).Warn("Category references not loaded")
		return
	}

	form.selector.SetReferences(refs)

	form.mu.Lock()
	first := !form.refsLoaded
	form.refsLoaded = true
	form.mu.Unlock()

	if first {
		form.selector.MarkInteractive()
	}
}

func (s *ProductFormService) store(form *ProductForm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forms[form.id] = form
	s.order = append(s.order, form.id)
	for len(s.order) > maxOpenDrafts {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.forms, oldest)
	}
}
