package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/models"
)

// fakeCatalog is an in-memory CatalogAPI recording every call.
type fakeCatalog struct {
	mu sync.Mutex

	products   []models.Product
	bySlug     map[string]*models.Product
	refs       models.CategoryReferences
	brands     []models.Brand
	listCalls  []catalog.ListQuery
	adds       []models.CommodityPayload
	updates    []models.CommodityPayload
	patches    []models.CategoryPatch
	deleted    [][]string
	uploads    []string
	uploadBody []string
	brandAdds  []string
	catCalls   int

	listErr   error
	addResult *catalog.SaveResult
	addErr    error
	updateErr error
	patchErr  error
	uploadErr error
	inserted  int

	// listHook runs before a list answer is built; tests use it to block.
	listHook func(q catalog.ListQuery)
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{bySlug: make(map[string]*models.Product)}
}

func (f *fakeCatalog) seedProducts(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = nil
	for i := 0; i < n; i++ {
		f.products = append(f.products, models.Product{
			ID:       fmt.Sprintf("p%02d", i),
			SKU:      fmt.Sprintf("SKU-%02d", i),
			Slug:     fmt.Sprintf("product-%02d", i),
			Name:     fmt.Sprintf("Product %02d", i),
			Variants: []models.Variant{models.EmptyVariant()},
		})
	}
}

func (f *fakeCatalog) ListCommodities(_ context.Context, q catalog.ListQuery) (*models.CommodityPage, error) {
	if f.listHook != nil {
		f.listHook(q)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, q)
	if f.listErr != nil {
		return nil, f.listErr
	}

	total := len(f.products)
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pages := (total + q.Limit - 1) / q.Limit
	return &models.CommodityPage{
		Commodities: append([]models.Product{}, f.products[start:end]...),
		Pagination: models.CommodityPagination{
			TotalCommodities: int64(total),
			TotalPages:       pages,
			CurrentPage:      q.Page,
		},
	}, nil
}

func (f *fakeCatalog) GetCommodity(_ context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.bySlug[slug]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) AddCommodity(_ context.Context, payload models.CommodityPayload) (*catalog.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, payload)
	if f.addErr != nil {
		return nil, f.addErr
	}
	if f.addResult != nil {
		return f.addResult, nil
	}
	return &catalog.SaveResult{Success: true}, nil
}

func (f *fakeCatalog) UpdateCommodity(_ context.Context, payload models.CommodityPayload) (*catalog.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, payload)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &catalog.SaveResult{Success: true}, nil
}

func (f *fakeCatalog) DeleteCommodities(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	kept := f.products[:0]
	for _, p := range f.products {
		drop := false
		for _, id := range ids {
			if p.ID == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

func (f *fakeCatalog) DeleteAllCommodities(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = nil
	return nil
}

func (f *fakeCatalog) ListCategory1(_ context.Context) ([]models.Category1, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catCalls++
	return append([]models.Category1{}, f.refs.Level1...), nil
}

func (f *fakeCatalog) ListCategory2(_ context.Context) ([]models.Category2, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Category2{}, f.refs.Level2...), nil
}

func (f *fakeCatalog) ListCategory3(_ context.Context) ([]models.Category3, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Category3{}, f.refs.Level3...), nil
}

func (f *fakeCatalog) CreateCategory(_ context.Context, level models.CategoryLevel, input models.CategoryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("c%d-%d", level, len(f.refs.Level1)+len(f.refs.Level2)+len(f.refs.Level3))
	switch level {
	case models.CategoryLevel1:
		f.refs.Level1 = append(f.refs.Level1, models.Category1{ID: id, Label: input.Label, IsEnabled: true})
	case models.CategoryLevel2:
		f.refs.Level2 = append(f.refs.Level2, models.Category2{ID: id, Label: input.Label, Cat1: models.RefID(input.Cat1)})
	case models.CategoryLevel3:
		f.refs.Level3 = append(f.refs.Level3, models.Category3{ID: id, Label: input.Label, Cat1: models.RefID(input.Cat1), Cat2: models.RefID(input.Cat2)})
	}
	return nil
}

func (f *fakeCatalog) PatchCategory(_ context.Context, level models.CategoryLevel, id string, patch models.CategoryPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.patchErr != nil {
		return f.patchErr
	}
	if level == models.CategoryLevel1 && patch.IsEnabled != nil {
		for i := range f.refs.Level1 {
			if f.refs.Level1[i].ID == id {
				f.refs.Level1[i].IsEnabled = *patch.IsEnabled
			}
		}
	}
	if level == models.CategoryLevel2 && patch.Cat1 != nil {
		for i := range f.refs.Level2 {
			if f.refs.Level2[i].ID == id {
				f.refs.Level2[i].Cat1 = models.RefID(*patch.Cat1)
			}
		}
	}
	return nil
}

func (f *fakeCatalog) DeleteCategory(_ context.Context, level models.CategoryLevel, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch level {
	case models.CategoryLevel1:
		out := f.refs.Level1[:0]
		for _, c := range f.refs.Level1 {
			if c.ID != id {
				out = append(out, c)
			}
		}
		f.refs.Level1 = out
	case models.CategoryLevel2:
		out := f.refs.Level2[:0]
		for _, c := range f.refs.Level2 {
			if c.ID != id {
				out = append(out, c)
			}
		}
		f.refs.Level2 = out
	case models.CategoryLevel3:
		out := f.refs.Level3[:0]
		for _, c := range f.refs.Level3 {
			if c.ID != id {
				out = append(out, c)
			}
		}
		f.refs.Level3 = out
	}
	return nil
}

func (f *fakeCatalog) ListBrands(_ context.Context) ([]models.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Brand{}, f.brands...), nil
}

func (f *fakeCatalog) AddBrand(_ context.Context, label string) (*models.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brandAdds = append(f.brandAdds, label)
	b := models.Brand{ID: fmt.Sprintf("b%d", len(f.brands)+1), Label: label}
	f.brands = append(f.brands, b)
	return &b, nil
}

func (f *fakeCatalog) UploadCSV(_ context.Context, filename string, r io.Reader) (int, error) {
	body, _ := io.ReadAll(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	f.uploadBody = append(f.uploadBody, string(body))
	if f.uploadErr != nil {
		return 0, f.uploadErr
	}
	return f.inserted, nil
}

func (f *fakeCatalog) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeCatalog) lastListCall() catalog.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

func (f *fakeCatalog) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

var errCatalogDown = errors.New("connection refused")

// sampleReferences is a small three-level tree:
// men > shirts > {oxford, polo}; men > shoes > boots; women > dresses > maxi.
func sampleReferences() models.CategoryReferences {
	return models.CategoryReferences{
		Level1: []models.Category1{
			{ID: "men", Label: "Men", IsEnabled: true},
			{ID: "women", Label: "Women", IsEnabled: true},
		},
		Level2: []models.Category2{
			{ID: "shirts", Label: "Shirts", Cat1: "men"},
			{ID: "shoes", Label: "Shoes", Cat1: "men"},
			{ID: "dresses", Label: "Dresses", Cat1: "women"},
		},
		Level3: []models.Category3{
			{ID: "oxford", Label: "Oxford", Cat1: "men", Cat2: "shirts"},
			{ID: "polo", Label: "Polo", Cat1: "men", Cat2: "shirts"},
			{ID: "boots", Label: "Boots", Cat1: "men", Cat2: "shoes"},
			{ID: "maxi", Label: "Maxi", Cat1: "women", Cat2: "dresses"},
		},
	}
}
