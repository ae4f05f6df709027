// internal/services/category_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/models"
)

// CategoryService serves the three category reference lists through the
// shared reference cache.
type CategoryService struct {
	cache ReferenceCache
}

func NewCategoryService(cache ReferenceCache) *CategoryService {
	return &CategoryService{cache: cache}
}

func (s *CategoryService) References(ctx context.Context, api CategoryAPI) (models.CategoryReferences, error) {
	var refs models.CategoryReferences
	if hit, err := s.cache.Get(ctx, CacheKeyCategories, &refs); err != nil {
		logrus.WithError(err).Warn("Category cache read failed")
	} else if hit {
		return refs, nil
	}

	level1, err := api.ListCategory1(ctx)
	if err != nil {
		return refs, fmt.Errorf("failed to load category level 1: %w", err)
	}
	level2, err := api.ListCategory2(ctx)
	if err != nil {
		return refs, fmt.Errorf("failed to load category level 2: %w", err)
	}
	level3, err := api.ListCategory3(ctx)
	if err != nil {
		return refs, fmt.Errorf("failed to load category level 3: %w", err)
	}

	refs = models.CategoryReferences{Level1: level1, Level2: level2, Level3: level3}
	if err := s.cache.Set(ctx, CacheKeyCategories, refs); err != nil {
		logrus.WithError(err).Warn("Category cache write failed")
	}
	return refs, nil
}

// Invalidate drops cached category lists. Called after every category mutation.
func (s *CategoryService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, CacheKeyCategories); err != nil {
		logrus.WithError(err).Warn("Category cache invalidation failed")
	}
}
