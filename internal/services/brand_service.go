// internal/services/brand_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/models"
)

var ErrEmptyBrandLabel = errors.New("brand label is required")

type BrandService struct {
	cache ReferenceCache
}

type CreateBrandRequest struct {
	Label string `json:"label" validate:"required,min=1,max=100"`
}

func NewBrandService(cache ReferenceCache) *BrandService {
	return &BrandService{cache: cache}
}

func (s *BrandService) List(ctx context.Context, api BrandAPI) ([]models.Brand, error) {
	var brands []models.Brand
	if hit, err := s.cache.Get(ctx, CacheKeyBrands, &brands); err != nil {
		logrus.WithError(err).Warn("Brand cache read failed")
	} else if hit {
		return brands, nil
	}

	brands, err := api.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load brands: %w", err)
	}
	if err := s.cache.Set(ctx, CacheKeyBrands, brands); err != nil {
		logrus.WithError(err).Warn("Brand cache write failed")
	}
	return brands, nil
}

// Create adds a brand through the catalog. An existing brand with the same
// label (case-insensitive) is returned instead of creating a duplicate.
func (s *BrandService) Create(ctx context.Context, api BrandAPI, label string) (*models.Brand, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyBrandLabel
	}

	if brands, err := s.List(ctx, api); err == nil {
		for _, b := range brands {
			if strings.EqualFold(b.Label, label) {
				return &b, nil
			}
		}
	}

	brand, err := api.AddBrand(ctx, label)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, CacheKeyBrands); err != nil {
		logrus.WithError(err).Warn("Brand cache invalidation failed")
	}

	logrus.WithFields(logrus.Fields{
		"brand_id": brand.ID,
		"label":    brand.Label,
	}).Info("Brand created")
	return brand, nil
}
