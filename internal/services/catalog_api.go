// internal/services/catalog_api.go
package services

import (
	"context"
	"io"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/models"
)

// The controllers depend on these narrow views of the catalog client so tests
// can drive them with in-memory fakes.

type CommodityAPI interface {
	ListCommodities(ctx context.Context, query catalog.ListQuery) (*models.CommodityPage, error)
	GetCommodity(ctx context.Context, slug string) (*models.Product, error)
	AddCommodity(ctx context.Context, payload models.CommodityPayload) (*catalog.SaveResult, error)
	UpdateCommodity(ctx context.Context, payload models.CommodityPayload) (*catalog.SaveResult, error)
	DeleteCommodities(ctx context.Context, ids []string) error
	DeleteAllCommodities(ctx context.Context) error
}

type CategoryAPI interface {
	ListCategory1(ctx context.Context) ([]models.Category1, error)
	ListCategory2(ctx context.Context) ([]models.Category2, error)
	ListCategory3(ctx context.Context) ([]models.Category3, error)
	CreateCategory(ctx context.Context, level models.CategoryLevel, input models.CategoryInput) error
	PatchCategory(ctx context.Context, level models.CategoryLevel, id string, patch models.CategoryPatch) error
	DeleteCategory(ctx context.Context, level models.CategoryLevel, id string) error
}

type BrandAPI interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	AddBrand(ctx context.Context, label string) (*models.Brand, error)
}

type UploadAPI interface {
	UploadCSV(ctx context.Context, filename string, r io.Reader) (int, error)
}

type SessionAPI interface {
	AdminLogin(ctx context.Context, creds catalog.Credentials) (string, error)
	AdminLogout(ctx context.Context) error
}

// CatalogAPI is everything one admin session uses.
type CatalogAPI interface {
	CommodityAPI
	CategoryAPI
	BrandAPI
	UploadAPI
}

var _ CatalogAPI = (*catalog.Client)(nil)
var _ SessionAPI = (*catalog.Client)(nil)
