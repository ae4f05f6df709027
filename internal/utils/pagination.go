// internal/utils/pagination.go
package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	DefaultSortField = "created_at"
)

// PaginationParams is a one-based page request for locally stored listings
// (the audit log). Catalog listings paginate remotely and never use it.
type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
	Search string `json:"search"`
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// GetPaginationParams reads page, limit, sort, order and search from the query
// string, falling back to defaults for anything missing or out of range.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	order := strings.ToLower(c.Query("order"))
	if order != "asc" {
		order = "desc"
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Sort:   c.DefaultQuery("sort", DefaultSortField),
		Order:  order,
		Search: strings.TrimSpace(c.Query("search")),
	}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.Limit)
}

// ApplySort orders by params.Sort when it is one of allowedSortFields, and by
// DefaultSortField otherwise. The column is quoted by gorm.
func ApplySort(db *gorm.DB, params PaginationParams, allowedSortFields []string) *gorm.DB {
	sortField := DefaultSortField
	for _, field := range allowedSortFields {
		if field == params.Sort {
			sortField = field
			break
		}
	}

	return db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: sortField},
		Desc:   params.Order != "asc",
	})
}

// CreatePaginationResult reports at least one page, as the catalog does for
// an empty listing.
func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := 1
	if params.Limit > 0 && total > 0 {
		totalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}

	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
