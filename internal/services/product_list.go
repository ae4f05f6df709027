// internal/services/product_list.go
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/models"
)

var (
	ErrUnsortableColumn = errors.New("column is not sortable")
	ErrInvalidPage      = errors.New("page must be zero or greater")
	ErrInvalidPageSize  = errors.New("page size must be between 1 and 100")
)

const maxPageSize = 100

// PageSizeOptions are the page sizes offered by the table footer.
var PageSizeOptions = []int{5, 10, 25, 50}

// ProductList is the paginated, sortable product table of one admin. Every
// mutation issues exactly one fetch; only the newest fetch may update rows.
type ProductList struct {
	mu         sync.Mutex
	api        CommodityAPI
	cursor     models.ListCursor
	rows       []models.Product
	pagination models.CommodityPagination
	loading    bool
	seq        uint64
	notice     *models.Notice
}

// ProductRow is one table row; Image fills the "Product Image" column.
type ProductRow struct {
	models.Product
	Image string `json:"image"`
}

// ListSnapshot is the table as the dashboard renders it.
type ListSnapshot struct {
	Rows            []ProductRow         `json:"rows"`
	Columns         []models.TableColumn `json:"columns"`
	Total           int64                `json:"total"`
	TotalPages      int                  `json:"total_pages"`
	CurrentPage     int                  `json:"current_page"`
	Cursor          models.ListCursor    `json:"cursor"`
	SortToken       string               `json:"sort_token"`
	PageSizeOptions []int                `json:"page_size_options"`
	Loading         bool                 `json:"loading"`
	ShowSpinner     bool                 `json:"show_spinner"`
	Notice          *models.Notice       `json:"notice,omitempty"`
}

func NewProductList(api CommodityAPI) *ProductList {
	return &ProductList{
		api:    api,
		cursor: models.DefaultListCursor(),
		rows:   []models.Product{},
	}
}

func (l *ProductList) Snapshot() ListSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *ProductList) Cursor() models.ListCursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

func (l *ProductList) SetPage(ctx context.Context, page int) (ListSnapshot, error) {
	if page < 0 {
		return l.Snapshot(), ErrInvalidPage
	}
	return l.mutate(ctx, func(c *models.ListCursor) { c.Page = page })
}

// SetPageSize changes the page size and returns to the first page.
func (l *ProductList) SetPageSize(ctx context.Context, size int) (ListSnapshot, error) {
	if size < 1 || size > maxPageSize {
		return l.Snapshot(), ErrInvalidPageSize
	}
	return l.mutate(ctx, func(c *models.ListCursor) {
		c.PageSize = size
		c.Page = 0
	})
}

// Sort orders by column. The active column flips direction; a new column
// starts ascending. Either way the list returns to the first page.
func (l *ProductList) Sort(ctx context.Context, column string) (ListSnapshot, error) {
	if !models.IsSortableColumn(column) {
		return l.Snapshot(), ErrUnsortableColumn
	}
	return l.mutate(ctx, func(c *models.ListCursor) {
		if c.Column == column {
			if c.Direction == models.SortAsc {
				c.Direction = models.SortDesc
			} else {
				c.Direction = models.SortAsc
			}
		} else {
			c.Column = column
			c.Direction = models.SortAsc
		}
		c.Page = 0
	})
}

func (l *ProductList) Refresh(ctx context.Context) (ListSnapshot, error) {
	return l.mutate(ctx, func(*models.ListCursor) {})
}

// DeleteProduct removes one product and refetches the current page.
func (l *ProductList) DeleteProduct(ctx context.Context, id string) (ListSnapshot, error) {
	if err := l.api.DeleteCommodities(ctx, []string{id}); err != nil {
		l.setNotice(models.NewNotice(models.NoticeError, i18n.KeyProductDeleteFailed))
		return l.Snapshot(), err
	}
	snap, err := l.Refresh(ctx)
	if err == nil {
		l.setNotice(models.NewNotice(models.NoticeSuccess, i18n.KeyProductDeleted))
		snap = l.Snapshot()
	}
	return snap, err
}

// DeleteAll wipes the catalog's products. Used by the actions tab.
func (l *ProductList) DeleteAll(ctx context.Context) (ListSnapshot, error) {
	if err := l.api.DeleteAllCommodities(ctx); err != nil {
		l.setNotice(models.NewNotice(models.NoticeError, i18n.KeyProductDeleteAllFailed))
		return l.Snapshot(), err
	}
	snap, err := l.mutate(ctx, func(c *models.ListCursor) { c.Page = 0 })
	if err == nil {
		l.setNotice(models.NewNotice(models.NoticeSuccess, i18n.KeyProductDeletedAll))
		snap = l.Snapshot()
	}
	return snap, err
}

// mutate applies a cursor change and runs the single fetch for it. A response
// that arrives after a newer fetch was started is dropped.
func (l *ProductList) mutate(ctx context.Context, change func(*models.ListCursor)) (ListSnapshot, error) {
	l.mu.Lock()
	change(&l.cursor)
	l.seq++
	id := l.seq
	l.loading = true
	query := catalog.ListQuery{
		Page:   l.cursor.WirePage(),
		Limit:  l.cursor.PageSize,
		SortBy: l.cursor.SortToken(),
	}
	l.mu.Unlock()

	page, err := l.api.ListCommodities(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()

	if id != l.seq {
		logrus.WithFields(logrus.Fields{
			"request_id": id,
			"latest_id":  l.seq,
		}).Debug("Discarding superseded product list response")
		return l.snapshotLocked(), nil
	}

	l.loading = false
	if err != nil {
		l.notice = models.NewNotice(models.NoticeError, i18n.KeyProductListFailed)
		logrus.WithError(err).WithFields(logrus.Fields{
			"page":   query.Page,
			"limit":  query.Limit,
			"sortby": query.SortBy,
		}).Error("Failed to fetch products")
		return l.snapshotLocked(), err
	}

	l.rows = page.Commodities
	l.pagination = page.Pagination
	l.notice = nil
	return l.snapshotLocked(), nil
}

func (l *ProductList) setNotice(n *models.Notice) {
	l.mu.Lock()
	l.notice = n
	l.mu.Unlock()
}

func (l *ProductList) snapshotLocked() ListSnapshot {
	rows := make([]ProductRow, len(l.rows))
	for i := range l.rows {
		rows[i] = ProductRow{Product: l.rows[i], Image: l.rows[i].Thumbnail()}
	}
	return ListSnapshot{
		Rows:            rows,
		Columns:         models.ProductTableColumns,
		Total:           l.pagination.TotalCommodities,
		TotalPages:      l.pagination.TotalPages,
		CurrentPage:     l.pagination.CurrentPage,
		Cursor:          l.cursor,
		SortToken:       l.cursor.SortToken(),
		PageSizeOptions: PageSizeOptions,
		Loading:         l.loading,
		ShowSpinner:     l.loading && len(l.rows) == 0,
		Notice:          l.notice,
	}
}
