// internal/models/listing.go
package models

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultSortToken is sent while no column has been chosen.
const DefaultSortToken = "whats-new"

const DefaultPageSize = 10

// TableColumn describes one fixed column of the product table.
type TableColumn struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Numeric  bool   `json:"numeric"`
	Sortable bool   `json:"sortable"`
}

var ProductTableColumns = []TableColumn{
	{ID: "sku", Label: "SKU"},
	{ID: "image", Label: "Product Image"},
	{ID: "name", Label: "Product Name", Sortable: true},
	{ID: "category", Label: "Category", Sortable: true},
	{ID: "variants", Label: "Variants"},
	{ID: "actions", Label: "Actions", Numeric: true},
}

func IsSortableColumn(id string) bool {
	for _, c := range ProductTableColumns {
		if c.ID == id {
			return c.Sortable
		}
	}
	return false
}

// ListCursor is the page/sort position of the product list. Page is zero-based.
type ListCursor struct {
	Page      int           `json:"page"`
	PageSize  int           `json:"page_size"`
	Column    string        `json:"column,omitempty"`
	Direction SortDirection `json:"direction"`
}

func DefaultListCursor() ListCursor {
	return ListCursor{Page: 0, PageSize: DefaultPageSize, Direction: SortDesc}
}

// WirePage is the one-based page number the catalog service expects.
func (c ListCursor) WirePage() int {
	return c.Page + 1
}

// SortToken encodes column and direction, e.g. ("name", asc) -> "name-asc".
func (c ListCursor) SortToken() string {
	if c.Column == "" || !IsSortableColumn(c.Column) {
		return DefaultSortToken
	}
	dir := c.Direction
	if dir != SortAsc {
		dir = SortDesc
	}
	return c.Column + "-" + string(dir)
}

type CommodityPagination struct {
	TotalCommodities int64 `json:"totalCommodities"`
	TotalPages       int   `json:"totalPages"`
	CurrentPage      int   `json:"currentPage"`
}

type CommodityPage struct {
	Commodities []Product           `json:"commodities"`
	Pagination  CommodityPagination `json:"pagination"`
}
