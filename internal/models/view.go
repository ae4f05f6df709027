// internal/models/view.go
package models

// Tab is the dashboard section currently shown.
type Tab string

const (
	TabAllProducts Tab = "all-products"
	TabAddProduct  Tab = "add-new-product"
	TabBulkUpload  Tab = "bulk-upload"
	TabCategory1   Tab = "category1"
	TabCategory2   Tab = "category2"
	TabCategory3   Tab = "category3"
	TabActions     Tab = "actions"
)

func (t Tab) Valid() bool {
	switch t {
	case TabAllProducts, TabAddProduct, TabBulkUpload,
		TabCategory1, TabCategory2, TabCategory3, TabActions:
		return true
	}
	return false
}

type MenuItem struct {
	ID      Tab        `json:"id,omitempty"`
	Group   string     `json:"group,omitempty"`
	Label   string     `json:"label"`
	Icon    string     `json:"icon"`
	Options []MenuItem `json:"options,omitempty"`
}

var SidebarMenu = []MenuItem{
	{ID: TabAllProducts, Label: "All Products", Icon: "dynamic-form"},
	{ID: TabAddProduct, Label: "Add New Product", Icon: "add"},
	{ID: TabBulkUpload, Label: "Bulk Upload", Icon: "sticky-note"},
	{
		Group: "categories",
		Label: "Categories",
		Icon:  "apps",
		Options: []MenuItem{
			{ID: TabCategory1, Label: "Category 1", Icon: "signal-1"},
			{ID: TabCategory2, Label: "Category 2", Icon: "signal-2"},
			{ID: TabCategory3, Label: "Category 3", Icon: "signal-3"},
		},
	},
	{ID: TabActions, Label: "Actions", Icon: "settings"},
}

// ViewState is the explicit top-level UI state of one admin workspace.
type ViewState struct {
	Tab          Tab  `json:"tab"`
	CategoryOpen bool `json:"category_open"`
}

func DefaultViewState() ViewState {
	return ViewState{Tab: TabAllProducts}
}
