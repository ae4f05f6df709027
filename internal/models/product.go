// internal/models/product.go
package models

import (
	"strings"
	"time"
)

// Product is a commodity record as served by the catalog service.
type Product struct {
	ID          string     `json:"_id,omitempty"`
	SKU         string     `json:"sku,omitempty"`
	Slug        string     `json:"slug,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Brand       RefID      `json:"brand"`
	Category1   RefID      `json:"category1"`
	Category2   RefID      `json:"category2"`
	Category3   RefID      `json:"category3"`
	Variants    []Variant  `json:"variants"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Thumbnail is the first image of the first variant that has one.
func (p *Product) Thumbnail() string {
	for _, v := range p.Variants {
		if len(v.Images) > 0 {
			return v.Images[0]
		}
	}
	return ""
}

type Variant struct {
	Size   []string `json:"size"`
	Color  string   `json:"color"`
	Images []string `json:"images"`
	Stock  float64  `json:"stock"`
	Price  float64  `json:"price"`
}

func EmptyVariant() Variant {
	return Variant{
		Size:   []string{},
		Images: []string{},
	}
}

func (v Variant) Clone() Variant {
	out := v
	out.Size = append([]string{}, v.Size...)
	out.Images = append([]string{}, v.Images...)
	return out
}

// NormalizeSizes upper-cases sizes and drops blanks and duplicates, keeping
// first-seen order.
func NormalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	seen := make(map[string]struct{}, len(sizes))
	for _, s := range sizes {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// CategoryTriple is the three-level category reference of a product.
type CategoryTriple struct {
	Main  string `json:"main"`
	Sub   string `json:"sub"`
	Third string `json:"third"`
}

// ProductDraft is the in-memory editable copy of one product.
type ProductDraft struct {
	ID          string         `json:"id,omitempty"`
	SKU         string         `json:"sku"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Brand       string         `json:"brand"`
	Category    CategoryTriple `json:"category"`
	Variants    []Variant      `json:"variants"`
}

func BlankDraft() ProductDraft {
	return ProductDraft{Variants: []Variant{EmptyVariant()}}
}

// DraftFromProduct copies a fetched product into a draft. A product without
// variants gets one blank variant so the draft invariant holds.
func DraftFromProduct(p *Product) ProductDraft {
	d := ProductDraft{
		ID:          p.ID,
		SKU:         p.SKU,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand.String(),
		Category: CategoryTriple{
			Main:  p.Category1.String(),
			Sub:   p.Category2.String(),
			Third: p.Category3.String(),
		},
	}
	for _, v := range p.Variants {
		v = v.Clone()
		v.Size = NormalizeSizes(v.Size)
		d.Variants = append(d.Variants, v)
	}
	if len(d.Variants) == 0 {
		d.Variants = []Variant{EmptyVariant()}
	}
	return d
}

func (d ProductDraft) Clone() ProductDraft {
	out := d
	out.Variants = make([]Variant, len(d.Variants))
	for i, v := range d.Variants {
		out.Variants[i] = v.Clone()
	}
	return out
}

// CommodityPayload is the body of addCommodity/updateCommodity. ID is only
// sent on update.
type CommodityPayload struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Brand       RefID     `json:"brand"`
	Category1   RefID     `json:"category1"`
	Category2   RefID     `json:"category2"`
	Category3   RefID     `json:"category3"`
	Variants    []Variant `json:"variants"`
}

func (d ProductDraft) Payload() CommodityPayload {
	return CommodityPayload{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Brand:       RefID(d.Brand),
		Category1:   RefID(d.Category.Main),
		Category2:   RefID(d.Category.Sub),
		Category3:   RefID(d.Category.Third),
		Variants:    d.Clone().Variants,
	}
}

// Color is an entry of the fixed color master list.
type Color struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Hex   string `json:"hex"`
}

var Colors = []Color{
	{ID: "black", Label: "Black", Hex: "#000000"},
	{ID: "white", Label: "White", Hex: "#FFFFFF"},
	{ID: "red", Label: "Red", Hex: "#D32F2F"},
	{ID: "blue", Label: "Blue", Hex: "#1976D2"},
	{ID: "navy", Label: "Navy", Hex: "#1A237E"},
	{ID: "green", Label: "Green", Hex: "#388E3C"},
	{ID: "yellow", Label: "Yellow", Hex: "#FBC02D"},
	{ID: "grey", Label: "Grey", Hex: "#9E9E9E"},
	{ID: "brown", Label: "Brown", Hex: "#6D4C41"},
	{ID: "pink", Label: "Pink", Hex: "#EC407A"},
}

// ResolveColor maps an id or label onto the color list. Unknown values are
// kept as raw strings.
func ResolveColor(value string) string {
	value = strings.TrimSpace(value)
	for _, c := range Colors {
		if strings.EqualFold(c.ID, value) || strings.EqualFold(c.Label, value) {
			return c.ID
		}
	}
	return value
}
