// internal/models/brand.go
package models

type Brand struct {
	ID    string `json:"_id"`
	Label string `json:"label"`
}

type BrandChoiceKind string

const (
	BrandExisting   BrandChoiceKind = "existing"
	BrandNewRequest BrandChoiceKind = "new"
	BrandNone       BrandChoiceKind = "none"
)

// BrandChoice is what the brand picker produces: an existing brand id, or a
// request to create a brand with the given label.
type BrandChoice struct {
	Kind  BrandChoiceKind `json:"kind" validate:"required,oneof=existing new none"`
	ID    string          `json:"id,omitempty"`
	Label string          `json:"label,omitempty"`
}

func ExistingBrand(id string) BrandChoice {
	return BrandChoice{Kind: BrandExisting, ID: id}
}

func NewBrandRequest(label string) BrandChoice {
	return BrandChoice{Kind: BrandNewRequest, Label: label}
}
