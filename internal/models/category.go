// internal/models/category.go
package models

import (
	"encoding/json"
	"fmt"
)

type CategoryLevel int

const (
	CategoryLevel1 CategoryLevel = 1
	CategoryLevel2 CategoryLevel = 2
	CategoryLevel3 CategoryLevel = 3
)

func ParseCategoryLevel(s string) (CategoryLevel, error) {
	switch s {
	case "1", "cat1", "category1":
		return CategoryLevel1, nil
	case "2", "cat2", "category2":
		return CategoryLevel2, nil
	case "3", "cat3", "category3":
		return CategoryLevel3, nil
	}
	return 0, fmt.Errorf("unknown category level %q", s)
}

// Path is the catalog endpoint serving the level.
func (l CategoryLevel) Path() string {
	return fmt.Sprintf("/apiCat%d", int(l))
}

// Category1 is a top-level category. Only this level can be disabled.
type Category1 struct {
	ID        string `json:"_id"`
	Label     string `json:"label"`
	IsEnabled bool   `json:"isEnabled"`
}

// UnmarshalJSON treats a missing isEnabled as enabled.
func (c *Category1) UnmarshalJSON(data []byte) error {
	type plain Category1
	aux := struct {
		*plain
		IsEnabled *bool `json:"isEnabled"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.IsEnabled = aux.IsEnabled == nil || *aux.IsEnabled
	return nil
}

// EnabledCategory1 filters out disabled top-level categories.
func EnabledCategory1(list []Category1) []Category1 {
	out := make([]Category1, 0, len(list))
	for _, c := range list {
		if c.IsEnabled {
			out = append(out, c)
		}
	}
	return out
}

type Category2 struct {
	ID    string `json:"_id"`
	Label string `json:"label"`
	Cat1  RefID  `json:"cat1"`
}

type Category3 struct {
	ID    string `json:"_id"`
	Label string `json:"label"`
	Cat1  RefID  `json:"cat1"`
	Cat2  RefID  `json:"cat2"`
}

// CategoryReferences is the full reference data used by cascading selectors.
type CategoryReferences struct {
	Level1 []Category1 `json:"level1"`
	Level2 []Category2 `json:"level2"`
	Level3 []Category3 `json:"level3"`
}

// CategoryInput creates a category; Cat1/Cat2 are required for deeper levels.
type CategoryInput struct {
	Label string `json:"label" validate:"required,min=1,max=100"`
	Cat1  string `json:"cat1,omitempty"`
	Cat2  string `json:"cat2,omitempty"`
}

// CategoryPatch is a partial update. Exactly one field is normally set.
type CategoryPatch struct {
	IsEnabled *bool   `json:"isEnabled,omitempty"`
	Cat1      *string `json:"cat1,omitempty"`
	Cat2      *string `json:"cat2,omitempty"`
}
