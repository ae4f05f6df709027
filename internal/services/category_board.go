// internal/services/category_board.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/models"
)

var (
	ErrNotToggleable    = errors.New("only top-level categories can be enabled or disabled")
	ErrUnknownCategory  = errors.New("category not found")
	ErrInvalidParent    = errors.New("invalid parent field for category level")
	ErrMissingParent    = errors.New("parent category is required")
	ErrToggleInProgress = errors.New("category status change already in progress")
)

// CategoryBoard is one admin's category administration view: the three lists,
// the enable switches of level 1, and the parent picker of the create form.
type CategoryBoard struct {
	mu       sync.Mutex
	api      CategoryAPI
	service  *CategoryService
	lists    models.CategoryReferences
	switches map[string]bool
	pending  map[string]bool
	creator  *CategorySelector
}

type BoardState struct {
	Level1   []models.Category1 `json:"level1"`
	Level2   []models.Category2 `json:"level2"`
	Level3   []models.Category3 `json:"level3"`
	Switches map[string]bool    `json:"switches"`
	Pending  []string           `json:"pending,omitempty"`
	// EnabledLevel1 feeds the parent picker of the level-2 create form.
	EnabledLevel1 []models.Category1 `json:"enabled_level1"`
	CreateForm    SelectorState      `json:"create_form"`
}

type ReparentRequest struct {
	Field    string `json:"field" validate:"required,oneof=cat1 cat2"`
	ParentID string `json:"parent_id" validate:"required"`
}

type ToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type CreateParentsRequest struct {
	Cat1 string `json:"cat1"`
	Cat2 string `json:"cat2"`
}

func NewCategoryBoard(api CategoryAPI, service *CategoryService) *CategoryBoard {
	return &CategoryBoard{
		api:      api,
		service:  service,
		switches: make(map[string]bool),
		pending:  make(map[string]bool),
		creator:  NewCategorySelector(),
	}
}

// Load refreshes the lists from the catalog (through the cache).
func (b *CategoryBoard) Load(ctx context.Context) (BoardState, error) {
	refs, err := b.service.References(ctx, b.api)
	if err != nil {
		return b.State(), err
	}

	b.mu.Lock()
	b.lists = refs
	b.switches = make(map[string]bool, len(refs.Level1))
	for _, c := range refs.Level1 {
		b.switches[c.ID] = c.IsEnabled
	}
	b.mu.Unlock()

	b.creator.SetReferences(refs)
	return b.State(), nil
}

func (b *CategoryBoard) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := BoardState{
		Level1:        append([]models.Category1{}, b.lists.Level1...),
		Level2:        append([]models.Category2{}, b.lists.Level2...),
		Level3:        append([]models.Category3{}, b.lists.Level3...),
		Switches:      make(map[string]bool, len(b.switches)),
		EnabledLevel1: models.EnabledCategory1(b.lists.Level1),
		CreateForm:    b.creator.State(),
	}
	for id, on := range b.switches {
		state.Switches[id] = on
	}
	for id := range b.pending {
		state.Pending = append(state.Pending, id)
	}
	return state
}

// ToggleEnabled flips a level-1 switch optimistically. If the catalog rejects
// the change the switch returns to its previous value and the error is
// returned for the caller to report.
func (b *CategoryBoard) ToggleEnabled(ctx context.Context, id string, enabled bool) (BoardState, error) {
	b.mu.Lock()
	previous, ok := b.switches[id]
	if !ok {
		b.mu.Unlock()
		return b.State(), ErrUnknownCategory
	}
	if b.pending[id] {
		b.mu.Unlock()
		return b.State(), ErrToggleInProgress
	}
	b.switches[id] = enabled
	b.pending[id] = true
	b.mu.Unlock()

	err := b.api.PatchCategory(ctx, models.CategoryLevel1, id, models.CategoryPatch{IsEnabled: &enabled})

	b.mu.Lock()
	delete(b.pending, id)
	if err != nil {
		b.switches[id] = previous
	} else {
		for i := range b.lists.Level1 {
			if b.lists.Level1[i].ID == id {
				b.lists.Level1[i].IsEnabled = enabled
			}
		}
	}
	b.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"category_id": id,
			"enabled":     enabled,
		}).Warn("Category toggle reverted")
		return b.State(), err
	}

	b.service.Invalidate(ctx)
	return b.State(), nil
}

// SelectCreateParents drives the parent picker used when creating a level-3
// category: sub options are filtered by the chosen cat1.
func (b *CategoryBoard) SelectCreateParents(req CreateParentsRequest) (SelectorState, error) {
	if err := b.creator.SelectMain(req.Cat1); err != nil {
		return b.creator.State(), err
	}
	if req.Cat2 != "" {
		if err := b.creator.SelectSub(req.Cat2); err != nil {
			return b.creator.State(), err
		}
	}
	return b.creator.State(), nil
}

func (b *CategoryBoard) Create(ctx context.Context, level models.CategoryLevel, input models.CategoryInput) (BoardState, error) {
	input.Label = strings.TrimSpace(input.Label)
	switch level {
	case models.CategoryLevel2:
		if input.Cat1 == "" {
			return b.State(), ErrMissingParent
		}
	case models.CategoryLevel3:
		if input.Cat1 == "" || input.Cat2 == "" {
			sel := b.creator.Selection()
			if input.Cat1 == "" {
				input.Cat1 = sel.Main
			}
			if input.Cat2 == "" {
				input.Cat2 = sel.Sub
			}
		}
		if input.Cat1 == "" || input.Cat2 == "" {
			return b.State(), ErrMissingParent
		}
	}

	if err := b.api.CreateCategory(ctx, level, input); err != nil {
		return b.State(), err
	}
	if level == models.CategoryLevel3 {
		b.creator.SelectMain("")
	}
	return b.afterMutation(ctx)
}

// Reparent moves a level-2 category under another cat1, or changes the cat1 or
// cat2 reference of a level-3 category.
func (b *CategoryBoard) Reparent(ctx context.Context, level models.CategoryLevel, id string, req ReparentRequest) (BoardState, error) {
	var patch models.CategoryPatch
	parent := req.ParentID
	switch {
	case level == models.CategoryLevel2 && req.Field == "cat1":
		patch.Cat1 = &parent
	case level == models.CategoryLevel3 && req.Field == "cat1":
		patch.Cat1 = &parent
	case level == models.CategoryLevel3 && req.Field == "cat2":
		patch.Cat2 = &parent
	default:
		return b.State(), fmt.Errorf("%w: level %d field %q", ErrInvalidParent, level, req.Field)
	}

	if err := b.api.PatchCategory(ctx, level, id, patch); err != nil {
		return b.State(), err
	}
	return b.afterMutation(ctx)
}

func (b *CategoryBoard) Delete(ctx context.Context, level models.CategoryLevel, id string) (BoardState, error) {
	if err := b.api.DeleteCategory(ctx, level, id); err != nil {
		return b.State(), err
	}
	return b.afterMutation(ctx)
}

func (b *CategoryBoard) afterMutation(ctx context.Context) (BoardState, error) {
	b.service.Invalidate(ctx)
	return b.Load(ctx)
}
