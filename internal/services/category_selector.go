// internal/services/category_selector.go
package services

import (
	"errors"
	"sync"

	"github.com/javajoker/commodity-admin/internal/models"
)

type SelectorPhase string

const (
	// PhaseHydrating holds a triple loaded from an existing product. No
	// descendant is cleared while in this phase.
	PhaseHydrating   SelectorPhase = "hydrating"
	PhaseInteractive SelectorPhase = "interactive"
)

var (
	ErrParentNotSelected = errors.New("parent category not selected")
	ErrUnknownOption     = errors.New("category option does not belong to the current parent")
)

// CategorySelector is the three-level cascading category state machine.
type CategorySelector struct {
	mu     sync.RWMutex
	phase  SelectorPhase
	triple models.CategoryTriple
	refs   *models.CategoryReferences
}

// SelectorState is a read-only snapshot including the derived option lists.
type SelectorState struct {
	Phase        SelectorPhase         `json:"phase"`
	Selection    models.CategoryTriple `json:"selection"`
	MainOptions  []models.Category1    `json:"main_options"`
	SubOptions   []models.Category2    `json:"sub_options"`
	ThirdOptions []models.Category3    `json:"third_options"`
	SubEnabled   bool                  `json:"sub_enabled"`
	ThirdEnabled bool                  `json:"third_enabled"`
	Loaded       bool                  `json:"references_loaded"`
}

func NewCategorySelector() *CategorySelector {
	return &CategorySelector{phase: PhaseInteractive}
}

// Hydrate loads an existing product's triple and enters the hydrating phase.
func (s *CategorySelector) Hydrate(triple models.CategoryTriple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseHydrating
	s.triple = triple
}

// MarkInteractive ends hydration. The hydrated triple is kept as is.
func (s *CategorySelector) MarkInteractive() {
	s.mu.Lock()
	s.phase = PhaseInteractive
	s.mu.Unlock()
}

func (s *CategorySelector) Phase() SelectorPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// SetReferences replaces the backing reference lists. While interactive, a
// selection no longer present in the lists is cleared with its descendants.
func (s *CategorySelector) SetReferences(refs models.CategoryReferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := models.CategoryReferences{
		Level1: append([]models.Category1{}, refs.Level1...),
		Level2: append([]models.Category2{}, refs.Level2...),
		Level3: append([]models.Category3{}, refs.Level3...),
	}
	s.refs = &cp

	if s.phase == PhaseHydrating {
		return
	}

	t := s.triple
	if t.Main != "" && !containsMain(cp.Level1, t.Main) {
		s.triple = models.CategoryTriple{}
		return
	}
	if t.Sub != "" && !containsSub(s.subOptionsLocked(), t.Sub) {
		s.triple.Sub, s.triple.Third = "", ""
		return
	}
	if t.Third != "" && !containsThird(s.thirdOptionsLocked(), t.Third) {
		s.triple.Third = ""
	}
}

func (s *CategorySelector) SelectMain(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.refs != nil && !containsMain(s.refs.Level1, id) {
		return ErrUnknownOption
	}
	s.phase = PhaseInteractive
	s.triple = models.CategoryTriple{Main: id}
	return nil
}

func (s *CategorySelector) SelectSub(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.triple.Main == "" {
		return ErrParentNotSelected
	}
	if id != "" && s.refs != nil && !containsSub(s.subOptionsLocked(), id) {
		return ErrUnknownOption
	}
	s.phase = PhaseInteractive
	s.triple.Sub = id
	s.triple.Third = ""
	return nil
}

func (s *CategorySelector) SelectThird(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.triple.Sub == "" {
		return ErrParentNotSelected
	}
	if id != "" && s.refs != nil && !containsThird(s.thirdOptionsLocked(), id) {
		return ErrUnknownOption
	}
	s.phase = PhaseInteractive
	s.triple.Third = id
	return nil
}

func (s *CategorySelector) Selection() models.CategoryTriple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.triple
}

func (s *CategorySelector) SubOptions() []models.Category2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subOptionsLocked()
}

func (s *CategorySelector) ThirdOptions() []models.Category3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thirdOptionsLocked()
}

func (s *CategorySelector) State() SelectorState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SelectorState{
		Phase:        s.phase,
		Selection:    s.triple,
		MainOptions:  []models.Category1{},
		SubOptions:   s.subOptionsLocked(),
		ThirdOptions: s.thirdOptionsLocked(),
		SubEnabled:   s.triple.Main != "",
		ThirdEnabled: s.triple.Sub != "",
		Loaded:       s.refs != nil,
	}
	if s.refs != nil {
		state.MainOptions = append(state.MainOptions, s.refs.Level1...)
	}
	return state
}

func (s *CategorySelector) subOptionsLocked() []models.Category2 {
	out := []models.Category2{}
	if s.refs == nil || s.triple.Main == "" {
		return out
	}
	for _, c := range s.refs.Level2 {
		if c.Cat1.String() == s.triple.Main {
			out = append(out, c)
		}
	}
	return out
}

func (s *CategorySelector) thirdOptionsLocked() []models.Category3 {
	out := []models.Category3{}
	if s.refs == nil || s.triple.Sub == "" {
		return out
	}
	for _, c := range s.refs.Level3 {
		if c.Cat2.String() == s.triple.Sub {
			out = append(out, c)
		}
	}
	return out
}

func containsMain(list []models.Category1, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

func containsSub(list []models.Category2, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

func containsThird(list []models.Category3, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}
