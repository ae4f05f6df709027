package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/commodity-admin/internal/models"
)

func optionIDs2(list []models.Category2) []string {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids
}

func optionIDs3(list []models.Category3) []string {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSelectMainClearsDescendants(t *testing.T) {
	refs := sampleReferences()
	triples := []models.CategoryTriple{
		{},
		{Main: "men"},
		{Main: "men", Sub: "shirts"},
		{Main: "men", Sub: "shirts", Third: "polo"},
		{Main: "women", Sub: "dresses", Third: "maxi"},
	}

	for _, start := range triples {
		for _, main := range []string{"men", "women"} {
			s := NewCategorySelector()
			s.SetReferences(refs)
			if start.Main != "" {
				require.NoError(t, s.SelectMain(start.Main))
			}
			if start.Sub != "" {
				require.NoError(t, s.SelectSub(start.Sub))
			}
			if start.Third != "" {
				require.NoError(t, s.SelectThird(start.Third))
			}

			require.NoError(t, s.SelectMain(main))
			assert.Equal(t, models.CategoryTriple{Main: main}, s.Selection(), "from %+v", start)
		}
	}
}

func TestSelectRequiresParent(t *testing.T) {
	s := NewCategorySelector()
	s.SetReferences(sampleReferences())

	assert.ErrorIs(t, s.SelectSub("shirts"), ErrParentNotSelected)
	assert.ErrorIs(t, s.SelectThird("polo"), ErrParentNotSelected)

	require.NoError(t, s.SelectMain("men"))
	assert.ErrorIs(t, s.SelectThird("polo"), ErrParentNotSelected)

	state := s.State()
	assert.True(t, state.SubEnabled)
	assert.False(t, state.ThirdEnabled)
}

func TestSelectSubResetsThird(t *testing.T) {
	s := NewCategorySelector()
	s.SetReferences(sampleReferences())
	require.NoError(t, s.SelectMain("men"))
	require.NoError(t, s.SelectSub("shirts"))
	require.NoError(t, s.SelectThird("oxford"))

	require.NoError(t, s.SelectSub("shoes"))
	assert.Equal(t, models.CategoryTriple{Main: "men", Sub: "shoes"}, s.Selection())
}

func TestOptionsFollowSelection(t *testing.T) {
	s := NewCategorySelector()
	s.SetReferences(sampleReferences())

	assert.Empty(t, s.SubOptions())

	require.NoError(t, s.SelectMain("men"))
	assert.Equal(t, []string{"shirts", "shoes"}, optionIDs2(s.SubOptions()))

	require.NoError(t, s.SelectSub("shirts"))
	assert.Equal(t, []string{"oxford", "polo"}, optionIDs3(s.ThirdOptions()))

	require.NoError(t, s.SelectMain("women"))
	assert.Equal(t, []string{"dresses"}, optionIDs2(s.SubOptions()))
	assert.Empty(t, s.ThirdOptions())
}

func TestSelectRejectsForeignOption(t *testing.T) {
	s := NewCategorySelector()
	s.SetReferences(sampleReferences())
	require.NoError(t, s.SelectMain("women"))

	assert.ErrorIs(t, s.SelectSub("shirts"), ErrUnknownOption)
	assert.Equal(t, models.CategoryTriple{Main: "women"}, s.Selection())
}

func TestOptionsRecomputedWhenReferencesArriveLate(t *testing.T) {
	s := NewCategorySelector()
	require.NoError(t, s.SelectMain("men"))
	assert.Empty(t, s.SubOptions())

	s.SetReferences(sampleReferences())
	assert.Equal(t, []string{"shirts", "shoes"}, optionIDs2(s.SubOptions()))
}

func TestHydrationPreservesTriple(t *testing.T) {
	initial := models.CategoryTriple{Main: "men", Sub: "shirts", Third: "polo"}

	s := NewCategorySelector()
	s.Hydrate(initial)
	assert.Equal(t, PhaseHydrating, s.Phase())

	// Partial references first, then the full set.
	s.SetReferences(models.CategoryReferences{Level1: sampleReferences().Level1})
	assert.Equal(t, initial, s.Selection())

	s.SetReferences(sampleReferences())
	s.MarkInteractive()
	assert.Equal(t, initial, s.Selection())
	assert.Equal(t, PhaseInteractive, s.Phase())
	assert.Equal(t, []string{"oxford", "polo"}, optionIDs3(s.ThirdOptions()))
}

func TestHydrationKeepsSelectionMissingFromReferences(t *testing.T) {
	initial := models.CategoryTriple{Main: "retired", Sub: "gone", Third: "old"}

	s := NewCategorySelector()
	s.Hydrate(initial)
	s.SetReferences(sampleReferences())
	s.MarkInteractive()

	assert.Equal(t, initial, s.Selection())
}

func TestUserSelectionEndsHydration(t *testing.T) {
	s := NewCategorySelector()
	s.Hydrate(models.CategoryTriple{Main: "men", Sub: "shirts", Third: "polo"})

	require.NoError(t, s.SelectSub("shoes"))
	assert.Equal(t, PhaseInteractive, s.Phase())
	assert.Equal(t, models.CategoryTriple{Main: "men", Sub: "shoes"}, s.Selection())
}

func TestInteractiveRefreshClearsRemovedSelection(t *testing.T) {
	s := NewCategorySelector()
	s.SetReferences(sampleReferences())
	require.NoError(t, s.SelectMain("men"))
	require.NoError(t, s.SelectSub("shirts"))
	require.NoError(t, s.SelectThird("polo"))

	refs := sampleReferences()
	refs.Level2 = []models.Category2{{ID: "shoes", Label: "Shoes", Cat1: "men"}}
	s.SetReferences(refs)

	assert.Equal(t, models.CategoryTriple{Main: "men"}, s.Selection())
}
