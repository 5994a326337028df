package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDeterministic(t *testing.T) {
	a := Plan(7, 10)
	b := Plan(7, 10)
	assert.Equal(t, a, b)
}

func TestPlanPageCountBound(t *testing.T) {
	for _, numProducts := range []int{3, 5, 9, 20} {
		for _, maxPages := range []int{4, 8, 10, 12} {
			entries := Plan(numProducts, maxPages)
			assert.LessOrEqual(t, len(entries), maxPages-2,
				"products=%d maxPages=%d", numProducts, maxPages)
		}
	}
}

func TestPlanProductIndexInRange(t *testing.T) {
	for _, numProducts := range []int{1, 2, 3, 5, 12} {
		for _, entry := range Plan(numProducts, 10) {
			assert.GreaterOrEqual(t, entry.ProductIndex, 0)
			assert.Less(t, entry.ProductIndex, numProducts)
		}
	}
}

func TestPlanFiveProductsTenPages(t *testing.T) {
	entries := Plan(5, 10)
	require.Len(t, entries, 8)

	wantLayouts := []LayoutKind{
		LayoutCollage, LayoutCollage, LayoutCollage, LayoutCollage,
		LayoutFabricCloseup,
		LayoutSingleFront, LayoutSingleBack, LayoutSingleFront,
	}
	wantProducts := []int{0, 1, 2, 3, 4, 0, 0, 1}
	for i, entry := range entries {
		assert.Equal(t, wantLayouts[i], entry.Layout, "entry %d layout", i)
		assert.Equal(t, wantProducts[i], entry.ProductIndex, "entry %d product", i)
		assert.Equal(t, i+1, entry.PageNumber, "entry %d page number", i)
	}
}

func TestPlanSmallCatalogs(t *testing.T) {
	one := Plan(1, 10)
	require.Len(t, one, 2)
	assert.Equal(t, LayoutCollage, one[0].Layout)
	assert.Equal(t, LayoutFabricCloseup, one[1].Layout)

	two := Plan(2, 10)
	require.Len(t, two, 3)
	assert.Equal(t, LayoutCollage, two[0].Layout)
	assert.Equal(t, 0, two[0].ProductIndex)
	assert.Equal(t, LayoutCollage, two[1].Layout)
	assert.Equal(t, 1, two[1].ProductIndex)
	assert.Equal(t, LayoutFabricCloseup, two[2].Layout)
}

func TestPlanCollageCyclingWhenBudgetExceedsProducts(t *testing.T) {
	// Three products with the default budget: four collages cycle back to
	// product 0, fabric close-up lands on product 4%3=1.
	entries := Plan(3, 10)
	require.GreaterOrEqual(t, len(entries), 5)
	assert.Equal(t, []int{0, 1, 2, 0}, []int{
		entries[0].ProductIndex, entries[1].ProductIndex,
		entries[2].ProductIndex, entries[3].ProductIndex,
	})
	assert.Equal(t, LayoutFabricCloseup, entries[4].Layout)
	assert.Equal(t, 1, entries[4].ProductIndex)
}

func TestPlanTinyBudget(t *testing.T) {
	assert.Nil(t, Plan(5, 2), "no room for content pages")
	assert.Nil(t, Plan(5, 1))
	assert.Nil(t, Plan(0, 10))

	three := Plan(5, 5)
	require.Len(t, three, 3)
	for _, entry := range three {
		assert.Equal(t, LayoutCollage, entry.Layout)
	}
}

func TestPlanStyleFieldsCycle(t *testing.T) {
	entries := Plan(5, 10)
	for _, entry := range entries {
		assert.NotEmpty(t, entry.Pose)
		assert.NotEmpty(t, entry.Prop)
		assert.NotEmpty(t, entry.Style)
	}
	assert.NotEqual(t, entries[0].Pose, entries[1].Pose)
}
