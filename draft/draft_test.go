package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pancsta/recipai/fail"
)

func TestTrackerOrder(t *testing.T) {
	var tr Tracker
	assert.Equal(t, ItemNone, tr.Next())
	assert.False(t, tr.Pending())

	// ingredients come first no matter the request order
	tr.Request(ItemMethod)
	tr.Request(ItemIngredients)
	assert.Equal(t, ItemIngredients, tr.Next())

	assert.NoError(t, tr.MarkDone(ItemIngredients))
	assert.Equal(t, ItemMethod, tr.Next())

	assert.NoError(t, tr.MarkDone(ItemMethod))
	assert.Equal(t, ItemNone, tr.Next())
	assert.False(t, tr.Pending())
}

func TestTrackerMarkDoneNotPending(t *testing.T) {
	var tr Tracker
	err := tr.MarkDone(ItemIngredients)
	assert.True(t, fail.IsTransition(err))

	tr.Request(ItemIngredients)
	assert.NoError(t, tr.MarkDone(ItemIngredients))
	// twice is a breach
	err = tr.MarkDone(ItemIngredients)
	assert.True(t, fail.IsTransition(err))
}

func TestRecipeIngredients(t *testing.T) {
	var r Recipe
	r.AddIngredients([]string{"Tomato", " onion ", "tomato", ""})

	assert.Equal(t, []string{"tomato", "onion"}, r.Ingredients())
	assert.True(t, r.HasIngredients())
}

func TestRecipeMethod(t *testing.T) {
	var r Recipe
	assert.False(t, r.HasMethod())

	r.AppendMethod("Boil the pasta.")
	r.AppendMethod("  ")
	r.AppendMethod("Mix with the sauce.")
	assert.Equal(t, "Boil the pasta.\nMix with the sauce.", r.Method())

	r.PhotoIDs = []string{"file1"}
	r.DiscardMethod()
	assert.False(t, r.HasMethod())
	assert.Empty(t, r.PhotoIDs)
}
