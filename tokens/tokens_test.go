package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pancsta/recipai/fail"
)

func TestParseIngredients(t *testing.T) {
	a := New(ModeIngredient)
	a.AddFragment("Tomato, onion\nGarlic")
	a.AddFragment("olive oil; Salt")

	toks, err := a.Parse()
	assert.NoError(t, err)
	assert.Equal(t,
		[]string{"tomato", "onion", "garlic", "olive oil", "salt"}, toks)

	// buffer consumed
	assert.True(t, a.Empty())
	_, err = a.Parse()
	assert.True(t, fail.IsUser(err))
}

func TestParseHashtags(t *testing.T) {
	a := New(ModeHashtag)
	a.AddFragment("  Pasta quick\tDinner ")

	toks, err := a.Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Pasta", "quick", "Dinner"}, toks)
}

func TestParseKeepsRepeats(t *testing.T) {
	a := New(ModeIngredient)
	a.AddFragment("egg, egg,milk")

	toks, err := a.Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"egg", "egg", "milk"}, toks)
}

func TestParseEmpty(t *testing.T) {
	a := New(ModeIngredient)

	_, err := a.Parse()
	assert.True(t, fail.IsUser(err))
	assert.True(t, a.Empty())
}

func TestParseBlankOnly(t *testing.T) {
	a := New(ModeIngredient)
	a.AddFragment(" , ;\n")

	_, err := a.Parse()
	assert.True(t, fail.IsUser(err))

	// not consumed, a retry with real input succeeds
	a.AddFragment("basil")
	toks, err := a.Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"basil"}, toks)
}
