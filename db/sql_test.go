package db

import (
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"

	"github.com/pancsta/recipai/fail"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestEnsureUser(t *testing.T) {
	s := openTest(t)

	chat := int64(gofakeit.Number(1, 1<<30))
	assert.NoError(t, s.EnsureUser(chat))
	// idempotent
	assert.NoError(t, s.EnsureUser(chat))
}

func TestCreateRecipe(t *testing.T) {
	s := openTest(t)

	r := &Recipe{
		Owner:       7,
		Title:       "carbonara",
		Ingredients: []string{"eggs", "guanciale", "pecorino"},
	}
	assert.NoError(t, s.CreateRecipe(r))
	assert.NotZero(t, r.ID)

	got, err := s.RecipeByID(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, "carbonara", got.Title)
	assert.False(t, got.Public)
	assert.Equal(t, []string{"eggs", "guanciale", "pecorino"},
		got.Ingredients)
}

func TestCreateRecipeSharesIngredients(t *testing.T) {
	s := openTest(t)

	assert.NoError(t, s.CreateRecipe(&Recipe{
		Owner: 7, Title: "carbonara",
		Ingredients: []string{"eggs", "pecorino"},
	}))
	assert.NoError(t, s.CreateRecipe(&Recipe{
		Owner: 7, Title: "cacio e pepe",
		Ingredients: []string{"pecorino", "pepper"},
	}))

	var count int64
	err := s.gorm.Model(&Ingredient{}).
		Where("name = ?", "pecorino").Count(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateRecipeDuplicate(t *testing.T) {
	s := openTest(t)

	assert.NoError(t, s.CreateRecipe(&Recipe{Owner: 7, Title: "ragu"}))

	// same owner and title loses the race
	err := s.CreateRecipe(&Recipe{Owner: 7, Title: "ragu"})
	assert.True(t, fail.IsRace(err))

	// another owner may reuse the title
	assert.NoError(t, s.CreateRecipe(&Recipe{Owner: 8, Title: "ragu"}))
}

func TestTitleAvailable(t *testing.T) {
	s := openTest(t)

	ok, err := s.TitleAvailable(7, "ragu")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, s.CreateRecipe(&Recipe{Owner: 7, Title: "ragu"}))

	ok, err = s.TitleAvailable(7, "ragu")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.TitleAvailable(8, "ragu")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestListRecipeIDs(t *testing.T) {
	s := openTest(t)

	mine := &Recipe{Owner: 7, Title: "private mine"}
	minePub := &Recipe{Owner: 7, Title: "public mine", Public: true}
	other := &Recipe{Owner: 8, Title: "public other", Public: true}
	hidden := &Recipe{Owner: 8, Title: "private other"}
	for _, r := range []*Recipe{mine, minePub, other, hidden} {
		assert.NoError(t, s.CreateRecipe(r))
	}

	ids, err := s.ListRecipeIDs(7, false)
	assert.NoError(t, err)
	assert.Equal(t, []uint{mine.ID, minePub.ID}, ids)

	ids, err = s.ListRecipeIDs(7, true)
	assert.NoError(t, err)
	assert.Equal(t, []uint{minePub.ID, other.ID}, ids)
}

func TestSetPrivacy(t *testing.T) {
	s := openTest(t)

	r := &Recipe{Owner: 7, Title: "ragu"}
	assert.NoError(t, s.CreateRecipe(r))

	assert.NoError(t, s.SetPrivacy(7, r.ID, true))
	got, err := s.RecipeByID(r.ID)
	assert.NoError(t, err)
	assert.True(t, got.Public)

	assert.NoError(t, s.SetPrivacy(7, r.ID, false))
	got, err = s.RecipeByID(r.ID)
	assert.NoError(t, err)
	assert.False(t, got.Public)

	// not the owner
	err = s.SetPrivacy(8, r.ID, true)
	assert.True(t, fail.IsUser(err))
	// unknown recipe
	err = s.SetPrivacy(7, 999, true)
	assert.True(t, fail.IsUser(err))
}

func TestTogglePrivacy(t *testing.T) {
	s := openTest(t)

	r := &Recipe{Owner: 7, Title: "ragu"}
	assert.NoError(t, s.CreateRecipe(r))

	pub, err := s.TogglePrivacy(7, r.ID)
	assert.NoError(t, err)
	assert.True(t, pub)

	pub, err = s.TogglePrivacy(7, r.ID)
	assert.NoError(t, err)
	assert.False(t, pub)

	// not the owner
	_, err = s.TogglePrivacy(8, r.ID)
	assert.True(t, fail.IsUser(err))
}

func TestDeleteRecipe(t *testing.T) {
	s := openTest(t)

	r := &Recipe{Owner: 7, Title: "ragu", Ingredients: []string{"beef"}}
	assert.NoError(t, s.CreateRecipe(r))

	// not the owner
	err := s.DeleteRecipe(8, r.ID)
	assert.True(t, fail.IsUser(err))

	assert.NoError(t, s.DeleteRecipe(7, r.ID))
	_, err = s.RecipeByID(r.ID)
	assert.Error(t, err)

	var links int64
	assert.NoError(t, s.gorm.Model(&IngredientRecipe{}).
		Where("recipe_id = ?", r.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestSearchByIngredients(t *testing.T) {
	s := openTest(t)

	mine := &Recipe{Owner: 7, Title: "carbonara",
		Ingredients: []string{"eggs", "pecorino"}}
	pub := &Recipe{Owner: 8, Title: "frittata", Public: true,
		Ingredients: []string{"eggs", "zucchini"}}
	hidden := &Recipe{Owner: 8, Title: "secret",
		Ingredients: []string{"eggs"}}
	for _, r := range []*Recipe{mine, pub, hidden} {
		assert.NoError(t, s.CreateRecipe(r))
	}

	// ANY match, own and public only
	ids, err := s.SearchByIngredients(7, []string{"eggs"})
	assert.NoError(t, err)
	assert.Equal(t, []uint{mine.ID, pub.ID}, ids)

	ids, err = s.SearchByIngredients(7, []string{"zucchini", "pecorino"})
	assert.NoError(t, err)
	assert.Equal(t, []uint{mine.ID, pub.ID}, ids)

	ids, err = s.SearchByIngredients(7, []string{"saffron"})
	assert.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = s.SearchByIngredients(7, nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSchema(t *testing.T) {
	s := openTest(t)

	schema, err := s.Schema()
	assert.NoError(t, err)
	assert.Contains(t, schema, "CREATE TABLE")
	assert.Contains(t, schema, "recipes")
	assert.Contains(t, schema, "idx_owner_title")
}
