// Package db persists users, recipes and ingredients in sqlite.
package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"

	"github.com/pancsta/recipai/fail"
)

// DefaultQuantity marks an unspecified ingredient amount.
const DefaultQuantity = "to taste"

// ///// ///// /////

// ///// MODELS

// ///// ///// /////

// User maps a chat identity to a local row.
type User struct {
	ID     uint  `gorm:"primaryKey"`
	ChatID int64 `gorm:"not null;uniqueIndex"`

	CreatedAt time.Time `gorm:"not null"`
}

// Ingredient is a normalized (lowercase, trimmed) ingredient name,
// shared between recipes.
type Ingredient struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex"`
}

// Recipe is a stored recipe. The procedure text and photos live in the
// blob store, keyed by (Owner, ID).
type Recipe struct {
	ID uint `gorm:"primaryKey"`
	// Owner is the owning chat id. Title is unique per owner.
	Owner  int64  `gorm:"not null;uniqueIndex:idx_owner_title"`
	Title  string `gorm:"not null;uniqueIndex:idx_owner_title"`
	Public bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`

	// Ingredients are resolved names, filled by the store.
	Ingredients []string `gorm:"-"`
}

// IngredientRecipe links recipes to ingredients with a quantity.
type IngredientRecipe struct {
	RecipeID     uint   `gorm:"primaryKey;autoIncrement:false"`
	IngredientID uint   `gorm:"primaryKey;autoIncrement:false"`
	Quantity     string `gorm:"not null"`
}

// ///// ///// /////

// ///// STORE

// ///// ///// /////

// Store wraps the gorm connection with domain queries.
type Store struct {
	gorm *gorm.DB
}

// Open connects to the sqlite file and migrates the schema.
func Open(dbFile string) (*Store, error) {
	file := gormlite.Open(dbFile)
	dbGorm, err := gorm.Open(file, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = dbGorm.AutoMigrate(&User{}, &Ingredient{}, &Recipe{},
		&IngredientRecipe{})
	if err != nil {
		return nil, err
	}

	return &Store{gorm: dbGorm}, nil
}

func (s *Store) Close() error {
	db, err := s.gorm.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// EnsureUser inserts the chat identity on first contact.
func (s *Store) EnsureUser(chatID int64) error {
	var u User
	err := s.gorm.Where("chat_id = ?", chatID).First(&u).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail.Collab(err)
	}

	err = s.gorm.Create(&User{ChatID: chatID}).Error
	if err != nil {
		return fail.Collab(err)
	}
	return nil
}

// CreateRecipe stores a recipe, upserting missing ingredients and
// linking them with the default quantity. A duplicate (owner, title) is
// a lost race against the availability pre-check.
func (s *Store) CreateRecipe(r *Recipe) error {
	err := s.gorm.Transaction(func(tx *gorm.DB) error {

		// resolve ingredient rows
		var links []IngredientRecipe
		for _, name := range r.Ingredients {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}

			var ing Ingredient
			err := tx.Where("name = ?", name).First(&ing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ing = Ingredient{Name: name}
				err = tx.Create(&ing).Error
			}
			if err != nil {
				return err
			}
			links = append(links, IngredientRecipe{
				IngredientID: ing.ID,
				Quantity:     DefaultQuantity,
			})
		}

		if err := tx.Create(r).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].RecipeID = r.ID
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			return fail.Race("recipe %q already exists for %d",
				r.Title, r.Owner)
		}
		return fail.Collab(err)
	}

	return nil
}

// RecipeByID fetches a recipe with its ingredient names.
func (s *Store) RecipeByID(id uint) (*Recipe, error) {
	var r Recipe
	if err := s.gorm.First(&r, id).Error; err != nil {
		return nil, fail.Collab(err)
	}

	names, err := s.ingredientNames(id)
	if err != nil {
		return nil, err
	}
	r.Ingredients = names

	return &r, nil
}

func (s *Store) ingredientNames(recipeID uint) ([]string, error) {
	var names []string
	err := s.gorm.Model(&Ingredient{}).
		Joins("JOIN ingredient_recipes ir ON ir.ingredient_id = ingredients.id").
		Where("ir.recipe_id = ?", recipeID).
		Order("ingredients.name").
		Pluck("ingredients.name", &names).Error
	if err != nil {
		return nil, fail.Collab(err)
	}
	return names, nil
}

// ListRecipeIDs returns the browsable id list, either the owner's
// recipes or every public one.
func (s *Store) ListRecipeIDs(owner int64, all bool) ([]uint, error) {
	var ids []uint
	q := s.gorm.Model(&Recipe{})
	if all {
		q = q.Where("public = ?", true)
	} else {
		q = q.Where("owner = ?", owner)
	}
	if err := q.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fail.Collab(err)
	}

	return ids, nil
}

// TitleAvailable is a best-effort check, the unique index on
// (owner, title) stays authoritative at save time.
func (s *Store) TitleAvailable(owner int64, title string) (bool, error) {
	var n int64
	err := s.gorm.Model(&Recipe{}).
		Where("owner = ? AND title = ?", owner, title).
		Count(&n).Error
	if err != nil {
		return false, fail.Collab(err)
	}
	return n == 0, nil
}

// SetPrivacy sets the public flag of an owned recipe.
func (s *Store) SetPrivacy(owner int64, id uint, public bool) error {
	res := s.gorm.Model(&Recipe{}).
		Where("id = ? AND owner = ?", id, owner).
		Update("public", public)
	if res.Error != nil {
		return fail.Collab(res.Error)
	}
	if res.RowsAffected == 0 {
		return fail.User("recipe %d not owned by %d", id, owner)
	}

	return nil
}

// TogglePrivacy flips the public flag of an owned recipe and returns
// the new value.
func (s *Store) TogglePrivacy(owner int64, id uint) (bool, error) {
	var r Recipe
	if err := s.gorm.First(&r, id).Error; err != nil {
		return false, fail.Collab(err)
	}
	if err := s.SetPrivacy(owner, id, !r.Public); err != nil {
		return false, err
	}

	return !r.Public, nil
}

// DeleteRecipe removes an owned recipe and its ingredient links.
func (s *Store) DeleteRecipe(owner int64, id uint) error {
	err := s.gorm.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner = ?", id, owner).
			Delete(&Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fail.User("recipe %d not owned by %d", id, owner)
		}

		return tx.Where("recipe_id = ?", id).
			Delete(&IngredientRecipe{}).Error
	})

	if err != nil && !fail.IsUser(err) {
		return fail.Collab(err)
	}
	return err
}

// SearchByIngredients returns ids of recipes containing ANY of the
// tokens, limited to public recipes and the caller's own.
func (s *Store) SearchByIngredients(owner int64, toks []string) ([]uint, error) {
	if len(toks) == 0 {
		return nil, nil
	}

	var ids []uint
	err := s.gorm.Model(&Recipe{}).
		Distinct("recipes.id").
		Joins("JOIN ingredient_recipes ir ON ir.recipe_id = recipes.id").
		Joins("JOIN ingredients i ON i.id = ir.ingredient_id").
		Where("i.name IN ?", toks).
		Where("recipes.public = ? OR recipes.owner = ?", true, owner).
		Order("recipes.id").
		Pluck("recipes.id", &ids).Error
	if err != nil {
		return nil, fail.Collab(err)
	}

	return ids, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// SQLDB exposes the raw connection, eg for schema dumps.
func (s *Store) SQLDB() (*sql.DB, error) {
	return s.gorm.DB()
}

// Schema returns the live sqlite schema, internal tables filtered out.
func (s *Store) Schema() (string, error) {
	db, err := s.gorm.DB()
	if err != nil {
		return "", err
	}

	query := `
		SELECT sql
		FROM sqlite_schema
		WHERE type IN ('table', 'index', 'trigger', 'view')
		AND name NOT LIKE 'sqlite_%'
		AND sql IS NOT NULL
		ORDER BY name;
	`
	rows, err := db.Query(query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var sb strings.Builder
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", err
		}
		sb.WriteString(strings.ReplaceAll(stmt, "`", ""))
		sb.WriteString(";\n")
	}

	return sb.String(), nil
}
