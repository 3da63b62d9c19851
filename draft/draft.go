// Package draft holds a recipe under construction and tracks which of
// its parts are still missing before it can be saved.
package draft

import (
	"slices"
	"strings"

	"github.com/orsinium-labs/enum"

	"github.com/pancsta/recipai/fail"
)

// Item enum

type Item enum.Member[string]

var (
	ItemIngredients = Item{"ingredients"}
	ItemMethod      = Item{"method"}
	ItemNone        = Item{"none"}
	Items           = enum.New(ItemIngredients, ItemMethod, ItemNone)
)

// Tracker remembers which draft parts were requested from the user.
// Ingredients always come before the method.
type Tracker struct {
	ingredientsPending bool
	methodPending      bool
}

func (t *Tracker) Request(item Item) {
	switch item {
	case ItemIngredients:
		t.ingredientsPending = true
	case ItemMethod:
		t.methodPending = true
	}
}

// Next returns the item to collect, ingredients first.
func (t *Tracker) Next() Item {
	if t.ingredientsPending {
		return ItemIngredients
	}
	if t.methodPending {
		return ItemMethod
	}
	return ItemNone
}

func (t *Tracker) Pending() bool { return t.Next() != ItemNone }

// MarkDone clears a pending item. Completing a non-pending item is a
// contract breach.
func (t *Tracker) MarkDone(item Item) error {
	switch item {
	case ItemIngredients:
		if !t.ingredientsPending {
			return fail.Transition("ingredients not pending")
		}
		t.ingredientsPending = false
	case ItemMethod:
		if !t.methodPending {
			return fail.Transition("method not pending")
		}
		t.methodPending = false
	default:
		return fail.Transition("unknown item %q", item.Value)
	}

	return nil
}

// ///// ///// /////

// ///// RECIPE DRAFT

// ///// ///// /////

// Recipe accumulates user input across messages until saved.
type Recipe struct {
	Title string
	// Public recipes show up in everyone's browsing and search.
	Public bool
	// PhotoIDs are transport file ids, in arrival order.
	PhotoIDs []string

	ingredients []string
	method      []string

	Todo Tracker
}

// AddIngredients merges normalized names, set semantics.
func (r *Recipe) AddIngredients(names []string) {
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || slices.Contains(r.ingredients, n) {
			continue
		}
		r.ingredients = append(r.ingredients, n)
	}
}

func (r *Recipe) Ingredients() []string {
	return slices.Clone(r.ingredients)
}

// AppendMethod grows the procedure text across messages.
func (r *Recipe) AppendMethod(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.method = append(r.method, text)
}

func (r *Recipe) Method() string {
	return strings.Join(r.method, "\n")
}

// DiscardMethod drops the collected procedure text and photos.
func (r *Recipe) DiscardMethod() {
	r.method = nil
	r.PhotoIDs = nil
}

func (r *Recipe) HasIngredients() bool { return len(r.ingredients) > 0 }
func (r *Recipe) HasMethod() bool      { return len(r.method) > 0 }
