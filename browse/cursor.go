// Package browse implements the recipe browsing cursor and the state of
// its inline keyboard.
package browse

import (
	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/fail"
)

// Fetch resolves a recipe id, usually against the database.
type Fetch func(id uint) (*db.Recipe, error)

// Cursor walks a fixed list of recipe ids, resolving entries lazily and
// memoizing them.
type Cursor struct {
	ids   []uint
	cache map[uint]*db.Recipe
	pos   int
	fetch Fetch
}

func NewCursor(ids []uint, fetch Fetch) *Cursor {
	return &Cursor{
		ids:   ids,
		cache: map[uint]*db.Recipe{},
		fetch: fetch,
	}
}

func (c *Cursor) Len() int { return len(c.ids) }

// Pos is the zero-based cursor position.
func (c *Cursor) Pos() int { return c.pos }

// Current returns the pointed recipe, fetching it on first visit.
func (c *Cursor) Current() (*db.Recipe, error) {
	if len(c.ids) == 0 {
		return nil, fail.Transition("empty cursor")
	}
	id := c.ids[c.pos]
	if r, ok := c.cache[id]; ok {
		return r, nil
	}
	r, err := c.fetch(id)
	if err != nil {
		return nil, fail.Collab(err)
	}
	c.cache[id] = r

	return r, nil
}

// Next moves forward, clamped. Returns whether the cursor moved.
func (c *Cursor) Next() bool {
	if c.pos >= len(c.ids)-1 {
		return false
	}
	c.pos++
	return true
}

// Prev moves backward, clamped. Returns whether the cursor moved.
func (c *Cursor) Prev() bool {
	if c.pos <= 0 {
		return false
	}
	c.pos--
	return true
}

// DeleteCurrent drops the pointed id and its cached entry, clamping the
// position to max(0, pos-1).
func (c *Cursor) DeleteCurrent() {
	if len(c.ids) == 0 {
		return
	}
	delete(c.cache, c.ids[c.pos])
	c.ids = append(c.ids[:c.pos], c.ids[c.pos+1:]...)
	if c.pos > 0 {
		c.pos--
	}
}
