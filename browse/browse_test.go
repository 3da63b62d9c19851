package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/fail"
)

func fetchFrom(recs map[uint]*db.Recipe, calls *int) Fetch {
	return func(id uint) (*db.Recipe, error) {
		if calls != nil {
			*calls++
		}
		r, ok := recs[id]
		if !ok {
			return nil, assert.AnError
		}
		return r, nil
	}
}

func TestCursorLazyFetch(t *testing.T) {
	calls := 0
	c := NewCursor([]uint{1, 2}, fetchFrom(map[uint]*db.Recipe{
		1: {Title: "carbonara"},
		2: {Title: "ragu"},
	}, &calls))

	r, err := c.Current()
	assert.NoError(t, err)
	assert.Equal(t, "carbonara", r.Title)
	assert.Equal(t, 1, calls)

	// memoized
	_, _ = c.Current()
	assert.Equal(t, 1, calls)

	assert.True(t, c.Next())
	r, err = c.Current()
	assert.NoError(t, err)
	assert.Equal(t, "ragu", r.Title)
	assert.Equal(t, 2, calls)
}

func TestCursorClamps(t *testing.T) {
	c := NewCursor([]uint{1, 2, 3}, fetchFrom(nil, nil))

	assert.False(t, c.Prev())
	assert.Equal(t, 0, c.Pos())

	assert.True(t, c.Next())
	assert.True(t, c.Next())
	assert.False(t, c.Next())
	assert.Equal(t, 2, c.Pos())

	assert.True(t, c.Prev())
	assert.Equal(t, 1, c.Pos())
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(nil, fetchFrom(nil, nil))

	_, err := c.Current()
	assert.True(t, fail.IsTransition(err))
	assert.False(t, c.Next())
	assert.False(t, c.Prev())
}

func TestCursorFetchFailure(t *testing.T) {
	c := NewCursor([]uint{9}, fetchFrom(nil, nil))

	_, err := c.Current()
	assert.True(t, fail.IsCollab(err))
}

func TestCursorDeleteCurrent(t *testing.T) {
	recs := map[uint]*db.Recipe{
		1: {Title: "a"}, 2: {Title: "b"}, 3: {Title: "c"},
	}
	c := NewCursor([]uint{1, 2, 3}, fetchFrom(recs, nil))

	// delete at the head keeps pos 0
	c.DeleteCurrent()
	assert.Equal(t, 0, c.Pos())
	assert.Equal(t, 2, c.Len())
	r, err := c.Current()
	assert.NoError(t, err)
	assert.Equal(t, "b", r.Title)

	// delete mid-list steps back
	assert.True(t, c.Next())
	c.DeleteCurrent()
	assert.Equal(t, 0, c.Pos())
	assert.Equal(t, 1, c.Len())
	r, err = c.Current()
	assert.NoError(t, err)
	assert.Equal(t, "b", r.Title)

	c.DeleteCurrent()
	assert.Equal(t, 0, c.Len())
	_, err = c.Current()
	assert.True(t, fail.IsTransition(err))

	// no-op on empty
	c.DeleteCurrent()
}

func TestKeyboardUpdate(t *testing.T) {
	k := NewKeyboard(KbOwn)

	k.Update(0, 1)
	assert.Empty(t, k.MoveKeys())

	k.Update(0, 3)
	assert.Equal(t, []string{KeyNext}, k.MoveKeys())

	k.Update(1, 3)
	assert.Equal(t, []string{KeyPrev, KeyNext}, k.MoveKeys())

	k.Update(2, 3)
	assert.Equal(t, []string{KeyPrev}, k.MoveKeys())
}

func TestKeyboardToggle(t *testing.T) {
	k := NewKeyboard(KbAll)
	assert.False(t, k.Showing(KeySee))
	assert.Contains(t, k.ActionKeys(), KeySee)

	k.Press(KeySee)
	assert.True(t, k.Showing(KeySee))
	assert.Contains(t, k.ActionKeys(), KeySeeBack)

	k.Press(KeySeeBack)
	assert.False(t, k.Showing(KeySee))

	// non-toggles pass through
	k.Press(KeyPhotos)
	assert.False(t, k.Showing(KeyPhotos))

	k.Press(KeySee)
	k.Reset()
	assert.False(t, k.Showing(KeySee))
}

func TestKeyboardModes(t *testing.T) {
	own := NewKeyboard(KbOwn).ActionKeys()
	assert.Contains(t, own, KeyPrivacy)
	assert.Contains(t, own, KeyDelete)
	assert.NotContains(t, own, KeyBookmark)

	all := NewKeyboard(KbAll).ActionKeys()
	assert.Contains(t, all, KeyBookmark)
	assert.NotContains(t, all, KeyPrivacy)

	search := NewKeyboard(KbSearch).ActionKeys()
	assert.Contains(t, search, KeyBookmark)
}
