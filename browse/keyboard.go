package browse

import (
	"strings"

	"github.com/orsinium-labs/enum"
)

// KbMode enum

type KbMode enum.Member[string]

var (
	// KbOwn browses the user's recipes, exposing privacy and delete.
	KbOwn = KbMode{"own"}
	// KbAll browses public recipes, exposing bookmark instead.
	KbAll = KbMode{"all"}
	// KbSearch browses search results, same controls as KbAll.
	KbSearch = KbMode{"search"}
	KbModes  = enum.New(KbOwn, KbAll, KbSearch)
)

// keyboard keys, doubling as callback payloads
const (
	KeyPrev     = "viz:prev"
	KeyNext     = "viz:next"
	KeySee      = "viz:see"
	KeySeeBack  = "viz:see_back"
	KeyPhotos   = "viz:photos"
	KeyPrivacy  = "viz:privacy"
	KeyDelete   = "viz:delete"
	KeyBookmark = "viz:bookmark"
	KeyClose    = "viz:close"
)

const inverseSuffix = "_back"

// Keyboard mirrors the cursor position into control enablement. The see
// control is a two-faced toggle, pressing one face swaps in the other.
type Keyboard struct {
	mode KbMode

	prevEnabled bool
	nextEnabled bool
	// inverse tracks toggles currently showing their INVERSE face.
	inverse map[string]bool
}

func NewKeyboard(mode KbMode) *Keyboard {
	return &Keyboard{
		mode:        mode,
		prevEnabled: true,
		nextEnabled: true,
		inverse:     map[string]bool{},
	}
}

func (k *Keyboard) Mode() KbMode { return k.mode }

// Update syncs arrow enablement with a zero-based position in a list of
// count entries. A single entry disables both arrows.
func (k *Keyboard) Update(pos, count int) *Keyboard {
	k.prevEnabled = true
	k.nextEnabled = true

	switch {
	case count <= 1:
		k.prevEnabled = false
		k.nextEnabled = false
	case pos >= count-1:
		k.nextEnabled = false
	case pos == 0:
		k.prevEnabled = false
	}

	return k
}

// Press flips a toggle control to its other face. Non-toggles pass
// through unchanged.
func (k *Keyboard) Press(key string) *Keyboard {
	b := baseKey(key)
	if b != KeySee {
		return k
	}
	k.inverse[b] = !strings.HasSuffix(key, inverseSuffix)

	return k
}

// Reset restores all PRIMARY faces.
func (k *Keyboard) Reset() *Keyboard {
	k.inverse = map[string]bool{}
	return k
}

// Showing reports whether the toggle is on its INVERSE face, ie the
// detail view is open.
func (k *Keyboard) Showing(key string) bool {
	return k.inverse[baseKey(key)]
}

// MoveKeys returns the enabled arrow keys, prev first.
func (k *Keyboard) MoveKeys() []string {
	var out []string
	if k.prevEnabled {
		out = append(out, KeyPrev)
	}
	if k.nextEnabled {
		out = append(out, KeyNext)
	}
	return out
}

// ActionKeys returns the action row, toggle faces resolved.
func (k *Keyboard) ActionKeys() []string {
	see := KeySee
	if k.inverse[KeySee] {
		see = KeySeeBack
	}

	out := []string{see, KeyPhotos}
	if k.mode == KbOwn {
		out = append(out, KeyPrivacy, KeyDelete)
	} else {
		out = append(out, KeyBookmark)
	}
	return out
}

func (k *Keyboard) CloseKey() string { return KeyClose }

func baseKey(key string) string {
	return strings.TrimSuffix(key, inverseSuffix)
}
