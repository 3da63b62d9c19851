// Package tokens turns free-form chat fragments into search tokens.
package tokens

import (
	"regexp"
	"strings"

	"github.com/orsinium-labs/enum"

	"github.com/pancsta/recipai/fail"
)

// Mode enum

type Mode enum.Member[string]

var (
	// ModeIngredient splits on commas, newlines and semicolons, then
	// trims and lowercases each token.
	ModeIngredient = Mode{"ingredient"}
	// ModeHashtag splits on whitespace, case preserved.
	ModeHashtag = Mode{"hashtag"}
	Modes       = enum.New(ModeIngredient, ModeHashtag)
)

var ingredientSep = regexp.MustCompile(`,|\n|;`)

// Accumulator buffers raw fragments until Parse consumes them.
type Accumulator struct {
	mode      Mode
	fragments []string
}

func New(mode Mode) *Accumulator {
	return &Accumulator{mode: mode}
}

func (a *Accumulator) Mode() Mode { return a.mode }

// AddFragment appends a raw message body, order preserved.
func (a *Accumulator) AddFragment(text string) {
	a.fragments = append(a.fragments, text)
}

func (a *Accumulator) Empty() bool { return len(a.fragments) == 0 }

// Parse tokenizes all buffered fragments. Tokens keep their arrival
// order and repeats. On success the buffer is consumed. An empty buffer
// or an all-blank one is a user error and consumes nothing.
func (a *Accumulator) Parse() ([]string, error) {
	if len(a.fragments) == 0 {
		return nil, fail.User("no search terms received")
	}

	var out []string
	for _, frag := range a.fragments {
		var parts []string
		switch a.mode {
		case ModeHashtag:
			parts = strings.Fields(frag)
		default:
			parts = ingredientSep.Split(frag, -1)
		}

		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if a.mode == ModeIngredient {
				p = strings.ToLower(p)
			}
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return nil, fail.User("only blank search terms received")
	}

	// consume
	a.fragments = nil

	return out, nil
}
