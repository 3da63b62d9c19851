package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pancsta/recipai/fail"
)

// trace records handler hits in order.
type trace struct {
	hits []string
}

func record(name string, next State) Handler[*trace] {
	return func(_ context.Context, c *trace, _ Event) (State, error) {
		c.hits = append(c.hits, name)
		return next, nil
	}
}

func text(chat int64, body string) Event {
	return Event{Kind: KindText, ChatID: chat, Text: body}
}

func cmd(chat int64, name string) Event {
	return Event{Kind: KindCommand, ChatID: chat, Text: name}
}

func TestEntryAndResume(t *testing.T) {
	ctx := context.Background()
	c := &trace{}
	root := &Conversation[*trace]{
		Name:  "root",
		Entry: []Transition[*trace]{On(OnCommand("start"), record("start", Menu))},
		States: map[State][]Transition[*trace]{
			Menu: {On(OnText(), record("menu-text", Same))},
		},
	}
	r := NewRuntime(root, Menu, nil)

	// inactive chats only react to entry points
	assert.NoError(t, r.Dispatch(ctx, c, text(1, "hi")))
	assert.False(t, r.Active(1))
	assert.Empty(t, c.hits)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	assert.True(t, r.Active(1))

	// the position survives across events
	assert.NoError(t, r.Dispatch(ctx, c, text(1, "a")))
	assert.NoError(t, r.Dispatch(ctx, c, text(1, "b")))
	assert.Equal(t, []string{"start", "menu-text", "menu-text"}, c.hits)

	// other chats stay independent
	assert.False(t, r.Active(2))
}

func TestFirstDeclaredWins(t *testing.T) {
	ctx := context.Background()
	c := &trace{}
	root := &Conversation[*trace]{
		Name:  "root",
		Entry: []Transition[*trace]{On(OnAny(), record("start", Menu))},
		States: map[State][]Transition[*trace]{
			Menu: {
				On(OnText(), record("first", Same)),
				On(OnText(), record("second", Same)),
				On(OnAny(), record("third", Same)),
			},
		},
	}
	r := NewRuntime(root, Menu, nil)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	assert.NoError(t, r.Dispatch(ctx, c, text(1, "x")))
	assert.Equal(t, []string{"start", "first"}, c.hits)
}

func TestFallbacksAfterStates(t *testing.T) {
	ctx := context.Background()
	c := &trace{}
	root := &Conversation[*trace]{
		Name:  "root",
		Entry: []Transition[*trace]{On(OnCommand("start"), record("start", Menu))},
		States: map[State][]Transition[*trace]{
			Menu: {On(OnText(), record("state", Same))},
		},
		Fallbacks: []Transition[*trace]{
			// would shadow the state transition if consulted first
			On(OnText(), record("fallback-text", Same)),
			On(OnCommand("stop"), record("fallback-stop", End)),
		},
	}
	r := NewRuntime(root, Menu, nil)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	assert.NoError(t, r.Dispatch(ctx, c, text(1, "x")))
	assert.Equal(t, []string{"start", "state"}, c.hits)

	// unmatched by the state, picked up by a fallback
	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "stop")))
	assert.Equal(t, "fallback-stop", c.hits[len(c.hits)-1])
	assert.False(t, r.Active(1))
}

func TestChildMapToParent(t *testing.T) {
	ctx := context.Background()
	c := &trace{}

	child := &Conversation[*trace]{
		Name: "child",
		Entry: []Transition[*trace]{
			On(OnCommand("child"), record("child-start", InsertTitle)),
		},
		States: map[State][]Transition[*trace]{
			InsertTitle: {
				On(OnText(), record("child-done", End)),
				On(OnCommand("stop"), record("child-stop", Stop)),
			},
		},
		MapToParent: map[State]State{End: Menu, Stop: End},
	}
	root := &Conversation[*trace]{
		Name:  "root",
		Entry: []Transition[*trace]{On(OnCommand("start"), record("start", Menu))},
		States: map[State][]Transition[*trace]{
			Menu: {Sub(child)},
		},
	}

	ended := 0
	r := NewRuntime(root, Menu, nil)
	r.OnEnd(func(_ context.Context, _ *trace, _ int64) { ended++ })

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "child")))

	st, ok := r.StateOf(1, "child")
	assert.True(t, ok)
	assert.Equal(t, InsertTitle, st)

	// child End hands control back to the parent's Menu
	assert.NoError(t, r.Dispatch(ctx, c, text(1, "done")))
	_, ok = r.StateOf(1, "child")
	assert.False(t, ok)
	st, ok = r.StateOf(1, "root")
	assert.True(t, ok)
	assert.Equal(t, Menu, st)
	assert.Zero(t, ended)

	// child Stop maps to End, ending the whole tree
	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "child")))
	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "stop")))
	assert.False(t, r.Active(1))
	assert.Equal(t, 1, ended)
}

func TestParentFallbackWhenChildUnmatched(t *testing.T) {
	ctx := context.Background()
	c := &trace{}

	child := &Conversation[*trace]{
		Name: "child",
		Entry: []Transition[*trace]{
			On(OnCommand("child"), record("child-start", InsertTitle)),
		},
		States: map[State][]Transition[*trace]{
			InsertTitle: {On(OnText(), record("child-text", Same))},
		},
		MapToParent: map[State]State{End: Menu},
	}
	root := &Conversation[*trace]{
		Name:  "root",
		Entry: []Transition[*trace]{On(OnCommand("start"), record("start", Menu))},
		States: map[State][]Transition[*trace]{
			Menu: {Sub(child)},
		},
		Fallbacks: []Transition[*trace]{
			On(OnCommand("help"), record("help", Same)),
		},
	}
	r := NewRuntime(root, Menu, nil)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "child")))

	// the child cannot handle /help, the parent's fallback does,
	// without kicking the chat out of the child
	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "help")))
	assert.Equal(t, "help", c.hits[len(c.hits)-1])
	st, ok := r.StateOf(1, "child")
	assert.True(t, ok)
	assert.Equal(t, InsertTitle, st)
}

func TestUnmatchedDropped(t *testing.T) {
	ctx := context.Background()
	c := &trace{}
	root := &Conversation[*trace]{
		Name:  "root",
		Entry: []Transition[*trace]{On(OnCommand("start"), record("start", Menu))},
		States: map[State][]Transition[*trace]{
			Menu: {On(OnText(), record("text", Same))},
		},
	}
	r := NewRuntime(root, Menu, nil)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	ev := Event{Kind: KindCallback, ChatID: 1, Data: "bogus"}
	assert.NoError(t, r.Dispatch(ctx, c, ev))

	// dropped without a state change
	st, _ := r.StateOf(1, "root")
	assert.Equal(t, Menu, st)
}

func TestInvalidTransitionResets(t *testing.T) {
	ctx := context.Background()
	c := &trace{}
	root := &Conversation[*trace]{
		Name: "root",
		Entry: []Transition[*trace]{
			On(OnCommand("start"), record("start", InsertTitle)),
		},
		States: map[State][]Transition[*trace]{
			InsertTitle: {
				On(OnText(), func(_ context.Context, _ *trace, _ Event,
				) (State, error) {
					return Same, fail.Transition("broken invariant")
				}),
			},
		},
	}
	r := NewRuntime(root, Menu, nil)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	err := r.Dispatch(ctx, c, text(1, "x"))
	assert.True(t, fail.IsTransition(err))

	// back at the safe state
	st, ok := r.StateOf(1, "root")
	assert.True(t, ok)
	assert.Equal(t, Menu, st)
}

func TestRecoverableKeepsState(t *testing.T) {
	ctx := context.Background()
	c := &trace{}
	root := &Conversation[*trace]{
		Name: "root",
		Entry: []Transition[*trace]{
			On(OnCommand("start"), record("start", InsertTitle)),
		},
		States: map[State][]Transition[*trace]{
			InsertTitle: {
				On(OnText(), func(_ context.Context, _ *trace, _ Event,
				) (State, error) {
					return Same, fail.User("try again")
				}),
			},
		},
	}
	r := NewRuntime(root, Menu, nil)

	assert.NoError(t, r.Dispatch(ctx, c, cmd(1, "start")))
	err := r.Dispatch(ctx, c, text(1, "x"))
	assert.True(t, fail.IsUser(err))

	st, _ := r.StateOf(1, "root")
	assert.Equal(t, InsertTitle, st)
}
