// Package dialog routes chat events through hierarchical, resumable
// conversations. Transition lists are ordered and the first declared
// match wins. Fallbacks are consulted only after no state transition
// matched, and an event unmatched by the whole tree is dropped as a
// recoverable error.
package dialog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pancsta/recipai/fail"
)

// Handler mutates the per-chat context and returns the next state.
// Returning Same keeps the current one, End terminates the conversation.
type Handler[C any] func(ctx context.Context, c C, ev Event) (State, error)

// Transition binds a matcher to a handler, or embeds a child
// conversation when Child is set.
type Transition[C any] struct {
	Match Matcher
	Run   Handler[C]
	Child *Conversation[C]
}

func On[C any](m Matcher, h Handler[C]) Transition[C] {
	return Transition[C]{Match: m, Run: h}
}

// Sub embeds a child conversation as a transition of the parent state.
func Sub[C any](child *Conversation[C]) Transition[C] {
	return Transition[C]{Child: child}
}

// Conversation is a named state table. A child conversation activates
// via its Entry transitions and hands control back through MapToParent.
type Conversation[C any] struct {
	Name  string
	Entry []Transition[C]
	// States maps each state to its ORDERED transition list.
	States    map[State][]Transition[C]
	Fallbacks []Transition[C]
	// MapToParent translates states returned by this conversation's
	// handlers into the parent's next state, deactivating this one.
	MapToParent map[State]State
}

// names returns the conversation name and all descendant names.
func (c *Conversation[C]) names() []string {
	out := []string{c.Name}
	seen := map[*Conversation[C]]bool{c: true}
	var walk func(conv *Conversation[C])
	walk = func(conv *Conversation[C]) {
		all := [][]Transition[C]{conv.Entry, conv.Fallbacks}
		for _, list := range conv.States {
			all = append(all, list)
		}
		for _, list := range all {
			for _, t := range list {
				if t.Child == nil || seen[t.Child] {
					continue
				}
				seen[t.Child] = true
				out = append(out, t.Child.Name)
				walk(t.Child)
			}
		}
	}
	walk(c)
	return out
}

// ///// ///// /////

// ///// RUNTIME

// ///// ///// /////

// Runtime tracks per-chat positions inside a conversation tree. Event
// dispatch for a single chat has to be serialized by the caller, the
// runtime only guards its chat index.
type Runtime[C any] struct {
	root *Conversation[C]
	// safe is the state the root resets to after an invalid transition.
	safe State
	log  *slog.Logger

	// onEnd runs after the root conversation terminated for a chat.
	onEnd func(ctx context.Context, c C, chatID int64)

	mu  sync.Mutex
	pos map[int64]map[string]State
}

func NewRuntime[C any](root *Conversation[C], safe State, log *slog.Logger) *Runtime[C] {
	if log == nil {
		log = slog.Default()
	}
	return &Runtime[C]{
		root: root,
		safe: safe,
		log:  log,
		pos:  map[int64]map[string]State{},
	}
}

// OnEnd registers a hook running after the root conversation ends.
func (r *Runtime[C]) OnEnd(f func(ctx context.Context, c C, chatID int64)) {
	r.onEnd = f
}

// Active returns true when the root conversation is entered for chatID.
func (r *Runtime[C]) Active(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.pos[chatID]
	if !ok {
		return false
	}
	_, ok = pos[r.root.Name]
	return ok
}

// StateOf returns the stored state of the given conversation for chatID.
func (r *Runtime[C]) StateOf(chatID int64, conv string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.pos[chatID]
	if !ok {
		return State{}, false
	}
	s, ok := pos[conv]
	return s, ok
}

// Clear forgets all positions of a chat.
func (r *Runtime[C]) Clear(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pos, chatID)
}

func (r *Runtime[C]) chatPos(chatID int64) map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.pos[chatID]
	if !ok {
		pos = map[string]State{}
		r.pos[chatID] = pos
	}
	return pos
}

// Dispatch routes a single event for its chat. Unmatched events are
// logged and dropped without a state change.
func (r *Runtime[C]) Dispatch(ctx context.Context, c C, ev Event) error {
	pos := r.chatPos(ev.ChatID)

	handled, _, err := r.dispatchConv(ctx, c, ev, r.root, pos, true)
	if err != nil {
		r.logErr(ev, err)
		if fail.IsTransition(err) {
			// reset to safety
			r.Clear(ev.ChatID)
			r.chatPos(ev.ChatID)[r.root.Name] = r.safe
		}
		return err
	}
	if !handled {
		r.log.Info("unmatched event dropped",
			"chat", ev.ChatID, "kind", ev.Kind.Value, "data", ev.Data)
	}

	return nil
}

// dispatchConv scans one conversation. It reports whether the event was
// handled and, when this conversation deactivated via MapToParent, the
// state the parent should adopt.
func (r *Runtime[C]) dispatchConv(
	ctx context.Context, c C, ev Event, conv *Conversation[C],
	pos map[string]State, isRoot bool,
) (bool, *State, error) {

	cur, active := pos[conv.Name]

	// entry points
	if !active {
		for _, t := range conv.Entry {
			if t.Child != nil || !t.Match(ev) {
				continue
			}
			next, err := t.Run(ctx, c, ev)
			if err != nil && !recoverable(err) {
				return true, nil, err
			}
			mapped := r.apply(ctx, c, ev.ChatID, conv, pos, next, isRoot)
			return true, mapped, err
		}
		return false, nil, nil
	}

	// state transitions, first declared wins
	for _, t := range conv.States[cur] {
		if t.Child != nil {
			handled, mapped, err := r.dispatchConv(ctx, c, ev, t.Child, pos, false)
			if !handled {
				continue
			}
			if err != nil && !recoverable(err) {
				return true, nil, err
			}
			if mapped != nil {
				// the child handed control back
				up := r.apply(ctx, c, ev.ChatID, conv, pos, *mapped, isRoot)
				return true, up, err
			}
			return true, nil, err
		}

		if !t.Match(ev) {
			continue
		}
		next, err := t.Run(ctx, c, ev)
		if err != nil && !recoverable(err) {
			return true, nil, err
		}
		mapped := r.apply(ctx, c, ev.ChatID, conv, pos, next, isRoot)
		return true, mapped, err
	}

	// fallbacks, only after no state transition matched
	for _, t := range conv.Fallbacks {
		if t.Child != nil || !t.Match(ev) {
			continue
		}
		next, err := t.Run(ctx, c, ev)
		if err != nil && !recoverable(err) {
			return true, nil, err
		}
		mapped := r.apply(ctx, c, ev.ChatID, conv, pos, next, isRoot)
		return true, mapped, err
	}

	return false, nil, nil
}

// apply stores the handler's result and resolves MapToParent delegation.
func (r *Runtime[C]) apply(
	ctx context.Context, c C, chatID int64, conv *Conversation[C],
	pos map[string]State, next State, isRoot bool,
) *State {

	deactivate := func() {
		for _, name := range conv.names() {
			delete(pos, name)
		}
	}

	switch next {
	case Same:
		return nil

	case End:
		if mapped, ok := conv.MapToParent[End]; ok && !isRoot {
			deactivate()
			return &mapped
		}
		// the whole tree ends
		r.Clear(chatID)
		if r.onEnd != nil {
			r.onEnd(ctx, c, chatID)
		}
		return nil

	default:
		if mapped, ok := conv.MapToParent[next]; ok && !isRoot {
			deactivate()
			return &mapped
		}
		pos[conv.Name] = next
		return nil
	}
}

// recoverable errors keep the returned state meaningful.
func recoverable(err error) bool {
	return fail.IsUser(err) || fail.IsRace(err) || fail.IsCollab(err)
}

func (r *Runtime[C]) logErr(ev Event, err error) {
	switch {
	case fail.IsUser(err) || fail.IsRace(err):
		r.log.Debug("recoverable", "chat", ev.ChatID, "err", err)
	case fail.IsTransition(err):
		r.log.Error("invalid transition, resetting chat",
			"chat", ev.ChatID, "err", err)
	default:
		r.log.Error("dispatch", "chat", ev.ChatID, "err", err)
	}
}
