// Package flow wires the conversation tables to the collaborators.
package flow

import (
	"context"
	"log/slog"

	"github.com/pancsta/recipai/blob"
	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/fail"
	"github.com/pancsta/recipai/render"
	"github.com/pancsta/recipai/session"
)

// Transport is the outbound chat surface.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string,
		kb render.Keyboard) (session.MsgRef, error)
	Edit(ctx context.Context, ref session.MsgRef, text string,
		kb render.Keyboard) error
	// RetireControls removes the inline controls of a sent message.
	RetireControls(ctx context.Context, ref session.MsgRef) error
	// SendPhotos sends one photo, or an album for more.
	SendPhotos(ctx context.Context, chatID int64, fileIDs []string,
		caption string) (session.MsgRef, error)
}

// pending operations awaiting confirmation
const (
	OpSave   = "save"
	OpCancel = "cancel"
)

type Transition = dialog.Transition[*session.Session]
type Handler = dialog.Handler[*session.Session]
type Conversation = dialog.Conversation[*session.Session]

var On = dialog.On[*session.Session]
var Sub = dialog.Sub[*session.Session]

// Flows owns the handlers of the conversation tree.
type Flows struct {
	DB   *db.Store
	Blob *blob.Store
	Tx   Transport
	Log  *slog.Logger
}

func New(dbs *db.Store, blobs *blob.Store, tx Transport,
	log *slog.Logger) *Flows {

	if log == nil {
		log = slog.Default()
	}
	return &Flows{DB: dbs, Blob: blobs, Tx: tx, Log: log}
}

// Root builds the conversation tree.
func (f *Flows) Root() *Conversation {
	insert := f.insertConv()
	browse := f.browseConv()
	search := f.searchConv()

	return &Conversation{
		Name: "root",
		Entry: []Transition{
			On(dialog.OnCommand("start"), f.start),
		},
		States: map[dialog.State][]Transition{
			dialog.Menu: {
				Sub(insert),
				Sub(browse),
				Sub(search),
				On(dialog.OnCommand("start"), f.menu),
				On(dialog.OnCallback(render.CbHelp), f.helpEdit),
			},
		},
		Fallbacks: []Transition{
			On(dialog.OnCommand("stop"), f.stop),
			On(dialog.OnCommand("help"), f.help),
		},
	}
}

// ///// ///// /////

// ///// TOP LEVEL

// ///// ///// /////

func (f *Flows) start(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.UserID = ev.UserID
	s.UserName = ev.UserName
	if err := f.DB.EnsureUser(ev.ChatID); err != nil {
		f.Log.Error("ensure user", "chat", ev.ChatID, "err", err)
	}

	err := f.prompt(ctx, s, render.Welcome(ev.UserName), render.MenuKb())
	return dialog.Menu, err
}

func (f *Flows) menu(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	err := f.prompt(ctx, s, render.MenuText(s.UserName), render.MenuKb())
	return dialog.Same, err
}

func (f *Flows) help(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	err := f.prompt(ctx, s, render.Help(), render.MenuKb())
	return dialog.Same, err
}

func (f *Flows) helpEdit(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	err := f.editPrompt(ctx, s, render.Help(), render.MenuKb())
	return dialog.Same, err
}

func (f *Flows) stop(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	f.retirePrompt(ctx, s)
	_ = f.notify(ctx, s, render.Stopped())
	return dialog.End, nil
}

// ///// ///// /////

// ///// PROMPT HELPERS

// ///// ///// /////

// prompt retires the previous interactive message and sends a new one,
// keeping at most one live prompt per chat.
func (f *Flows) prompt(ctx context.Context, s *session.Session,
	text string, kb render.Keyboard) error {

	f.retirePrompt(ctx, s)
	ref, err := f.Tx.Send(ctx, s.ChatID, text, kb)
	if err != nil {
		return fail.Collab(err)
	}
	s.LastPrompt = &ref

	return nil
}

// editPrompt rewrites the live prompt in place, used on callbacks. It
// falls back to a fresh prompt when there is nothing to edit.
func (f *Flows) editPrompt(ctx context.Context, s *session.Session,
	text string, kb render.Keyboard) error {

	if s.LastPrompt == nil {
		return f.prompt(ctx, s, text, kb)
	}
	if err := f.Tx.Edit(ctx, *s.LastPrompt, text, kb); err != nil {
		f.Log.Debug("edit failed, sending anew",
			"chat", s.ChatID, "err", err)
		return f.prompt(ctx, s, text, kb)
	}

	return nil
}

func (f *Flows) retirePrompt(ctx context.Context, s *session.Session) {
	if s.LastPrompt == nil {
		return
	}
	if err := f.Tx.RetireControls(ctx, *s.LastPrompt); err != nil {
		f.Log.Debug("retire controls", "chat", s.ChatID, "err", err)
	}
	s.LastPrompt = nil
}

func (f *Flows) notify(ctx context.Context, s *session.Session,
	text string) error {

	_, err := f.Tx.Send(ctx, s.ChatID, text, nil)
	if err != nil {
		return fail.Collab(err)
	}
	return nil
}
