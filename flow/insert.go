package flow

import (
	"context"
	"strings"

	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/draft"
	"github.com/pancsta/recipai/fail"
	"github.com/pancsta/recipai/render"
	"github.com/pancsta/recipai/session"
	"github.com/pancsta/recipai/tokens"
)

func (f *Flows) insertConv() *Conversation {
	return &Conversation{
		Name: "insert",
		Entry: []Transition{
			On(dialog.OnCallback(render.CbNew), f.askTitle),
			On(dialog.OnCommand("new"), f.askTitle),
		},
		States: map[dialog.State][]Transition{
			dialog.InsertTitle: {
				On(dialog.OnText(), f.setTitle),
			},
			dialog.InsertHub: {
				On(dialog.OnCallback(render.CbIngredients), f.askIngredients),
				On(dialog.OnCallback(render.CbMethod), f.askMethod),
				On(dialog.OnCallback(render.CbDiscard), f.discardMethod),
				On(dialog.OnCallback(render.CbSave), f.saveRequested),
				On(dialog.OnCallback(render.CbCancel), f.cancelRequested),
			},
			dialog.InsertIngredients: {
				On(dialog.OnCallback(render.CbDone), f.ingredientsDone),
				On(dialog.OnCallback(render.CbCancel), f.backToHub),
				On(dialog.OnText(), f.ingredientText),
			},
			dialog.InsertMethod: {
				On(dialog.OnCallback(render.CbDone), f.methodDone),
				On(dialog.OnCallback(render.CbCancel), f.backToHub),
				On(dialog.OnPhoto(), f.methodPhoto),
				On(dialog.OnText(), f.methodText),
			},
			dialog.InsertMissing: {
				On(dialog.OnCallback(render.CbDone), f.missingDone),
				On(dialog.OnCallback(render.CbCancel), f.cancelRequested),
				On(dialog.OnPhoto(), f.missingPhoto),
				On(dialog.OnText(), f.missingText),
			},
			dialog.InsertVisibility: {
				On(dialog.OnCallback(render.CbPublic, render.CbPrivate),
					f.setVisibility),
			},
			dialog.InsertConfirm: {
				On(dialog.OnCallback(render.CbYes), f.confirmYes),
				On(dialog.OnCallback(render.CbNo), f.confirmNo),
			},
		},
		Fallbacks: []Transition{
			On(dialog.OnCommand("stop"), f.insertStop),
		},
		MapToParent: map[dialog.State]dialog.State{
			dialog.End:  dialog.Menu,
			dialog.Stop: dialog.End,
		},
	}
}

func (f *Flows) askTitle(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	var err error
	if ev.Kind == dialog.KindCallback {
		err = f.editPrompt(ctx, s, render.AskTitle(), nil)
	} else {
		err = f.prompt(ctx, s, render.AskTitle(), nil)
	}
	return dialog.InsertTitle, err
}

func (f *Flows) setTitle(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	title := strings.ToLower(strings.TrimSpace(ev.Text))
	if title == "" {
		return dialog.Same, fail.User("empty title")
	}

	// best-effort, the save may still lose the race
	free, err := f.DB.TitleAvailable(s.ChatID, title)
	if err != nil {
		_ = f.notify(ctx, s, render.SearchFailed())
		return dialog.Same, err
	}
	if !free {
		_ = f.notify(ctx, s, render.TitleTaken(title))
		return dialog.Same, fail.User("title taken")
	}

	s.Draft = &draft.Recipe{Title: title}
	err = f.prompt(ctx, s, render.InsertHub(s.Draft),
		render.InsertHubKb(false))

	return dialog.InsertHub, err
}

func (f *Flows) askIngredients(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Tokens = tokens.New(tokens.ModeIngredient)
	err := f.editPrompt(ctx, s, render.AskIngredients(), render.InputKb())
	return dialog.InsertIngredients, err
}

func (f *Flows) ingredientText(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Tokens.AddFragment(ev.Text)
	return dialog.Same, nil
}

func (f *Flows) ingredientsDone(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	toks, err := s.Tokens.Parse()
	if err != nil {
		_ = f.notify(ctx, s, render.NoIngredients())
		return dialog.Same, err
	}
	s.Draft.AddIngredients(toks)

	return f.backToHub(ctx, s, ev)
}

func (f *Flows) askMethod(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	err := f.editPrompt(ctx, s, render.AskMethod(s.UserName),
		render.InputKb())
	return dialog.InsertMethod, err
}

func (f *Flows) methodText(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Draft.AppendMethod(ev.Text)
	return dialog.Same, nil
}

func (f *Flows) methodPhoto(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Draft.PhotoIDs = append(s.Draft.PhotoIDs, ev.PhotoID)
	s.Draft.AppendMethod(ev.Text)
	return dialog.Same, nil
}

func (f *Flows) methodDone(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	if !s.Draft.HasMethod() {
		_ = f.notify(ctx, s, render.NoMethod())
		return dialog.Same, fail.User("no method text")
	}
	return f.backToHub(ctx, s, ev)
}

func (f *Flows) discardMethod(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Draft.DiscardMethod()
	err := f.editPrompt(ctx, s, render.MethodDiscarded(s.Draft),
		render.InsertHubKb(false))
	return dialog.InsertHub, err
}

func (f *Flows) backToHub(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	err := f.editPrompt(ctx, s, render.InsertHub(s.Draft),
		render.InsertHubKb(s.Draft.HasMethod()))
	return dialog.InsertHub, err
}

// ///// ///// /////

// ///// SAVING

// ///// ///// /////

// saveRequested detours through the missing-data flow when the draft is
// incomplete, ingredients first.
func (f *Flows) saveRequested(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	todo := &s.Draft.Todo
	if !s.Draft.HasIngredients() {
		todo.Request(draft.ItemIngredients)
	}
	if !s.Draft.HasMethod() {
		todo.Request(draft.ItemMethod)
	}

	if todo.Pending() {
		return f.promptMissing(ctx, s)
	}

	s.PendingOp = OpSave
	err := f.editPrompt(ctx, s, render.AskVisibility(),
		render.VisibilityKb())
	return dialog.InsertVisibility, err
}

func (f *Flows) promptMissing(ctx context.Context,
	s *session.Session) (dialog.State, error) {

	var err error
	switch s.Draft.Todo.Next() {
	case draft.ItemIngredients:
		s.Tokens = tokens.New(tokens.ModeIngredient)
		err = f.editPrompt(ctx, s, render.NoIngredients(), render.InputKb())
	case draft.ItemMethod:
		err = f.editPrompt(ctx, s, render.NoMethod(), render.InputKb())
	}

	return dialog.InsertMissing, err
}

func (f *Flows) missingText(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	if s.Draft.Todo.Next() == draft.ItemIngredients {
		s.Tokens.AddFragment(ev.Text)
	} else {
		s.Draft.AppendMethod(ev.Text)
	}
	return dialog.Same, nil
}

func (f *Flows) missingPhoto(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Draft.PhotoIDs = append(s.Draft.PhotoIDs, ev.PhotoID)
	s.Draft.AppendMethod(ev.Text)
	return dialog.Same, nil
}

func (f *Flows) missingDone(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	todo := &s.Draft.Todo
	item := todo.Next()

	switch item {
	case draft.ItemIngredients:
		toks, err := s.Tokens.Parse()
		if err != nil {
			_ = f.notify(ctx, s, render.NoIngredients())
			return dialog.Same, err
		}
		s.Draft.AddIngredients(toks)

	case draft.ItemMethod:
		if !s.Draft.HasMethod() {
			_ = f.notify(ctx, s, render.NoMethod())
			return dialog.Same, fail.User("no method text")
		}

	default:
		return dialog.Same, fail.Transition("nothing pending on done")
	}

	if err := todo.MarkDone(item); err != nil {
		return dialog.Same, err
	}
	if todo.Pending() {
		return f.promptMissing(ctx, s)
	}

	s.PendingOp = OpSave
	err := f.editPrompt(ctx, s, render.AskVisibility(),
		render.VisibilityKb())
	return dialog.InsertVisibility, err
}

func (f *Flows) setVisibility(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Draft.Public = ev.Data == render.CbPublic
	err := f.editPrompt(ctx, s, render.ConfirmSave(s.Draft),
		render.YesNoKb("Yes!", "Nope"))
	return dialog.InsertConfirm, err
}

func (f *Flows) cancelRequested(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.PendingOp = OpCancel
	err := f.editPrompt(ctx, s, render.ConfirmCancel(s.Draft),
		render.YesNoKb("Yes, drop it", "No, keep going"))
	return dialog.InsertConfirm, err
}

func (f *Flows) confirmYes(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	op := s.PendingOp
	s.PendingOp = ""

	switch op {
	case OpSave:
		return f.persistDraft(ctx, s)

	case OpCancel:
		d := s.Draft
		s.Draft = nil
		_ = f.editPrompt(ctx, s, render.Canceled(d), nil)
		err := f.prompt(ctx, s, render.KeepGoing(), render.MenuKb())
		return dialog.End, err
	}

	return dialog.Same, fail.Transition("unknown pending op %q", op)
}

func (f *Flows) confirmNo(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.PendingOp = ""
	err := f.editPrompt(ctx, s, render.InsertHub(s.Draft),
		render.InsertHubKb(s.Draft.HasMethod()))
	return dialog.InsertHub, err
}

// persistDraft writes the recipe, its procedure and photos. Losing the
// title race re-asks for a name.
func (f *Flows) persistDraft(ctx context.Context,
	s *session.Session) (dialog.State, error) {

	d := s.Draft
	rec := &db.Recipe{
		Owner:       s.ChatID,
		Title:       d.Title,
		Public:      d.Public,
		Ingredients: d.Ingredients(),
	}

	err := f.DB.CreateRecipe(rec)
	if fail.IsRace(err) {
		_ = f.editPrompt(ctx, s, render.TitleTaken(d.Title), nil)
		err2 := f.prompt(ctx, s, render.AskTitle(), nil)
		return dialog.InsertTitle, err2
	}
	if err != nil {
		_ = f.notify(ctx, s, render.SearchFailed())
		return dialog.Same, err
	}

	if err := f.Blob.SaveProcedure(s.ChatID, rec.ID, d.Method()); err != nil {
		f.Log.Error("save procedure", "recipe", rec.ID, "err", err)
	}
	if err := f.Blob.SavePhotos(s.ChatID, rec.ID, d.PhotoIDs); err != nil {
		f.Log.Error("save photos", "recipe", rec.ID, "err", err)
	}

	s.Draft = nil
	_ = f.editPrompt(ctx, s, render.Saved(rec.Title), nil)
	err = f.prompt(ctx, s, render.KeepGoing(), render.MenuKb())

	return dialog.End, err
}

func (f *Flows) insertStop(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	d := s.Draft
	s.Draft = nil
	s.PendingOp = ""
	f.retirePrompt(ctx, s)
	_ = f.notify(ctx, s, render.Canceled(d))
	_ = f.notify(ctx, s, render.Stopped())

	return dialog.Stop, nil
}
