package flow

import (
	"context"
	"errors"

	"github.com/pancsta/recipai/browse"
	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/fail"
	"github.com/pancsta/recipai/render"
	"github.com/pancsta/recipai/session"
	"github.com/pancsta/recipai/tokens"
)

func (f *Flows) searchConv() *Conversation {
	return &Conversation{
		Name: "search",
		Entry: []Transition{
			On(dialog.OnCallback(render.CbSearch), f.whichSearch),
			On(dialog.OnCommand("search"), f.whichSearch),
		},
		States: map[dialog.State][]Transition{
			dialog.SearchWhich: {
				On(dialog.OnCallback(render.CbByIngredient,
					render.CbByHashtag), f.initSearch),
			},
			dialog.SearchInput: {
				On(dialog.OnCallback(render.CbDone), f.searchDone),
				On(dialog.OnCallback(render.CbQuit), f.searchQuit),
				On(dialog.OnText(), f.searchText),
			},
			dialog.SearchConfirm: {
				On(dialog.OnCallback(render.CbYes), f.performSearch),
				On(dialog.OnCallback(render.CbQuit), f.searchQuit),
			},
			// results reuse the browsing controls
			dialog.BrowseList:   f.listTransitions(),
			dialog.BrowseDetail: f.detailTransitions(),
			dialog.BrowseDelete: {
				On(dialog.OnCallback(render.CbYes), f.deleteYes),
				On(dialog.OnCallback(render.CbNo), f.deleteNo),
			},
		},
		Fallbacks: []Transition{
			On(dialog.OnCommand("stop"), f.searchStop),
		},
		MapToParent: map[dialog.State]dialog.State{
			dialog.End:  dialog.Menu,
			dialog.Stop: dialog.End,
		},
	}
}

func (f *Flows) whichSearch(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	var err error
	if ev.Kind == dialog.KindCallback {
		err = f.editPrompt(ctx, s, render.WhichSearch(),
			render.WhichSearchKb())
	} else {
		err = f.prompt(ctx, s, render.WhichSearch(),
			render.WhichSearchKb())
	}
	return dialog.SearchWhich, err
}

func (f *Flows) initSearch(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	mode := tokens.ModeIngredient
	if ev.Data == render.CbByHashtag {
		mode = tokens.ModeHashtag
	}
	s.Tokens = tokens.New(mode)
	s.SearchToks = nil

	err := f.editPrompt(ctx, s,
		render.AskSearchTerms(mode == tokens.ModeHashtag),
		render.SearchInputKb())
	return dialog.SearchInput, err
}

func (f *Flows) searchText(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Tokens.AddFragment(ev.Text)
	return dialog.Same, nil
}

// searchDone parses the buffered fragments. An empty buffer is a user
// error and keeps the input state, consuming nothing.
func (f *Flows) searchDone(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	toks, err := s.Tokens.Parse()
	if err != nil {
		_ = f.notify(ctx, s, render.EmptySearch())
		return dialog.Same, err
	}
	s.SearchToks = toks

	err = f.editPrompt(ctx, s, render.ConfirmSearch(toks),
		render.SearchConfirmKb())
	return dialog.SearchConfirm, err
}

func (f *Flows) performSearch(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	if s.Tokens.Mode() == tokens.ModeHashtag {
		// no hashtag backend wired yet
		_ = f.editPrompt(ctx, s, render.HashtagUnavailable(),
			render.SearchConfirmKb())
		return dialog.Same, fail.Collab(errors.New("hashtag search not implemented"))
	}

	ids, err := f.DB.SearchByIngredients(s.ChatID, s.SearchToks)
	if err != nil {
		_ = f.editPrompt(ctx, s, render.SearchFailed(),
			render.SearchConfirmKb())
		return dialog.Same, err
	}
	if len(ids) == 0 {
		err = f.editPrompt(ctx, s, render.NothingFound(),
			render.SearchConfirmKb())
		return dialog.Same, err
	}

	s.Cursor = browse.NewCursor(ids, f.DB.RecipeByID)
	s.Keyboard = browse.NewKeyboard(browse.KbSearch)

	return f.renderList(ctx, s)
}

func (f *Flows) searchQuit(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Tokens = nil
	s.SearchToks = nil
	err := f.editPrompt(ctx, s, render.MenuText(s.UserName),
		render.MenuKb())
	return dialog.End, err
}

func (f *Flows) searchStop(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Tokens = nil
	s.SearchToks = nil
	s.Cursor = nil
	s.Keyboard = nil
	f.retirePrompt(ctx, s)
	_ = f.notify(ctx, s, render.Stopped())

	return dialog.Stop, nil
}
