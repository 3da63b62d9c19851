package flow

import (
	"context"

	"github.com/pancsta/recipai/browse"
	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/render"
	"github.com/pancsta/recipai/session"
)

func (f *Flows) browseConv() *Conversation {
	return &Conversation{
		Name: "browse",
		Entry: []Transition{
			On(dialog.OnCallback(render.CbList), f.whichRecipes),
			On(dialog.OnCommand("list"), f.whichRecipes),
		},
		States: map[dialog.State][]Transition{
			dialog.BrowseWhich: {
				On(dialog.OnCallback(render.CbMine, render.CbAll),
					f.initBrowse),
			},
			dialog.BrowseList:   f.listTransitions(),
			dialog.BrowseDetail: f.detailTransitions(),
			dialog.BrowseDelete: {
				On(dialog.OnCallback(render.CbYes), f.deleteYes),
				On(dialog.OnCallback(render.CbNo), f.deleteNo),
			},
		},
		Fallbacks: []Transition{
			On(dialog.OnCommand("stop"), f.browseStop),
		},
		MapToParent: map[dialog.State]dialog.State{
			dialog.End:  dialog.Menu,
			dialog.Stop: dialog.End,
		},
	}
}

// listTransitions is shared with the search conversation, which browses
// its results with the same controls.
func (f *Flows) listTransitions() []Transition {
	return []Transition{
		On(dialog.OnCallback(browse.KeyPrev, browse.KeyNext), f.moveCursor),
		On(dialog.OnCallback(browse.KeySee, browse.KeySeeBack), f.toggleSee),
		On(dialog.OnCallback(browse.KeyPhotos), f.showPhotos),
		On(dialog.OnCallback(browse.KeyPrivacy), f.togglePrivacy),
		On(dialog.OnCallback(browse.KeyDelete), f.askDelete),
		On(dialog.OnCallback(browse.KeyBookmark), f.bookmark),
		On(dialog.OnCallback(browse.KeyClose), f.closeBrowse),
	}
}

func (f *Flows) detailTransitions() []Transition {
	return []Transition{
		On(dialog.OnCallback(render.CbOk), f.backToList),
	}
}

func (f *Flows) whichRecipes(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	var err error
	if ev.Kind == dialog.KindCallback {
		err = f.editPrompt(ctx, s, render.WhichRecipes(),
			render.WhichRecipesKb())
	} else {
		err = f.prompt(ctx, s, render.WhichRecipes(),
			render.WhichRecipesKb())
	}
	return dialog.BrowseWhich, err
}

func (f *Flows) initBrowse(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	all := ev.Data == render.CbAll
	ids, err := f.DB.ListRecipeIDs(s.ChatID, all)
	if err != nil {
		_ = f.editPrompt(ctx, s, render.SearchFailed(), render.MenuKb())
		return dialog.End, err
	}

	// zero recipes short-circuit straight back to the menu
	if len(ids) == 0 {
		err = f.editPrompt(ctx, s, render.NothingFound(), render.MenuKb())
		return dialog.End, err
	}

	mode := browse.KbOwn
	if all {
		mode = browse.KbAll
	}
	s.Cursor = browse.NewCursor(ids, f.DB.RecipeByID)
	s.Keyboard = browse.NewKeyboard(mode)

	return f.renderList(ctx, s)
}

// renderList redraws the current browsing entry, or bails to the menu
// when the cursor ran out of recipes.
func (f *Flows) renderList(ctx context.Context,
	s *session.Session) (dialog.State, error) {

	cur := s.Cursor
	if cur.Len() == 0 {
		s.Cursor = nil
		s.Keyboard = nil
		err := f.editPrompt(ctx, s, render.NothingLeft(), render.MenuKb())
		return dialog.End, err
	}

	rec, err := cur.Current()
	if err != nil {
		_ = f.editPrompt(ctx, s, render.SearchFailed(), render.MenuKb())
		return dialog.End, err
	}

	s.Keyboard.Update(cur.Pos(), cur.Len())
	err = f.editPrompt(ctx, s,
		render.RecipeCard(rec, cur.Pos()+1, cur.Len()),
		render.VizKb(s.Keyboard, rec))

	return dialog.BrowseList, err
}

func (f *Flows) moveCursor(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	if ev.Data == browse.KeyPrev {
		s.Cursor.Prev()
	} else {
		s.Cursor.Next()
	}
	s.Keyboard.Reset()

	return f.renderList(ctx, s)
}

// toggleSee flips between the recipe card and the procedure view.
func (f *Flows) toggleSee(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Keyboard.Press(ev.Data)
	if !s.Keyboard.Showing(browse.KeySee) {
		return f.renderList(ctx, s)
	}

	rec, err := s.Cursor.Current()
	if err != nil {
		return dialog.Same, err
	}
	text, err := f.Blob.Procedure(rec.Owner, rec.ID)
	if err != nil {
		s.Keyboard.Reset()
		_ = f.notify(ctx, s, render.SearchFailed())
		return dialog.Same, err
	}

	s.Keyboard.Update(s.Cursor.Pos(), s.Cursor.Len())
	err = f.editPrompt(ctx, s, render.Procedure(rec, text),
		render.VizKb(s.Keyboard, rec))

	return dialog.Same, err
}

func (f *Flows) showPhotos(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	rec, err := s.Cursor.Current()
	if err != nil {
		return dialog.Same, err
	}
	photos, err := f.Blob.Photos(rec.Owner, rec.ID)
	if err != nil {
		return dialog.Same, err
	}

	if len(photos) == 0 {
		err = f.editPrompt(ctx, s, render.NoPhotos(), render.OkKb())
		return dialog.BrowseDetail, err
	}

	f.retirePrompt(ctx, s)
	if _, err := f.Tx.SendPhotos(ctx, s.ChatID, photos,
		render.RecipeCard(rec, s.Cursor.Pos()+1, s.Cursor.Len())); err != nil {

		f.Log.Error("send photos", "chat", s.ChatID, "err", err)
	}
	err = f.prompt(ctx, s, render.PhotosShown(), render.OkKb())

	return dialog.BrowseDetail, err
}

func (f *Flows) backToList(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Keyboard.Reset()
	return f.renderList(ctx, s)
}

func (f *Flows) togglePrivacy(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	rec, err := s.Cursor.Current()
	if err != nil {
		return dialog.Same, err
	}
	public, err := f.DB.TogglePrivacy(s.ChatID, rec.ID)
	if err != nil {
		return dialog.Same, err
	}
	rec.Public = public
	_ = f.notify(ctx, s, render.PrivacyChanged(public))

	return f.renderList(ctx, s)
}

func (f *Flows) askDelete(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	err := f.editPrompt(ctx, s, render.ConfirmDelete(),
		render.YesNoKb("Yes, delete", "No, I was kidding"))
	return dialog.BrowseDelete, err
}

func (f *Flows) deleteYes(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	rec, err := s.Cursor.Current()
	if err != nil {
		return dialog.Same, err
	}

	if err := f.DB.DeleteRecipe(s.ChatID, rec.ID); err != nil {
		_ = f.notify(ctx, s, render.SearchFailed())
		return f.renderList(ctx, s)
	}
	if err := f.Blob.Delete(rec.Owner, rec.ID); err != nil {
		f.Log.Error("delete blobs", "recipe", rec.ID, "err", err)
	}

	s.Cursor.DeleteCurrent()
	s.Keyboard.Reset()
	_ = f.editPrompt(ctx, s, render.Deleted(rec.Title), nil)
	err = f.prompt(ctx, s, render.KeepGoing(), nil)

	return f.renderList(ctx, s)
}

func (f *Flows) deleteNo(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	_ = f.editPrompt(ctx, s, render.DeleteAborted(), nil)
	_ = f.prompt(ctx, s, render.KeepGoing(), nil)

	return f.renderList(ctx, s)
}

func (f *Flows) bookmark(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	_ = f.notify(ctx, s, render.BookmarkStub())
	return dialog.Same, nil
}

func (f *Flows) closeBrowse(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Cursor = nil
	s.Keyboard = nil
	err := f.editPrompt(ctx, s, render.MenuText(s.UserName),
		render.MenuKb())
	return dialog.End, err
}

func (f *Flows) browseStop(ctx context.Context, s *session.Session,
	ev dialog.Event) (dialog.State, error) {

	s.Cursor = nil
	s.Keyboard = nil
	f.retirePrompt(ctx, s)
	_ = f.notify(ctx, s, render.Stopped())

	return dialog.Stop, nil
}
