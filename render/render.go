// Package render builds the chat texts and keyboards.
package render

import (
	"fmt"
	"strings"

	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/draft"
	"github.com/pancsta/recipai/shared"
)

// callback payloads outside the browsing keyboard
const (
	CbNew    = "menu:new"
	CbList   = "menu:list"
	CbSearch = "menu:search"
	CbHelp   = "menu:help"

	CbIngredients = "insert:ingredients"
	CbMethod      = "insert:method"
	CbSave        = "insert:save"
	CbCancel      = "insert:cancel"
	CbDone        = "insert:done"
	CbDiscard     = "insert:discard"

	CbPublic  = "visibility:public"
	CbPrivate = "visibility:private"

	CbYes = "confirm:yes"
	CbNo  = "confirm:no"
	CbOk  = "confirm:ok"

	CbMine = "view:mine"
	CbAll  = "view:all"

	CbByIngredient = "search:ingredient"
	CbByHashtag    = "search:hashtag"
	CbQuit         = "search:quit"
)

// Button is one inline key.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an inline keyboard, rows of buttons. A nil Keyboard means
// a plain message.
type Keyboard [][]Button

func row(btns ...Button) []Button { return btns }

// ///// ///// /////

// ///// TEXTS

// ///// ///// /////

func Welcome(name string) string {
	return shared.Sp(`
		Hi %s! I keep your cooking recipes one tap away.
		Use the buttons below or /help for the commands.

		What would you like to do?
	`, name)
}

func MenuText(name string) string {
	return fmt.Sprintf("Hi %s!\nWhat would you like to do?", name)
}

func Help() string {
	return shared.Sp(`
		Supported commands:

		/start - show the main menu
		/new - add a recipe
		/list - browse your recipes or everyone's
		/search - search recipes by ingredient or hashtag
		/help - show this message
		/stop - abort the current operation
	`)
}

func Stopped() string {
	return "Okay, I dropped what we were doing. /start when you need me."
}

func AskTitle() string {
	return "Great! What's the recipe called?"
}

func TitleTaken(title string) string {
	return fmt.Sprintf(
		"You already have a recipe called %q. Pick another name.", title)
}

func InsertHub(r *draft.Recipe) string {
	return shared.Sp(`
		%s
		Tell me more about your new recipe!
	`, draftCard(r))
}

func AskIngredients() string {
	return shared.Sp(`
		Ready! Send me the ingredient list.

		You can send one ingredient per message, or several at once
		separated by commas or line breaks.
	`)
}

func AskMethod(name string) string {
	return shared.Sp(`
		%s, almost there!
		Send me the cooking steps, and a few photos if you like.
	`, name)
}

func NoIngredients() string {
	return "You haven't sent any ingredients yet. A recipe made of air won't do, tell me what goes in it!"
}

func NoMethod() string {
	return "The cooking steps are still missing."
}

func MethodDiscarded(r *draft.Recipe) string {
	return shared.Sp(`
		%s
		Done, I dropped the steps you had written. What now?
	`, draftCard(r))
}

func ConfirmSave(r *draft.Recipe) string {
	return shared.Sp(`
		%s
		Save this recipe?
	`, draftCard(r))
}

func ConfirmCancel(r *draft.Recipe) string {
	title := ""
	if r != nil {
		title = r.Title + " "
	}
	return fmt.Sprintf("%s- really discard this recipe?", title)
}

func AskVisibility() string {
	return "Should other people see this recipe?"
}

func Saved(title string) string {
	return fmt.Sprintf("Recipe %q saved. Enjoy!", title)
}

func Canceled(r *draft.Recipe) string {
	title := ""
	if r != nil {
		title = " " + r.Title
	}
	return fmt.Sprintf("Recipe%s discarded.", title)
}

func KeepGoing() string {
	return "What's next?"
}

func draftCard(r *draft.Recipe) string {
	ingredients := "none yet."
	if r.HasIngredients() {
		ingredients = strings.Join(r.Ingredients(), ", ")
	}
	return fmt.Sprintf("Recipe: %s\nIngredients: %s\n", r.Title, ingredients)
}

// ///// VIEW

func WhichRecipes() string {
	return "Let's go! Which recipes do you want to see?"
}

func NothingFound() string {
	return "I couldn't find any recipe with those criteria :("
}

func NothingLeft() string {
	return "No recipes left to show! Pick something to do."
}

// RecipeCard renders one browsing entry, position 1-based.
func RecipeCard(r *db.Recipe, pos, count int) string {
	names := shared.Map(r.Ingredients, capitalize)
	return shared.Sp(`
		%s

		Ingredients:
		- %s

		Recipe %d/%d
	`, capitalize(r.Title), strings.Join(names, "\n- "), pos, count)
}

func Procedure(r *db.Recipe, text string) string {
	return fmt.Sprintf("How to cook %s\n\n%s", capitalize(r.Title), text)
}

func NoPhotos() string {
	return "There are no photos for this recipe :("
}

func PhotosShown() string {
	return "Nice shots, right? Shall we head back?"
}

func ConfirmDelete() string {
	return "Are you sure you want to delete this recipe?"
}

func Deleted(title string) string {
	return fmt.Sprintf("I deleted the recipe %q :)", title)
}

func DeleteAborted() string {
	return "Deletion aborted. Back to where we were..."
}

func PrivacyChanged(public bool) string {
	if public {
		return "This recipe is now public."
	}
	return "This recipe is now private."
}

func BookmarkStub() string {
	return "Bookmarks aren't available yet, but they're coming!"
}

// ///// SEARCH

func WhichSearch() string {
	return "How do you want to search?"
}

func AskSearchTerms(hashtag bool) string {
	if hashtag {
		return "Send me the hashtags to look for, then press Done."
	}
	return "Send me the ingredients to look for, then press Done."
}

func EmptySearch() string {
	return "You haven't sent me anything to search for yet!"
}

func ConfirmSearch(toks []string) string {
	return fmt.Sprintf("Searching for: %s. Go ahead?",
		strings.Join(toks, ", "))
}

func HashtagUnavailable() string {
	return "Hashtag search isn't wired up yet, sorry. Try by ingredient!"
}

func SearchFailed() string {
	return "Something went wrong on my side, please try again."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
