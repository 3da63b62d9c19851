package render

import (
	"github.com/pancsta/recipai/browse"
	"github.com/pancsta/recipai/db"
)

func MenuKb() Keyboard {
	return Keyboard{
		row(
			Button{"+ New", CbNew},
			Button{"Browse", CbList},
			Button{"Search", CbSearch},
		),
		row(Button{"Help", CbHelp}),
	}
}

func InsertHubKb(hasMethod bool) Keyboard {
	kb := Keyboard{
		row(
			Button{"Ingredients", CbIngredients},
			Button{"Steps & photos", CbMethod},
		),
		row(
			Button{"Save!", CbSave},
			Button{"Cancel", CbCancel},
		),
	}
	if hasMethod {
		kb[1] = append(row(Button{"Drop steps", CbDiscard}), kb[1]...)
	}
	return kb
}

func InputKb() Keyboard {
	return Keyboard{row(
		Button{"Done", CbDone},
		Button{"Cancel", CbCancel},
	)}
}

func VisibilityKb() Keyboard {
	return Keyboard{row(
		Button{"Everyone", CbPublic},
		Button{"Just me", CbPrivate},
	)}
}

func YesNoKb(yes, no string) Keyboard {
	return Keyboard{row(
		Button{yes, CbYes},
		Button{no, CbNo},
	)}
}

func OkKb() Keyboard {
	return Keyboard{row(Button{"OK", CbOk})}
}

func WhichRecipesKb() Keyboard {
	return Keyboard{row(
		Button{"Everyone's!", CbAll},
		Button{"Just mine!", CbMine},
	)}
}

func WhichSearchKb() Keyboard {
	return Keyboard{row(
		Button{"By ingredient", CbByIngredient},
		Button{"By hashtag", CbByHashtag},
	)}
}

func SearchInputKb() Keyboard {
	return Keyboard{row(
		Button{"Done", CbDone},
		Button{"Quit", CbQuit},
	)}
}

func SearchConfirmKb() Keyboard {
	return Keyboard{row(
		Button{"Go!", CbYes},
		Button{"Quit", CbQuit},
	)}
}

// browsing keyboard labels
var vizLabels = map[string]string{
	browse.KeyPrev:     "< Prev",
	browse.KeyNext:     "Next >",
	browse.KeySee:      "Recipe",
	browse.KeySeeBack:  "Ingredients",
	browse.KeyPhotos:   "Photos",
	browse.KeyDelete:   "Delete",
	browse.KeyBookmark: "Bookmark",
	browse.KeyClose:    "x Close",
}

// VizKb renders the browsing keyboard, the privacy label following the
// current recipe's flag.
func VizKb(k *browse.Keyboard, current *db.Recipe) Keyboard {
	var move []Button
	for _, key := range k.MoveKeys() {
		move = append(move, Button{vizLabels[key], key})
	}

	var actions []Button
	for _, key := range k.ActionKeys() {
		label := vizLabels[key]
		if key == browse.KeyPrivacy {
			label = "Publish"
			if current != nil && current.Public {
				label = "Hide"
			}
		}
		actions = append(actions, Button{label, key})
	}

	kb := Keyboard{}
	if len(move) > 0 {
		kb = append(kb, move)
	}
	kb = append(kb, actions,
		row(Button{vizLabels[browse.KeyClose], k.CloseKey()}))

	return kb
}
