package dialog

import (
	"github.com/orsinium-labs/enum"
)

// State is a position inside a conversation.
type State enum.Member[string]

var (
	// menu

	Menu = State{"menu"}

	// recipe insertion

	InsertTitle       = State{"insert_title"}
	InsertHub         = State{"insert_hub"}
	InsertIngredients = State{"insert_ingredients"}
	InsertMethod      = State{"insert_method"}
	InsertMissing     = State{"insert_missing"}
	InsertVisibility  = State{"insert_visibility"}
	InsertConfirm     = State{"insert_confirm"}

	// recipe browsing

	BrowseWhich  = State{"browse_which"}
	BrowseList   = State{"browse_list"}
	BrowseDetail = State{"browse_detail"}
	BrowseDelete = State{"browse_delete"}

	// recipe search

	SearchWhich   = State{"search_which"}
	SearchInput   = State{"search_input"}
	SearchConfirm = State{"search_confirm"}

	// control (pseudo-states, never stored)

	// Same keeps the current state.
	Same = State{"same"}
	// End terminates the current conversation. In a child it delegates
	// through MapToParent, in the root it ends the session.
	End = State{"end"}
	// Stop is returned by abort handlers in child conversations and
	// mapped to End all the way up.
	Stop = State{"stop"}

	States = enum.New(
		Menu,
		InsertTitle, InsertHub, InsertIngredients, InsertMethod,
		InsertMissing, InsertVisibility, InsertConfirm,
		BrowseWhich, BrowseList, BrowseDetail, BrowseDelete,
		SearchWhich, SearchInput, SearchConfirm,
		Same, End, Stop,
	)
)
