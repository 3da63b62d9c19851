// Package schema contains a stateful schema-v2 for the recipe agent.
// Bootstrapped with am-gen. Edit manually or re-gen & merge.
package schema

import (
	am "github.com/pancsta/asyncmachine-go/pkg/machine"
	ssam "github.com/pancsta/asyncmachine-go/pkg/states"
)

// aliases

type S = am.S

var SchemaMerge = am.SchemaMerge

// RecipaiStatesDef contains all the states of the agent state machine.
type RecipaiStatesDef struct {
	*am.StatesBase

	// ERRORS

	ErrDB  string
	ErrBot string

	// DB

	DBStarting string
	DBReady    string

	// TRANSPORT

	BotStarting string
	BotReady    string

	// ACTIONS

	// Heartbeat drives periodic maintenance.
	Heartbeat string
	// SessionGC evicts idle chat sessions.
	SessionGC string

	// inherit from BasicStatesDef
	*ssam.BasicStatesDef
	// inherit from DisposedStatesDef
	*ssam.DisposedStatesDef
}

// RecipaiGroupsDef contains all the state groups of the agent machine.
type RecipaiGroupsDef struct {
	// Starting groups the boot phases of the collaborators.
	Starting S
}

// RecipaiSchema represents all relations and properties of RecipaiStates.
var RecipaiSchema = SchemaMerge(
	// inherit from BasicStruct
	ssam.BasicSchema,
	// inherit from DisposedStruct
	ssam.DisposedSchema,
	am.Schema{

		// BASIC OVERRIDES

		ssR.Start: {Add: S{ssR.DBStarting}},
		ssR.Ready: {Require: S{ssR.DBReady, ssR.BotReady}},

		// ERRORS

		ssR.ErrDB:  {Require: S{ssR.Exception}},
		ssR.ErrBot: {Require: S{ssR.Exception}},

		// DB

		ssR.DBStarting: {
			Require: S{ssR.Start},
			Remove:  S{ssR.DBReady},
		},
		ssR.DBReady: {
			Require: S{ssR.Start},
			Remove:  S{ssR.DBStarting},
			Add:     S{ssR.BotStarting},
		},

		// TRANSPORT

		ssR.BotStarting: {
			Require: S{ssR.DBReady},
			Remove:  S{ssR.BotReady},
		},
		ssR.BotReady: {
			Require: S{ssR.Start},
			Remove:  S{ssR.BotStarting},
			Add:     S{ssR.Ready},
		},

		// ACTIONS

		ssR.Heartbeat: {Require: S{ssR.Ready}},
		ssR.SessionGC: {Require: S{ssR.Ready}},
	})

// EXPORTS AND GROUPS

var (
	ssR = am.NewStates(RecipaiStatesDef{})
	sgR = am.NewStateGroups(RecipaiGroupsDef{
		Starting: S{ssR.DBStarting, ssR.BotStarting},
	})

	// RecipaiStates contains all the states for the agent machine.
	RecipaiStates = ssR
	// RecipaiGroups contains all the state groups for the agent machine.
	RecipaiGroups = sgR
)
