package recipai

import (
	"strconv"

	am "github.com/pancsta/asyncmachine-go/pkg/machine"

	"github.com/pancsta/recipai/dialog"
)

// ///// ///// /////

// ///// ARGS

// ///// ///// /////

// APrefix is the args prefix.
var APrefix = "recipai"

// A is a struct for mutation arguments. It's a typesafe alternative to
// [am.A].
type A struct {
	ChatID int64 `log:"chat_id"`
	Event  *dialog.Event
	Err    error `log:"err"`
}

// ParseArgs extracts A from [am.Event.Args][APrefix] (decoder).
func ParseArgs(args am.A) *A {
	if a, _ := args[APrefix].(*A); a != nil {
		return a
	}
	return &A{}
}

// Pass prepares [am.A] from A to be passed to mutations (encoder).
func Pass(args *A) am.A {
	return am.A{APrefix: args}
}

// LogArgs maps mutation args to log entries.
func LogArgs(args am.A) map[string]string {
	a := ParseArgs(args)
	out := map[string]string{}
	if a.ChatID != 0 {
		out["chat_id"] = strconv.FormatInt(a.ChatID, 10)
	}
	if a.Err != nil {
		out["err"] = a.Err.Error()
	}
	if len(out) == 0 {
		return nil
	}

	return out
}
