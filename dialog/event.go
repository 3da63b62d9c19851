package dialog

import (
	"strings"

	"github.com/orsinium-labs/enum"
)

// Kind enum

type Kind enum.Member[string]

var (
	KindCommand  = Kind{"command"}
	KindText     = Kind{"text"}
	KindCallback = Kind{"callback"}
	KindPhoto    = Kind{"photo"}
	Kinds        = enum.New(KindCommand, KindText, KindCallback, KindPhoto)
)

// Event is a single incoming chat interaction.
type Event struct {
	Kind Kind

	ChatID   int64
	UserID   int64
	UserName string

	// Text is the command name (without the slash) for KindCommand, the
	// message body for KindText, and the caption for KindPhoto.
	Text string
	// Data is the callback payload for KindCallback.
	Data string
	// PhotoID is the transport file id of the largest photo size.
	PhotoID string
	// MsgID is the id of the message carrying the event.
	MsgID int
}

// Matcher decides if a transition applies to an event.
type Matcher func(ev Event) bool

func OnCommand(names ...string) Matcher {
	return func(ev Event) bool {
		if ev.Kind != KindCommand {
			return false
		}
		for _, n := range names {
			if ev.Text == n {
				return true
			}
		}
		return false
	}
}

// OnText matches any plain text message. Photo captions ride on the
// photo event instead.
func OnText() Matcher {
	return func(ev Event) bool { return ev.Kind == KindText }
}

func OnPhoto() Matcher {
	return func(ev Event) bool { return ev.Kind == KindPhoto }
}

// OnCallback matches callback events carrying one of the given payloads.
func OnCallback(data ...string) Matcher {
	return func(ev Event) bool {
		if ev.Kind != KindCallback {
			return false
		}
		for _, d := range data {
			if ev.Data == d {
				return true
			}
		}
		return false
	}
}

func OnCallbackPrefix(prefix string) Matcher {
	return func(ev Event) bool {
		return ev.Kind == KindCallback && strings.HasPrefix(ev.Data, prefix)
	}
}

func OnAny() Matcher {
	return func(ev Event) bool { return true }
}
