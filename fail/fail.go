// Package fail defines the error kinds shared by the conversation flows.
package fail

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Match with errors.Is.
var (
	// ErrUser marks problems caused by user input. The flow messages the
	// user and usually keeps the current state.
	ErrUser = errors.New("user error")
	// ErrTransition marks an internal contract breach. The flow logs it
	// loudly and resets the conversation to a safe state.
	ErrTransition = errors.New("invalid transition")
	// ErrCollab marks a failing collaborator (db, blob store, transport).
	ErrCollab = errors.New("collaborator error")
	// ErrRace marks a lost race against a best-effort pre-check, eg a
	// duplicate recipe title at save time.
	ErrRace = errors.New("race lost")
)

func User(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUser, fmt.Sprintf(format, args...))
}

func Transition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransition, fmt.Sprintf(format, args...))
}

func Collab(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrCollab, err)
}

func Race(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRace, fmt.Sprintf(format, args...))
}

func IsUser(err error) bool       { return errors.Is(err, ErrUser) }
func IsTransition(err error) bool { return errors.Is(err, ErrTransition) }
func IsCollab(err error) bool     { return errors.Is(err, ErrCollab) }
func IsRace(err error) bool       { return errors.Is(err, ErrRace) }
