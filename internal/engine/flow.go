package engine

import (
	"context"
	"errors"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// LanguageKey is the reserved Collected entry holding the language code the
// client reported on its most recent answer. No step may use it as a Field.
const LanguageKey = "language"

// Step is one prompt/validator/field unit of a wizard. Validate inspects the
// inbound event together with everything collected so far and returns the
// canonical value to store under Field.
//
// Validate reports failures through three error shapes:
//   - *domain.ValidationError: re-prompt, session unchanged;
//   - Abort(...): business failure, session cleared, user told why;
//   - anything else: transient failure, session unchanged, generic reply.
type Step struct {
	Field    string
	Prompt   string
	Validate func(ctx context.Context, ev domain.Event, collected map[string]string) (string, error)

	// Menu, when set, supplies the keyboard shown with the prompt (e.g. a
	// user-selection list or a skip button).
	Menu func(ctx context.Context, chatID int64) *domain.Menu
}

// Flow is a complete wizard definition: an ordered step list and a single
// commit action executed at the terminal step. Guard, when set, runs before
// any session is created.
type Flow struct {
	Kind   domain.WizardKind
	Guard  func(ctx context.Context, chatID int64) error
	Steps  []Step
	Commit func(ctx context.Context, chatID int64, collected map[string]string) (string, error)
}

func (f *Flow) stepIndex(field string) int {
	for i := range f.Steps {
		if f.Steps[i].Field == field {
			return i
		}
	}
	return -1
}

// abortError terminates a wizard with a user-facing explanation. The wrapped
// cause keeps the business error kind available through errors.Is.
type abortError struct {
	msg string
	err error
}

func (e *abortError) Error() string { return e.err.Error() }
func (e *abortError) Unwrap() error { return e.err }

// Abort wraps a business failure (conflict, not-found) so the engine clears
// the session and shows msg instead of a generic failure.
func Abort(msg string, err error) error {
	return &abortError{msg: msg, err: err}
}

func asAbort(err error) (*abortError, bool) {
	var ae *abortError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
