package domain

import "errors"

// Account errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrPhoneTaken          = errors.New("phone number already registered")
	ErrAccountAlreadyBound = errors.New("account bound to another chat identity")
	ErrNotAuthenticated    = errors.New("not authenticated")
)

// Catalog errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCourseTitleTaken = errors.New("course title already exists")
	ErrAlreadyEnrolled  = errors.New("already enrolled in course")
)

// Certificate errors
var (
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Conversation errors
var (
	ErrNoActiveSession  = errors.New("no active wizard session")
	ErrWizardInProgress = errors.New("another wizard already in progress")
	ErrUnknownWizard    = errors.New("unknown wizard kind")
	ErrSessionNotFound  = errors.New("session not found")
)

// Authorization errors
var (
	ErrNotAdmin = errors.New("administrator access required")
)

// ValidationError rejects one wizard step's input. It is conversational, not
// a system failure: the engine re-prompts and the session stays unchanged.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError with the given re-prompt message.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// PreconditionError rejects a wizard entry before any session is created,
// carrying the message shown to the user.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// Precondition builds a PreconditionError with the given message.
func Precondition(msg string) error { return &PreconditionError{Msg: msg} }
