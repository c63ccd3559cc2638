package services

import (
	"errors"
	"fmt"

	"promoforge/models"
)

// ErrUnknownKind is returned when the requested campaign kind is not in the
// catalog.
var ErrUnknownKind = errors.New("unknown campaign kind")

// ErrNoTasksSelected is returned when the requested task types share no
// names with the kind's declared profiles.
var ErrNoTasksSelected = errors.New("no defined task types selected")

// CreationError aborts a run: a ticket could not be created. Tickets created
// before the failure are reported in the run result and are not rolled back.
type CreationError struct {
	Profile string
	Err     error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("creating %s: %v", e.Profile, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// LinkError records one failed link call. Non-fatal; the run continues.
type LinkError struct {
	Kind models.LinkKind
	From string
	To   string
	Err  error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("linking %s %q %s: %v", e.From, e.Kind, e.To, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// UpdateError records one failed finalization update. Non-fatal; the ticket
// keeps its placeholder-token description.
type UpdateError struct {
	Profile string
	Key     string
	Err     error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("finalizing %s (%s): %v", e.Profile, e.Key, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }
