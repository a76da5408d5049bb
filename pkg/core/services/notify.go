package services

import (
	"errors"
	"fmt"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
)

// Level is the kind of message shown to the operator
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows short messages to the operator
type Notifier interface {
	Notify(level Level, message string)
}

// notifiedError marks an error whose message has already been shown to the operator
type notifiedError struct {
	err error
}

func (e *notifiedError) Error() string {
	return e.err.Error()
}

func (e *notifiedError) Unwrap() error {
	return e.err
}

// Notified reports whether err has already been surfaced through a Notifier
func Notified(err error) bool {
	var ne *notifiedError
	return errors.As(err, &ne)
}

// fail shows exactly one error notification for err and returns it marked as notified.
// A 401 is not repeated as the router has already told the operator to log in again.
func fail(n Notifier, action string, err error) error {
	if !parkingclient.IsUnauthorized(err) {
		n.Notify(LevelError, fmt.Sprintf("%s: %s", action, parkingclient.UserMessage(err)))
	}
	return &notifiedError{err: fmt.Errorf("%s: %w", action, err)}
}
