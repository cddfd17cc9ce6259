package pages

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNavigationTimeout      = errors.New("page did not finish loading")
	ErrElementNotFound        = errors.New("element not found")
	ErrElementNotInteractable = errors.New("element not interactable")
)

// Error describes a failed page interaction. Last, when set, is the most recent driver
// error seen while polling.
type Error struct {
	Op      string
	Locator string
	Timeout time.Duration
	Err     error
	Last    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q: %v after %s", e.Op, e.Locator, e.Err, e.Timeout)
	if e.Last != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Last)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err means an element never appeared.
func IsNotFound(err error) bool { return errors.Is(err, ErrElementNotFound) }
