package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a backend failure.
type Kind int

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport Kind = iota + 1
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus
	// KindDecode means the response body could not be decoded.
	KindDecode
	// KindRejected means a 2xx answer carried "success": false.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindRejected:
		return "rejected"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Client method that fails.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	// Message is the "error" field of the JSON body, when the backend sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// ServerMessage returns the backend's own error message carried by err,
// or "" when there is none.
func ServerMessage(err error) string {
	if be, ok := AsError(err); ok {
		return be.Message
	}
	return ""
}

// IsKind reports whether err is a backend error of the given kind.
func IsKind(err error, k Kind) bool {
	be, ok := AsError(err)
	return ok && be.Kind == k
}
