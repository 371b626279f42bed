package gateway

import (
	"errors"
	"fmt"
)

// ErrMalformedReply is matched by every *MalformedReplyError.
var ErrMalformedReply = errors.New("gateway: malformed reply")

// RejectedError is an "ERR ..." reply: the daemon understood the request and refused it.
type RejectedError struct {
	Command string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("gateway: %s rejected: %s", e.Command, e.Message)
}

// MalformedReplyError means the daemon answered, but not in the expected shape.
// It is kept apart from transport errors so callers can tell "could not reach
// the backend" from "the backend said something unexpected".
type MalformedReplyError struct {
	Command string
	Reason  string
	Reply   string
	Err     error
}

func (e *MalformedReplyError) Error() string {
	msg := fmt.Sprintf("gateway: %s: unexpected reply: %s", e.Command, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedReplyError) Unwrap() error { return e.Err }

func (e *MalformedReplyError) Is(target error) bool { return target == ErrMalformedReply }
