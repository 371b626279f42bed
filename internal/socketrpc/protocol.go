package socketrpc

import (
	"errors"
	"fmt"
)

// Line Protocol Reference
//
// The LogMind daemon speaks a one-shot text protocol over a Unix stream socket.
// A client connects, writes a single command line, half-closes its write side
// and reads until the daemon closes the connection.
//
//   Request    VERB [SUBVERB] [key=value ...]\n        free-text values percent-encoded
//   Response   zero or more lines, usually one JSON object per line
//   Failure    a line starting with "ERR " followed by a short reason
//   Ack        "OK" optionally followed by key=value tokens (e.g. "OK indexed=10 total=40")
//
// One connection carries exactly one request. There is no pooling or reuse.

const (
	// DefaultSocketPath is where the daemon listens unless CHIMERA_API_SOCKET says otherwise.
	DefaultSocketPath = "/run/chimera/api.sock"

	// SocketEnvVar names the environment variable that overrides the socket path.
	SocketEnvVar = "CHIMERA_API_SOCKET"

	// ErrorSentinel prefixes every failure line written by the daemon.
	ErrorSentinel = "ERR"

	// AckPrefix prefixes acknowledgement lines for mutating commands.
	AckPrefix = "OK"

	// maxResponseSize bounds how much of a reply is buffered (16 MB).
	maxResponseSize = 16 * 1024 * 1024
)

// ErrResponseTooLarge is returned when a reply exceeds maxResponseSize.
var ErrResponseTooLarge = errors.New("socketrpc: response too large")

// ConnectionError means the daemon could not be reached: the socket is
// missing, the connection was refused or the peer reset it.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("socketrpc: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IOError is a read or write failure after the connection was established.
// Timeouts and cancellation are reported as IOError wrapping the context error.
type IOError struct {
	Op  string // "write", "close-write" or "read"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("socketrpc: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
