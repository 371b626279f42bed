package socketrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"
)

// ErrInvalidCommand is returned for commands that would span more than one line.
var ErrInvalidCommand = errors.New("socketrpc: command must be a single line")

// Client sends one-shot commands to the daemon over a Unix domain socket.
// It holds no connection; every Do call dials, writes, half-closes and reads
// to EOF. A Client is safe for concurrent use.
type Client struct {
	addr   string
	dialer net.Dialer
}

// NewClient returns a client for the socket at addr.
func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Addr returns the socket path the client dials.
func (c *Client) Addr() string { return c.addr }

// Do sends command and returns the full raw reply.
//
// The context bounds the whole exchange: its deadline becomes the socket
// deadline and cancelling it aborts a blocked read or write.
func (c *Client) Do(ctx context.Context, command string) (string, error) {
	if strings.ContainsAny(command, "\r\n") {
		return "", ErrInvalidCommand
	}

	conn, err := c.dialer.DialContext(ctx, "unix", c.addr)
	if err != nil {
		return "", &ConnectionError{Addr: c.addr, Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	// Unblock pending I/O as soon as the context is done.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := io.WriteString(conn, command+"\n"); err != nil {
		return "", c.failure(ctx, "write", err)
	}

	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return "", c.failure(ctx, "close-write", err)
		}
	}

	data, err := io.ReadAll(io.LimitReader(conn, maxResponseSize+1))
	if err != nil {
		return "", c.failure(ctx, "read", err)
	}
	if len(data) > maxResponseSize {
		return "", &IOError{Op: "read", Err: ErrResponseTooLarge}
	}
	return string(data), nil
}

// failure classifies an I/O error. A reset peer counts as a connection
// problem; context expiry wins over the raw deadline error it causes.
func (c *Client) failure(ctx context.Context, op string, err error) error {
	if _, ok := ctx.Deadline(); ok && errors.Is(err, os.ErrDeadlineExceeded) {
		// The socket deadline mirrors the context deadline; let the context catch up.
		<-ctx.Done()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &IOError{Op: op, Err: ctxErr}
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return &ConnectionError{Addr: c.addr, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return &IOError{Op: op, Err: err}
}
