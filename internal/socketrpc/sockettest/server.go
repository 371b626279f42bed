// Package sockettest runs an in-process stand-in for the LogMind daemon on a
// temporary Unix socket. It speaks the same one-shot line protocol: read the
// command until the client half-closes, answer, close.
package sockettest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// Handler answers one command. The returned text is written verbatim.
// ctx is cancelled when the server stops, so blocking handlers can bail out.
type Handler func(ctx context.Context, command string) string

// Server is a scripted fake daemon.
type Server struct {
	socketPath string
	handler    Handler
	listener   net.Listener
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	mu       sync.Mutex
	commands []string
}

// NewServer creates a fake daemon listening on socketPath once started.
func NewServer(socketPath string, handler Handler) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening on the Unix socket and accepting connections.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("sockettest: mkdir: %w", err)
	}
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("sockettest: listen: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for connections to drain, and removes the socket file.
func (s *Server) Stop() {
	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

// Path returns the socket path.
func (s *Server) Path() string { return s.socketPath }

// Commands returns every command received so far, in arrival order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// acceptLoop exits once the server stops or the listener is closed. Other
// Accept errors back off before retrying.
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			delay = min(max(2*delay, 5*time.Millisecond), 100*time.Millisecond)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		delay = 0
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	// ReadAll only returns once the client half-closes its write side.
	data, err := io.ReadAll(conn)
	if err != nil {
		conn.Write([]byte("ERR read: " + err.Error() + "\n"))
		return
	}
	command := strings.TrimRight(string(data), "\r\n")

	s.mu.Lock()
	s.commands = append(s.commands, command)
	s.mu.Unlock()

	reply := s.handler(s.ctx, command)
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	io.WriteString(conn, reply)
}

// Start launches a fake daemon on a fresh socket and stops it when the test ends.
func Start(t testing.TB, handler Handler) *Server {
	t.Helper()
	// Keep the path short; sun_path is limited to ~108 bytes.
	dir, err := os.MkdirTemp("", "lmd")
	if err != nil {
		t.Fatalf("sockettest: temp dir: %v", err)
	}
	srv := NewServer(filepath.Join(dir, "api.sock"), handler)
	if err := srv.Start(); err != nil {
		t.Fatalf("sockettest: start: %v", err)
	}
	t.Cleanup(func() {
		srv.Stop()
		os.RemoveAll(dir)
	})
	return srv
}

// Static replies with the same text to every command.
func Static(reply string) Handler {
	return func(context.Context, string) string { return reply }
}

// Routes answers by the longest matching command prefix and falls back to
// "ERR unknown command" like the real daemon.
func Routes(routes map[string]string) Handler {
	prefixes := make([]string, 0, len(routes))
	for p := range routes {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	return func(_ context.Context, command string) string {
		for _, p := range prefixes {
			if strings.HasPrefix(command, p) {
				return routes[p]
			}
		}
		return "ERR unknown command\n"
	}
}

// Hang never answers until the server stops.
func Hang() Handler {
	return func(ctx context.Context, _ string) string {
		<-ctx.Done()
		return ""
	}
}
