package sockettest

import (
	"errors"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// failingListener reports a non-shutdown error on every Accept.
type failingListener struct {
	accepts atomic.Int64
}

func (l *failingListener) Accept() (net.Conn, error) {
	l.accepts.Add(1)
	return nil, errors.New("accept: too many open files")
}

func (l *failingListener) Close() error   { return nil }
func (l *failingListener) Addr() net.Addr { return &net.UnixAddr{Name: "fake", Net: "unix"} }

func TestAcceptLoopExitsWhenListenerCloses(t *testing.T) {
	t.Parallel()

	srv := Start(t, Static("OK\n"))
	require.NoError(t, srv.listener.Close())

	done := make(chan struct{})
	go func() {
		srv.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("accept loop still running after listener close")
	}
}

func TestAcceptLoopBacksOffOnErrors(t *testing.T) {
	t.Parallel()

	ln := &failingListener{}
	srv := NewServer(filepath.Join(t.TempDir(), "api.sock"), Static("OK\n"))
	srv.listener = ln
	srv.wg.Add(1)
	go srv.acceptLoop()

	time.Sleep(60 * time.Millisecond)
	srv.Stop()

	require.Less(t, ln.accepts.Load(), int64(20))
}
