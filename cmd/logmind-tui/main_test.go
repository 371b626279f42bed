package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chimera/logmind/internal/socketrpc/sockettest"

	"github.com/stretchr/testify/require"
)

func runVersion(t *testing.T, socket string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(newViper())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--socket", socket, "--config", filepath.Join(t.TempDir(), "none.yml")})
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersionQueriesDaemon(t *testing.T) {
	t.Parallel()

	srv := sockettest.Start(t, sockettest.Routes(map[string]string{"VERSION": "0.3.1\nbuild 42\n"}))
	out := runVersion(t, srv.Path())

	require.Contains(t, out, "Chimera LogMind - Dashboard Client")
	require.Contains(t, out, "Daemon:     0.3.1\n")
	require.Equal(t, []string{"VERSION"}, srv.Commands())
}

func TestVersionWithoutDaemon(t *testing.T) {
	t.Parallel()

	out := runVersion(t, filepath.Join(t.TempDir(), "missing.sock"))
	require.Contains(t, out, "Version:    dev")
	require.Contains(t, out, "Daemon:     unavailable")
}
