package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/socketrpc"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tui.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent.yml")
	cfg, err := loadConfig(newViper(), missing)
	require.NoError(t, err)

	require.Equal(t, socketrpc.DefaultSocketPath, cfg.APISocket)
	require.Equal(t, model.DefaultRefreshInterval, cfg.RefreshInterval)
	require.Equal(t, model.DefaultPollInterval, cfg.PollInterval)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.AutoRefresh)
	require.Equal(t, time.Hour, cfg.LogWindow)
	require.Equal(t, 200, cfg.LogLimit)
	require.Equal(t, 100, cfg.MetricLimit)
	require.Equal(t, 20, cfg.SearchResults)
	require.Equal(t, 24*time.Hour, cfg.SearchWindow)
	require.Equal(t, 5, cfg.ChatContext)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
api-socket: /tmp/chimera.sock
refresh-interval: 1m
poll-interval: 250ms
auto-refresh: false
log-limit: 50
chat-context: 8
log-level: debug
`)
	cfg, err := loadConfig(newViper(), path)
	require.NoError(t, err)

	require.Equal(t, "/tmp/chimera.sock", cfg.APISocket)
	require.Equal(t, time.Minute, cfg.RefreshInterval)
	require.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	require.False(t, cfg.AutoRefresh)
	require.Equal(t, 50, cfg.LogLimit)
	require.Equal(t, 8, cfg.ChatContext)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, path, cfg.ConfigPath)

	opts := cfg.dashboardOptions(zerolog.Nop())
	require.Equal(t, time.Minute, opts.RefreshInterval)
	require.False(t, opts.AutoRefresh)
	require.Equal(t, 50, opts.LogLimit)
}

// Not parallel: t.Setenv.
func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("CHIMERA_API_SOCKET", "/var/run/other.sock")
	t.Setenv("CHIMERA_REQUEST_TIMEOUT", "3s")

	path := writeConfig(t, "api-socket: /tmp/file.sock\n")
	cfg, err := loadConfig(newViper(), path)
	require.NoError(t, err)
	require.Equal(t, "/var/run/other.sock", cfg.APISocket)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestSocketFlagOverridesConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "api-socket: /tmp/file.sock\nlog-level: warn\n")
	v := newViper()
	cmd := newRootCommand(v)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--socket", "/tmp/flag.sock"}))

	cfg, err := loadConfig(v, path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/flag.sock", cfg.APISocket)
	require.Equal(t, "warn", cfg.LogLevel, "unset flag must not shadow the file")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"zero refresh", "refresh-interval: 0s\n"},
		{"poll slower than refresh", "refresh-interval: 1s\npoll-interval: 2s\n"},
		{"bad timeout", "request-timeout: -1s\n"},
		{"bad level", "log-level: loud\n"},
		{"empty socket", "api-socket: \"  \"\n"},
		{"bad duration", "refresh-interval: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadConfig(newViper(), writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(newViper(), writeConfig(t, "api-socket: [unterminated\n"))
	require.ErrorContains(t, err, "reading")
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/home/op/.sock", expandHome("~/.sock", "/home/op"))
	require.Equal(t, "/run/chimera/api.sock", expandHome("/run/chimera/api.sock", "/home/op"))
}
