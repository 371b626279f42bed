// Package gateway maps LogMind daemon capabilities onto typed Go calls.
// Each method composes one command line, sends it through a Doer and maps
// the decoded reply onto model types.
package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/chimera/logmind/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Doer sends one command and returns the raw reply. socketrpc.Client implements it.
type Doer interface {
	Do(ctx context.Context, command string) (string, error)
}

// Options tunes request shapes that are not part of a single call.
type Options struct {
	ChatContext int // context_size for CHAT; 0 = model.DefaultChatContext
}

// Client is the domain gateway. It is stateless apart from its configuration
// and safe for concurrent use.
type Client struct {
	doer Doer
	log  zerolog.Logger
	opts Options
	now  func() time.Time
}

var _ model.Backend = (*Client)(nil)

// New returns a gateway over doer.
func New(doer Doer, logger zerolog.Logger, opts Options) *Client {
	if opts.ChatContext <= 0 {
		opts.ChatContext = model.DefaultChatContext
	}
	return &Client{
		doer: doer,
		log:  logger.With().Str("component", "gateway").Logger(),
		opts: opts,
		now:  time.Now,
	}
}

// roundTrip sends cmd and logs the exchange under a fresh request id.
// Free-text arguments are only logged at trace level.
func (c *Client) roundTrip(ctx context.Context, cmd *command) (string, error) {
	reqID := uuid.NewString()
	line := cmd.String()
	start := time.Now()

	c.log.Trace().Str("request_id", reqID).Str("command", line).Msg("daemon request")
	raw, err := c.doer.Do(ctx, line)

	ev := c.log.Debug()
	if err != nil {
		ev = c.log.Warn().Err(err)
	}
	ev.Str("request_id", reqID).
		Str("verb", cmd.verb).
		Dur("latency", time.Since(start)).
		Int("reply_bytes", len(raw)).
		Msg("daemon reply")
	return raw, err
}

// reportIssues logs lines that were dropped while decoding.
func (c *Client) reportIssues(cmd *command, issues []error) {
	if len(issues) == 0 {
		return
	}
	c.log.Warn().
		Str("verb", cmd.verb).
		Int("dropped_lines", len(issues)).
		Err(issues[0]).
		Msg("skipped undecodable reply lines")
}

func firstLine(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		return strings.TrimSpace(raw[:i])
	}
	return raw
}
