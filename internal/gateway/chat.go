package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/wire"
)

// ErrEmptyMessage is returned by Chat for blank input.
var ErrEmptyMessage = errors.New("gateway: empty chat message")

// Chat sends one RAG chat turn and returns the assistant reply.
//
// Wire shape: CHAT query=<percent-encoded> context_size=<n>, answered by a
// single {"response": ..., "confidence"?: ..., "sources_count"?: ...} object.
func (c *Client) Chat(ctx context.Context, message string) (model.ChatTurn, error) {
	if strings.TrimSpace(message) == "" {
		return model.ChatTurn{}, ErrEmptyMessage
	}
	cmd := newCommand("CHAT").text("query", message).int("context_size", c.opts.ChatContext)
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return model.ChatTurn{}, err
	}

	line := firstLine(raw)
	switch {
	case line == "":
		return model.ChatTurn{}, &MalformedReplyError{Command: cmd.verb, Reason: "empty reply", Reply: raw}
	case isErrorLine(line):
		return model.ChatTurn{}, rejected(cmd, line)
	}

	rec, err := wire.DecodeDocument(line)
	if err != nil {
		rec, err = wire.DecodeDocument(raw)
	}
	if err != nil {
		return model.ChatTurn{}, &MalformedReplyError{Command: cmd.verb, Reason: "expected a JSON object", Reply: raw, Err: err}
	}
	turn, err := mapChat(rec)
	if err != nil {
		return model.ChatTurn{}, &MalformedReplyError{Command: cmd.verb, Reason: "invalid chat reply", Reply: raw, Err: err}
	}
	turn.Timestamp = c.now()
	return turn, nil
}
