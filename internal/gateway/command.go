package gateway

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// command builds one canonical request line: a verb followed by
// space-separated tokens. Free-text values are percent-encoded so they can
// never split into extra tokens.
type command struct {
	verb   string
	tokens []string
}

func newCommand(verb ...string) *command {
	return &command{verb: strings.Join(verb, " ")}
}

// arg appends key=value. Values with whitespace are encoded anyway.
func (c *command) arg(key, value string) *command {
	if strings.ContainsAny(value, " \t\r\n") {
		value = url.PathEscape(value)
	}
	c.tokens = append(c.tokens, key+"="+value)
	return c
}

// text appends key=<percent-encoded value>.
func (c *command) text(key, value string) *command {
	c.tokens = append(c.tokens, key+"="+url.PathEscape(value))
	return c
}

// optArg appends key=value only when value is non-empty.
func (c *command) optArg(key, value string) *command {
	if value == "" {
		return c
	}
	return c.arg(key, value)
}

func (c *command) int(key string, n int) *command {
	c.tokens = append(c.tokens, key+"="+strconv.Itoa(n))
	return c
}

// seconds appends key=<whole seconds of d>.
func (c *command) seconds(key string, d time.Duration) *command {
	c.tokens = append(c.tokens, key+"="+strconv.FormatInt(int64(d/time.Second), 10))
	return c
}

func (c *command) bool(key string, b bool) *command {
	c.tokens = append(c.tokens, key+"="+strconv.FormatBool(b))
	return c
}

// positional appends a bare token.
func (c *command) positional(v string) *command {
	c.tokens = append(c.tokens, v)
	return c
}

func (c *command) String() string {
	if len(c.tokens) == 0 {
		return c.verb
	}
	return c.verb + " " + strings.Join(c.tokens, " ")
}
