// Package wire decodes the daemon's newline-delimited JSON replies.
//
// Decoding is lenient per line and strict per field: a blank, garbled or
// "ERR" line is reported and skipped without affecting its neighbours, an
// absent field takes its zero value, and a field of the wrong type is a
// DecodeError for that line only.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrorSentinel marks a failure line in a reply.
const ErrorSentinel = "ERR"

// DecodeError describes a reply line that could not be turned into a record.
type DecodeError struct {
	Line   int    // 1-based line number within the reply
	Field  string // offending field, empty for whole-line failures
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "wire: line %d", e.Line)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode lazily yields one Record per valid line of raw, in order.
// Invalid lines yield a nil Record and a *DecodeError; blank lines are
// skipped silently. A line holding a JSON array of objects yields one
// record per element.
func Decode(raw string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		lineNo := 0
		for line := range strings.SplitSeq(raw, "\n") {
			lineNo++
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isErrorLine(line) {
				err := &DecodeError{Line: lineNo, Reason: "backend error", Err: errors.New(strings.TrimSpace(line[len(ErrorSentinel):]))}
				if !yield(Record{}, err) {
					return
				}
				continue
			}
			for rec, err := range parseLine(lineNo, line) {
				if !yield(rec, err) {
					return
				}
			}
		}
	}
}

// DecodeDocument treats the whole reply as one JSON value. Some daemon
// commands (AUDIT FULL, AUDIT DETAILS) pretty-print a single object across
// many lines.
func DecodeDocument(raw string) (Record, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Record{}, &DecodeError{Line: 1, Reason: "empty reply"}
	}
	if isErrorLine(trimmed) {
		return Record{}, &DecodeError{Line: 1, Reason: "backend error", Err: errors.New(strings.TrimSpace(trimmed[len(ErrorSentinel):]))}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil || fields == nil {
		return Record{}, &DecodeError{Line: 1, Reason: "not a JSON object", Err: err}
	}
	return Record{line: 1, fields: fields}, nil
}

func isErrorLine(line string) bool {
	if !strings.HasPrefix(line, ErrorSentinel) {
		return false
	}
	rest := line[len(ErrorSentinel):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == ':'
}

func parseLine(lineNo int, line string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		data := []byte(line)
		switch {
		case bytes.HasPrefix(data, []byte("{")):
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(data, &fields); err != nil {
				yield(Record{}, &DecodeError{Line: lineNo, Reason: "malformed JSON", Err: err})
				return
			}
			yield(Record{line: lineNo, fields: fields}, nil)
		case bytes.HasPrefix(data, []byte("[")):
			var elems []json.RawMessage
			if err := json.Unmarshal(data, &elems); err != nil {
				yield(Record{}, &DecodeError{Line: lineNo, Reason: "malformed JSON", Err: err})
				return
			}
			for i, elem := range elems {
				var fields map[string]json.RawMessage
				if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
					if !yield(Record{}, &DecodeError{Line: lineNo, Reason: fmt.Sprintf("array element %d is not an object", i), Err: err}) {
						return
					}
					continue
				}
				if !yield(Record{line: lineNo, fields: fields}, nil) {
					return
				}
			}
		default:
			yield(Record{}, &DecodeError{Line: lineNo, Reason: "not a JSON object"})
		}
	}
}

// Mapper turns a decoded record into a domain value.
type Mapper[T any] func(Record) (T, error)

// Collect decodes raw and maps every valid record, preserving order.
// Lines that fail to decode or map are returned as issues and left out.
func Collect[T any](raw string, mapper Mapper[T]) ([]T, []error) {
	var (
		out    []T
		issues []error
	)
	for rec, err := range Decode(raw) {
		if err != nil {
			issues = append(issues, err)
			continue
		}
		v, err := mapper(rec)
		if err != nil {
			issues = append(issues, rec.wrap(err))
			continue
		}
		out = append(out, v)
	}
	return out, issues
}
