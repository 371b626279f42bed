package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FieldError reports a field that is present but holds the wrong JSON type.
type FieldError struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: want %s, got %s", e.Field, e.Want, e.Got)
}

// Record is one decoded JSON object. Accessors distinguish an absent (or
// null) field, which yields the zero value, from a present field of the
// wrong type, which yields a *FieldError.
type Record struct {
	line   int
	fields map[string]json.RawMessage
}

// NewRecord builds a record from already-decoded fields. Mostly for tests.
func NewRecord(fields map[string]any) Record {
	raw := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		data, _ := json.Marshal(v)
		raw[k] = data
	}
	return Record{line: 1, fields: raw}
}

// Line returns the 1-based reply line the record came from.
func (r Record) Line() int { return r.line }

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	raw, ok := r.fields[key]
	return ok && kindOf(raw) != "null"
}

// Keys returns the record's field names, sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Value decodes the whole record into generic Go values.
func (r Record) Value() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, raw := range r.fields {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			out[k] = v
		}
	}
	return out
}

func (r Record) get(key string) (json.RawMessage, bool) {
	raw, ok := r.fields[key]
	if !ok || kindOf(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func (r Record) String(key string) (string, error) {
	raw, ok := r.get(key)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &FieldError{Field: key, Want: "string", Got: kindOf(raw)}
	}
	return s, nil
}

func (r Record) Float(key string) (float64, error) {
	raw, ok := r.get(key)
	if !ok {
		return 0, nil
	}
	if kindOf(raw) != "number" {
		return 0, &FieldError{Field: key, Want: "number", Got: kindOf(raw)}
	}
	return strconv.ParseFloat(string(raw), 64)
}

// Int truncates fractional numbers toward zero. Values outside the int64
// range are a FieldError.
func (r Record) Int(key string) (int64, error) {
	f, err := r.Float(key)
	if err != nil {
		return 0, err
	}
	// -2^63 is exact in float64; 2^63 is the first value past MaxInt64.
	if math.IsNaN(f) || f < math.MinInt64 || f >= -math.MinInt64 {
		return 0, &FieldError{Field: key, Want: "integer", Got: "out of range number"}
	}
	return int64(math.Trunc(f)), nil
}

func (r Record) Bool(key string) (bool, error) {
	raw, ok := r.get(key)
	if !ok {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, &FieldError{Field: key, Want: "boolean", Got: kindOf(raw)}
	}
	return b, nil
}

// ID accepts either a string or a number; numbers are rendered without
// exponent or trailing zeros.
func (r Record) ID(key string) (string, error) {
	raw, ok := r.get(key)
	if !ok {
		return "", nil
	}
	switch kindOf(raw) {
	case "string":
		return r.String(key)
	case "number":
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return "", &FieldError{Field: key, Want: "string or number", Got: "number"}
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	default:
		return "", &FieldError{Field: key, Want: "string or number", Got: kindOf(raw)}
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Time accepts epoch seconds (possibly fractional) or an ISO-8601 string.
// Zone-less strings are taken as UTC.
func (r Record) Time(key string) (time.Time, error) {
	raw, ok := r.get(key)
	if !ok {
		return time.Time{}, nil
	}
	switch kindOf(raw) {
	case "number":
		f, err := r.Float(key)
		if err != nil {
			return time.Time{}, err
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case "string":
		s, _ := r.String(key)
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, &FieldError{Field: key, Want: "timestamp", Got: fmt.Sprintf("string %q", s)}
	default:
		return time.Time{}, &FieldError{Field: key, Want: "timestamp", Got: kindOf(raw)}
	}
}

// Object returns a nested object. ok is false when the field is absent.
func (r Record) Object(key string) (rec Record, ok bool, err error) {
	raw, present := r.get(key)
	if !present {
		return Record{}, false, nil
	}
	var fields map[string]json.RawMessage
	if kindOf(raw) != "object" || json.Unmarshal(raw, &fields) != nil {
		return Record{}, false, &FieldError{Field: key, Want: "object", Got: kindOf(raw)}
	}
	return Record{line: r.line, fields: fields}, true, nil
}

// Objects returns a nested array of objects. Non-object elements are a type error.
func (r Record) Objects(key string) ([]Record, error) {
	raw, ok := r.get(key)
	if !ok {
		return nil, nil
	}
	var elems []json.RawMessage
	if kindOf(raw) != "array" || json.Unmarshal(raw, &elems) != nil {
		return nil, &FieldError{Field: key, Want: "array", Got: kindOf(raw)}
	}
	out := make([]Record, 0, len(elems))
	for i, elem := range elems {
		var fields map[string]json.RawMessage
		if kindOf(elem) != "object" || json.Unmarshal(elem, &fields) != nil {
			return nil, &FieldError{Field: fmt.Sprintf("%s[%d]", key, i), Want: "object", Got: kindOf(elem)}
		}
		out = append(out, Record{line: r.line, fields: fields})
	}
	return out, nil
}

// StringMap returns an object's members as text. Strings are taken as is,
// other scalars by their JSON spelling, nested values as compact JSON.
func (r Record) StringMap(key string) (map[string]string, error) {
	obj, ok, err := r.Object(key)
	if err != nil || !ok {
		return map[string]string{}, err
	}
	out := make(map[string]string, len(obj.fields))
	for k, raw := range obj.fields {
		switch kindOf(raw) {
		case "string":
			s, _ := obj.String(k)
			out[k] = s
		case "null":
			out[k] = ""
		default:
			var buf bytes.Buffer
			if json.Compact(&buf, raw) == nil {
				out[k] = buf.String()
			} else {
				out[k] = string(raw)
			}
		}
	}
	return out, nil
}

// BoolMap returns an object whose members must all be booleans.
func (r Record) BoolMap(key string) (map[string]bool, error) {
	obj, ok, err := r.Object(key)
	if err != nil || !ok {
		return map[string]bool{}, err
	}
	out := make(map[string]bool, len(obj.fields))
	for k := range obj.fields {
		b, err := obj.Bool(k)
		if err != nil {
			return map[string]bool{}, &FieldError{Field: key + "." + k, Want: "boolean", Got: kindOf(obj.fields[k])}
		}
		out[k] = b
	}
	return out, nil
}

// wrap promotes a mapper error to a line-level DecodeError.
func (r Record) wrap(err error) error {
	if fe, ok := err.(*FieldError); ok {
		reason := "wrong type"
		if fe.Got == "absent" {
			reason = "missing field"
		}
		return &DecodeError{Line: r.line, Field: fe.Field, Reason: reason, Err: fe}
	}
	if _, ok := err.(*DecodeError); ok {
		return err
	}
	return &DecodeError{Line: r.line, Reason: "invalid record", Err: err}
}

func kindOf(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// Fields reads several values from a record and remembers the first type
// error, so mappers can be written as straight-line struct literals.
// Every accessor takes one or more keys; the first key present wins, which
// is how wire aliases (e.g. "title" and "filename") are handled.
type Fields struct {
	rec Record
	err error
}

// Fields returns an accumulating reader over r.
func (r Record) Fields() *Fields { return &Fields{rec: r} }

// Err returns the first type error encountered.
func (f *Fields) Err() error { return f.err }

func (f *Fields) pick(keys []string) string {
	for _, k := range keys {
		if f.rec.Has(k) {
			return k
		}
	}
	return keys[0]
}

func (f *Fields) keep(err error) {
	if err != nil && f.err == nil {
		f.err = err
	}
}

func (f *Fields) String(keys ...string) string {
	v, err := f.rec.String(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) Float(keys ...string) float64 {
	v, err := f.rec.Float(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) Int(keys ...string) int64 {
	v, err := f.rec.Int(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) Bool(keys ...string) bool {
	v, err := f.rec.Bool(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) ID(keys ...string) string {
	v, err := f.rec.ID(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) Time(keys ...string) time.Time {
	v, err := f.rec.Time(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) StringMap(keys ...string) map[string]string {
	v, err := f.rec.StringMap(f.pick(keys))
	f.keep(err)
	return v
}

func (f *Fields) BoolMap(keys ...string) map[string]bool {
	v, err := f.rec.BoolMap(f.pick(keys))
	f.keep(err)
	return v
}

// OptString returns nil when none of the keys is present.
func (f *Fields) OptString(keys ...string) *string {
	key := f.pick(keys)
	if !f.rec.Has(key) {
		return nil
	}
	v, err := f.rec.String(key)
	f.keep(err)
	return &v
}

// OptFloat returns nil when none of the keys is present.
func (f *Fields) OptFloat(keys ...string) *float64 {
	key := f.pick(keys)
	if !f.rec.Has(key) {
		return nil
	}
	v, err := f.rec.Float(key)
	f.keep(err)
	return &v
}

// OptInt returns nil when none of the keys is present.
func (f *Fields) OptInt(keys ...string) *int64 {
	key := f.pick(keys)
	if !f.rec.Has(key) {
		return nil
	}
	v, err := f.rec.Int(key)
	f.keep(err)
	return &v
}

// Require records an error when none of the keys is present.
func (f *Fields) Require(keys ...string) {
	for _, k := range keys {
		if f.rec.Has(k) {
			return
		}
	}
	f.keep(&FieldError{Field: strings.Join(keys, "|"), Want: "present", Got: "absent"})
}
