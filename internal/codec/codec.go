// Package codec converts between the on-disk JSON documents of the data root
// and the entities in internal/model.
//
// Decoding accepts both the current field names and the legacy names written
// by older versions, preferring the current name when both are present. The
// fallback order for every field is fixed in the resolution tables below and
// is applied once, at decode time. Encoding only ever writes the current
// schema, so every save migrates a record forward.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord is matched by every decode failure.
var ErrMalformedRecord = errors.New("malformed record")

// Kind names the entity a document was decoded as.
type Kind string

const (
	KindProject   Kind = "project"
	KindTimeEntry Kind = "time entry"
	KindDailyFile Kind = "daily time file"
	KindTeamData  Kind = "team data"
	KindStarred   Kind = "starred set"
)

// MalformedError describes why a document could not be decoded.
type MalformedError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s: %s", e.Kind, e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is reports true for ErrMalformedRecord.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformedRecord }

func malformed(kind Kind, reason string, err error) error {
	return &MalformedError{Kind: kind, Reason: reason, Err: err}
}

// decodeObject unmarshals raw into v, requiring a JSON object.
func decodeObject(kind Kind, raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return malformed(kind, "not a JSON object", nil)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return malformed(kind, "invalid JSON", err)
	}
	return nil
}

// encode writes v as 2-space indented JSON with a trailing newline. HTML
// characters are left unescaped so notes stay readable in a diff.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scalar renders a JSON string, number or bool as a string.
func scalar(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// scalarMap keeps the scalar values of m, rendered as strings. Empty results
// are returned as nil.
func scalarMap(m map[string]json.RawMessage) map[string]string {
	var out map[string]string
	for k, raw := range m {
		s, ok := scalar(raw)
		if !ok || s == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(m))
		}
		out[k] = s
	}
	return out
}

// stringList keeps the string items of a JSON array.
func stringList(items []json.RawMessage) []string {
	var out []string
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// parseTimestamp reads RFC 3339 or the naive ISO-8601 form older clients
// wrote. Naive values are taken as local time. Unparseable input yields the
// zero time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
