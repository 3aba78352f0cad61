package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/har"
)

// headerJSON is the stored shape of one header.
type headerJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// marshalHeaders converts headers to a JSON array TEXT. HTML escaping is
// disabled so values stay readable from the sqlite shell.
func marshalHeaders(headers []har.Header) (string, error) {
	out := make([]headerJSON, len(headers))
	for i, h := range headers {
		out[i] = headerJSON{Name: h.Name, Value: h.Value}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("marshal headers: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unmarshalHeaders parses a JSON array TEXT back into headers.
func unmarshalHeaders(s string) ([]har.Header, error) {
	var in []headerJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, fmt.Errorf("unmarshal headers: %w", err)
	}
	out := make([]har.Header, len(in))
	for i, h := range in {
		out[i] = har.Header{Name: h.Name, Value: h.Value}
	}
	return out, nil
}

// fieldText reads a filter field as text. Absent fields are NULL.
func fieldText(kind filter.FieldKind, e *har.Entry) *string {
	v, ok := filter.Field{Kind: kind}.Value(e)
	if !ok {
		return nil
	}
	s := v.String()
	return &s
}

func nullable(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
