package filter

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"unicode"

	"github.com/roach88/harq/internal/har"
)

// GraphQL detection is a heuristic over the request body; it never looks
// at the URL or response.

// isGraphQL reports whether e is a POST with a JSON or GraphQL body whose
// top-level object carries "operationName" or "query".
func isGraphQL(e *har.Entry) bool {
	if !strings.EqualFold(e.Request.Method, "POST") {
		return false
	}

	mime, _ := e.RequestMimeType()
	mime = strings.ToLower(mime)
	if !strings.Contains(mime, "json") && !strings.Contains(mime, "graphql") {
		return false
	}

	body, ok := requestJSON(e)
	if !ok {
		return false
	}
	_, hasName := body["operationName"]
	_, hasQuery := body["query"]
	return hasName || hasQuery
}

// requestJSON decodes the request body as a JSON object.
func requestJSON(e *har.Entry) (map[string]any, bool) {
	text, ok := e.RequestBody()
	if !ok {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Trailing data makes the body invalid JSON.
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}

	obj, ok := v.(map[string]any)
	return obj, ok
}

// graphQLField reads a top-level body key. Strings are returned as is,
// null is absent, and any other JSON value is returned as compact JSON.
func graphQLField(e *har.Entry, key string) (Value, bool) {
	body, ok := requestJSON(e)
	if !ok {
		return nil, false
	}

	v, ok := body[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, ok := v.(string); ok {
		return String(s), true
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, false
	}
	return String(strings.TrimRight(buf.String(), "\n")), true
}

var operationKeywords = []string{"query", "mutation", "subscription"}

// graphQLOperationType classifies the "query" document by its leading
// keyword. A document opening with '{' is shorthand for a query.
func graphQLOperationType(e *har.Entry) (Value, bool) {
	body, ok := requestJSON(e)
	if !ok {
		return nil, false
	}
	query, ok := body["query"].(string)
	if !ok {
		return nil, false
	}

	doc := strings.TrimLeftFunc(query, unicode.IsSpace)
	for _, kw := range operationKeywords {
		rest, ok := strings.CutPrefix(doc, kw)
		if !ok {
			continue
		}
		if rest == "" || rest[0] == '(' || rest[0] == '{' || startsWithSpace(rest) {
			return String(kw), true
		}
	}

	if strings.HasPrefix(doc, "{") {
		return String("query"), true
	}
	return nil, false
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}
