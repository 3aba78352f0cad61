package search

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/harq/internal/har"
)

func ptr[T any](v T) *T { return &v }

func TestLiteralMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		opts     Options
		input    string
		want     bool
	}{
		{"single hit", []string{"api"}, Options{}, "https://api.example.com", true},
		{"single miss", []string{"cdn"}, Options{}, "https://api.example.com", false},
		{"case sensitive", []string{"API"}, Options{}, "https://api.example.com", false},
		{"ignore case", []string{"API"}, Options{IgnoreCase: true}, "https://api.example.com", true},
		{"any of many", []string{"cdn", "users"}, Options{}, "/v1/users", true},
		{"unicode fold", []string{"ÜBER"}, Options{IgnoreCase: true}, "/über/uns", true},
		{"empty pattern", []string{""}, Options{}, "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patterns, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.input))
		})
	}
}

func TestRegexMatcher(t *testing.T) {
	m, err := New([]string{`users/\d+`, `^ftp:`}, Options{Regex: true})
	require.NoError(t, err)
	assert.True(t, m.Match("/v1/users/42"))
	assert.True(t, m.Match("ftp://host"))
	assert.False(t, m.Match("/v1/users/me"))

	m, err = New([]string{"GRAPHQL"}, Options{Regex: true, IgnoreCase: true})
	require.NoError(t, err)
	assert.True(t, m.Match("/graphql"))
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	_, err = New([]string{"("}, Options{Regex: true})
	assert.ErrorContains(t, err, `invalid regex "("`)
}

func testEntry() *har.Entry {
	return &har.Entry{
		Request: har.Request{
			Method:   "POST",
			URL:      "https://api.example.com/graphql",
			Headers:  []har.Header{{Name: "X-Request-Id", Value: "abc123"}},
			PostData: &har.PostData{MimeType: "application/json", Text: ptr(`{"query":"{ viewer }"}`)},
		},
		Response: har.Response{
			Status:  200,
			Headers: []har.Header{{Name: "Server", Value: "nginx"}},
			Content: har.Content{
				Text:     ptr(base64.StdEncoding.EncodeToString([]byte("secret-token"))),
				Encoding: ptr("base64"),
			},
		},
	}
}

func TestMatchEntryScopes(t *testing.T) {
	e := testEntry()

	tests := []struct {
		pattern string
		scope   Scope
		want    bool
	}{
		{"graphql", Scope{}, true},
		{"nginx", Scope{}, false},
		{"nginx", Scope{Headers: true}, true},
		{"X-Request-Id", Scope{Headers: true}, true},
		{"graphql", Scope{Headers: true}, false},
		{"viewer", Scope{Body: true}, true},
		{"secret-token", Scope{Body: true}, true},
		{"secret-token", Scope{URL: true, Headers: true}, false},
		{"graphql", Scope{URL: true, Body: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			m, err := New([]string{tt.pattern}, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, MatchEntry(m, e, tt.scope))
		})
	}
}

func TestEntriesInvert(t *testing.T) {
	entries := []har.Entry{
		{Request: har.Request{URL: "https://a.example.com/"}},
		{Request: har.Request{URL: "https://b.example.com/"}},
		{Request: har.Request{URL: "https://a.example.com/x"}},
	}
	m, err := New([]string{"a.example"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, Entries(m, entries, Scope{}, false))
	assert.Equal(t, []int{1}, Entries(m, entries, Scope{}, true))
}
