package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want Field
	}{
		{"method", Field{Kind: FieldMethod}},
		{"METHOD", Field{Kind: FieldMethod}},
		{"  url  ", Field{Kind: FieldURL}},
		{"host", Field{Kind: FieldHost}},
		{"domain", Field{Kind: FieldDomain}},
		{"protocol", Field{Kind: FieldScheme}},
		{"query_string", Field{Kind: FieldQuery}},
		{"QueryString", Field{Kind: FieldQuery}},
		{"statusText", Field{Kind: FieldStatusText}},
		{"startedDateTime", Field{Kind: FieldStartedDateTime}},
		{"serverIP", Field{Kind: FieldServerIPAddress}},
		{"request.httpVersion", Field{Kind: FieldRequestHTTPVersion}},
		{"request.body_size", Field{Kind: FieldRequestBodySize}},
		{"bodySize", Field{Kind: FieldResponseBodySize}},
		{"response.content.size", Field{Kind: FieldContentSize}},
		{"contentType", Field{Kind: FieldContentType}},
		{"timings.wait", Field{Kind: FieldTimingWait}},
		{"ssl", Field{Kind: FieldTimingSSL}},
		{"gql.operation", Field{Kind: FieldGQLOperationName}},
		{"operationType", Field{Kind: FieldGQLOperationType}},
		{"gql.query", Field{Kind: FieldGQLQuery}},
		{"isGraphQL", Field{Kind: FieldIsGraphQL}},
		{`request.header("Authorization")`, Field{Kind: FieldRequestHeader, Header: "Authorization"}},
		{`response.header('X-Cache')`, Field{Kind: FieldResponseHeader, Header: "X-Cache"}},
		{`Request.Header(x-id)`, Field{Kind: FieldRequestHeader, Header: "x-id"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFieldUnknown(t *testing.T) {
	_, err := ParseField("latency")
	require.Error(t, err)

	assert.True(t, IsUnknownField(err))
	assert.True(t, IsSyntaxError(err))
	assert.EqualError(t, err, "Unknown field: latency")
}

func TestFieldStringRoundTrip(t *testing.T) {
	for _, info := range Fields() {
		f := Field{Kind: info.Kind}
		if info.Kind == FieldRequestHeader || info.Kind == FieldResponseHeader {
			f.Header = "X-Request-Id"
		}

		t.Run(f.String(), func(t *testing.T) {
			got, err := ParseField(f.String())
			require.NoError(t, err)
			assert.Equal(t, f, got)
		})
	}
}

func TestFieldsAliasesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, info := range fieldTable {
		for _, name := range append([]string{info.Name}, info.Aliases...) {
			assert.False(t, seen[name], "duplicate field name %q", name)
			seen[name] = true
		}
	}
}

func TestFieldValue(t *testing.T) {
	e := newEntry()

	tests := []struct {
		field string
		want  Value
	}{
		{"method", String("GET")},
		{"url", String("https://api.example.com:8080/v1/users?id=1")},
		{"host", String("api.example.com")},
		{"domain", String("api.example.com")},
		{"path", String("/v1/users")},
		{"scheme", String("https")},
		{"query", String("id=1")},
		{"status", Number(200)},
		{"statusText", String("OK")},
		{"time", Number(150.5)},
		{"startedDateTime", String("2024-01-15T10:30:00.000Z")},
		{"serverIpAddress", String("10.0.0.1")},
		{"request.httpVersion", String("HTTP/1.1")},
		{"request.headersSize", Number(320)},
		{"request.bodySize", Number(0)},
		{"response.httpVersion", String("HTTP/2")},
		{"response.headersSize", Number(210)},
		{"response.bodySize", Number(512)},
		{"contentType", String("application/json")},
		{"contentSize", Number(1024)},
		{"timings.blocked", Number(1.5)},
		{"timings.dns", Number(10)},
		{"timings.connect", Number(20)},
		{"timings.send", Number(0.5)},
		{"timings.wait", Number(100)},
		{"timings.receive", Number(18.5)},
		{`request.header("accept")`, String("application/json")},
		{`request.header("X-TRACE")`, String("first")},
		{`response.header("cache-control")`, String("no-store")},
		{"isGraphQL", Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, err := ParseField(tt.field)
			require.NoError(t, err)

			got, ok := f.Value(e)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldValueAbsent(t *testing.T) {
	e := newEntry(withURL("https://example.com/index.html"))
	e.ServerIPAddress = nil
	e.Timings.SSL = nil

	for _, name := range []string{
		"query",
		"serverIpAddress",
		"timings.ssl",
		`request.header("Authorization")`,
		`response.header("ETag")`,
		"gql.operation",
		"gql.type",
		"gql.query",
	} {
		t.Run(name, func(t *testing.T) {
			f, err := ParseField(name)
			require.NoError(t, err)

			_, ok := f.Value(e)
			assert.False(t, ok)
		})
	}
}

func TestContentTypeFallsBackToHeader(t *testing.T) {
	e := newEntry()
	e.Response.Content.MimeType = nil

	v, ok := Field{Kind: FieldContentType}.Value(e)
	require.True(t, ok)
	assert.Equal(t, String("text/html; charset=utf-8"), v)
}

func TestURLParts(t *testing.T) {
	tests := []struct {
		url    string
		host   string
		path   string
		scheme string
		query  string
		hasQ   bool
	}{
		{"https://api.example.com:8080/v1/users?id=1", "api.example.com", "/v1/users", "https", "id=1", true},
		{"http://example.com", "example.com", "/", "http", "", false},
		{"http://example.com/", "example.com", "/", "http", "", false},
		{"ftp://files.example.com/a", "ftp", "//files.example.com/a", "", "", false},
		{"example.com/a/b?x=1&y=2", "example.com", "/a/b", "", "x=1&y=2", true},
		{"https://example.com/search?", "example.com", "/search", "https", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.host, urlHost(tt.url))
			assert.Equal(t, tt.path, urlPath(tt.url))
			assert.Equal(t, tt.scheme, urlScheme(tt.url))

			q, ok := urlQuery(tt.url)
			assert.Equal(t, tt.hasQ, ok)
			assert.Equal(t, tt.query, q)
		})
	}
}
