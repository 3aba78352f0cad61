package filter

import (
	"fmt"
	"strings"
)

// FieldKind enumerates the accessors a filter can read from an entry.
type FieldKind int

const (
	FieldMethod FieldKind = iota
	FieldURL
	FieldHost
	FieldDomain
	FieldPath
	FieldScheme
	FieldQuery
	FieldStatus
	FieldStatusText
	FieldTime
	FieldStartedDateTime
	FieldServerIPAddress

	FieldRequestHTTPVersion
	FieldRequestHeadersSize
	FieldRequestBodySize

	FieldResponseHTTPVersion
	FieldResponseHeadersSize
	FieldResponseBodySize
	FieldContentType
	FieldContentSize

	FieldTimingBlocked
	FieldTimingDNS
	FieldTimingConnect
	FieldTimingSSL
	FieldTimingSend
	FieldTimingWait
	FieldTimingReceive

	FieldRequestHeader
	FieldResponseHeader

	FieldGQLOperationName
	FieldGQLOperationType
	FieldGQLQuery
	FieldIsGraphQL
)

// Field is a resolved accessor. Header is set only for FieldRequestHeader
// and FieldResponseHeader and keeps the case it was written with.
type Field struct {
	Kind   FieldKind
	Header string
}

// FieldInfo documents one field for help output.
type FieldInfo struct {
	Kind        FieldKind
	Name        string
	Aliases     []string
	Type        string
	Description string
}

// fieldTable lists every non-parametrized field. Name is the canonical
// spelling used by Field.String; all names and aliases are lowercase.
var fieldTable = []FieldInfo{
	{FieldMethod, "method", nil, "string", "HTTP request method"},
	{FieldURL, "url", nil, "string", "Full request URL"},
	{FieldHost, "host", nil, "string", "URL host without port"},
	{FieldDomain, "domain", nil, "string", "Same as host"},
	{FieldPath, "path", nil, "string", "URL path without query string"},
	{FieldScheme, "scheme", []string{"protocol"}, "string", "http or https"},
	{FieldQuery, "query", []string{"querystring", "query_string"}, "string", "Text after '?', absent when the URL has none"},
	{FieldStatus, "status", nil, "number", "Response status code"},
	{FieldStatusText, "statustext", []string{"status_text"}, "string", "Response status text"},
	{FieldTime, "time", nil, "number", "Total entry time in ms"},
	{FieldStartedDateTime, "starteddatetime", []string{"started_date_time"}, "string", "Request start timestamp"},
	{FieldServerIPAddress, "serveripaddress", []string{"server_ip_address", "serverip"}, "string", "Server IP address, may be absent"},

	{FieldRequestHTTPVersion, "request.httpversion", []string{"request.http_version"}, "string", "Request HTTP version"},
	{FieldRequestHeadersSize, "request.headerssize", []string{"request.headers_size"}, "number", "Request headers size in bytes"},
	{FieldRequestBodySize, "request.bodysize", []string{"request.body_size"}, "number", "Request body size in bytes"},

	{FieldResponseHTTPVersion, "response.httpversion", []string{"response.http_version"}, "string", "Response HTTP version"},
	{FieldResponseHeadersSize, "response.headerssize", []string{"response.headers_size"}, "number", "Response headers size in bytes"},
	{FieldResponseBodySize, "response.bodysize", []string{"response.body_size", "bodysize", "body_size"}, "number", "Response body size in bytes"},
	{FieldContentType, "contenttype", []string{"content_type", "response.contenttype"}, "string", "Response MIME type, falling back to the Content-Type header"},
	{FieldContentSize, "contentsize", []string{"content_size", "response.content.size"}, "number", "Decoded response content size in bytes"},

	{FieldTimingBlocked, "timings.blocked", []string{"blocked"}, "number", "Time blocked in queue, may be absent"},
	{FieldTimingDNS, "timings.dns", []string{"dns"}, "number", "DNS resolution time, may be absent"},
	{FieldTimingConnect, "timings.connect", []string{"connect"}, "number", "TCP connect time, may be absent"},
	{FieldTimingSSL, "timings.ssl", []string{"ssl"}, "number", "TLS handshake time, may be absent"},
	{FieldTimingSend, "timings.send", []string{"send"}, "number", "Request send time, may be absent"},
	{FieldTimingWait, "timings.wait", []string{"wait"}, "number", "Time waiting for the first byte, may be absent"},
	{FieldTimingReceive, "timings.receive", []string{"receive"}, "number", "Response receive time, may be absent"},

	{FieldGQLOperationName, "gql.operation", []string{"gql.operationname", "operationname"}, "string", "GraphQL operationName from the request body"},
	{FieldGQLOperationType, "gql.type", []string{"gql.operationtype", "operationtype"}, "string", "GraphQL operation type: query, mutation or subscription"},
	{FieldGQLQuery, "gql.query", nil, "string", "GraphQL query text from the request body"},
	{FieldIsGraphQL, "gql.isgraphql", []string{"isgraphql"}, "bool", "Whether the request looks like a GraphQL call"},
}

var (
	fieldsByName = buildFieldIndex()
	fieldNames   = buildCanonicalNames()
)

func buildFieldIndex() map[string]FieldKind {
	idx := make(map[string]FieldKind)
	for _, info := range fieldTable {
		idx[info.Name] = info.Kind
		for _, alias := range info.Aliases {
			idx[alias] = info.Kind
		}
	}
	return idx
}

func buildCanonicalNames() map[FieldKind]string {
	names := make(map[FieldKind]string, len(fieldTable))
	for _, info := range fieldTable {
		names[info.Kind] = info.Name
	}
	return names
}

// Fields returns the documented field table, including the two header
// accessors, in display order.
func Fields() []FieldInfo {
	out := make([]FieldInfo, 0, len(fieldTable)+2)
	out = append(out, fieldTable...)
	out = append(out,
		FieldInfo{FieldRequestHeader, `request.header("Name")`, nil, "string", "First request header with that name (case-insensitive)"},
		FieldInfo{FieldResponseHeader, `response.header("Name")`, nil, "string", "First response header with that name (case-insensitive)"},
	)
	return out
}

const (
	requestHeaderPrefix  = "request.header("
	responseHeaderPrefix = "response.header("
)

// ParseField resolves a field name. Names are matched case-insensitively;
// the argument of request.header(...) and response.header(...) keeps its
// case and may be quoted with single or double quotes.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)

	if name, ok := headerArg(s, requestHeaderPrefix); ok {
		return Field{Kind: FieldRequestHeader, Header: name}, nil
	}
	if name, ok := headerArg(s, responseHeaderPrefix); ok {
		return Field{Kind: FieldResponseHeader, Header: name}, nil
	}

	if kind, ok := fieldsByName[strings.ToLower(s)]; ok {
		return Field{Kind: kind}, nil
	}

	return Field{}, &SyntaxError{
		Err:     ErrUnknownField,
		Expr:    s,
		Message: fmt.Sprintf("Unknown field: %s", s),
	}
}

func headerArg(s, prefix string) (string, bool) {
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return unquote(s[len(prefix) : len(s)-1]), true
}

// String returns the canonical spelling of f, which ParseField accepts.
func (f Field) String() string {
	switch f.Kind {
	case FieldRequestHeader:
		return fmt.Sprintf("request.header(%q)", f.Header)
	case FieldResponseHeader:
		return fmt.Sprintf("response.header(%q)", f.Header)
	}
	if name, ok := fieldNames[f.Kind]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", int(f.Kind))
}

// unquote trims s and strips one pair of matching single or double quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
