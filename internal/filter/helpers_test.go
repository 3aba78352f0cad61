package filter

import (
	"github.com/roach88/harq/internal/har"
)

func ptr[T any](v T) *T { return &v }

// newEntry returns a GET 200 entry for https://api.example.com:8080/v1/users?id=1.
func newEntry(opts ...func(*har.Entry)) *har.Entry {
	e := &har.Entry{
		StartedDateTime: "2024-01-15T10:30:00.000Z",
		Time:            150.5,
		Request: har.Request{
			Method:      "GET",
			URL:         "https://api.example.com:8080/v1/users?id=1",
			HTTPVersion: "HTTP/1.1",
			Headers: []har.Header{
				{Name: "Accept", Value: "application/json"},
				{Name: "X-Trace", Value: "first"},
				{Name: "x-trace", Value: "second"},
			},
			HeadersSize: 320,
			BodySize:    0,
		},
		Response: har.Response{
			Status:      200,
			StatusText:  "OK",
			HTTPVersion: "HTTP/2",
			Headers: []har.Header{
				{Name: "Content-Type", Value: "text/html; charset=utf-8"},
				{Name: "Cache-Control", Value: "no-store"},
			},
			Content: har.Content{
				Size:     1024,
				MimeType: ptr("application/json"),
				Text:     ptr(`{"users":[]}`),
			},
			HeadersSize: 210,
			BodySize:    512,
		},
		Timings: har.Timings{
			Blocked: ptr(1.5),
			DNS:     ptr(10.0),
			Connect: ptr(20.0),
			Send:    ptr(0.5),
			Wait:    ptr(100.0),
			Receive: ptr(18.5),
		},
		ServerIPAddress: ptr("10.0.0.1"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func withStatus(code int) func(*har.Entry) {
	return func(e *har.Entry) { e.Response.Status = code }
}

func withMethod(m string) func(*har.Entry) {
	return func(e *har.Entry) { e.Request.Method = m }
}

func withURL(u string) func(*har.Entry) {
	return func(e *har.Entry) { e.Request.URL = u }
}

func withPostBody(mime, text string) func(*har.Entry) {
	return func(e *har.Entry) {
		e.Request.PostData = &har.PostData{MimeType: mime, Text: ptr(text)}
	}
}

func withRequestHeader(name, value string) func(*har.Entry) {
	return func(e *har.Entry) {
		e.Request.Headers = append(e.Request.Headers, har.Header{Name: name, Value: value})
	}
}

func graphQLEntry(body string) *har.Entry {
	return newEntry(withMethod("POST"), withPostBody("application/json", body))
}
