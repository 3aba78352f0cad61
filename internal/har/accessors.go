package har

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// headerValue returns the value of the first header whose name matches
// name case-insensitively.
func headerValue(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// RequestHeader returns the first request header named name (case-insensitive).
func (e *Entry) RequestHeader(name string) (string, bool) {
	return headerValue(e.Request.Headers, name)
}

// ResponseHeader returns the first response header named name (case-insensitive).
func (e *Entry) ResponseHeader(name string) (string, bool) {
	return headerValue(e.Response.Headers, name)
}

// ContentType returns the response content MIME type, falling back to the
// Content-Type response header when the content carries none.
func (e *Entry) ContentType() (string, bool) {
	if e.Response.Content.MimeType != nil {
		return *e.Response.Content.MimeType, true
	}
	return e.ResponseHeader("content-type")
}

// RequestBody returns the request body text, if any.
func (e *Entry) RequestBody() (string, bool) {
	if e.Request.PostData == nil || e.Request.PostData.Text == nil {
		return "", false
	}
	return *e.Request.PostData.Text, true
}

// RequestMimeType returns the request body MIME type, if the entry has a body.
func (e *Entry) RequestMimeType() (string, bool) {
	if e.Request.PostData == nil {
		return "", false
	}
	return e.Request.PostData.MimeType, true
}

// Decoded returns the response body bytes. Base64 encoded bodies are decoded
// and, when the Content-Encoding header says so, decompressed.
func (e *Entry) Decoded() ([]byte, error) {
	c := e.Response.Content
	if c.Text == nil {
		return nil, nil
	}
	if c.Encoding == nil || !strings.EqualFold(*c.Encoding, "base64") {
		return []byte(*c.Text), nil
	}

	data, err := base64.StdEncoding.DecodeString(*c.Text)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}

	enc, _ := e.ResponseHeader("content-encoding")
	return decompress(strings.ToLower(strings.TrimSpace(enc)), data)
}

// TextContent returns the response body as text when it is textual.
// Binary bodies (those that do not decode to valid UTF-8) report false.
func (e *Entry) TextContent() (string, bool) {
	data, err := e.Decoded()
	if err != nil || data == nil {
		return "", false
	}
	if !isText(data) {
		return "", false
	}
	return string(data), true
}

func decompress(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			// Browsers often record the already-decoded body alongside
			// the original header.
			return data, nil
		}
		defer zr.Close()
		return io.ReadAll(io.LimitReader(zr, maxDecodedBody))
	case "zstd":
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderMaxMemory(maxDecodedBody),
		)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return data, nil
		}
		return out, nil
	case "br":
		out, err := io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(data)), maxDecodedBody))
		if err != nil {
			return data, nil
		}
		return out, nil
	default:
		return data, nil
	}
}

// maxDecodedBody caps the decompressed size of a single body.
const maxDecodedBody = 64 << 20

func isText(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}
