package har

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HAR is the root of an HTTP Archive document.
type HAR struct {
	Log Log `json:"log"`
}

// Log is the main container of a HAR document.
type Log struct {
	Version string   `json:"version"`
	Creator Creator  `json:"creator"`
	Browser *Creator `json:"browser,omitempty"`
	Pages   []Page   `json:"pages,omitempty"`
	Entries []Entry  `json:"entries"`
	Comment string   `json:"comment,omitempty"`
}

// Creator describes the application (or browser) that produced the log.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Comment string `json:"comment,omitempty"`
}

// Page describes one exported page.
type Page struct {
	StartedDateTime string       `json:"startedDateTime"`
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	PageTimings     *PageTimings `json:"pageTimings,omitempty"`
	Comment         string       `json:"comment,omitempty"`
}

// PageTimings holds page-level load timings in milliseconds.
type PageTimings struct {
	OnContentLoad *float64 `json:"onContentLoad,omitempty"`
	OnLoad        *float64 `json:"onLoad,omitempty"`
	Comment       string   `json:"comment,omitempty"`
}

// Entry is one captured HTTP request/response exchange.
//
// Extra holds custom fields (HAR allows keys prefixed with "_") so that a
// filtered archive round-trips them unchanged.
type Entry struct {
	Pageref         string   `json:"pageref,omitempty"`
	StartedDateTime string   `json:"startedDateTime"`
	Time            float64  `json:"time"`
	Request         Request  `json:"request"`
	Response        Response `json:"response"`
	Cache           Cache    `json:"cache"`
	Timings         Timings  `json:"timings"`
	ServerIPAddress *string  `json:"serverIPAddress,omitempty"`
	Connection      *string  `json:"connection,omitempty"`
	Comment         string   `json:"comment,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Request is the request half of an entry.
type Request struct {
	Method      string       `json:"method"`
	URL         string       `json:"url"`
	HTTPVersion string       `json:"httpVersion"`
	Cookies     []Cookie     `json:"cookies"`
	Headers     []Header     `json:"headers"`
	QueryString []QueryParam `json:"queryString"`
	PostData    *PostData    `json:"postData,omitempty"`
	HeadersSize int64        `json:"headersSize"`
	BodySize    int64        `json:"bodySize"`
	Comment     string       `json:"comment,omitempty"`
}

// Response is the response half of an entry.
type Response struct {
	Status      int      `json:"status"`
	StatusText  string   `json:"statusText"`
	HTTPVersion string   `json:"httpVersion"`
	Cookies     []Cookie `json:"cookies"`
	Headers     []Header `json:"headers"`
	Content     Content  `json:"content"`
	RedirectURL string   `json:"redirectURL"`
	HeadersSize int64    `json:"headersSize"`
	BodySize    int64    `json:"bodySize"`
	Comment     string   `json:"comment,omitempty"`
}

// Cookie is a request or response cookie.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Expires  string `json:"expires,omitempty"`
	HTTPOnly *bool  `json:"httpOnly,omitempty"`
	Secure   *bool  `json:"secure,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// Header is a single name/value header pair. Header lists keep their
// original order and may contain duplicate names.
type Header struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// QueryParam is a parsed query string parameter.
type QueryParam struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// PostData describes a request body.
type PostData struct {
	MimeType string      `json:"mimeType"`
	Params   []PostParam `json:"params,omitempty"`
	Text     *string     `json:"text,omitempty"`
	Comment  string      `json:"comment,omitempty"`
}

// PostParam is a posted form parameter.
type PostParam struct {
	Name        string  `json:"name"`
	Value       *string `json:"value,omitempty"`
	FileName    *string `json:"fileName,omitempty"`
	ContentType *string `json:"contentType,omitempty"`
	Comment     string  `json:"comment,omitempty"`
}

// Content describes a response body.
type Content struct {
	Size        int64   `json:"size"`
	Compression *int64  `json:"compression,omitempty"`
	MimeType    *string `json:"mimeType,omitempty"`
	Text        *string `json:"text,omitempty"`
	Encoding    *string `json:"encoding,omitempty"`
	Comment     string  `json:"comment,omitempty"`
}

// Cache holds cache state before and after the request.
type Cache struct {
	BeforeRequest *CacheEntry `json:"beforeRequest,omitempty"`
	AfterRequest  *CacheEntry `json:"afterRequest,omitempty"`
	Comment       string      `json:"comment,omitempty"`
}

// CacheEntry is one cache state snapshot.
type CacheEntry struct {
	Expires    string `json:"expires,omitempty"`
	LastAccess string `json:"lastAccess,omitempty"`
	ETag       string `json:"eTag,omitempty"`
	HitCount   *int64 `json:"hitCount,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

// Timings breaks the total entry time into phases, in milliseconds.
// Each phase is independently optional; HAR writers use -1 or omit the
// key for phases that do not apply.
type Timings struct {
	Blocked *float64 `json:"blocked,omitempty"`
	DNS     *float64 `json:"dns,omitempty"`
	Connect *float64 `json:"connect,omitempty"`
	Send    *float64 `json:"send,omitempty"`
	Wait    *float64 `json:"wait,omitempty"`
	Receive *float64 `json:"receive,omitempty"`
	SSL     *float64 `json:"ssl,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// entryAlias breaks the MarshalJSON/UnmarshalJSON recursion.
type entryAlias Entry

// UnmarshalJSON decodes an entry and keeps "_"-prefixed custom keys in Extra.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var alias entryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if strings.HasPrefix(k, "_") {
			if alias.Extra == nil {
				alias.Extra = make(map[string]json.RawMessage)
			}
			alias.Extra[k] = v
		}
	}

	*e = Entry(alias)
	return nil
}

// MarshalJSON encodes an entry, re-emitting custom keys after the standard ones.
func (e Entry) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(entryAlias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}

	extra, err := json.Marshal(e.Extra)
	if err != nil {
		return nil, fmt.Errorf("marshal custom fields: %w", err)
	}

	// Both are JSON objects: splice "{...base...}" and "{...extra...}".
	out := make([]byte, 0, len(base)+len(extra))
	out = append(out, base[:len(base)-1]...)
	out = append(out, ',')
	out = append(out, extra[1:]...)
	return out, nil
}

// WithEntries returns a copy of h whose log keeps all metadata but holds
// only entries.
func (h *HAR) WithEntries(entries []Entry) *HAR {
	out := *h
	out.Log.Entries = entries
	return &out
}
