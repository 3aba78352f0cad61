package output

import (
	"github.com/roach88/harq/internal/har"
)

// Summary is the one-line view of an entry used by list, search and filter.
// Index is 1-based.
type Summary struct {
	Index       int     `json:"index" yaml:"index"`
	Method      string  `json:"method" yaml:"method"`
	URL         string  `json:"url" yaml:"url"`
	Status      int     `json:"status" yaml:"status"`
	TimeMS      float64 `json:"time_ms" yaml:"time_ms"`
	BodySize    int64   `json:"body_size" yaml:"body_size"`
	ContentType *string `json:"content_type" yaml:"content_type"`
	Started     string  `json:"-" yaml:"-"`
}

// Summarize builds the summary of e at 0-based position i.
func Summarize(i int, e *har.Entry) Summary {
	s := Summary{
		Index:    i + 1,
		Method:   e.Request.Method,
		URL:      e.Request.URL,
		Status:   e.Response.Status,
		TimeMS:   e.Time,
		BodySize: e.Response.BodySize,
		Started:  e.StartedDateTime,
	}
	if ct, ok := e.ContentType(); ok {
		s.ContentType = &ct
	}
	return s
}

// SummarizeAll summarizes every entry, numbering from 1.
func SummarizeAll(entries []har.Entry) []Summary {
	out := make([]Summary, len(entries))
	for i := range entries {
		out[i] = Summarize(i, &entries[i])
	}
	return out
}
