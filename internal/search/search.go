// Package search implements free-text search over HAR entries.
//
// Literal patterns are matched with an Aho-Corasick automaton so that any
// number of patterns costs one pass over each searched string. Regex
// patterns are combined into a single alternation.
package search

import (
	"fmt"
	"regexp"
	"strings"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/roach88/harq/internal/har"
)

// Options configures a Matcher.
type Options struct {
	IgnoreCase bool
	Regex      bool
}

// Matcher reports whether a string contains any of its patterns.
type Matcher interface {
	Match(s string) bool
}

// New builds a Matcher for patterns. An entry matches when any pattern is
// found. An empty literal pattern matches every string.
func New(patterns []string, opts Options) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no search patterns")
	}
	if opts.Regex {
		return newRegexMatcher(patterns, opts.IgnoreCase)
	}
	return newLiteralMatcher(patterns, opts.IgnoreCase), nil
}

type regexMatcher struct {
	re *regexp.Regexp
}

func newRegexMatcher(patterns []string, ignoreCase bool) (*regexMatcher, error) {
	alts := make([]string, len(patterns))
	for i, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", p, err)
		}
		alts[i] = "(?:" + p + ")"
	}

	expr := strings.Join(alts, "|")
	if ignoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return &regexMatcher{re: re}, nil
}

func (m *regexMatcher) Match(s string) bool {
	return m.re.MatchString(s)
}

type literalMatcher struct {
	automaton ac.AhoCorasick
	// foldUnicode lowercases input before matching; the automaton only
	// folds ASCII.
	foldUnicode bool
	matchAll    bool
}

func newLiteralMatcher(patterns []string, ignoreCase bool) *literalMatcher {
	m := &literalMatcher{}

	needles := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			m.matchAll = true
		}
		if ignoreCase && !isASCII(p) {
			m.foldUnicode = true
		}
		needles = append(needles, p)
	}
	if m.foldUnicode {
		for i, p := range needles {
			needles[i] = strings.ToLower(p)
		}
	}

	builder := ac.NewAhoCorasickBuilder(ac.Opts{
		AsciiCaseInsensitive: ignoreCase && !m.foldUnicode,
		MatchKind:            ac.LeftMostLongestMatch,
	})
	m.automaton = builder.Build(needles)
	return m
}

func (m *literalMatcher) Match(s string) bool {
	if m.matchAll {
		return true
	}
	if m.foldUnicode {
		s = strings.ToLower(s)
	}
	return len(m.automaton.FindAll(s)) > 0
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Scope selects which parts of an entry are searched. The zero Scope
// searches the URL only.
type Scope struct {
	URL     bool
	Headers bool
	Body    bool
}

func (s Scope) normalize() Scope {
	if !s.URL && !s.Headers && !s.Body {
		s.URL = true
	}
	return s
}

// MatchEntry reports whether m matches any searched part of e. Headers
// cover names and values of both request and response; the body covers
// the request text and the decoded textual response.
func MatchEntry(m Matcher, e *har.Entry, scope Scope) bool {
	scope = scope.normalize()

	if scope.URL && m.Match(e.Request.URL) {
		return true
	}

	if scope.Headers {
		for _, headers := range [][]har.Header{e.Request.Headers, e.Response.Headers} {
			for _, h := range headers {
				if m.Match(h.Name) || m.Match(h.Value) {
					return true
				}
			}
		}
	}

	if scope.Body {
		if text, ok := e.RequestBody(); ok && m.Match(text) {
			return true
		}
		if text, ok := e.TextContent(); ok && m.Match(text) {
			return true
		}
	}
	return false
}

// Entries returns the indices of entries that match (or, with invert, do
// not match).
func Entries(m Matcher, entries []har.Entry, scope Scope, invert bool) []int {
	var out []int
	for i := range entries {
		if MatchEntry(m, &entries[i], scope) != invert {
			out = append(out, i)
		}
	}
	return out
}
