package filter

import "github.com/roach88/harq/internal/har"

// Filter is a compiled expression together with its source text.
type Filter struct {
	Source string
	Expr   Expr
}

// Compile parses text into a Filter.
func Compile(text string) (*Filter, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return &Filter{Source: text, Expr: expr}, nil
}

// Match reports whether e satisfies the filter. A nil Filter matches
// everything.
func (f *Filter) Match(e *har.Entry) bool {
	if f == nil {
		return true
	}
	return Evaluate(f.Expr, e)
}

// Indexed is an entry paired with its position in the source log.
type Indexed struct {
	Index int
	Entry *har.Entry
}

// Select returns the matching entries in their original order, each paired
// with its index in entries.
func (f *Filter) Select(entries []har.Entry) []Indexed {
	out := make([]Indexed, 0, len(entries))
	for i := range entries {
		if f.Match(&entries[i]) {
			out = append(out, Indexed{Index: i, Entry: &entries[i]})
		}
	}
	return out
}

// Entries returns copies of the selected entries, in selection order.
func Entries(selected []Indexed) []har.Entry {
	out := make([]har.Entry, len(selected))
	for i, ix := range selected {
		out[i] = *ix.Entry
	}
	return out
}
