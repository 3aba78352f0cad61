package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/har"
	"github.com/roach88/harq/internal/output"
	"github.com/roach88/harq/internal/search"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	File       string
	Output     string
	IgnoreCase bool
	Regex      bool
	Headers    bool
	Body       bool
	URL        bool
	Invert     bool
	Count      bool
	MaxURL     int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <pattern>...",
		Short: "Search entries by pattern",
		Long: `Search entries for text or regular expressions. An entry matches when any
pattern is found. URLs are searched unless --headers or --body select
other parts; --url adds URLs back to the search.

Example:
  harq search -f capture.har /api/
  harq search -i --headers -f capture.har authorization cookie
  harq search -r --body -f capture.har 'error_code":\s*[45]\d\d'`,
		Args: minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", har.StdinPath, "HAR file to search (- for stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: table, json, compact (default from config, else table)")
	cmd.Flags().BoolVarP(&opts.IgnoreCase, "ignore-case", "i", false, "case insensitive search")
	cmd.Flags().BoolVarP(&opts.Regex, "regex", "r", false, "treat patterns as regular expressions")
	cmd.Flags().BoolVar(&opts.Headers, "headers", false, "search request and response headers")
	cmd.Flags().BoolVar(&opts.Body, "body", false, "search request and response bodies")
	cmd.Flags().BoolVar(&opts.URL, "url", false, "search URLs (default when no other scope is given)")
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "show entries that do not match")
	cmd.Flags().BoolVarP(&opts.Count, "count", "c", false, "only print the number of matches")
	addMaxURLFlag(cmd, &opts.MaxURL)

	return cmd
}

func runSearch(opts *SearchOptions, patterns []string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	format, err := s.format(opts.Output, output.FormatTable, output.FormatTable, output.FormatJSON, output.FormatCompact)
	if err != nil {
		return err
	}

	m, err := search.New(patterns, search.Options{IgnoreCase: opts.IgnoreCase, Regex: opts.Regex})
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeFilter, "invalid search pattern", err)
	}

	doc, err := s.load(opts.File)
	if err != nil {
		return err
	}

	scope := search.Scope{URL: opts.URL, Headers: opts.Headers, Body: opts.Body}
	hits := search.Entries(m, doc.Log.Entries, scope, opts.Invert)
	s.opts.Logger.Debug("search finished", "patterns", len(patterns), "matches", len(hits))

	if opts.Count {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), len(hits))
		return s.writeErr(err)
	}

	selected := make([]filter.Indexed, len(hits))
	for i, idx := range hits {
		selected[i] = filter.Indexed{Index: idx, Entry: &doc.Log.Entries[idx]}
	}
	return s.summaries(format, summarize(selected), s.maxURL(opts.MaxURL), false)
}
