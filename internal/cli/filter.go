package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/output"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Output      string
	EntriesOnly bool
	Count       bool
	MaxURL      int
}

// formatHAR is the filter command's default output: a complete HAR
// document holding only the matching entries.
const formatHAR output.Format = "har"

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <expr> [file]",
		Short: "Filter entries using expressions",
		Long: `Filter entries with an expression and print a valid HAR document holding
only the matches. --entries-only prints the bare entries array; -o table,
compact or json prints a listing instead. The expression is checked before
the input is read.

An expression of the form @name uses a filter saved in the config file.
Run "harq fields" for the list of fields.

Operators:
  ==, !=, >, >=, <, <=     comparison
  &&, ||, !, ( )           logic
  .contains("s")  .startsWith("s")  .endsWith("s")  .matches(/re/i)

Example:
  harq filter 'status >= 400' capture.har
  harq filter 'isGraphQL && operationName.contains("User")' capture.har
  harq filter 'request.header("Authorization")' -o table capture.har
  harq filter 'time > 1000 || wait > 500' --count capture.har`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], fileArg(args, 1), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", string(formatHAR), "output format: har, json, table, compact")
	cmd.Flags().BoolVar(&opts.EntriesOnly, "entries-only", false, "print the matching entries array instead of a HAR document")
	cmd.Flags().BoolVarP(&opts.Count, "count", "c", false, "only print the number of matching entries")
	addMaxURLFlag(cmd, &opts.MaxURL)

	return cmd
}

func runFilter(opts *FilterOptions, expr, path string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	format, err := s.format(opts.Output, formatHAR, formatHAR, output.FormatJSON, output.FormatTable, output.FormatCompact)
	if err != nil {
		return err
	}
	f, err := s.compile(expr)
	if err != nil {
		return err
	}
	if f == nil {
		return s.out.Fail(ExitCommandError, ErrCodeFilter, "empty filter expression", nil)
	}

	doc, err := s.load(path)
	if err != nil {
		return err
	}
	selected := f.Select(doc.Log.Entries)
	s.out.VerboseLog("Filter %s matched %d of %d entries", f.Expr, len(selected), len(doc.Log.Entries))

	w := cmd.OutOrStdout()
	switch {
	case opts.Count:
		_, err = fmt.Fprintln(w, len(selected))
		return s.writeErr(err)
	case format != formatHAR:
		return s.summaries(format, summarize(selected), s.maxURL(opts.MaxURL), false)
	}

	entries := filter.Entries(selected)
	if opts.EntriesOnly {
		return s.writeErr(output.WriteJSON(w, entries))
	}
	return s.writeErr(output.WriteJSON(w, doc.WithEntries(entries)))
}
