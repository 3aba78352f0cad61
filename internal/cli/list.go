package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/output"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Output string
	Limit  int
	Head   int
	Tail   int
	MaxURL int
	Long   bool
	Filter string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "list [file]",
		Aliases: []string{"ls"},
		Short:   "List entries in the HAR file",
		Long: `List entries with their method, status, time, size and URL.

--head and --tail select the first or last N entries; --limit caps the
listing after filtering. Indexes always refer to positions in the file.

Example:
  harq list capture.har
  harq ls -l --tail 20 capture.har.gz
  harq list --filter @errors -o compact capture.har`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, fileArg(args, 0), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: table, json, compact (default from config, else table)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "limit number of entries shown")
	cmd.Flags().IntVar(&opts.Head, "head", 0, "show first N entries")
	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "show last N entries")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "long format (content type and start time)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only list entries matching a filter expression or @saved filter")
	addMaxURLFlag(cmd, &opts.MaxURL)

	return cmd
}

func runList(opts *ListOptions, path string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	format, err := s.format(opts.Output, output.FormatTable, output.FormatTable, output.FormatJSON, output.FormatCompact)
	if err != nil {
		return err
	}
	f, err := s.compile(opts.Filter)
	if err != nil {
		return err
	}

	doc, err := s.load(path)
	if err != nil {
		return err
	}

	selected := applyLimits(f.Select(doc.Log.Entries), opts.Head, opts.Tail, opts.Limit)
	return s.summaries(format, summarize(selected), s.maxURL(opts.MaxURL), opts.Long)
}

// applyLimits keeps the first head or last tail entries, else at most
// limit. Only the first non-zero option applies.
func applyLimits(entries []filter.Indexed, head, tail, limit int) []filter.Indexed {
	switch {
	case head > 0:
		return entries[:min(head, len(entries))]
	case tail > 0:
		return entries[len(entries)-min(tail, len(entries)):]
	case limit > 0:
		return entries[:min(limit, len(entries))]
	}
	return entries
}
