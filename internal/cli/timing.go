package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/output"
)

// TimingOptions holds flags for the timing command.
type TimingOptions struct {
	*RootOptions
	Output  string
	Sort    string
	Reverse bool
	Stats   bool
	Limit   int
	Filter  string
}

// NewTimingCommand creates the timing command.
func NewTimingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timing [file]",
		Short: "Show timing breakdown for entries",
		Long: `Show the blocked, DNS, connect, SSL, send, wait and receive phases of
each entry with a bar proportional to the slowest one.

--sort orders by a phase, slowest first (--reverse for fastest first).
--stats prints count, min, average, max and p95 for every phase instead.

Example:
  harq timing --sort wait -n 10 capture.har
  harq timing --stats --filter 'host == "api.example.com"' capture.har`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTiming(opts, fileArg(args, 0), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "output format: table, json")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", "sort by: time, blocked, dns, connect, ssl, send, wait, receive")
	cmd.Flags().BoolVarP(&opts.Reverse, "reverse", "R", false, "sort ascending")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "show statistics per phase")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "limit number of entries shown")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only include entries matching a filter expression or @saved filter")

	return cmd
}

func runTiming(opts *TimingOptions, path string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	format, err := s.format(opts.Output, output.FormatTable, output.FormatTable, output.FormatJSON)
	if err != nil {
		return err
	}

	var phase output.Phase
	if opts.Sort != "" {
		if phase, err = output.ParsePhase(opts.Sort); err != nil {
			return s.out.Fail(ExitCommandError, ErrCodeUsage, "invalid --sort", err)
		}
	}
	f, err := s.compile(opts.Filter)
	if err != nil {
		return err
	}

	doc, err := s.load(path)
	if err != nil {
		return err
	}

	selected := f.Select(doc.Log.Entries)
	rows := make([]output.TimingRow, len(selected))
	for i, ix := range selected {
		rows[i] = output.TimingRow{Index: ix.Index + 1, Entry: ix.Entry}
	}

	w := cmd.OutOrStdout()
	p := s.printer(0)
	if opts.Stats {
		summary := output.SummarizeTimings(rows)
		if format == output.FormatJSON {
			return s.writeErr(output.WriteJSON(w, summary))
		}
		return s.writeErr(p.TimingSummary(summary))
	}

	if phase != "" {
		output.SortTimings(rows, phase, opts.Reverse)
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	if format == output.FormatJSON {
		return s.writeErr(output.WriteJSON(w, output.TimingRecords(rows)))
	}
	return s.writeErr(p.Timings(rows))
}
