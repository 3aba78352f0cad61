package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/output"
)

// ViewOptions holds flags for the view command.
type ViewOptions struct {
	*RootOptions
	Output      string
	Full        bool
	NoBody      bool
	HeadersOnly bool
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "view <index> [file]",
		Short: "View detailed information about a specific entry",
		Long: `Show request, response and timing details of one entry. Indexes are
1-based, as printed by list.

Bodies are shown only with --full; JSON bodies are pretty-printed and
long bodies are cut to a preview.`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "output format: table, json")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "show request and response bodies")
	cmd.Flags().BoolVar(&opts.NoBody, "no-body", false, "hide bodies even with --full")
	cmd.Flags().BoolVar(&opts.HeadersOnly, "headers-only", false, "show only request and response headers")

	return cmd
}

func runView(opts *ViewOptions, args []string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	format, err := s.format(opts.Output, output.FormatTable, output.FormatTable, output.FormatJSON)
	if err != nil {
		return err
	}
	index, err := s.parseIndex(args[0])
	if err != nil {
		return err
	}

	doc, err := s.load(fileArg(args, 1))
	if err != nil {
		return err
	}
	e, err := s.entry(doc, index)
	if err != nil {
		return err
	}

	if format == output.FormatJSON {
		return s.writeErr(output.WriteJSON(cmd.OutOrStdout(), e))
	}

	p := s.printer(0)
	if opts.HeadersOnly {
		return s.writeErr(writeEntryHeaders(cmd.OutOrStdout(), p, index, e, true, true, ""))
	}

	showBody := opts.Full && !opts.NoBody
	return s.writeErr(p.Detail(index, e, showBody))
}
