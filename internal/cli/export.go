package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	DB     string
	Filter string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export --db <path> [file]",
		Short: "Export entries to a SQLite database",
		Long: `Write entries to a SQLite database for ad-hoc SQL queries. Each run is
recorded as one export with its source, filter and entry count; entries
keep their 1-based index, headers as JSON and textual bodies.

The database is created when missing and reused otherwise.

Example:
  harq export --db captures.db capture.har
  harq export --db captures.db --filter 'status >= 500' capture.har
  sqlite3 captures.db 'SELECT host, count(*) FROM entries GROUP BY host'`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, fileArg(args, 0), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path (required)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only export entries matching a filter expression or @saved filter")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "output format: text, json")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	if opts.Output != "text" && opts.Output != "json" {
		return s.out.Fail(ExitCommandError, ErrCodeUsage, "invalid --output",
			fmt.Errorf("unknown format %q (want text or json)", opts.Output))
	}
	if opts.DB == "" {
		return s.out.Fail(ExitCommandError, ErrCodeUsage, "--db is required", nil)
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

	st, err := store.Open(opts.DB, store.WithLogger(s.opts.Logger))
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeWrite, "open database", err)
	}
	defer st.Close()

	exp, err := st.WriteExport(cmd.Context(), store.Export{
		Source: displayPath(path),
		Filter: opts.Filter,
	}, selected)
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeWrite, "export entries", err)
	}

	if opts.Output == "json" {
		return s.writeErr(s.out.Success(exp))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s (export %s)\n", exp.EntryCount, opts.DB, exp.ID)
	return s.writeErr(err)
}
