package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/config"
	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/har"
	"github.com/roach88/harq/internal/logging"
	"github.com/roach88/harq/internal/output"
)

// session bundles what a command needs while it runs: the global options,
// the cobra command for its streams, and a formatter for errors.
type session struct {
	opts *RootOptions
	cmd  *cobra.Command
	out  *OutputFormatter
}

func newSession(opts *RootOptions, cmd *cobra.Command, format string) *session {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(cmd.ErrOrStderr(), opts.Verbose)
	}
	return &session{
		opts: opts,
		cmd:  cmd,
		out: &OutputFormatter{
			Format:    format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}
}

// fileArg returns args[i] or stdin.
func fileArg(args []string, i int) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return har.StdinPath
}

func (s *session) loader() *har.Loader {
	return har.NewLoader(
		har.WithLogger(s.opts.Logger),
		har.WithStdin(s.cmd.InOrStdin()),
	)
}

// load reads the HAR document at path, reporting failures.
func (s *session) load(path string) (*har.HAR, error) {
	doc, err := s.loader().Load(path)
	if err != nil {
		return nil, s.loadError(path, err)
	}
	s.out.VerboseLog("Loaded %d entries from %s", len(doc.Log.Entries), displayPath(path))
	return doc, nil
}

func (s *session) loadError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, har.ErrNoMatches):
		return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("cannot read %s", displayPath(path)), err)
	case har.IsParseError(err):
		return s.out.Fail(ExitFailure, ErrCodeParse, "invalid HAR input", err)
	}
	return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("cannot read %s", displayPath(path)), err)
}

func displayPath(path string) string {
	if path == har.StdinPath {
		return "stdin"
	}
	return path
}

// compile expands saved filter references and parses expr. An empty
// expression yields a nil filter, which matches every entry.
func (s *session) compile(expr string) (*filter.Filter, error) {
	if expr == "" {
		return nil, nil
	}
	text, err := s.opts.Config.Expand(expr)
	if err != nil {
		return nil, s.out.Fail(ExitCommandError, ErrCodeFilter, "invalid filter", err)
	}
	f, err := filter.Compile(text)
	if err != nil {
		return nil, s.out.Fail(ExitCommandError, ErrCodeFilter, "invalid filter", err)
	}
	s.opts.Logger.Debug("compiled filter", "source", expr, "expr", f.Expr.String())
	return f, nil
}

// parseIndex parses a 1-based entry index argument.
func (s *session) parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, s.out.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("invalid index %q", arg), nil)
	}
	return n, nil
}

// entry returns the entry at a 1-based index.
func (s *session) entry(doc *har.HAR, index int) (*har.Entry, error) {
	n := len(doc.Log.Entries)
	if index < 1 || index > n {
		return nil, s.out.Fail(ExitCommandError, ErrCodeRange,
			fmt.Sprintf("Entry index %d out of range (1-%d)", index, n), nil)
	}
	return &doc.Log.Entries[index-1], nil
}

// format validates the -o flag, falling back to the configured default
// when the flag is empty.
func (s *session) format(flag string, fallback output.Format, allowed ...output.Format) (output.Format, error) {
	if flag == "" {
		flag = s.opts.defaultFormat(fallback)
		if _, err := output.ParseFormat(flag, allowed...); err != nil {
			flag = string(fallback)
		}
	}
	f, err := output.ParseFormat(flag, allowed...)
	if err != nil {
		return "", s.out.Fail(ExitCommandError, ErrCodeUsage, "invalid --output", err)
	}
	s.out.Format = string(f)
	return f, nil
}

// maxURL returns --max-url when given, else the configured width.
func (s *session) maxURL(flag int) int {
	if s.cmd.Flags().Changed("max-url") {
		return flag
	}
	return s.opts.Config.MaxURL
}

func (s *session) printer(maxURL int) *output.Printer {
	w := s.cmd.OutOrStdout()
	return output.NewPrinter(w, s.opts.colorEnabled(w), maxURL)
}

// writeErr wraps a failed write to stdout.
func (s *session) writeErr(err error) error {
	if err == nil {
		return nil
	}
	return s.out.Fail(ExitFailure, ErrCodeWrite, "write output", err)
}

// summaries renders selected entries as a listing in format.
func (s *session) summaries(format output.Format, rows []output.Summary, maxURL int, long bool) error {
	p := s.printer(maxURL)
	var err error
	switch format {
	case output.FormatJSON:
		err = output.WriteJSON(s.cmd.OutOrStdout(), rows)
	case output.FormatCompact:
		err = p.Compact(rows)
	default:
		err = p.Summaries(rows, long)
	}
	return s.writeErr(err)
}

// summarize converts a filter selection into 1-based summaries.
func summarize(selected []filter.Indexed) []output.Summary {
	rows := make([]output.Summary, len(selected))
	for i, ix := range selected {
		rows[i] = output.Summarize(ix.Index, ix.Entry)
	}
	return rows
}

func addMaxURLFlag(cmd *cobra.Command, p *int) {
	cmd.Flags().IntVar(p, "max-url", config.DefaultMaxURL, "maximum URL length before truncation (0 = no limit)")
}
