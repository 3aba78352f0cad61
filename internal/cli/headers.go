package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/har"
	"github.com/roach88/harq/internal/output"
)

// HeadersOptions holds flags for the headers command.
type HeadersOptions struct {
	*RootOptions
	Output   string
	Request  bool
	Response bool
	Name     string
}

// headerSet is the JSON form of one entry's headers. A side that was not
// requested is omitted; a requested side with no headers is [].
type headerSet struct {
	Index    int           `json:"index"`
	Request  *[]har.Header `json:"request,omitempty"`
	Response *[]har.Header `json:"response,omitempty"`
}

// NewHeadersCommand creates the headers command.
func NewHeadersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HeadersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "headers <index|all> [file]",
		Short: "Show headers for entries",
		Long: `Show the request and response headers of one entry, or of every entry
with "all". --name keeps headers whose name contains the text, ignoring
case.

Example:
  harq headers 3 capture.har
  harq headers all --response --name cache capture.har`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeaders(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "output format: table, json")
	cmd.Flags().BoolVar(&opts.Request, "request", false, "show only request headers")
	cmd.Flags().BoolVar(&opts.Response, "response", false, "show only response headers")
	cmd.Flags().StringVar(&opts.Name, "name", "", "keep headers whose name contains this text")

	return cmd
}

func runHeaders(opts *HeadersOptions, args []string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	format, err := s.format(opts.Output, output.FormatTable, output.FormatTable, output.FormatJSON)
	if err != nil {
		return err
	}

	all := args[0] == "all"
	index := 0
	if !all {
		if index, err = s.parseIndex(args[0]); err != nil {
			return err
		}
	}

	doc, err := s.load(fileArg(args, 1))
	if err != nil {
		return err
	}

	var indexes []int
	if all {
		for i := range doc.Log.Entries {
			indexes = append(indexes, i+1)
		}
	} else {
		if _, err := s.entry(doc, index); err != nil {
			return err
		}
		indexes = []int{index}
	}

	showRequest := opts.Request || !opts.Response
	showResponse := opts.Response || !opts.Request

	if format == output.FormatJSON {
		sets := make([]headerSet, 0, len(indexes))
		for _, i := range indexes {
			e := &doc.Log.Entries[i-1]
			set := headerSet{Index: i}
			if showRequest {
				h := output.FilterHeaders(e.Request.Headers, opts.Name)
				set.Request = &h
			}
			if showResponse {
				h := output.FilterHeaders(e.Response.Headers, opts.Name)
				set.Response = &h
			}
			sets = append(sets, set)
		}
		if !all {
			return s.writeErr(output.WriteJSON(cmd.OutOrStdout(), sets[0]))
		}
		return s.writeErr(output.WriteJSON(cmd.OutOrStdout(), sets))
	}

	w := cmd.OutOrStdout()
	p := s.printer(0)
	for n, i := range indexes {
		if n > 0 {
			fmt.Fprintln(w)
		}
		if err := writeEntryHeaders(w, p, i, &doc.Log.Entries[i-1], showRequest, showResponse, opts.Name); err != nil {
			return s.writeErr(err)
		}
	}
	return nil
}

func writeEntryHeaders(w io.Writer, p *output.Printer, index int, e *har.Entry, showRequest, showResponse bool, name string) error {
	if _, err := fmt.Fprintf(w, "%s Entry #%d\n%s %s\n\n", p.Label(">>>"), index, e.Request.Method, e.Request.URL); err != nil {
		return err
	}
	if showRequest {
		if err := p.Headers("Request Headers:", e.Request.Headers, name); err != nil {
			return err
		}
	}
	if showRequest && showResponse {
		fmt.Fprintln(w)
	}
	if showResponse {
		return p.Headers("Response Headers:", e.Response.Headers, name)
	}
	return nil
}
