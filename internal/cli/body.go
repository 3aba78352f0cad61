package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theory/jsonpath"
)

// BodyOptions holds flags for the body command.
type BodyOptions struct {
	*RootOptions
	Request  bool
	Pretty   bool
	Raw      bool
	JSONPath string
}

// NewBodyCommand creates the body command.
func NewBodyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BodyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "body <index> [file]",
		Short: "Extract request or response body",
		Long: `Print the response body of an entry, decoded from base64 and any
Content-Encoding. --request prints the request body instead.

--jsonpath selects values from a JSON body with an RFC 9535 JSONPath
query and prints one value per line.

Example:
  harq body 4 capture.har -p
  harq body 4 capture.har --raw > image.png
  harq body 2 capture.har --jsonpath '$.data.user.id'`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBody(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Request, "request", false, "print the request body instead of the response")
	cmd.Flags().BoolVarP(&opts.Pretty, "pretty", "p", false, "pretty print JSON bodies")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "write the decoded bytes unchanged (for binary content)")
	cmd.Flags().StringVar(&opts.JSONPath, "jsonpath", "", "select values from a JSON body")

	return cmd
}

func runBody(opts *BodyOptions, args []string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, "text")
	index, err := s.parseIndex(args[0])
	if err != nil {
		return err
	}

	var path *jsonpath.Path
	if opts.JSONPath != "" {
		if path, err = jsonpath.Parse(opts.JSONPath); err != nil {
			return s.out.Fail(ExitCommandError, ErrCodeUsage, "invalid --jsonpath", err)
		}
	}

	doc, err := s.load(fileArg(args, 1))
	if err != nil {
		return err
	}
	e, err := s.entry(doc, index)
	if err != nil {
		return err
	}

	var (
		body []byte
		mime string
	)
	if opts.Request {
		text, ok := e.RequestBody()
		if !ok {
			return s.out.Fail(ExitFailure, ErrCodeRange, fmt.Sprintf("Entry %d has no request body", index), nil)
		}
		body = []byte(text)
		mime, _ = e.RequestMimeType()
	} else {
		data, err := e.Decoded()
		if err != nil {
			return s.out.Fail(ExitFailure, ErrCodeParse, fmt.Sprintf("Entry %d has an undecodable response body", index), err)
		}
		if data == nil {
			return s.out.Fail(ExitFailure, ErrCodeRange, fmt.Sprintf("Entry %d has no response body", index), nil)
		}
		body = data
		mime, _ = e.ContentType()
	}

	w := cmd.OutOrStdout()
	switch {
	case path != nil:
		if err := writeJSONPath(w, path, body, opts.Pretty); err != nil {
			return s.out.Fail(ExitFailure, ErrCodeParse, fmt.Sprintf("Entry %d body is not JSON", index), err)
		}
		return nil
	case opts.Raw && !opts.Request:
		_, err := w.Write(body)
		return s.writeErr(err)
	case opts.Pretty && strings.Contains(mime, "json"):
		return s.writeErr(writePrettyJSON(w, body))
	}

	_, err = fmt.Fprintln(w, strings.ToValidUTF8(string(body), "�"))
	return s.writeErr(err)
}

// writePrettyJSON indents body, printing it unchanged when it is not JSON.
func writePrettyJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		_, err := fmt.Fprintln(w, string(body))
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// writeJSONPath prints every node path selects from body, one per line.
func writeJSONPath(w io.Writer, path *jsonpath.Path, body []byte, pretty bool) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	for _, node := range path.Select(value) {
		if err := enc.Encode(node); err != nil {
			return err
		}
	}
	return nil
}
