package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Output string
}

// ValidationResult is the payload of validate -o json.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a HAR document against the HAR 1.2 schema",
		Long: `Check that a document has the structure HAR 1.2 requires: a log with
version, creator and entries, and entries with request, response and
timings. Every violation is reported with its JSON path.

Exit codes:
  0  document is valid
  1  document is invalid or unreadable

Example:
  harq validate capture.har
  harq validate -o json capture.har.gz`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, fileArg(args, 0), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "output format: text, json")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	s := newSession(opts.RootOptions, cmd, opts.Output)
	if opts.Output != "text" && opts.Output != "json" {
		return s.out.Fail(ExitCommandError, ErrCodeUsage, "invalid --output",
			fmt.Errorf("unknown format %q (want text or json)", opts.Output))
	}

	data, err := s.loader().ReadBytes(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("cannot read %s", displayPath(path)), err)
		}
		return s.out.Fail(ExitFailure, ErrCodeParse, fmt.Sprintf("cannot read %s", displayPath(path)), err)
	}

	errs := schema.Validate(data)
	s.opts.Logger.Debug("validated document", "path", displayPath(path), "errors", len(errs))

	if opts.Output == "json" {
		if len(errs) == 0 {
			return s.writeErr(s.out.Success(ValidationResult{Valid: true}))
		}
		_ = s.out.Error(ErrCodeValidation, fmt.Sprintf("%d validation error(s)", len(errs)), ValidationResult{Errors: errs})
		exitErr := NewExitError(ExitFailure, "invalid HAR document")
		exitErr.Reported = true
		return exitErr
	}

	w := cmd.OutOrStdout()
	if len(errs) == 0 {
		_, err := fmt.Fprintf(w, "Valid HAR: %s\n", displayPath(path))
		return s.writeErr(err)
	}

	for _, ve := range errs {
		if _, err := fmt.Fprintf(w, "  %s\n", ve.Error()); err != nil {
			return s.writeErr(err)
		}
	}
	return s.out.Fail(ExitFailure, ErrCodeValidation,
		fmt.Sprintf("%s: %d validation error(s)", displayPath(path), len(errs)), nil)
}
