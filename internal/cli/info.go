package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/output"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Show HAR file metadata and summary",
		Long: `Show the creator, browser and pages of a HAR file together with entry
counts by method, status, content type, host and client, total size and
timing.`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(rootOpts, cmd, format)
			f, err := s.format(format, output.FormatText, output.FormatText, output.FormatJSON, output.FormatYAML)
			if err != nil {
				return err
			}

			doc, err := s.load(fileArg(args, 0))
			if err != nil {
				return err
			}
			info := output.BuildInfo(doc)

			w := cmd.OutOrStdout()
			switch f {
			case output.FormatJSON:
				return s.writeErr(output.WriteJSON(w, info))
			case output.FormatYAML:
				return s.writeErr(output.WriteYAML(w, info))
			}
			return s.writeErr(s.printer(0).Info(info))
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text, json, yaml")

	return cmd
}
