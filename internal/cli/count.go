package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Count entries in the HAR file",
		Long: `Print the number of entries. With --filter, print the number of entries
matching the expression.`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(rootOpts, cmd, "text")
			f, err := s.compile(expr)
			if err != nil {
				return err
			}
			doc, err := s.load(fileArg(args, 0))
			if err != nil {
				return err
			}

			n := len(f.Select(doc.Log.Entries))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return s.writeErr(err)
		},
	}

	cmd.Flags().StringVar(&expr, "filter", "", "count only entries matching a filter expression or @saved filter")

	return cmd
}
