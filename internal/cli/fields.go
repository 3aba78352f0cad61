package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/output"
)

// fieldView is the JSON form of filter.FieldInfo.
type fieldView struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fields available in filter expressions",
		Long: `List every field a filter expression can reference, with its aliases,
value type and meaning. Field names are case-insensitive.

Example:
  harq fields
  harq fields -o json`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(rootOpts, format, cmd)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json")

	return cmd
}

func runFields(opts *RootOptions, flag string, cmd *cobra.Command) error {
	s := newSession(opts, cmd, flag)
	format, err := s.format(flag, output.FormatTable, output.FormatTable, output.FormatJSON)
	if err != nil {
		return err
	}

	fields := filter.Fields()
	if format == output.FormatJSON {
		views := make([]fieldView, len(fields))
		for i, fi := range fields {
			views[i] = fieldView{Name: fi.Name, Aliases: fi.Aliases, Type: fi.Type, Description: fi.Description}
		}
		return s.writeErr(output.WriteJSON(cmd.OutOrStdout(), views))
	}

	t := &output.Table{Header: []string{"Field", "Aliases", "Type", "Description"}}
	for _, fi := range fields {
		t.AddRow(
			output.Cell{Text: fi.Name},
			output.Cell{Text: strings.Join(fi.Aliases, ", ")},
			output.Cell{Text: fi.Type},
			output.Cell{Text: fi.Description},
		)
	}
	return s.writeErr(t.Render(cmd.OutOrStdout()))
}
