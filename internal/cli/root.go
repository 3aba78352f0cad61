package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/harq/internal/config"
	"github.com/roach88/harq/internal/logging"
	"github.com/roach88/harq/internal/output"
)

// RootOptions holds global flags for all commands and the state resolved
// from them before a command runs.
type RootOptions struct {
	Verbose    bool
	Color      string // "auto" | "always" | "never"
	ConfigPath string

	// Resolved in PersistentPreRunE.
	Config *config.Config
	Logger *slog.Logger

	colorSet bool
}

// NewRootCommand creates the root command for the harq CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "harq",
		Short: "Explore and filter HAR files",
		Long: `harq explores HTTP Archive (HAR) files from the command line.

List, search and filter captured requests, inspect headers, bodies and
timings, validate documents against HAR 1.2 and export entries to SQLite.
Every command reads stdin when no file is given; files may be gzip, zstd
or brotli compressed, and glob patterns merge several captures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output on stderr")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "coloring: auto, always, never")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $HARQ_CONFIG or ./.harq.yaml)")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewBodyCommand(opts))
	cmd.AddCommand(NewTimingCommand(opts))
	cmd.AddCommand(NewHeadersCommand(opts))
	cmd.AddCommand(NewFieldsCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// resolve validates global flags, loads the config file and builds the
// logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	o.Logger = logging.New(cmd.ErrOrStderr(), o.Verbose)

	o.colorSet = cmd.Flags().Changed("color")
	if _, err := output.ParseColorMode(o.Color); err != nil {
		return WrapExitError(ExitCommandError, "invalid --color", err)
	}

	cfg, err := config.Resolve(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.Config = cfg
	if cfg.Path != "" {
		o.Logger.Debug("loaded config", "path", cfg.Path, "filters", len(cfg.Filters))
	}
	return nil
}

// colorEnabled decides coloring for w: --color wins over the config file.
func (o *RootOptions) colorEnabled(w io.Writer) bool {
	mode := output.ColorAuto
	switch {
	case o.colorSet:
		mode = output.ColorMode(o.Color)
	case o.Config != nil:
		mode = o.Config.Color
	}
	return mode.Enabled(w)
}

// defaultFormat returns the configured listing format, or fallback.
func (o *RootOptions) defaultFormat(fallback output.Format) string {
	if o.Config != nil && o.Config.Output != "" {
		return string(o.Config.Output)
	}
	return string(fallback)
}

// exactArgs and rangeArgs wrap cobra's validators so argument mistakes
// exit with ExitCommandError.
func exactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

func rangeArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	return wrapArgs(cobra.RangeArgs(minArgs, maxArgs))
}

func minimumArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.MinimumNArgs(n))
}

func wrapArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("usage: %s", cmd.UseLine()), err)
		}
		return nil
	}
}
