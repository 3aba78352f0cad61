// Command harq explores and filters HAR files.
//
// The logger is built by the CLI root from the global flags and passed to
// every component; there is no slog.SetDefault.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/harq/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	root := cli.NewRootCommand()
	root.Version = version

	err := root.ExecuteContext(ctx)
	stop()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
