package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var opts setupOpts

	cmd := &cobra.Command{
		Use:   "guidecli",
		Short: "Ask the Gujarat government services guide from a terminal",
		// Failures such as a model error are not usage mistakes.
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Write service logs to stdout")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "Skip the model and always answer with the fallback text")

	cmd.AddCommand(newAskCmd(&opts), newChatCmd(&opts))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
