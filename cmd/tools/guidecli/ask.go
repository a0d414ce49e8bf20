package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *setupOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, catalog, err := newWorkspace(cmd.Context(), opts)
			if err != nil {
				return err
			}

			outcome, err := ws.Submit(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			t := newTerminal(cmd.OutOrStdout(), ws, catalog, markdownRenderer())
			t.printReply(outcome.Reply)
			if outcome.Reply.Failed() {
				return errors.New(outcome.Reply.Notice)
			}
			return nil
		},
	}
}
