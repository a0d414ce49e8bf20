package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newChatCmd(opts *setupOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with multiple sessions",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, catalog, err := newWorkspace(cmd.Context(), opts)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:            promptColor.Sprint("> "),
				InterruptPrompt:   "^C",
				EOFPrompt:         "/quit",
				HistoryFile:       filepath.Join(os.TempDir(), "guidecli.history"),
				HistorySearchFold: true,
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			t := newTerminal(rl.Stdout(), ws, catalog, markdownRenderer())
			t.welcome()

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}

				if quit := t.handle(cmd.Context(), line); quit {
					return nil
				}
			}
		},
	}
}
