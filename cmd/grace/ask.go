package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message to Grace and print the reply",
		Example: `  grace ask "I feel anxious about tomorrow"
  grace ask --endpoint http://localhost:8080/api/chat "Hello"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			text := strings.Join(args, " ")
			if !s.controller.Submit(cmd.Context(), text) {
				return fmt.Errorf("message is empty")
			}

			transcript := s.controller.Transcript()
			last := transcript[len(transcript)-1]
			for _, line := range last.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
