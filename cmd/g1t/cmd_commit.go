package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommitCmd(s *settings) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged files as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			h, err := r.Commit(message)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", h.Short(), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}
