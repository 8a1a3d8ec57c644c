package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/g1t/pkg/repo"
)

func newResetCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the repository and every stored object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := s.options(cmd)
			if err != nil {
				return err
			}
			if err := repo.Reset(opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "removed repository")
			return nil
		},
	}
}
