package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "add <files...>",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			return r.AddAll(args...)
		},
	}
}
