package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get or set repository config (supported key: user.name)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "user.name" {
				return fmt.Errorf("unsupported config key %q", args[0])
			}
			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), r.Config.User.Name)
				return nil
			}
			return r.SetUserName(args[1])
		},
	}
}
