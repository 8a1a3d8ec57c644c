package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newObjectsCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "objects",
		Short: "List every stored object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			objs, err := r.Objects()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, o := range objs {
				fmt.Fprintf(out, "%-6s %s\n", o.Kind(), o.Hash())
			}
			return nil
		},
	}
}
