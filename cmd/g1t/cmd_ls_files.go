package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsFilesCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "ls-files",
		Short: "List staged index entries in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range r.Index() {
				fmt.Fprintf(out, "%s %s\n", e.BlobHash, e.FileName)
			}
			return nil
		},
	}
}
