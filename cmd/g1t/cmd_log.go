package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCmd(s *settings) *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			commits, err := r.Log(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range commits {
				if oneline {
					fmt.Fprintf(out, "%s %s\n", c.Hash().Short(), c.Message)
					continue
				}
				fmt.Fprintf(out, "commit %s\n", c.Hash())
				if c.Author != "" {
					fmt.Fprintf(out, "Author: %s\n", c.Author)
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "    %s\n", c.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "show each commit on a single line")
	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "limit the number of commits (0 = all)")
	return cmd
}
