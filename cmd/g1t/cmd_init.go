package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/g1t/pkg/repo"
)

func newInitCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty g1t repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(s.v.GetString("root"))
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			// The disk filesystem is rooted here, so it must exist first.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			opts, err := s.options(cmd)
			if err != nil {
				return err
			}
			r, err := repo.Init(opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty g1t repository in %s\n", filepath.Join(abs, r.Dir())+string(filepath.Separator))
			return nil
		},
	}
}
