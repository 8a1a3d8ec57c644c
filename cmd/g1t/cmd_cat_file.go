package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/g1t/pkg/object"
)

func newCatFileCmd(s *settings) *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <hash>",
		Short: "Print a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}
			r, err := s.open(cmd)
			if err != nil {
				return err
			}
			o, err := r.Cat(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, o.Kind())
				return nil
			}
			return printObject(out, o)
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print only the object kind")
	return cmd
}

func printObject(out io.Writer, o object.Object) error {
	switch v := o.(type) {
	case *object.Blob:
		_, err := out.Write(v.Content)
		return err
	case *object.Tree:
		for _, e := range v.Entries {
			fmt.Fprintf(out, "%s %s\t%s\n", e.Mode, e.Hash, e.Name)
		}
	case *object.Commit:
		fmt.Fprintf(out, "tree %s\n", v.TreeHash)
		if v.Parent != nil {
			fmt.Fprintf(out, "parent %s\n", *v.Parent)
		}
		fmt.Fprintf(out, "author %s\n\n%s\n", v.Author, v.Message)
	}
	return nil
}
