package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/repo"
)

const version = "0.1.0-dev"

// settings resolves CLI configuration from flags and G1T_* environment
// variables.
type settings struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}

	root := &cobra.Command{
		Use:           "g1t",
		Short:         "Minimal content-addressed version control",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("root", ".", "working directory root")
	flags.String("repo-dir", repo.DefaultDirName, "repository directory name under the root")
	flags.String("author", "", "override the commit author from the repository config")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	s.v.BindPFlag("root", flags.Lookup("root"))
	s.v.BindPFlag("repo_dir", flags.Lookup("repo-dir"))
	s.v.BindPFlag("author", flags.Lookup("author"))
	s.v.BindPFlag("log_level", flags.Lookup("log-level"))
	s.v.SetEnvPrefix("G1T")
	s.v.AutomaticEnv()

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(s))
	root.AddCommand(newAddCmd(s))
	root.AddCommand(newCommitCmd(s))
	root.AddCommand(newResetCmd(s))
	root.AddCommand(newLogCmd(s))
	root.AddCommand(newLsFilesCmd(s))
	root.AddCommand(newCatFileCmd(s))
	root.AddCommand(newObjectsCmd(s))
	root.AddCommand(newConfigCmd(s))

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "g1t %s\n", version)
		},
	}
}

// options builds repository options for the current invocation. Diagnostics
// go to the command's stderr.
func (s *settings) options(cmd *cobra.Command) (repo.Options, error) {
	rootDir, err := filepath.Abs(s.v.GetString("root"))
	if err != nil {
		return repo.Options{}, fmt.Errorf("resolve root: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s.v.GetString("log_level")))); err != nil {
		return repo.Options{}, fmt.Errorf("invalid log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return repo.Options{
		FS:      fsys.NewDisk(rootDir),
		DirName: s.v.GetString("repo_dir"),
		Author:  s.v.GetString("author"),
		Logger:  logger.With("root", rootDir),
	}, nil
}

func (s *settings) open(cmd *cobra.Command) (*repo.Repo, error) {
	opts, err := s.options(cmd)
	if err != nil {
		return nil, err
	}
	return repo.Open(opts)
}
