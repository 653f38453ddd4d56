// Package service holds the postsapi command line: the HTTP server and the
// store maintenance commands.
package service

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"postsapi/app/config"
	"postsapi/app/logger"
)

// Version is reported by the version command.
const Version = "1.0.0"

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "postsapi",
		Short:         "Posts and comments REST API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("postsapi version {{.Version}}\n")

	root.AddCommand(newServeCommand())
	root.AddCommand(newDBCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "postsapi version %s\n", Version)
		},
	}
}

// loadRuntime reads the configuration and builds the logger writing to w.
func loadRuntime(w io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, w)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log.With().Str("env", cfg.Env).Logger(), nil
}
