// Package cli implements the docpatch command tree.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/config"
	"github.com/ariel-frischer/docpatch/internal/logging"
	"github.com/ariel-frischer/docpatch/internal/output"
	"github.com/ariel-frischer/docpatch/internal/version"
)

// Command groups shown in help output.
const (
	GroupDocuments     = "documents"
	GroupRepository    = "repository"
	GroupConfiguration = "configuration"
)

var (
	cfgFile     string
	debugFlag   bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docpatch",
	Short: "Keep README, docs and release notes in step with code changes",
	Long: `docpatch applies a classified change set to your project documentation.

Given a change set (new, removed and modified features, configuration
updates and structured feature entries), it merges feature bullets into the
README, adds structured entries to the documentation file and records the
change in a versioned release-notes file. Every merge is idempotent, so
re-applying the same change set leaves the documents untouched.`,
	Example: `  # Preview what a change set would do
  docpatch diff -c changes.json

  # Apply it, recording the changelog under v1.4.0
  docpatch apply -c changes.json --version v1.4.0

  # Apply and post a summary to the configured pull request
  docpatch apply -c changes.json --comment`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupDocuments, Title: "Documents:"},
		&cobra.Group{ID: GroupRepository, Title: "Repository:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Project config file (default: .docpatch/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable informational logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.Wrap(err, clierrors.Argument, "").WithUsage(cmd.UseLine())
	})
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		clierrors.FprintError(stderr, err)
	}
	return ExitCode(err)
}

// loadConfig loads configuration, honouring --config.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, clierrors.ConfigLoadError(err)
	}
	return cfg, nil
}

// newLogger builds the command logger from flags and configuration.
func newLogger(cmd *cobra.Command, cfg *config.Configuration) zerolog.Logger {
	level := logging.LevelFromFlags(debugFlag, verboseFlag, cfg.LogLevel)
	log := logging.New(logging.Config{
		Level:  level,
		Pretty: output.IsTerminal(cmd.ErrOrStderr()),
		Output: cmd.ErrOrStderr(),
	})

	log.Debug().Str("build", version.Get().String()).Msg("starting")
	return log
}
