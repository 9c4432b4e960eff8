package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/docpatch/internal/config"
	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/output"
	"github.com/ariel-frischer/docpatch/internal/watch"
)

var watchOpts applyOptions

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-apply a change set whenever its file changes",
	Long: `Apply a change set, then keep watching the file and apply it again after
every save. Because merges are idempotent, unchanged items are never
duplicated. Stop with Ctrl+C.`,
	Example: `  docpatch watch -c changes.yaml
  docpatch watch -c changes.json --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchOpts.ChangeSet == "" {
			return clierrors.MissingChangeSet("watch")
		}
		if watchOpts.ChangeSet == "-" {
			return clierrors.InvalidFlagCombination("watch -c -", "Standard input cannot be watched; pass a file")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cmd, cfg)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runWatch(ctx, cmd, cfg, watchOpts, log)
	},
}

func init() {
	watchCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(watchCmd)

	addTargetFlags(watchCmd, &watchOpts)
	watchCmd.Flags().BoolVar(&watchOpts.DryRun, "dry-run", false, "Show diffs without writing files")
	watchCmd.Flags().BoolVarP(&watchOpts.Force, "force", "f", false, "Apply even when significance is below min_significance")
}

func runWatch(ctx context.Context, cmd *cobra.Command, cfg *config.Configuration, opts applyOptions, log zerolog.Logger) error {
	out := cmd.OutOrStdout()

	w, err := watch.New(opts.ChangeSet, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watching change set: %w", err)
	}
	defer w.Close()

	run := func() {
		if err := runApply(ctx, out, cfg, "watch", opts, log); err != nil {
			clierrors.FprintError(cmd.ErrOrStderr(), err)
		}
	}

	if _, err := os.Stat(opts.ChangeSet); err == nil {
		run()
	}
	output.PrintSkipped(out, fmt.Sprintf("Watching %s (Ctrl+C to stop)", w.Path()))

	return w.Run(ctx, func() {
		log.Debug().Str("path", w.Path()).Msg("change set modified")
		run()
	})
}
