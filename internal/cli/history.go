package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/history"
	"github.com/ariel-frischer/docpatch/internal/output"
)

var (
	historyTargetFlag string
	historyLimitFlag  int
	historyClearFlag  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past apply, diff and watch runs",
	Long: `List the runs recorded under state_dir, oldest first. Each run gets one
row per target document saying whether the document changed.

Examples:
  docpatch history                 # every recorded run
  docpatch history -t RELEASES.md  # runs that touched the release notes
  docpatch history -n 10           # the ten most recent rows
  docpatch history --clear         # delete the history file`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimitFlag < 0 {
			return clierrors.New(clierrors.Argument,
				fmt.Sprintf("--limit must not be negative, got %d", historyLimitFlag),
				"Use 0 to show every entry")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runHistory(cmd.OutOrStdout(), cfg.StateDir)
	},
}

func init() {
	historyCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyTargetFlag, "target", "t", "", "Only rows for this document path")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 0, "Show only the N most recent rows (0 = all)")
	historyCmd.Flags().BoolVar(&historyClearFlag, "clear", false, "Delete the recorded history")
}

func runHistory(out io.Writer, stateDir string) error {
	if historyClearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime, "failed to clear history")
		}
		output.PrintSuccess(out, "History cleared.")
		return nil
	}

	h, err := history.LoadHistory(stateDir)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime, "failed to load history",
			"Remove the file with: docpatch history --clear")
	}

	entries := history.Filter(h.Entries, historyTargetFlag, historyLimitFlag)
	switch {
	case len(entries) == 0 && historyTargetFlag != "":
		fmt.Fprintf(out, "No matching entries for target '%s'.\n", historyTargetFlag)
		return nil
	case len(entries) == 0:
		fmt.Fprintln(out, "No history available.")
		return nil
	}

	printHistory(out, entries)
	return nil
}

func printHistory(out io.Writer, entries []history.HistoryEntry) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tCOMMAND\tTARGET\tVERSION\tRESULT\tEXIT\tDURATION")
	for _, e := range entries {
		result := "unchanged"
		if e.Modified {
			result = "modified"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			orDash(shortID(e.RunID)),
			e.Command,
			orDash(e.Target),
			orDash(e.Version),
			result,
			e.ExitCode,
			e.Duration,
		)
	}
	tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
