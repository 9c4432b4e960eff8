package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/filter"
	"github.com/ariel-frischer/docpatch/internal/git"
	"github.com/ariel-frischer/docpatch/internal/output"
)

var (
	filesBaseFlag  string
	filesHeadFlag  string
	filesFetchFlag bool
	filesRepoFlag  string
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files changed between two revisions and classify them",
	Long: `List the files changed between two revisions of the local repository,
classified as code, test, README or documentation.

The summary reports whether the change touches only READMEs (nothing to
document) and whether the head commit message carries a skip marker such
as [skip-docpatch].`,
	Example: `  # Changes in the last commit
  docpatch files

  # Changes on a branch relative to main
  docpatch files --base main --head HEAD

  # Fetch remotes first, then compare with the upstream branch
  docpatch files --fetch --base origin/main`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cmd, cfg)
		return runFiles(cmd.Context(), cmd.OutOrStdout(), log, filesRepoFlag, filesBaseFlag, filesHeadFlag, filesFetchFlag)
	},
}

func init() {
	filesCmd.GroupID = GroupRepository
	rootCmd.AddCommand(filesCmd)

	filesCmd.Flags().StringVar(&filesBaseFlag, "base", git.DefaultBase, "Base revision (empty compares against an empty tree)")
	filesCmd.Flags().StringVar(&filesHeadFlag, "head", git.DefaultHead, "Head revision")
	filesCmd.Flags().BoolVar(&filesFetchFlag, "fetch", false, "Fetch all remotes before comparing")
	filesCmd.Flags().StringVar(&filesRepoFlag, "repo-path", ".", "Path inside the repository")
}

func runFiles(ctx context.Context, out io.Writer, log zerolog.Logger, repoPath, base, head string, fetch bool) error {
	repo, err := git.Open(repoPath, log)
	if errors.Is(err, git.ErrNotRepository) {
		return clierrors.GitNotRepository()
	}
	if err != nil {
		return err
	}

	if fetch {
		stop := startSpinner(out, "Fetching remotes")
		res := repo.Fetch(ctx)
		stop()
		for remote, err := range res.Failed {
			output.PrintWarning(out, fmt.Sprintf("fetch from %s failed: %v", remote, err))
		}
	}

	changes, err := repo.Changes(ctx, base, head)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Argument,
			fmt.Sprintf("cannot compare %s..%s", base, head),
			"Check that both revisions exist: git log --oneline -2",
		)
	}

	rows := make([]fileRow, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, fileRow{Path: c.Path, Status: string(c.Status), Additions: c.Additions, Deletions: c.Deletions})
	}

	var skip bool
	if msg, err := repo.CommitMessage(head); err == nil {
		skip = filter.ShouldSkip(msg)
	}

	printFileRows(out, fmt.Sprintf("%s..%s", base, head), rows, skip)
	return nil
}

// fileRow is one changed file in files and pr files output.
type fileRow struct {
	Path      string
	Status    string
	Additions int
	Deletions int
}

func printFileRows(out io.Writer, title string, rows []fileRow, skip bool) {
	if len(rows) == 0 {
		output.PrintSkipped(out, fmt.Sprintf("No files changed in %s", title))
		return
	}

	classifier := filter.NewClassifier()
	paths := make([]string, 0, len(rows))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		paths = append(paths, r.Path)
		fmt.Fprintf(tw, "%s\t%s\t+%d -%d\t%s\n", r.Status, classifier.Classify(r.Path), r.Additions, r.Deletions, r.Path)
	}
	tw.Flush()

	code := classifier.CodeFiles(paths)
	fmt.Fprintf(out, "\n%d file(s) changed in %s, %d code file(s)\n", len(rows), title, len(code))

	yellow := color.New(color.FgYellow).SprintFunc()
	switch {
	case skip:
		fmt.Fprintln(out, yellow("Skip marker found: documentation will not be updated"))
	case classifier.IsReadmeOnly(paths):
		fmt.Fprintln(out, yellow("README-only change: nothing to document"))
	case len(code) == 0:
		fmt.Fprintln(out, yellow("No code files changed: nothing to document"))
	default:
		output.PrintSuccess(out, "Code changes found: run the classifier, then 'docpatch apply'")
	}
}
