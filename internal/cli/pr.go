package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/docpatch/internal/config"
	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/filter"
	"github.com/ariel-frischer/docpatch/internal/github"
)

var (
	prRepoFlag   string
	prNumberFlag int
	prPatchFlag  bool
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Inspect the configured pull request",
	Long:  `Commands that read from the pull request named by github.repo and github.pr_number (or --repo and --pr).`,
}

var prFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List and classify the files a pull request changes",
	Long: `Fetch the pull request and its changed files from GitHub and classify
them. A skip marker in the pull request title is reported, as is a change
that touches only READMEs.

With --patch the combined patch of all files is printed instead, ready to
feed to a change classifier.`,
	Example: `  docpatch pr files --repo acme/widgets --pr 42
  GITHUB_TOKEN=... docpatch pr files --patch > changes.patch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		newLogger(cmd, cfg)
		return runPRFiles(cmd.Context(), cmd.OutOrStdout(), cfg, prRepoFlag, prNumberFlag, prPatchFlag)
	},
}

func init() {
	prCmd.GroupID = GroupRepository
	rootCmd.AddCommand(prCmd)
	prCmd.AddCommand(prFilesCmd)

	prCmd.PersistentFlags().StringVar(&prRepoFlag, "repo", "", "Repository as owner/name (default: github.repo)")
	prCmd.PersistentFlags().IntVar(&prNumberFlag, "pr", 0, "Pull request number (default: github.pr_number)")
	prFilesCmd.Flags().BoolVar(&prPatchFlag, "patch", false, "Print the combined patch instead of the file list")
}

func runPRFiles(ctx context.Context, out io.Writer, cfg *config.Configuration, repo string, number int, patch bool) error {
	pr, err := resolvePullRequest(cfg, repo, number)
	if err != nil {
		return err
	}

	opts := []github.Option{github.WithTimeout(cfg.GitHubTimeout())}
	if pr.APIURL != "" {
		opts = append(opts, github.WithBaseURL(pr.APIURL))
	}
	client, err := github.NewClient(ctx, pr.Token, opts...)
	if err != nil {
		return clierrors.MissingGitHubToken()
	}

	stop := startSpinner(out, fmt.Sprintf("Fetching %s/%s#%d", pr.Owner, pr.Name, pr.Number))
	info, err := client.GetPullRequest(ctx, pr.Owner, pr.Name, pr.Number)
	stop()
	if err != nil {
		if github.IsNotFound(err) {
			return clierrors.Wrap(err, clierrors.Argument,
				fmt.Sprintf("pull request %s/%s#%d not found", pr.Owner, pr.Name, pr.Number),
				"Check github.repo and github.pr_number",
				"Private repositories need a token with repo scope",
			)
		}
		return clierrors.Wrap(err, clierrors.Runtime, "failed to fetch pull request")
	}

	if patch {
		fmt.Fprint(out, github.CombinedPatch(info.Files))
		return nil
	}

	fmt.Fprintf(out, "#%d %s (%s → %s)\n\n", info.Number, info.Title, info.HeadRef, info.BaseRef)
	rows := make([]fileRow, 0, len(info.Files))
	for _, f := range info.Files {
		rows = append(rows, fileRow{Path: f.Filename, Status: f.Status, Additions: f.Additions, Deletions: f.Deletions})
	}
	printFileRows(out, fmt.Sprintf("#%d", info.Number), rows, filter.ShouldSkip(info.Title))
	return nil
}
