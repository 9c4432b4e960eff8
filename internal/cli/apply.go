package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/docpatch/internal/changeset"
	"github.com/ariel-frischer/docpatch/internal/config"
	"github.com/ariel-frischer/docpatch/internal/diff"
	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/github"
	"github.com/ariel-frischer/docpatch/internal/history"
	"github.com/ariel-frischer/docpatch/internal/output"
	"github.com/ariel-frischer/docpatch/internal/report"
	"github.com/ariel-frischer/docpatch/internal/updater"
)

// dateLayout is the format of --date and of changelog block dates.
const dateLayout = "2006-01-02"

// applyOptions holds the flags shared by apply, diff and watch.
type applyOptions struct {
	ChangeSet string
	Readme    string
	Docs      string
	Changelog string
	Version   string
	Date      string
	DryRun    bool
	Force     bool
	Comment   bool
	Repo      string
	PR        int
}

var (
	applyOpts applyOptions
	diffOpts  applyOptions
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a change set to the README, docs and release notes",
	Long: `Apply a classified change set to the project documentation.

Targets:
  README         new, removed and modified features; configuration notes
  Documentation  structured feature entries (the README when unset)
  Changelog      the change set merged into the version block

Change sets that only modify existing features are skipped when their
significance is below min_significance; --force applies them anyway.
Applying the same change set twice changes nothing the second time.`,
	Example: `  # Apply a change set produced by the classifier
  docpatch apply -c changes.json

  # Merge into a specific release block with a fixed date
  docpatch apply -c changes.yaml --version v1.4.0 --date 2024-06-01

  # Read JSON from stdin and post a summary to the pull request
  classify | docpatch apply -c - --comment`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApplyCommand(cmd, "apply", applyOpts)
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Preview the changes a change set would make",
	Long:  `Show the unified diff of every document a change set would update, without writing anything. Equivalent to 'apply --dry-run'.`,
	Example: `  docpatch diff -c changes.json
  docpatch diff -c changes.json --version v2.0.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := diffOpts
		opts.DryRun = true
		return runApplyCommand(cmd, "diff", opts)
	},
}

func init() {
	applyCmd.GroupID = GroupDocuments
	diffCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(applyCmd, diffCmd)

	addTargetFlags(applyCmd, &applyOpts)
	applyCmd.Flags().BoolVar(&applyOpts.DryRun, "dry-run", false, "Show the diff without writing files")
	applyCmd.Flags().BoolVarP(&applyOpts.Force, "force", "f", false, "Apply even when significance is below min_significance")
	applyCmd.Flags().BoolVar(&applyOpts.Comment, "comment", false, "Post a summary comment to the pull request")
	applyCmd.Flags().StringVar(&applyOpts.Repo, "repo", "", "Repository as owner/name (default: github.repo)")
	applyCmd.Flags().IntVar(&applyOpts.PR, "pr", 0, "Pull request number (default: github.pr_number)")

	addTargetFlags(diffCmd, &diffOpts)
	diffCmd.Flags().BoolVarP(&diffOpts.Force, "force", "f", false, "Preview even when significance is below min_significance")
}

// addTargetFlags registers the change set and target document flags.
func addTargetFlags(cmd *cobra.Command, opts *applyOptions) {
	cmd.Flags().StringVarP(&opts.ChangeSet, "changeset", "c", "", "Change set file (.json, .yaml, .toml, or - for stdin)")
	cmd.Flags().StringVar(&opts.Readme, "readme", "", "README path (default: readme_path)")
	cmd.Flags().StringVar(&opts.Docs, "docs", "", "Documentation path for structured entries (default: documentation_path)")
	cmd.Flags().StringVar(&opts.Changelog, "changelog", "", "Release notes path (default: changelog_path)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Changelog block label (default: version_label)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Date for new changelog blocks, YYYY-MM-DD (default: today)")
}

func runApplyCommand(cmd *cobra.Command, name string, opts applyOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)
	return runApply(cmd.Context(), cmd.OutOrStdout(), cfg, name, opts, log)
}

// target is one document updated by a run. Roles sharing a path share
// one updater so their edits compose.
type target struct {
	labels []string
	u      *updater.Updater
}

func (t *target) label() string {
	return strings.Join(t.labels, " + ")
}

type targetSet struct {
	order  []*target
	byPath map[string]*target
	opts   []updater.Option
}

func newTargetSet(opts ...updater.Option) *targetSet {
	return &targetSet{byPath: make(map[string]*target), opts: opts}
}

func (s *targetSet) get(label, path string) (*target, error) {
	key := filepath.Clean(path)
	if t, ok := s.byPath[key]; ok {
		t.labels = append(t.labels, label)
		return t, nil
	}
	u, err := updater.New(path, s.opts...)
	if err != nil {
		return nil, err
	}
	t := &target{labels: []string{label}, u: u}
	s.byPath[key] = t
	s.order = append(s.order, t)
	return t, nil
}

// applyResult summarises a run for printing, history and comments.
type applyResult struct {
	ChangeSet *changeset.ChangeSet
	Skipped   string
	Targets   []targetResult
}

type targetResult struct {
	Label    string
	Path     string
	Modified bool
	Diff     string
}

// modified returns the targets whose content changed.
func (r *applyResult) modified() []targetResult {
	var out []targetResult
	for _, t := range r.Targets {
		if t.Modified {
			out = append(out, t)
		}
	}
	return out
}

// pullRequest identifies where a summary comment goes.
type pullRequest struct {
	Owner  string
	Name   string
	Number int
	Token  string
	APIURL string
}

func resolvePullRequest(cfg *config.Configuration, repo string, number int) (*pullRequest, error) {
	repo = firstNonEmpty(repo, cfg.GitHub.Repo)
	if number == 0 {
		number = cfg.GitHub.PRNumber
	}
	if repo == "" || number <= 0 {
		return nil, clierrors.MissingPullRequest()
	}
	owner, name, err := github.ParseRepo(repo)
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Argument, "", "Use the owner/name form, e.g. acme/widgets")
	}
	if cfg.GitHub.Token == "" {
		return nil, clierrors.MissingGitHubToken()
	}
	return &pullRequest{Owner: owner, Name: name, Number: number, Token: cfg.GitHub.Token, APIURL: cfg.GitHub.APIURL}, nil
}

func runApply(ctx context.Context, out io.Writer, cfg *config.Configuration, command string, opts applyOptions, log zerolog.Logger) (err error) {
	start := time.Now()
	var result *applyResult
	defer func() {
		recordHistory(cfg, command, result, opts, ExitCode(err), log, time.Since(start))
	}()

	if opts.ChangeSet == "" {
		return clierrors.MissingChangeSet(command)
	}

	var pr *pullRequest
	if opts.Comment {
		if opts.DryRun {
			return clierrors.InvalidFlagCombination("--comment --dry-run", "A summary is only posted for changes that were written")
		}
		if pr, err = resolvePullRequest(cfg, opts.Repo, opts.PR); err != nil {
			return err
		}
	}

	if result, err = applyChangeSet(cfg, opts, log); err != nil {
		return err
	}

	printResult(out, result, opts.DryRun)

	if pr != nil && len(result.modified()) > 0 {
		return postSummary(ctx, out, cfg, pr, result)
	}
	return nil
}

// applyChangeSet loads the change set, updates every target and saves the
// modified ones unless opts.DryRun is set.
func applyChangeSet(cfg *config.Configuration, opts applyOptions, log zerolog.Logger) (*applyResult, error) {
	cs, err := changeset.Load(opts.ChangeSet)
	if err != nil {
		return nil, clierrors.ChangeSetParseError(opts.ChangeSet, err)
	}
	result := &applyResult{ChangeSet: cs}

	clock := time.Now
	if opts.Date != "" {
		d, err := time.Parse(dateLayout, opts.Date)
		if err != nil {
			return nil, clierrors.InvalidDate(opts.Date)
		}
		clock = func() time.Time { return d }
	}

	threshold := cfg.Significance()
	switch {
	case !cs.HasChanges():
		result.Skipped = "change set has no items"
	case !opts.Force && !cs.ShouldUpdate(threshold):
		result.Skipped = fmt.Sprintf("significance %s is below %s (use --force to apply anyway)", cs.Significance, threshold)
	}
	if result.Skipped != "" {
		log.Info().Str("reason", result.Skipped).Msg("skipping update")
		return result, nil
	}

	readmePath := firstNonEmpty(opts.Readme, cfg.ReadmePath)
	docsPath := firstNonEmpty(opts.Docs, cfg.DocumentationPath)
	changelogPath := firstNonEmpty(opts.Changelog, cfg.ChangelogPath)
	label := firstNonEmpty(opts.Version, cfg.VersionLabel)

	set := newTargetSet(
		updater.WithLogger(log),
		updater.WithClock(clock),
		updater.WithAnchorTitles(cfg.Changelog.AnchorTitles...),
	)

	readme, err := set.get("README", readmePath)
	if err != nil {
		return nil, err
	}
	readmeCS := *cs
	if docsPath != "" && filepath.Clean(docsPath) != filepath.Clean(readmePath) {
		readmeCS.DocumentationEntries = nil
		if len(cs.DocumentationEntries) > 0 {
			docs, err := set.get("Documentation", docsPath)
			if err != nil {
				return nil, err
			}
			docs.u.AddStructuredEntries(cs.DocumentationEntries)
		}
	}
	readme.u.ApplyFeatures(&readmeCS)

	if changelogPath != "" && !cs.IsEmpty() {
		notes, err := set.get("Changelog", changelogPath)
		if err != nil {
			return nil, err
		}
		notes.u.MergeChangelog(cs, label)
	}

	for _, t := range set.order {
		d, err := t.u.Diff(diff.Options{Context: cfg.DiffContext})
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", t.u.Path(), err)
		}
		modified := t.u.Modified()
		if modified && !opts.DryRun {
			if err := t.u.Save(); err != nil {
				return nil, clierrors.FileNotWritable(t.u.Path(), err)
			}
		}
		result.Targets = append(result.Targets, targetResult{
			Label:    t.label(),
			Path:     t.u.Path(),
			Modified: modified,
			Diff:     d,
		})
	}
	return result, nil
}

func printResult(out io.Writer, result *applyResult, dryRun bool) {
	if result.Skipped != "" {
		output.PrintSkipped(out, "Nothing to update: "+result.Skipped)
		return
	}

	for _, t := range result.Targets {
		output.PrintTargetHeader(out, t.Label, t.Path)
		if !t.Modified {
			output.PrintSkipped(out, "already up to date")
			continue
		}
		fmt.Fprint(out, diff.Colorize(t.Diff))
		stats := diff.Count(t.Diff)
		if dryRun {
			output.PrintSkipped(out, fmt.Sprintf("would update %s (%s)", t.Path, stats))
		} else {
			output.PrintSuccess(out, fmt.Sprintf("updated %s (%s)", t.Path, stats))
		}
	}

	fmt.Fprintln(out)
	switch n := len(result.modified()); {
	case n == 0:
		output.PrintSuccess(out, "Documentation already up to date")
	case dryRun:
		output.PrintWarning(out, fmt.Sprintf("Dry run: %d document(s) would change, nothing written", n))
	default:
		output.PrintSuccess(out, fmt.Sprintf("Updated %d document(s)", n))
	}
}

// recordHistory appends one entry per target, or a single entry without a
// target when the run failed before any document was updated.
func recordHistory(cfg *config.Configuration, command string, result *applyResult, opts applyOptions, code int, log zerolog.Logger, elapsed time.Duration) {
	if cfg.StateDir == "" {
		return
	}
	run := history.Run{
		Command:  command,
		Version:  firstNonEmpty(opts.Version, cfg.VersionLabel),
		ExitCode: code,
		Elapsed:  elapsed,
	}
	if result != nil && result.Skipped == "" {
		for _, t := range result.Targets {
			run.Targets = append(run.Targets, history.TargetResult{Path: t.Path, Modified: t.Modified && !opts.DryRun})
		}
	}
	history.NewRecorder(cfg.StateDir, cfg.MaxHistoryEntries, log).Record(run)
}

func postSummary(ctx context.Context, out io.Writer, cfg *config.Configuration, pr *pullRequest, result *applyResult) error {
	var preview strings.Builder
	for _, t := range result.modified() {
		preview.WriteString(report.Section(t.Path, t.Diff))
	}
	body := report.Comment(result.ChangeSet, preview.String(), cfg.DiffPreviewLines)

	clientOpts := []github.Option{github.WithTimeout(cfg.GitHubTimeout())}
	if pr.APIURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(pr.APIURL))
	}
	client, err := github.NewClient(ctx, pr.Token, clientOpts...)
	if err != nil {
		return clierrors.MissingGitHubToken()
	}

	stop := startSpinner(out, fmt.Sprintf("Posting summary to %s/%s#%d", pr.Owner, pr.Name, pr.Number))
	url, err := client.UpsertComment(ctx, pr.Owner, pr.Name, pr.Number, report.Heading, body)
	stop()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime,
			"failed to post pull request comment",
			"Check that the token can write to pull requests",
		)
	}

	output.PrintSuccess(out, "Posted summary: "+url)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
