package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/docpatch/internal/changelog"
	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
)

var (
	changelogLastFlag  int
	changelogPlainFlag bool
	changelogFileFlag  string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog [version]",
	Short: "Show release notes from changelog_path",
	Long: `Show the release notes docpatch maintains.

Without arguments the newest entries across all blocks are listed, five by
default. With a version argument the whole block is shown; labels match
case-insensitively with or without a leading "v".

Examples:
  docpatch changelog                     # newest five entries
  docpatch changelog --last 20           # newest twenty
  docpatch changelog 1.4.0               # the v1.4.0 block
  docpatch changelog unreleased --plain  # pending notes, no color
  docpatch changelog --file CHANGES.md   # a file other than changelog_path`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runChangelogView,
}

// changelogExtractCmd prints one block as markdown, e.g. for a GitHub release body.
var changelogExtractCmd = &cobra.Command{
	Use:   "extract <version>",
	Short: "Print one version block as markdown",
	Long: `Print the block for <version> exactly as apply writes it, so the output
can be pasted into a release description.

Examples:
  docpatch changelog extract v1.2.0
  docpatch changelog extract unreleased | gh release edit v1.2.0 -F -`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, _, err := loadChangelog()
		if err != nil {
			return err
		}
		v, err := findVersion(log, args[0])
		if err != nil {
			return err
		}
		return v.WriteMarkdown(cmd.OutOrStdout())
	},
}

func init() {
	changelogCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogExtractCmd)

	changelogCmd.PersistentFlags().StringVar(&changelogFileFlag, "file", "", "Release notes file to read instead of changelog_path")
	changelogCmd.Flags().IntVar(&changelogLastFlag, "last", 5, "How many of the newest entries to list")
	changelogCmd.Flags().BoolVar(&changelogPlainFlag, "plain", false, "Markdown-like output without color or icons")
}

// changelogPath resolves --file against the configured changelog path.
func changelogPath() (string, error) {
	if changelogFileFlag != "" {
		return changelogFileFlag, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.ChangelogPath == "" {
		return "", clierrors.ChangelogNotConfigured()
	}
	return cfg.ChangelogPath, nil
}

func loadChangelog() (*changelog.Changelog, string, error) {
	path, err := changelogPath()
	if err != nil {
		return nil, "", err
	}
	log, err := changelog.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, path, clierrors.New(clierrors.Prerequisite,
			fmt.Sprintf("changelog file not found: %s", path),
			"Run 'docpatch apply' to create it",
			"Or pass --file <path>",
		)
	}
	if err != nil {
		return nil, path, fmt.Errorf("loading changelog: %w", err)
	}
	return log, path, nil
}

func runChangelogView(cmd *cobra.Command, args []string) error {
	log, _, err := loadChangelog()
	if err != nil {
		return err
	}

	p := changelog.NewPrinter(cmd.OutOrStdout(), changelogPlainFlag, 0)
	if len(args) == 1 {
		v, err := findVersion(log, args[0])
		if err != nil {
			return err
		}
		return p.Block(v)
	}
	return showHead(cmd.OutOrStdout(), p, log, changelogLastFlag)
}

// findVersion looks up version, converting a miss into an argument error
// that lists the available blocks.
func findVersion(log *changelog.Changelog, version string) (*changelog.VersionBlock, error) {
	v, err := log.Find(version)
	if err != nil {
		var unknown *changelog.UnknownVersionError
		if errors.As(err, &unknown) {
			return nil, clierrors.VersionNotFound(version, unknown.Known)
		}
		return nil, fmt.Errorf("getting version: %w", err)
	}
	return v, nil
}

func showHead(out io.Writer, p *changelog.Printer, log *changelog.Changelog, n int) error {
	entries := log.Head(n)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No changelog entries found.")
		return nil
	}
	if err := p.Entries(entries); err != nil {
		return fmt.Errorf("printing entries: %w", err)
	}
	if total := log.EntryCount(); total > len(entries) {
		fmt.Fprintf(out, "\n(%d of %d entries shown. Use --last %d to see all)\n", len(entries), total, total)
	}
	return nil
}
