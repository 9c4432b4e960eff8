package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/docpatch/internal/changelog"
	"github.com/ariel-frischer/docpatch/internal/document"
	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/output"
)

var changelogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint the release notes file",
	Long: `Check the release-notes file for problems merges cannot fix on their own.

Errors (exit code 1):
  - the same version label used by two blocks
  - a block date that is not YYYY-MM-DD

Warnings:
  - empty blocks and empty or unknown categories
  - bullets that sit outside a category

Example:
  docpatch changelog check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogCheck(cmd)
	},
}

func init() {
	changelogCmd.AddCommand(changelogCheckCmd)
}

func runChangelogCheck(cmd *cobra.Command) error {
	path, err := changelogPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return clierrors.New(clierrors.Prerequisite,
			fmt.Sprintf("changelog file not found: %s", path),
			"Pass --file <path> or set changelog_path",
		)
	}
	if err != nil {
		return fmt.Errorf("reading changelog: %w", err)
	}

	issues := changelog.Check(document.Parse(string(data)))
	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		output.PrintSuccess(out, fmt.Sprintf("%s has no issues", path))
		return nil
	}

	if err := changelog.NewPrinter(out, false, 0).Issues(issues); err != nil {
		return fmt.Errorf("formatting issues: %w", err)
	}

	if changelog.HasErrors(issues) {
		fmt.Fprintf(out, "\n✗ %s has errors\n", path)
		return NewExitError(ExitFailure)
	}
	fmt.Fprintf(out, "\n%s has warnings only\n", path)
	return nil
}
