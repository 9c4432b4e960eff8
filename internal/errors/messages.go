package errors

import (
	"fmt"
	"strings"
)

// Constructors for the errors commands return most often.

// MissingChangeSet creates an error for a missing --changeset flag.
func MissingChangeSet(command string) *CLIError {
	return New(Argument,
		"a change set file is required",
		"Pass the classifier output with -c/--changeset",
		"Use '-c -' to read JSON from stdin",
	).WithUsage(fmt.Sprintf("docpatch %s -c <changeset.json|yaml|toml>", command))
}

// ChangeSetParseError creates an error for a change set that cannot be decoded.
func ChangeSetParseError(path string, err error) *CLIError {
	return Wrap(err, Argument,
		fmt.Sprintf("failed to read change set %s", path),
		"Check the file for syntax errors",
		"The extension selects the format: .json, .yaml/.yml or .toml",
	)
}

// ConfigLoadError creates an error for configuration that fails to load or validate.
func ConfigLoadError(err error) *CLIError {
	return Wrap(err, Configuration,
		"failed to load configuration",
		"Run 'docpatch config show' to inspect the effective settings",
		"Reset the project file with: docpatch config init --force",
	)
}

// InvalidDate creates an error for a --date value that is not YYYY-MM-DD.
func InvalidDate(value string) *CLIError {
	return New(Argument,
		fmt.Sprintf("invalid date: %s", value),
		"Example: --date 2024-01-31",
	).WithUsage("--date YYYY-MM-DD")
}

// VersionNotFound creates an error when a changelog version does not exist.
func VersionNotFound(version string, available []string) *CLIError {
	steps := []string{"Version labels match with or without a leading 'v'"}
	if len(available) > 0 {
		steps = append(steps, "Available versions: "+strings.Join(available, ", "))
	} else {
		steps = append(steps, "The changelog has no version blocks yet")
	}
	return New(Argument, fmt.Sprintf("version not found: %s", version), steps...)
}

// ChangelogNotConfigured creates an error when no changelog path is set.
func ChangelogNotConfigured() *CLIError {
	return New(Configuration,
		"no changelog file configured",
		"Set changelog_path in .docpatch/config.yml",
		"Or pass --changelog <path>",
	)
}

// MissingGitHubToken creates an error when a GitHub token is needed but unset.
func MissingGitHubToken() *CLIError {
	return New(Prerequisite,
		"GitHub token not found",
		"Export GITHUB_TOKEN or add it to .env",
		"Or set github.token in your user config",
	)
}

// MissingPullRequest creates an error when the repository or PR number is unset.
func MissingPullRequest() *CLIError {
	return New(Configuration,
		"pull request not configured",
		"Set github.repo (owner/name) and github.pr_number",
		"Or pass --repo and --pr",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return New(Argument,
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'docpatch <command> --help' to see valid options",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return Wrap(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return New(Prerequisite,
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
}
