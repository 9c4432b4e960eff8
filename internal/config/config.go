// Package config provides hierarchical configuration management for docpatch using koanf.
// Configuration is loaded with priority: environment variables (DOCPATCH_*) > project config
// (.docpatch/config.yml or .docpatch/config.json) > user config (~/.config/docpatch/config.yml)
// > defaults. A .env file in the working directory is read into the process environment first,
// without overriding variables that are already set.
package config

import (
	"time"

	"github.com/ariel-frischer/docpatch/internal/changeset"
)

// GitHubConfig configures the pull request the CLI reads from and comments on.
type GitHubConfig struct {
	// Repo is "owner/name". Falls back to GITHUB_REPOSITORY when empty.
	Repo     string `koanf:"repo" yaml:"repo" validate:"omitempty,ownerrepo"`
	PRNumber int    `koanf:"pr_number" yaml:"pr_number" validate:"min=0"`
	// Token falls back to GITHUB_TOKEN when empty.
	Token   string `koanf:"token" yaml:"token"`
	Timeout string `koanf:"timeout" yaml:"timeout" validate:"omitempty,duration"`
	// APIURL overrides the API root for GitHub Enterprise servers.
	APIURL string `koanf:"api_url" yaml:"api_url" validate:"omitempty,http_url"`
}

// ChangelogConfig configures changelog block placement.
type ChangelogConfig struct {
	// AnchorTitles are level-1 titles new version blocks are inserted under.
	AnchorTitles []string `koanf:"anchor_titles" yaml:"anchor_titles"`
}

// Configuration represents the docpatch CLI configuration
type Configuration struct {
	ReadmePath        string `koanf:"readme_path" yaml:"readme_path" validate:"required"`
	DocumentationPath string `koanf:"documentation_path" yaml:"documentation_path"`
	ChangelogPath     string `koanf:"changelog_path" yaml:"changelog_path"`
	VersionLabel      string `koanf:"version_label" yaml:"version_label" validate:"required"`

	// MinSignificance is the lowest significance that triggers an update
	// when a ChangeSet only modifies existing features.
	MinSignificance string `koanf:"min_significance" yaml:"min_significance" validate:"oneof=low medium high"`

	DiffContext      int `koanf:"diff_context" yaml:"diff_context" validate:"min=0"`
	DiffPreviewLines int `koanf:"diff_preview_lines" yaml:"diff_preview_lines" validate:"min=0"`

	StateDir          string `koanf:"state_dir" yaml:"state_dir"`
	MaxHistoryEntries int    `koanf:"max_history_entries" yaml:"max_history_entries" validate:"min=0"`

	LogLevel string `koanf:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`

	Changelog ChangelogConfig `koanf:"changelog" yaml:"changelog"`
	GitHub    GitHubConfig    `koanf:"github" yaml:"github"`
}

// Significance returns the configured update threshold.
func (c *Configuration) Significance() changeset.Significance {
	return changeset.ParseSignificance(c.MinSignificance)
}

// GitHubTimeout returns the request timeout for the hosting service, or zero
// when none is configured.
func (c *Configuration) GitHubTimeout() time.Duration {
	d, err := time.ParseDuration(c.GitHub.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Redacted returns a copy safe to print, with secrets masked.
func (c *Configuration) Redacted() Configuration {
	out := *c
	out.Changelog.AnchorTitles = append([]string(nil), c.Changelog.AnchorTitles...)
	if out.GitHub.Token != "" {
		out.GitHub.Token = "********"
	}
	return out
}
