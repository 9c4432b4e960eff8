package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# docpatch configuration
# See 'docpatch config -h' for commands, 'docpatch config keys' for all options

# Target documents
readme_path: README.md                # Feature list and configuration sections
documentation_path: DOCUMENTATION.md  # Structured entries (empty = README)
changelog_path: RELEASES.md           # Versioned release notes (empty = disabled)
version_label: Unreleased             # Block label used when --version is not given

# Update gating
min_significance: medium              # low | medium | high

# Diff output
diff_context: 3                       # Unchanged lines around each hunk
diff_preview_lines: 100               # Diff lines included in PR comments (0 = none)

# History
state_dir: ~/.docpatch/state          # Directory for run history
max_history_entries: 200              # Oldest runs are pruned beyond this

# Logging
log_level: warn                       # trace | debug | info | warn | error | disabled

# Changelog placement
changelog:
  anchor_titles:                      # Level-1 titles new blocks go under
    - Release Notes

# Pull request integration
github:
  repo: ""                            # owner/name (default: $GITHUB_REPOSITORY)
  pr_number: 0                        # Pull request to read and comment on
  token: ""                           # Prefer $GITHUB_TOKEN or .env
  timeout: 30s                        # Request timeout
  api_url: ""                         # API root for GitHub Enterprise (empty = github.com)
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"readme_path":        "README.md",
		"documentation_path": "DOCUMENTATION.md",
		"changelog_path":     "RELEASES.md",
		// version_label: the changelog block a run merges into when no
		// version is passed on the command line.
		"version_label": "Unreleased",
		// min_significance: ChangeSets that only modify existing features
		// are skipped below this level.
		"min_significance":    "medium",
		"diff_context":        3,
		"diff_preview_lines":  100,
		"state_dir":           "~/.docpatch/state",
		"max_history_entries": 200,
		"log_level":           "warn",
		"changelog": map[string]interface{}{
			"anchor_titles": []string{"Release Notes"},
		},
		"github": map[string]interface{}{
			"repo":      "",
			"pr_number": 0,
			"token":     "",
			"timeout":   "30s",
			"api_url":   "",
		},
	}
}
