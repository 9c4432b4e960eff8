package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReleaseNotes = `# Release Notes

## v1.1.0 (2024-07-01)

### Added
- Export to CSV

## v1.0.0 (2024-06-01)

### Added
- Dark mode

### Removed
- Legacy sync
`

// getChangelogCmd finds the changelog command from rootCmd
func getChangelogCmd() *cobra.Command {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "changelog [version]" {
			return cmd
		}
	}
	return nil
}

func TestChangelogCmdFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName string
		defValue string
		wantType string
	}{
		"last flag":  {flagName: "last", defValue: "5", wantType: "int"},
		"plain flag": {flagName: "plain", defValue: "false", wantType: "bool"},
		"file flag":  {flagName: "file", defValue: "", wantType: "string"},
	}

	cmd := getChangelogCmd()
	require.NotNil(t, cmd, "changelog command must exist")

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := cmd.Flags().Lookup(tt.flagName)
			if f == nil {
				f = cmd.PersistentFlags().Lookup(tt.flagName)
			}
			require.NotNil(t, f, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.defValue, f.DefValue)
			assert.Equal(t, tt.wantType, f.Value.Type())
		})
	}
}

func TestChangelogCmdSubcommands(t *testing.T) {
	t.Parallel()

	cmd := getChangelogCmd()
	require.NotNil(t, cmd)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["extract"], "extract subcommand")
	assert.True(t, names["check"], "check subcommand")
}

func TestChangelogView(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantCode int
		wantOut  []string
		notOut   []string
		wantErr  string
	}{
		"single version plain": {
			args:     []string{"changelog", "v1.0.0", "--plain"},
			wantCode: ExitSuccess,
			wantOut: []string{
				"## v1.0.0 (2024-06-01)\n\n### Added\n  - Dark mode\n\n### Removed\n  - Legacy sync\n",
			},
			notOut: []string{"Export to CSV"},
		},
		"version without v prefix": {
			args:     []string{"changelog", "1.1.0", "--plain"},
			wantCode: ExitSuccess,
			wantOut:  []string{"## v1.1.0 (2024-07-01)", "  - Export to CSV"},
		},
		"last entries": {
			args:     []string{"changelog", "--last", "1", "--plain"},
			wantCode: ExitSuccess,
			wantOut:  []string{"Export to CSV", "(1 of 3 entries shown. Use --last 3 to see all)"},
			notOut:   []string{"Dark mode"},
		},
		"default shows everything": {
			args:     []string{"changelog", "--plain"},
			wantCode: ExitSuccess,
			wantOut:  []string{"Export to CSV", "Dark mode", "Legacy sync"},
			notOut:   []string{"entries shown"},
		},
		"unknown version": {
			args:     []string{"changelog", "v9.9.9"},
			wantCode: ExitInvalidArguments,
			wantErr:  "version not found: v9.9.9",
		},
		"too many args": {
			args:     []string{"changelog", "v1", "v2"},
			wantCode: ExitFailure,
			wantErr:  "accepts at most 1 arg",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := setupProject(t)
			writeFile(t, filepath.Join(dir, "RELEASES.md"), sampleReleaseNotes)

			stdout, stderr, code := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, code, stderr)
			for _, want := range tt.wantOut {
				assert.Contains(t, stdout, want)
			}
			for _, not := range tt.notOut {
				assert.NotContains(t, stdout, not)
			}
			if tt.wantErr != "" {
				assert.Contains(t, stderr, tt.wantErr)
			}
		})
	}
}

func TestChangelogView_MissingFile(t *testing.T) {
	setupProject(t)

	_, stderr, code := runCLI(t, "changelog")
	assert.Equal(t, ExitMissingDependencies, code)
	assert.Contains(t, stderr, "changelog file not found: RELEASES.md")
}

func TestChangelogView_NotConfigured(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, ".docpatch", "config.yml"), "changelog_path: \"\"\n")

	_, stderr, code := runCLI(t, "changelog")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "no changelog file configured")
}

func TestChangelogView_FileFlag(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, "docs", "NOTES.md"), "## 0.1.0\n\n### Changed\n- Renamed the CLI\n")

	stdout, stderr, code := runCLI(t, "changelog", "--file", filepath.Join("docs", "NOTES.md"), "--plain")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "## 0.1.0")
	assert.Contains(t, stdout, "  - Renamed the CLI")
}

func TestChangelogView_Empty(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, "RELEASES.md"), "# Release Notes\n")

	stdout, stderr, code := runCLI(t, "changelog")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "No changelog entries found.")
}

func TestChangelogExtract(t *testing.T) {
	tests := map[string]struct {
		version  string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		"latest": {
			version:  "v1.1.0",
			wantCode: ExitSuccess,
			wantOut:  "## v1.1.0 (2024-07-01)\n\n### Added\n- Export to CSV\n",
		},
		"older with categories": {
			version:  "1.0.0",
			wantCode: ExitSuccess,
			wantOut:  "## v1.0.0 (2024-06-01)\n\n### Added\n- Dark mode\n\n### Removed\n- Legacy sync\n",
		},
		"missing": {
			version:  "2.0.0",
			wantCode: ExitInvalidArguments,
			wantErr:  "Available versions: v1.1.0, v1.0.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := setupProject(t)
			writeFile(t, filepath.Join(dir, "RELEASES.md"), sampleReleaseNotes)

			stdout, stderr, code := runCLI(t, "changelog", "extract", tt.version)
			assert.Equal(t, tt.wantCode, code, stderr)
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, stdout)
			}
			if tt.wantErr != "" {
				assert.Contains(t, stderr, tt.wantErr)
			}
		})
	}
}

func TestChangelogCheck(t *testing.T) {
	tests := map[string]struct {
		content  string
		wantCode int
		wantOut  []string
	}{
		"clean": {
			content:  sampleReleaseNotes,
			wantCode: ExitSuccess,
			wantOut:  []string{"RELEASES.md has no issues"},
		},
		"duplicate label": {
			content:  "## v1.0.0 (2024-06-01)\n\n### Added\n- A\n\n## 1.0.0 (2024-06-02)\n\n### Added\n- B\n",
			wantCode: ExitFailure,
			wantOut:  []string{"duplicate version label", "✗ RELEASES.md has errors"},
		},
		"bad date": {
			content:  "## v1.0.0 (June 1st)\n\n### Added\n- A\n",
			wantCode: ExitFailure,
			wantOut:  []string{"invalid date", "has errors"},
		},
		"warnings only": {
			content:  "## v1.0.0 (2024-06-01)\n\n### Fixed\n- A\n",
			wantCode: ExitSuccess,
			wantOut:  []string{"unknown category", "RELEASES.md has warnings only"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := setupProject(t)
			writeFile(t, filepath.Join(dir, "RELEASES.md"), tt.content)

			stdout, stderr, code := runCLI(t, "changelog", "check")
			assert.Equal(t, tt.wantCode, code, stderr)
			for _, want := range tt.wantOut {
				assert.Contains(t, stdout, want)
			}
			assert.Empty(t, stderr, "exit code alone reports lint errors")
		})
	}
}

func TestChangelogCheck_MissingFile(t *testing.T) {
	setupProject(t)

	_, stderr, code := runCLI(t, "changelog", "check", "--file", "NOPE.md")
	assert.Equal(t, ExitMissingDependencies, code)
	assert.Contains(t, stderr, "changelog file not found: NOPE.md")
}
