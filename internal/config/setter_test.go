package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseKeyPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path    string
		want    []string
		wantErr bool
	}{
		"top level":     {path: "min_significance", want: []string{"min_significance"}},
		"nested":        {path: "github.api_url", want: []string{"github", "api_url"}},
		"empty":         {path: "", wantErr: true},
		"blank":         {path: "   ", wantErr: true},
		"empty segment": {path: "github..repo", wantErr: true},
		"trailing dot":  {path: "changelog.", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKeyPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKeyPath("")
	assert.ErrorIs(t, err, ErrEmptyKeyPath)
}

func TestSetNestedValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initial string
		keyPath []string
		value   interface{}
		want    string
		wantErr string
	}{
		"empty document": {
			keyPath: []string{"readme_path"},
			value:   "docs/README.md",
			want:    "readme_path: docs/README.md\n",
		},
		"creates parent mapping": {
			keyPath: []string{"github", "pr_number"},
			value:   12,
			want:    "github:\n    pr_number: 12\n",
		},
		"replaces scalar in place": {
			initial: "min_significance: low\nlog_level: warn\n",
			keyPath: []string{"min_significance"},
			value:   "high",
			want:    "min_significance: high\nlog_level: warn\n",
		},
		"appends to existing mapping": {
			initial: "github:\n    repo: acme/widgets\n",
			keyPath: []string{"github", "timeout"},
			value:   "1m",
			want:    "github:\n    repo: acme/widgets\n    timeout: 1m\n",
		},
		"sequence value": {
			keyPath: []string{"changelog", "anchor_titles"},
			value:   []string{"Release Notes", "Changelog"},
			want:    "changelog:\n    anchor_titles:\n        - Release Notes\n        - Changelog\n",
		},
		"replaces sequence with scalar": {
			initial: "changelog:\n    anchor_titles:\n        - Old\n",
			keyPath: []string{"changelog", "anchor_titles"},
			value:   "History",
			want:    "changelog:\n    anchor_titles: History\n",
		},
		"scalar parent": {
			initial: "github: none\n",
			keyPath: []string{"github", "repo"},
			value:   "acme/widgets",
			wantErr: "github is not a mapping",
		},
		"sequence root": {
			initial: "- a\n- b\n",
			keyPath: []string{"readme_path"},
			value:   "README.md",
			wantErr: "not a mapping",
		},
		"empty path": {
			keyPath: nil,
			value:   "x",
			wantErr: ErrEmptyKeyPath.Error(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var root yaml.Node
			if tt.initial != "" {
				require.NoError(t, yaml.Unmarshal([]byte(tt.initial), &root))
			}

			err := SetNestedValue(&root, tt.keyPath, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			out, err := yaml.Marshal(&root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestGetNestedValue(t *testing.T) {
	t.Parallel()

	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("github:\n  repo: acme/widgets\n  pr_number: 7\nlog_level: warn\n"), &root))

	tests := map[string]struct {
		keyPath []string
		want    string
		wantNil bool
	}{
		"top level":        {keyPath: []string{"log_level"}, want: "warn"},
		"nested":           {keyPath: []string{"github", "pr_number"}, want: "7"},
		"missing":          {keyPath: []string{"state_dir"}, wantNil: true},
		"missing nested":   {keyPath: []string{"github", "token"}, wantNil: true},
		"through a scalar": {keyPath: []string{"log_level", "x"}, wantNil: true},
		"empty path":       {keyPath: nil, wantNil: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := GetNestedValue(&root, tt.keyPath)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Value)
		})
	}

	assert.Nil(t, GetNestedValue(nil, []string{"log_level"}))
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initial  string
		key      string
		value    string
		wantYAML []string
		wantErr  string
	}{
		"enum": {
			key:      "min_significance",
			value:    "high",
			wantYAML: []string{"min_significance: high"},
		},
		"int overwrites": {
			initial:  "diff_context: 3\n",
			key:      "diff_context",
			value:    "0",
			wantYAML: []string{"diff_context: 0"},
		},
		"nested int": {
			key:      "github.pr_number",
			value:    "42",
			wantYAML: []string{"github:", "pr_number: 42"},
		},
		"duration": {
			key:      "github.timeout",
			value:    "45s",
			wantYAML: []string{"timeout: 45s"},
		},
		"keeps other keys": {
			initial:  "readme_path: docs/README.md\n",
			key:      "version_label",
			value:    "Next",
			wantYAML: []string{"readme_path: docs/README.md", "version_label: Next"},
		},
		"unknown key": {
			key:     "notifications.enabled",
			value:   "true",
			wantErr: "unknown configuration key: notifications.enabled",
		},
		"bad enum": {
			key:     "log_level",
			value:   "loud",
			wantErr: "invalid value",
		},
		"bad int": {
			key:     "max_history_entries",
			value:   "lots",
			wantErr: "invalid integer",
		},
		"broken file": {
			initial: "github: [unclosed\n",
			key:     "log_level",
			value:   "info",
			wantErr: "config.yml",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yml")
			if tt.initial != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.initial), 0o644))
			}

			err := SetConfigValue(path, tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				if tt.initial != "" {
					data, readErr := os.ReadFile(path)
					require.NoError(t, readErr)
					assert.Equal(t, tt.initial, string(data), "file is untouched on error")
				}
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.wantYAML {
				assert.Contains(t, string(data), want)
			}
		})
	}
}

func TestSetConfigValue_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".docpatch", "config.yml")
	require.NoError(t, SetConfigValue(path, "changelog_path", "CHANGELOG.md"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "changelog_path: CHANGELOG.md\n", string(data))
}

func TestSetConfigValue_TemplateStillLoads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(GetDefaultConfigTemplate()), 0o644))

	require.NoError(t, SetConfigValue(path, "min_significance", "low"))
	require.NoError(t, SetConfigValue(path, "github.repo", "acme/widgets"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#", "comments survive the rewrite")
	assert.Contains(t, string(data), "repo: acme/widgets")

	cfg, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: path,
		UserConfigPath:    filepath.Join(t.TempDir(), "none.yml"),
		SkipEnvFile:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "low", cfg.MinSignificance)
	assert.Equal(t, "README.md", cfg.ReadmePath)
}
