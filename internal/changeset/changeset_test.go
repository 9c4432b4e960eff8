package changeset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignificance(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  Significance
	}{
		"empty is low":        {input: "", want: SignificanceLow},
		"low":                 {input: "low", want: SignificanceLow},
		"upper case high":     {input: "HIGH", want: SignificanceHigh},
		"padded medium":       {input: "  medium ", want: SignificanceMedium},
		"unknown is medium":   {input: "critical", want: SignificanceMedium},
		"whitespace is low":   {input: "   ", want: SignificanceLow},
		"mixed case low":      {input: "Low", want: SignificanceLow},
		"medium stays intact": {input: "medium", want: SignificanceMedium},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseSignificance(tt.input))
		})
	}
}

func TestSignificance_AtLeast(t *testing.T) {
	t.Parallel()

	assert.True(t, SignificanceHigh.AtLeast(SignificanceMedium))
	assert.True(t, SignificanceMedium.AtLeast(SignificanceMedium))
	assert.False(t, SignificanceLow.AtLeast(SignificanceMedium))
	assert.True(t, SignificanceLow.AtLeast(SignificanceLow))
	assert.False(t, Significance("bogus").IsValid())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cs := &ChangeSet{
		NewFeatures:          []string{"  Search  ", "", "   ", "multi\n  line\r\nitem"},
		RemovedFeatures:      []string{"\tOld\t"},
		ConfigurationUpdates: []string{"\n"},
		DocumentationEntries: []DocumentationEntry{
			{Name: " Export ", Description: " Writes\n## files. ", Input: " path "},
			{Name: "  ", Description: "nameless"},
		},
		Significance: "HIGH",
		Summary:      "  done \n",
	}
	cs.Normalize()

	assert.Equal(t, []string{"Search", "multi line item"}, cs.NewFeatures)
	assert.Equal(t, []string{"Old"}, cs.RemovedFeatures)
	assert.Empty(t, cs.ConfigurationUpdates)
	assert.Empty(t, cs.ModifiedFeatures)
	require.Len(t, cs.DocumentationEntries, 1)
	assert.Equal(t, DocumentationEntry{Name: "Export", Description: "Writes ## files.", Input: "path"}, cs.DocumentationEntries[0])
	assert.Equal(t, SignificanceHigh, cs.Significance)
	assert.Equal(t, "done", cs.Summary)

	// Idempotent.
	before := *cs
	cs.Normalize()
	assert.Equal(t, before.NewFeatures, cs.NewFeatures)
	assert.Equal(t, before.Significance, cs.Significance)
}

func TestOneLine(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":          {in: "  Search  ", want: "Search"},
		"newline":        {in: "B\n## Injected", want: "B ## Injected"},
		"crlf and blank": {in: "a\r\n\r\n  b  \n", want: "a b"},
		"only breaks":    {in: "\n\r\n", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, OneLine(tt.in))
		})
	}
}

func TestChangeSet_Predicates(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cs             ChangeSet
		wantEmpty      bool
		wantHasChanges bool
		wantUpdate     bool
	}{
		"zero value": {
			cs:        ChangeSet{},
			wantEmpty: true,
		},
		"new features": {
			cs:             ChangeSet{NewFeatures: []string{"a"}},
			wantHasChanges: true,
			wantUpdate:     true,
		},
		"only modified low": {
			cs:             ChangeSet{ModifiedFeatures: []string{"a"}, Significance: SignificanceLow},
			wantHasChanges: true,
		},
		"only modified high": {
			cs:             ChangeSet{ModifiedFeatures: []string{"a"}, Significance: SignificanceHigh},
			wantHasChanges: true,
			wantUpdate:     true,
		},
		"only entries": {
			cs:             ChangeSet{DocumentationEntries: []DocumentationEntry{{Name: "x"}}},
			wantEmpty:      true,
			wantHasChanges: true,
		},
		"medium with nothing listed": {
			cs:         ChangeSet{Significance: SignificanceMedium},
			wantEmpty:  true,
			wantUpdate: true,
		},
		"configuration only": {
			cs:             ChangeSet{ConfigurationUpdates: []string{"PORT"}},
			wantHasChanges: true,
			wantUpdate:     true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantEmpty, tt.cs.IsEmpty())
			assert.Equal(t, tt.wantHasChanges, tt.cs.HasChanges())
			assert.Equal(t, tt.wantUpdate, tt.cs.ShouldUpdate(SignificanceMedium))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data   string
		format Format
		want   ChangeSet
	}{
		"json": {
			data:   `{"new_features":["A"],"significance":"High","summary":"s"}`,
			format: FormatJSON,
			want: ChangeSet{
				NewFeatures:          []string{"A"},
				RemovedFeatures:      []string{},
				ModifiedFeatures:     []string{},
				ConfigurationUpdates: []string{},
				Significance:         SignificanceHigh,
				Summary:              "s",
			},
		},
		"yaml": {
			data:   "removed_features:\n  - Old\ndocumentation_entries:\n  - name: Export\n    description: Writes\n",
			format: FormatYAML,
			want: ChangeSet{
				NewFeatures:          []string{},
				RemovedFeatures:      []string{"Old"},
				ModifiedFeatures:     []string{},
				ConfigurationUpdates: []string{},
				DocumentationEntries: []DocumentationEntry{{Name: "Export", Description: "Writes"}},
				Significance:         SignificanceLow,
			},
		},
		"toml": {
			data:   "configuration_updates = [\"PORT\"]\nsignificance = \"medium\"\n",
			format: FormatTOML,
			want: ChangeSet{
				NewFeatures:          []string{},
				RemovedFeatures:      []string{},
				ModifiedFeatures:     []string{},
				ConfigurationUpdates: []string{"PORT"},
				Significance:         SignificanceMedium,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)
			got.DocumentationEntries = nilIfEmpty(got.DocumentationEntries)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	t.Parallel()

	cs, err := Decode([]byte("  \n"), FormatJSON)
	require.NoError(t, err)
	assert.True(t, cs.IsEmpty())
	assert.False(t, cs.HasChanges())
	assert.Equal(t, SignificanceLow, cs.Significance)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{not json"), FormatJSON)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, FormatJSON, pe.Format)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "changes.yml")
	require.NoError(t, os.WriteFile(path, []byte("new_features: [Search]\n"), 0o644))

	cs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Search"}, cs.NewFeatures)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("new_features = ["), 0o644))
	_, err = Load(bad)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, bad, pe.Source)
	assert.Equal(t, FormatTOML, pe.Format)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatYAML, FormatFromPath("a.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.yml"))
	assert.Equal(t, FormatTOML, FormatFromPath("a.toml"))
	assert.Equal(t, FormatResponse, FormatFromPath("response.txt"))
	assert.Equal(t, FormatResponse, FormatFromPath("notes.MD"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("-"))
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text    string
		wantNew []string
		wantSig Significance
		wantErr bool
	}{
		"fenced block": {
			text:    "Here you go:\n```json\n{\"new_features\": [\"A\"], \"significance\": \"HIGH\"}\n```\nThanks",
			wantNew: []string{"A"},
			wantSig: SignificanceHigh,
		},
		"fence without language": {
			text:    "```\n{\"new_features\": [\"B\"]}\n```",
			wantNew: []string{"B"},
			wantSig: SignificanceMedium,
		},
		"bare object": {
			text:    "result: {\"significance\": \"low\"} done",
			wantNew: []string{},
			wantSig: SignificanceLow,
		},
		"unknown significance": {
			text:    `{"significance": "urgent"}`,
			wantNew: []string{},
			wantSig: SignificanceMedium,
		},
		"no json": {
			text:    "I could not analyse this change.",
			wantErr: true,
		},
		"broken json": {
			text:    "{\"new_features\": [}",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cs, err := ParseResponse(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				var pe *ParseError
				assert.True(t, errors.As(err, &pe))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNew, cs.NewFeatures)
			assert.Equal(t, tt.wantSig, cs.Significance)
		})
	}
}

func TestParseResponse_NoJSONSentinel(t *testing.T) {
	t.Parallel()

	_, err := ParseResponse("nothing here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func nilIfEmpty(entries []DocumentationEntry) []DocumentationEntry {
	if len(entries) == 0 {
		return nil
	}
	return entries
}

func TestLoad_ClassifierResponse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		file    string
		content string
		wantNew []string
		wantSig Significance
		wantErr error
	}{
		"fenced block in a text file": {
			file:    "response.txt",
			content: "Here is the analysis:\n```json\n{\"new_features\": [\"Search\"], \"significance\": \"high\"}\n```\nDone.",
			wantNew: []string{"Search"},
			wantSig: SignificanceHigh,
		},
		"bare object in a markdown file": {
			file:    "response.md",
			content: "Result {\"new_features\": [\"Export\"]} end",
			wantNew: []string{"Export"},
			wantSig: SignificanceMedium,
		},
		"prose saved with a json extension": {
			file:    "changes.json",
			content: "Here is the analysis:\n```json\n{\"new_features\": [\"Search\"]}\n```\n",
			wantNew: []string{"Search"},
			wantSig: SignificanceMedium,
		},
		"text without an object": {
			file:    "response.txt",
			content: "No changes worth documenting.",
			wantErr: ErrNoJSON,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			cs, err := Load(path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, path, pe.Source)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNew, cs.NewFeatures)
			assert.Equal(t, tt.wantSig, cs.Significance)
		})
	}
}

func TestDecode_BrokenJSONObjectKeepsJSONError(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{\"new_features\": [\"A\"]"), FormatJSON)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJSON)
}
