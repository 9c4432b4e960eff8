package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueKind is the type a settable key's value is parsed as.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindDuration
	KindEnum
)

var kindNames = [...]string{
	KindString:   "string",
	KindInt:      "int",
	KindDuration: "duration",
	KindEnum:     "enum",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Key describes a key that `docpatch config set` accepts.
type Key struct {
	Path    string
	Kind    ValueKind
	Choices []string // enum values
	Help    string
	Default interface{}
}

// KnownKeys indexes the settable keys by dotted path. Secrets such as
// github.token and list values are left out on purpose.
var KnownKeys = indexKeys([]Key{
	{Path: "readme_path", Kind: KindString, Default: "README.md",
		Help: "README receiving feature and configuration bullets"},
	{Path: "documentation_path", Kind: KindString, Default: "DOCUMENTATION.md",
		Help: "Document receiving structured entries (empty = README)"},
	{Path: "changelog_path", Kind: KindString, Default: "RELEASES.md",
		Help: "Release notes file (empty = no changelog updates)"},
	{Path: "version_label", Kind: KindString, Default: "Unreleased",
		Help: "Changelog block label used when --version is not given"},
	{Path: "min_significance", Kind: KindEnum, Choices: []string{"low", "medium", "high"}, Default: "medium",
		Help: "Lowest significance that updates docs for modified-only change sets"},
	{Path: "diff_context", Kind: KindInt, Default: 3,
		Help: "Unchanged context lines around each diff hunk"},
	{Path: "diff_preview_lines", Kind: KindInt, Default: 100,
		Help: "Diff lines included in pull request comments"},
	{Path: "state_dir", Kind: KindString, Default: "~/.docpatch/state",
		Help: "Directory holding run history"},
	{Path: "max_history_entries", Kind: KindInt, Default: 200,
		Help: "Maximum run history entries to retain"},
	{Path: "log_level", Kind: KindEnum, Choices: []string{"trace", "debug", "info", "warn", "error", "disabled"}, Default: "warn",
		Help: "Minimum level of diagnostic log output"},
	{Path: "github.repo", Kind: KindString, Default: "",
		Help: "Repository as owner/name"},
	{Path: "github.pr_number", Kind: KindInt, Default: 0,
		Help: "Pull request number to read files from and comment on"},
	{Path: "github.timeout", Kind: KindDuration, Default: "30s",
		Help: "Request timeout for the GitHub API (e.g., 30s, 1m)"},
	{Path: "github.api_url", Kind: KindString, Default: "",
		Help: "API root for GitHub Enterprise servers (empty = github.com)"},
})

func indexKeys(keys []Key) map[string]Key {
	m := make(map[string]Key, len(keys))
	for _, k := range keys {
		m[k.Path] = k
	}
	return m
}

// ErrUnknownKey reports a path missing from KnownKeys.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// SortedKeys returns the known key paths in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TypeLabel is the kind as shown by `config keys`, with enum choices.
func (k Key) TypeLabel() string {
	if k.Kind == KindEnum {
		return "enum: " + strings.Join(k.Choices, "|")
	}
	return k.Kind.String()
}

// Parse converts raw into the Go value stored for k.
func (k Key) Parse(raw string) (interface{}, error) {
	switch k.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer: %q", raw)
		}
		return n, nil
	case KindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration: %q (examples: 30s, 1m, 1m30s)", raw)
		}
		return d.String(), nil
	case KindEnum:
		for _, c := range k.Choices {
			if raw == c {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("invalid value: %q (valid options: %s)", raw, strings.Join(k.Choices, ", "))
	default:
		return raw, nil
	}
}

// ParsedValue pairs user input with its parsed form.
type ParsedValue struct {
	Raw    string
	Parsed interface{}
}

// ValidateValue parses value for the known key path.
func ValidateValue(path, value string) (ParsedValue, error) {
	key, ok := KnownKeys[path]
	if !ok {
		return ParsedValue{}, ErrUnknownKey{Key: path}
	}
	parsed, err := key.Parse(value)
	if err != nil {
		return ParsedValue{}, err
	}
	return ParsedValue{Raw: value, Parsed: parsed}, nil
}
