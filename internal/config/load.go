package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
// A double underscore separates nested keys: DOCPATCH_GITHUB__REPO -> github.repo.
const EnvPrefix = "DOCPATCH_"

// LoadOptions overrides where configuration is read from. Zero values
// select the standard locations.
type LoadOptions struct {
	ProjectConfigPath string // default .docpatch/config.yml, then .docpatch/config.json
	UserConfigPath    string // default <user config dir>/docpatch/config.yml
	EnvFile           string // default .env
	SkipEnvFile       bool
}

// layer is one config file source. The first existing candidate is read.
type layer struct {
	name       string
	candidates []string
}

func (o LoadOptions) layers() []layer {
	user := o.UserConfigPath
	if user == "" {
		user, _ = UserConfigPath()
	}
	project := []string{o.ProjectConfigPath}
	if o.ProjectConfigPath == "" {
		project = projectConfigCandidates()
	}
	return []layer{
		{name: "user", candidates: []string{user}},
		{name: "project", candidates: project},
	}
}

// Load reads configuration with projectConfigPath as the project file
// (empty for the default). Sources are merged lowest first: defaults, user
// file, project file, then DOCPATCH_* variables.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions is Load with every source location overridable.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	if !opts.SkipEnvFile {
		readDotenv(opts.EnvFile)
	}

	k := koanf.New(".")
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	for _, l := range opts.layers() {
		path, ok := firstExisting(l.candidates)
		if !ok {
			continue
		}
		if err := loadFile(k, path); err != nil {
			return nil, fmt.Errorf("loading %s config: %w", l.name, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.StateDir = expandHomePath(cfg.StateDir)
	return &cfg, nil
}

// normalize lowercases enums and fills GitHub settings from the variables
// GitHub Actions provides.
func (c *Configuration) normalize() {
	c.MinSignificance = strings.ToLower(strings.TrimSpace(c.MinSignificance))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.GitHub.Repo == "" {
		c.GitHub.Repo = os.Getenv("GITHUB_REPOSITORY")
	}
}

// loadFile merges path into k, choosing the parser by extension. YAML is
// syntax checked first so errors carry a line number.
func loadFile(k *koanf.Koanf, path string) error {
	if isJSON(path) {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// readDotenv sets variables from a dotenv file without overriding ones
// already present. A missing or malformed file is ignored.
func readDotenv(path string) {
	if path == "" {
		path = ".env"
	}
	if _, ok := firstExisting([]string{path}); ok {
		_ = godotenv.Load(path)
	}
}

func firstExisting(paths []string) (string, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// envTransform maps DOCPATCH_GITHUB__PR_NUMBER to github.pr_number.
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func expandHomePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
