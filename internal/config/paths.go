package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectDir holds project-level settings, relative to the working directory.
	ProjectDir = ".docpatch"

	appName        = "docpatch"
	configYAMLFile = "config.yml"
	configJSONFile = "config.json"
)

// UserConfigPath is config.yml inside the docpatch directory of
// os.UserConfigDir, which honors XDG_CONFIG_HOME on Linux.
func UserConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName, configYAMLFile), nil
}

// ProjectConfigPath is the YAML project config file.
func ProjectConfigPath() string {
	return filepath.Join(ProjectDir, configYAMLFile)
}

// projectConfigCandidates lists the project files in lookup order.
func projectConfigCandidates() []string {
	return []string{ProjectConfigPath(), filepath.Join(ProjectDir, configJSONFile)}
}
