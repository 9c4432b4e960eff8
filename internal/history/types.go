// Package history records docpatch runs in a YAML file under the state
// directory so past updates can be listed and audited.
package history

import "time"

// FileName is the name of the history file inside the state directory.
const FileName = "history.yaml"

// HistoryEntry is one recorded run against one target document.
type HistoryEntry struct {
	ID        string    `yaml:"id"`
	RunID     string    `yaml:"run_id,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
	Command   string    `yaml:"command"`
	Target    string    `yaml:"target,omitempty"`
	Version   string    `yaml:"version,omitempty"`
	Modified  bool      `yaml:"modified"`
	ExitCode  int       `yaml:"exit_code"`
	Duration  string    `yaml:"duration"`
}

// HistoryFile is the on-disk layout of the history file.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}
