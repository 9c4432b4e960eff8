package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder appends runs to the history file under a state directory and
// prunes it to a fixed number of entries. Failures are logged, never returned.
type Recorder struct {
	stateDir string
	keep     int
	log      zerolog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewRecorder returns a Recorder keeping at most keep entries; zero keeps all.
func NewRecorder(stateDir string, keep int, log zerolog.Logger) *Recorder {
	return &Recorder{stateDir: stateDir, keep: keep, log: log, now: time.Now}
}

// Run describes one command invocation touching one or more targets.
type Run struct {
	Command  string
	Version  string
	ExitCode int
	Elapsed  time.Duration
	// Targets maps each document path to whether it was modified.
	Targets []TargetResult
}

// TargetResult is the outcome of a run for one document.
type TargetResult struct {
	Path     string
	Modified bool
}

// Record stores one entry per target of run, all sharing a run ID and
// timestamp. A run without targets is stored as a single entry.
func (r *Recorder) Record(run Run) {
	runID := uuid.NewString()
	at := r.now()
	duration := run.Elapsed.Round(time.Millisecond).String()

	targets := run.Targets
	if len(targets) == 0 {
		targets = []TargetResult{{}}
	}
	entries := make([]HistoryEntry, 0, len(targets))
	for _, t := range targets {
		entries = append(entries, HistoryEntry{
			ID:        uuid.NewString(),
			RunID:     runID,
			Timestamp: at,
			Command:   run.Command,
			Target:    t.Path,
			Version:   run.Version,
			Modified:  t.Modified,
			ExitCode:  run.ExitCode,
			Duration:  duration,
		})
	}

	if err := r.append(entries); err != nil {
		r.log.Warn().Err(err).Str("state_dir", r.stateDir).Msg("failed to record history")
	}
}

func (r *Recorder) append(entries []HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := LoadHistory(r.stateDir)
	if err != nil {
		return err
	}
	h.Entries = append(h.Entries, entries...)
	if r.keep > 0 && len(h.Entries) > r.keep {
		h.Entries = h.Entries[len(h.Entries)-r.keep:]
	}
	if err := SaveHistory(r.stateDir, h); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
