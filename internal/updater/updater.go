// Package updater binds one document to one file: it loads the file once,
// applies feature and changelog merges in memory, previews the result as a
// unified diff against the loaded text and writes it back on Save.
package updater

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/docpatch/internal/changelog"
	"github.com/ariel-frischer/docpatch/internal/changeset"
	"github.com/ariel-frischer/docpatch/internal/diff"
	"github.com/ariel-frischer/docpatch/internal/document"
	"github.com/ariel-frischer/docpatch/internal/features"
)

// Updater owns the document stored at a fixed path. It is not safe for
// concurrent use.
type Updater struct {
	path     string
	original string
	exists   bool
	doc      *document.Document

	clock   func() time.Time
	anchors []string
	log     zerolog.Logger

	features  *features.Merger
	changelog *changelog.Merger
}

// Option configures an Updater.
type Option func(*Updater)

// WithLogger sets the logger passed down to the mergers.
func WithLogger(log zerolog.Logger) Option {
	return func(u *Updater) {
		u.log = log
	}
}

// WithClock sets the source of the changelog date stamp.
func WithClock(clock func() time.Time) Option {
	return func(u *Updater) {
		if clock != nil {
			u.clock = clock
		}
	}
}

// WithAnchorTitles sets the titles new changelog blocks are placed under.
func WithAnchorTitles(titles ...string) Option {
	return func(u *Updater) {
		u.anchors = titles
	}
}

// New loads the document at path. A missing file is an empty document.
func New(path string, opts ...Option) (*Updater, error) {
	u := &Updater{
		path:  path,
		clock: time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		u.exists = true
	case errors.Is(err, fs.ErrNotExist):
		u.log.Debug().Str("path", path).Msg("document not found, starting empty")
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	u.original = string(data)
	u.doc = document.Parse(u.original)
	u.log = u.log.With().Str("path", path).Logger()

	u.features = features.NewMerger(u.doc, features.WithLogger(u.log))
	u.changelog = changelog.NewMerger(u.doc,
		changelog.WithAnchorTitles(u.anchors...),
		changelog.WithLogger(u.log),
	)
	return u, nil
}

// Path returns the file the updater reads from and writes to.
func (u *Updater) Path() string {
	return u.path
}

// Exists reports whether the file existed when the updater was created.
func (u *Updater) Exists() bool {
	return u.exists
}

// Document exposes the parsed document for read-only inspection.
func (u *Updater) Document() *document.Document {
	return u.doc
}

// Original returns the text loaded at construction.
func (u *Updater) Original() string {
	return u.original
}

// Content returns the current document text.
func (u *Updater) Content() string {
	return u.doc.Render()
}

// Modified reports whether the current text differs from the loaded text.
func (u *Updater) Modified() bool {
	return u.Content() != u.original
}

// AddFeatures appends new feature bullets.
func (u *Updater) AddFeatures(items []string) bool {
	return u.features.AddFeatures(items)
}

// UpdateFeatures records modified features.
func (u *Updater) UpdateFeatures(items []string) bool {
	return u.features.UpdateFeatures(items)
}

// RemoveFeatures deletes matching bullets across the whole document.
func (u *Updater) RemoveFeatures(items []string) bool {
	return u.features.RemoveFeatures(items)
}

// UpdateConfiguration appends configuration notes.
func (u *Updater) UpdateConfiguration(items []string) bool {
	return u.features.UpdateConfiguration(items)
}

// AddStructuredEntries adds feature sub-sections.
func (u *Updater) AddStructuredEntries(entries []changeset.DocumentationEntry) bool {
	return u.features.AddStructuredEntries(entries)
}

// ApplyFeatures applies every feature-level part of cs.
func (u *Updater) ApplyFeatures(cs *changeset.ChangeSet) bool {
	return u.features.Apply(cs)
}

// MergeChangelog merges cs into the block for label, stamping new blocks
// with the updater's clock.
func (u *Updater) MergeChangelog(cs *changeset.ChangeSet, label string) bool {
	return u.changelog.Merge(cs, label, u.clock())
}

// Diff returns the unified diff from the loaded text to the current text.
// Empty file names default to the updater's path.
func (u *Updater) Diff(opts diff.Options) (string, error) {
	if opts.FromFile == "" {
		opts.FromFile = u.path
	}
	if opts.ToFile == "" {
		opts.ToFile = u.path
	}
	return diff.Unified(u.original, u.Content(), opts)
}

// Save overwrites the file with the current text. The write is not atomic.
func (u *Updater) Save() error {
	content := u.Content()
	if err := os.WriteFile(u.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", u.path, err)
	}
	u.exists = true
	u.log.Debug().Int("bytes", len(content)).Msg("document saved")
	return nil
}
