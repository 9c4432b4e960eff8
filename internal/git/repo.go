// Package git reads local change information for docpatch: the files touched
// between two revisions and their patch text. It uses go-git so no git binary
// is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/rs/zerolog"
)

// Revisions compared when the user gives none.
const (
	DefaultBase = "HEAD~1"
	DefaultHead = "HEAD"
)

// ErrNotRepository is returned when no repository contains the given path.
var ErrNotRepository = errors.New("not a git repository")

// ChangeStatus describes what happened to a file between two revisions.
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "added"
	StatusModified ChangeStatus = "modified"
	StatusRemoved  ChangeStatus = "removed"
)

// FileChange is one file touched between two revisions.
type FileChange struct {
	Path      string
	Status    ChangeStatus
	Additions int
	Deletions int
	Patch     string // unified diff of this file
}

// ChangeList is the result of comparing two revisions.
type ChangeList []FileChange

// Paths returns the path of every change in order.
func (l ChangeList) Paths() []string {
	paths := make([]string, len(l))
	for i, f := range l {
		paths[i] = f.Path
	}
	return paths
}

// Patch concatenates the per-file patches.
func (l ChangeList) Patch() string {
	var sb strings.Builder
	for _, f := range l {
		sb.WriteString(f.Patch)
	}
	return sb.String()
}

// Repo is an opened repository.
type Repo struct {
	repo *gogit.Repository
	root string
	log  zerolog.Logger
}

// Open finds the repository containing path, searching parent directories.
// An empty path means the working directory.
func Open(path string, log zerolog.Logger) (*Repo, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		path = wd
	}

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	r := &Repo{repo: repo, log: log.With().Str("component", "git").Logger()}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	r.log.Debug().Str("path", path).Str("root", r.root).Msg("opened repository")
	return r, nil
}

// Root is the worktree directory, empty for bare repositories.
func (r *Repo) Root() string {
	return r.root
}

// Branch returns the checked out branch, or "" when HEAD is detached.
func (r *Repo) Branch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// CommitMessage returns the full message of the commit rev resolves to.
func (r *Repo) CommitMessage(rev string) (string, error) {
	c, err := r.commit(rev)
	if err != nil {
		return "", err
	}
	return c.Message, nil
}

// Changes lists the files that differ between base and head. An empty base
// compares against the empty tree so every file in head is added; an empty
// head means DefaultHead.
func (r *Repo) Changes(ctx context.Context, base, head string) (ChangeList, error) {
	if head == "" {
		head = DefaultHead
	}
	to, err := r.tree(head)
	if err != nil {
		return nil, err
	}
	from := &object.Tree{}
	if base != "" {
		if from, err = r.tree(base); err != nil {
			return nil, err
		}
	}

	diff, err := object.DiffTreeWithOptions(ctx, from, to, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", base, head, err)
	}

	list := make(ChangeList, 0, len(diff))
	for _, c := range diff {
		fc, err := fileChange(ctx, c)
		if err != nil {
			return nil, err
		}
		list = append(list, fc)
	}
	r.log.Debug().Str("base", base).Str("head", head).Int("files", len(list)).Msg("compared revisions")
	return list, nil
}

func (r *Repo) commit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return c, nil
}

func (r *Repo) tree(rev string) (*object.Tree, error) {
	c, err := r.commit(rev)
	if err != nil {
		return nil, err
	}
	t, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", rev, err)
	}
	return t, nil
}

func fileChange(ctx context.Context, c *object.Change) (FileChange, error) {
	action, err := c.Action()
	if err != nil {
		return FileChange{}, fmt.Errorf("classifying change: %w", err)
	}

	fc := FileChange{Path: c.To.Name, Status: StatusModified}
	switch action {
	case merkletrie.Insert:
		fc.Status = StatusAdded
	case merkletrie.Delete:
		fc.Status = StatusRemoved
		fc.Path = c.From.Name
	}

	patch, err := c.PatchContext(ctx)
	if err != nil {
		return FileChange{}, fmt.Errorf("building patch for %s: %w", fc.Path, err)
	}
	for _, s := range patch.Stats() {
		fc.Additions += s.Addition
		fc.Deletions += s.Deletion
	}
	fc.Patch = patch.String()
	return fc, nil
}
