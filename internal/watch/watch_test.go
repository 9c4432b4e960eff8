package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Events(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing  bool
		touch     func(t *testing.T, dir, target string)
		wantEvent bool
	}{
		"rewrite of the watched file": {
			existing: true,
			touch: func(t *testing.T, _, target string) {
				require.NoError(t, os.WriteFile(target, []byte(`{"new_features":["a"]}`), 0o644))
			},
			wantEvent: true,
		},
		"file created after start": {
			touch: func(t *testing.T, _, target string) {
				require.NoError(t, os.WriteFile(target, []byte("new_features: [a]\n"), 0o644))
			},
			wantEvent: true,
		},
		"rename onto the watched file": {
			touch: func(t *testing.T, dir, target string) {
				tmp := filepath.Join(dir, ".changeset.tmp")
				require.NoError(t, os.WriteFile(tmp, []byte("{}"), 0o644))
				require.NoError(t, os.Rename(tmp, target))
			},
			wantEvent: true,
		},
		"sibling file": {
			existing: true,
			touch: func(t *testing.T, dir, _ string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			target := filepath.Join(dir, "changeset.json")
			if tt.existing {
				require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))
			}

			w, err := New(target, 20*time.Millisecond)
			require.NoError(t, err)
			defer w.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			fired := make(chan struct{}, 10)
			done := make(chan error, 1)
			go func() { done <- w.Run(ctx, func() { fired <- struct{}{} }) }()

			tt.touch(t, dir, target)

			timeout := 5 * time.Second
			if !tt.wantEvent {
				timeout = 200 * time.Millisecond
			}
			select {
			case <-fired:
				assert.True(t, tt.wantEvent, "unexpected change reported")
			case <-time.After(timeout):
				assert.False(t, tt.wantEvent, "no change reported")
			}

			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("Run did not return after cancel")
			}
		})
	}
}

func TestWatcher_Close(t *testing.T) {
	t.Parallel()

	w, err := New(filepath.Join(t.TempDir(), "c.json"), 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, filepath.IsAbs(w.Path()))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second close is a no-op")
	assert.ErrorIs(t, w.Run(context.Background(), func() {}), ErrClosed)
}

func TestNew_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing", "c.json"), 0)
	assert.Error(t, err)
}
