package git

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: subtests set SSH_AUTH_SOCK.
func TestFetch(t *testing.T) {
	tests := map[string]struct {
		remote      string
		cancel      bool
		wantOK      bool
		wantSkipped []string
		wantFailed  string
	}{
		"no remotes": {
			wantOK: true,
		},
		"ssh remote without agent": {
			remote:      "git@github.com:acme/widgets.git",
			wantOK:      true,
			wantSkipped: []string{"origin"},
		},
		"unreachable remote": {
			remote:     "/nonexistent/widgets.git",
			wantFailed: "origin",
		},
		"cancelled context": {
			remote: "/nonexistent/widgets.git",
			cancel: true,
			wantOK: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SSH_AUTH_SOCK", "")

			r := openTest(t, testRepo(t, map[string]string{"a.txt": "a\n"}))
			if tt.remote != "" {
				_, err := r.repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{tt.remote}})
				require.NoError(t, err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			if tt.cancel {
				cancel()
			}
			defer cancel()

			res := r.Fetch(ctx)
			assert.Equal(t, tt.wantOK, res.OK())
			assert.Equal(t, tt.wantSkipped, res.Skipped)
			assert.Empty(t, res.Fetched)
			if tt.wantFailed != "" {
				assert.Contains(t, res.Failed, tt.wantFailed)
			}
		})
	}
}

func TestAuthFor(t *testing.T) {
	t.Setenv("GIT_USERNAME", "")
	t.Setenv("GIT_PASSWORD", "")
	t.Setenv("GITHUB_TOKEN", "tok")

	auth := authFor("https://github.com/a/b.git")
	require.NotNil(t, auth)
	assert.Equal(t, "http-basic-auth", auth.Name())

	t.Setenv("GIT_USERNAME", "me")
	t.Setenv("GIT_PASSWORD", "secret")
	basic, ok := authFor("https://example.com/r.git").(*http.BasicAuth)
	require.True(t, ok)
	assert.Equal(t, "me", basic.Username)
	assert.Equal(t, "secret", basic.Password)

	t.Setenv("GIT_USERNAME", "")
	t.Setenv("GITHUB_TOKEN", "")
	assert.Nil(t, authFor("https://github.com/a/b.git"))
}

func TestIsSSHURL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url  string
		want bool
	}{
		"scp style":  {url: "git@github.com:user/repo.git", want: true},
		"ssh scheme": {url: "ssh://git@github.com/user/repo.git", want: true},
		"git+ssh":    {url: "git+ssh://git@github.com/user/repo.git", want: true},
		"https":      {url: "https://github.com/user/repo.git"},
		"file":       {url: "file:///path/to/repo.git"},
		"empty":      {url: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isSSHURL(tt.url))
		})
	}
}
