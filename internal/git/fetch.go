package git

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// FetchTimeout bounds Fetch when ctx carries no deadline.
const FetchTimeout = 60 * time.Second

// FetchResult lists remotes by outcome.
type FetchResult struct {
	Fetched []string
	Skipped []string
	Failed  map[string]error
}

// OK reports whether no remote failed.
func (f FetchResult) OK() bool {
	return len(f.Failed) == 0
}

// Fetch updates the remote tracking branches of every remote so revisions
// like origin/main resolve. SSH remotes are skipped without an agent.
// A cancelled context stops before the next remote.
func (r *Repo) Fetch(ctx context.Context) FetchResult {
	res := FetchResult{Failed: map[string]error{}}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
	}

	remotes, err := r.repo.Remotes()
	if err != nil {
		r.log.Debug().Err(err).Msg("listing remotes")
		return res
	}

	for _, remote := range remotes {
		if ctx.Err() != nil {
			break
		}
		name := remote.Config().Name
		urls := remote.Config().URLs
		if len(urls) == 0 || (isSSHURL(urls[0]) && !sshAgentAvailable()) {
			res.Skipped = append(res.Skipped, name)
			continue
		}

		err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
			RemoteName: name,
			Auth:       authFor(urls[0]),
			Prune:      true,
			RefSpecs:   []config.RefSpec{config.RefSpec("+refs/heads/*:refs/remotes/" + name + "/*")},
		})
		switch {
		case err == nil, errors.Is(err, gogit.NoErrAlreadyUpToDate):
			res.Fetched = append(res.Fetched, name)
		case ctx.Err() != nil:
			res.Skipped = append(res.Skipped, name)
		default:
			r.log.Debug().Err(err).Str("remote", name).Msg("fetch failed")
			res.Failed[name] = err
		}
	}
	return res
}

// authFor picks credentials for url: the SSH agent for SSH remotes, else
// GIT_USERNAME/GIT_PASSWORD, else GITHUB_TOKEN.
func authFor(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			return nil
		}
		return auth
	}

	user, pass := os.Getenv("GIT_USERNAME"), os.Getenv("GIT_PASSWORD")
	if user == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			// GitHub accepts a token as the password for any non-empty user.
			user, pass = "x-access-token", token
		}
	}
	if user == "" {
		return nil
	}
	return &http.BasicAuth{Username: user, Password: pass}
}

func isSSHURL(url string) bool {
	for _, prefix := range []string{"git@", "ssh://", "git+ssh://"} {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func sshAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
