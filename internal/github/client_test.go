package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), "tok", WithBaseURL(srv.URL), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c, srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingToken)

	c, err := NewClient(context.Background(), "tok", WithBaseURL("https://ghe.example.com/api/v3"))
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", c.gh.BaseURL.String())
}

func TestParseRepo(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in        string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		"valid":         {in: "acme/widgets", wantOwner: "acme", wantName: "widgets"},
		"trimmed":       {in: " acme/widgets ", wantOwner: "acme", wantName: "widgets"},
		"missing slash": {in: "acme", wantErr: true},
		"empty owner":   {in: "/widgets", wantErr: true},
		"empty name":    {in: "acme/", wantErr: true},
		"too deep":      {in: "acme/widgets/extra", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			owner, repo, err := ParseRepo(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRepo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, repo)
		})
	}
}

func TestGetPullRequest(t *testing.T) {
	t.Parallel()

	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{
			"number":   7,
			"title":    "Add search",
			"body":     "Adds a search endpoint",
			"state":    "open",
			"html_url": "https://github.com/acme/widgets/pull/7",
			"head":     map[string]any{"ref": "feature/search"},
			"base":     map[string]any{"ref": "main"},
		})
	})
	mux.HandleFunc("GET /repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []map[string]any{
				{"filename": "README.md", "status": "modified", "additions": 1, "deletions": 0, "patch": "+x"},
			})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/widgets/pulls/7/files?page=2>; rel="next"`, srvURL))
		writeJSON(t, w, []map[string]any{
			{"filename": "search.go", "status": "added", "additions": 40, "deletions": 0, "patch": "+package search"},
			{"filename": "logo.png", "status": "added"},
		})
	})

	c, srv := newTestClient(t, mux)
	srvURL = srv.URL

	pr, err := c.GetPullRequest(context.Background(), "acme", "widgets", 7)
	require.NoError(t, err)

	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "Add search", pr.Title)
	assert.Equal(t, "Adds a search endpoint", pr.Body)
	assert.Equal(t, "open", pr.State)
	assert.Equal(t, "feature/search", pr.HeadRef)
	assert.Equal(t, "main", pr.BaseRef)
	assert.Equal(t, "https://github.com/acme/widgets/pull/7", pr.URL)
	assert.Equal(t, []string{"search.go", "logo.png", "README.md"}, Filenames(pr.Files))
	assert.Equal(t, File{Filename: "search.go", Status: "added", Additions: 40, Patch: "+package search"}, pr.Files[0])

	assert.Equal(t, "--- search.go ---\n+package search\n--- README.md ---\n+x\n", CombinedPatch(pr.Files))
}

func TestGetPullRequestNotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	notFound := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}
	mux.HandleFunc("GET /repos/acme/widgets/pulls/9", notFound)
	mux.HandleFunc("GET /repos/acme/widgets/pulls/9/files", notFound)

	c, _ := newTestClient(t, mux)

	_, err := c.GetPullRequest(context.Background(), "acme", "widgets", 9)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestPostComment(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "summary", in["body"])
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{"id": 1, "body": in["body"], "html_url": "https://github.com/acme/widgets/pull/7#issuecomment-1"})
	})

	c, _ := newTestClient(t, mux)

	u, err := c.PostComment(context.Background(), "acme", "widgets", 7, "summary")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets/pull/7#issuecomment-1", u)
}

func TestUpsertComment(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing   []map[string]any
		wantEdited bool
	}{
		"edits marked comment": {
			existing: []map[string]any{
				{"id": 3, "body": "looks good"},
				{"id": 5, "body": "## Docs\nold summary"},
			},
			wantEdited: true,
		},
		"posts when absent": {
			existing: []map[string]any{{"id": 3, "body": "looks good"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var created, edited atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("GET /repos/acme/widgets/issues/7/comments", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.existing)
			})
			mux.HandleFunc("POST /repos/acme/widgets/issues/7/comments", func(w http.ResponseWriter, _ *http.Request) {
				created.Add(1)
				w.WriteHeader(http.StatusCreated)
				writeJSON(t, w, map[string]any{"id": 9, "html_url": "new"})
			})
			mux.HandleFunc("PATCH /repos/acme/widgets/issues/comments/5", func(w http.ResponseWriter, r *http.Request) {
				edited.Add(1)
				var in map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, "## Docs\nnew summary", in["body"])
				writeJSON(t, w, map[string]any{"id": 5, "html_url": "edited"})
			})

			c, _ := newTestClient(t, mux)

			u, err := c.UpsertComment(context.Background(), "acme", "widgets", 7, "## Docs", "## Docs\nnew summary")
			require.NoError(t, err)
			if tt.wantEdited {
				assert.Equal(t, "edited", u)
				assert.Equal(t, int32(1), edited.Load())
				assert.Zero(t, created.Load())
			} else {
				assert.Equal(t, "new", u)
				assert.Equal(t, int32(1), created.Load())
				assert.Zero(t, edited.Load())
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		notFound     bool
		unauthorized bool
		forbidden    bool
	}{
		"404":   {err: &APIError{StatusCode: 404}, notFound: true},
		"401":   {err: fmt.Errorf("wrapped: %w", &APIError{StatusCode: 401}), unauthorized: true},
		"403":   {err: &APIError{StatusCode: 403}, forbidden: true},
		"other": {err: assert.AnError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.unauthorized, IsUnauthorized(tt.err))
			assert.Equal(t, tt.forbidden, IsForbidden(tt.err))
		})
	}
}
