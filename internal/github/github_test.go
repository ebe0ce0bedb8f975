package github

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v58/github"
)

func newTestClient(t *testing.T, opts Options, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL + "/"
	c, err := NewClient(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestListRepositoriesFirstPageOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("per_page"); got != "100" {
			t.Errorf("Expected per_page=100, got %q", got)
		}
		if got := q.Get("page"); got != "" {
			t.Errorf("Expected no page parameter, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"full_name":"a/x"},{"full_name":"b/y"}]`)
	})

	c := newTestClient(t, Options{RepoPageSize: 100}, mux)
	repos, err := c.ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("ListRepositories: %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("Expected 2 repositories, got %d", len(repos))
	}
	want := Repository{Owner: "a", Name: "x", FullName: "a/x"}
	if repos[0] != want {
		t.Errorf("repos[0] = %+v, want %+v", repos[0], want)
	}
}

func TestListRepositoriesByAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"full_name":"octocat/hello"}]`)
	})

	c := newTestClient(t, Options{Account: "octocat"}, mux)
	repos, err := c.ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("ListRepositories: %v", err)
	}
	if len(repos) != 1 || repos[0].FullName != "octocat/hello" {
		t.Errorf("Unexpected repositories %+v", repos)
	}
}

func TestListRepositoriesNonSequencePayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"unexpected shape"}`)
	})

	c := newTestClient(t, Options{}, mux)
	if _, err := c.ListRepositories(context.Background()); err == nil {
		t.Fatal("Expected error for non-sequence payload, got nil")
	}
}

func TestListRepositoriesHTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})

	c := newTestClient(t, Options{}, mux)
	if _, err := c.ListRepositories(context.Background()); err == nil {
		t.Fatal("Expected error for HTTP 500, got nil")
	}
}

func TestListRecentCommitsMapsEntries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/a/x/commits", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "25" {
			t.Errorf("Expected per_page=25, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"sha":"c1","commit":{"message":"fix","author":{"date":"2024-01-02T00:00:00Z"}}}]`)
	})

	c := newTestClient(t, Options{CommitPageSize: 25}, mux)
	commits, err := c.ListRecentCommits(context.Background(), Repository{Owner: "a", Name: "x", FullName: "a/x"})
	if err != nil {
		t.Fatalf("ListRecentCommits: %v", err)
	}

	if len(commits) != 1 {
		t.Fatalf("Expected 1 commit, got %d", len(commits))
	}
	got := commits[0]
	if got.SHA != "c1" {
		t.Errorf("Expected SHA=c1, got %q", got.SHA)
	}
	if got.Repo != "a/x" {
		t.Errorf("Expected Repo=a/x, got %q", got.Repo)
	}
	if got.Message != "fix" {
		t.Errorf("Expected Message=fix, got %q", got.Message)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Timestamp.Equal(want) {
		t.Errorf("Expected Timestamp=%s, got %s", want, got.Timestamp)
	}
}

func TestListRecentCommitsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/a/x/commits", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})

	c := newTestClient(t, Options{}, mux)
	if _, err := c.ListRecentCommits(context.Background(), Repository{Owner: "a", Name: "x", FullName: "a/x"}); err == nil {
		t.Fatal("Expected error for HTTP 404, got nil")
	}
}

func TestBearerTokenHeader(t *testing.T) {
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	c := newTestClient(t, Options{Token: "t0k3n"}, mux)
	if _, err := c.ListRepositories(context.Background()); err != nil {
		t.Fatalf("ListRepositories: %v", err)
	}
	if auth != "Bearer t0k3n" {
		t.Errorf("Expected Authorization=Bearer t0k3n, got %q", auth)
	}
}

func TestNormalizeRepository(t *testing.T) {
	cases := []struct {
		name string
		in   *gogithub.Repository
		want Repository
		ok   bool
	}{
		{
			name: "full name only",
			in:   &gogithub.Repository{FullName: gogithub.String("a/x")},
			want: Repository{Owner: "a", Name: "x", FullName: "a/x"},
			ok:   true,
		},
		{
			name: "owner and name only",
			in: &gogithub.Repository{
				Owner: &gogithub.User{Login: gogithub.String("a")},
				Name:  gogithub.String("x"),
			},
			want: Repository{Owner: "a", Name: "x", FullName: "a/x"},
			ok:   true,
		},
		{
			name: "nothing usable",
			in:   &gogithub.Repository{},
			ok:   false,
		},
		{
			name: "malformed full name",
			in:   &gogithub.Repository{FullName: gogithub.String("lonely")},
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := normalizeRepository(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
