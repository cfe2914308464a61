package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/session"
)

const testToken = "tok-cli"

type backend struct {
	mu        sync.Mutex
	searches  []string
	created   []domain.CreateBookmark
	loggedOut bool
}

func reply(w http.ResponseWriter, status int, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "data": data, "error": errMsg})
}

var ada = map[string]any{"id": 7, "username": "ada", "email": "ada@example.com", "full_name": "Ada Lovelace"}

// startBackend serves the subset of the bookmark API the CLI tests touch.
func startBackend(t *testing.T) (*backend, string) {
	t.Helper()
	b := &backend{}
	authed := func(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer "+testToken }

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var in domain.LoginInput
			_ = json.NewDecoder(req.Body).Decode(&in)
			if in.Password != "correct horse" {
				reply(w, http.StatusUnauthorized, nil, "Invalid credentials")
				return
			}
			reply(w, http.StatusOK, map[string]any{
				"user":   ada,
				"tokens": map[string]any{"accessToken": testToken},
			}, "")
		})
		r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
			if !authed(req) {
				reply(w, http.StatusUnauthorized, nil, "Invalid token")
				return
			}
			reply(w, http.StatusOK, ada, "")
		})
		r.Post("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			b.mu.Lock()
			b.loggedOut = true
			b.mu.Unlock()
			reply(w, http.StatusOK, nil, "")
		})
		r.Get("/bookmarks", func(w http.ResponseWriter, req *http.Request) {
			if !authed(req) {
				reply(w, http.StatusUnauthorized, nil, "Access token required")
				return
			}
			reply(w, http.StatusOK, []map[string]any{
				{"id": 1, "title": "Go", "url": "https://www.go.dev/doc", "folder": "Dev", "is_public": true,
					"tags": []map[string]any{{"id": 1, "name": "golang"}}},
			}, "")
		})
		r.Post("/bookmarks", func(w http.ResponseWriter, req *http.Request) {
			var in domain.CreateBookmark
			_ = json.NewDecoder(req.Body).Decode(&in)
			b.mu.Lock()
			b.created = append(b.created, in)
			b.mu.Unlock()
			reply(w, http.StatusCreated, map[string]any{"id": 2, "url": in.URL, "folder": domain.DefaultFolder}, "")
		})
		r.Get("/public/bookmarks", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query().Get("search")
			b.mu.Lock()
			b.searches = append(b.searches, q)
			b.mu.Unlock()
			reply(w, http.StatusOK, []map[string]any{
				{"id": 3, "title": "result for " + q, "url": "https://example.com", "user": ada},
			}, "")
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv.URL + "/api"
}

type harness struct {
	t         *testing.T
	apiURL    string
	stateFile string
}

func newHarness(t *testing.T) (*harness, *backend) {
	t.Helper()
	t.Setenv("MARKS_PRETTY_LOG", "false")
	t.Setenv("MARKS_STATE_BACKEND", "file")
	b, url := startBackend(t)
	return &harness{t: t, apiURL: url, stateFile: filepath.Join(t.TempDir(), "state.json")}, b
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--api-url=" + h.apiURL,
		"--state-file=" + h.stateFile,
		"--log-level=error",
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	if _, err := h.run("", "login", "--email", "ada@example.com", "--password", "correct horse"); err != nil {
		h.t.Fatalf("login: %v", err)
	}
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	h, _ := newHarness(t)

	out, err := h.run("ada@example.com\ncorrect horse\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Ada Lovelace") {
		t.Errorf("login output = %q", out)
	}

	raw, err := os.ReadFile(h.stateFile)
	if err != nil {
		t.Fatalf("state file: %v", err)
	}
	if !strings.Contains(string(raw), testToken) {
		t.Errorf("state file does not hold the token: %s", raw)
	}

	out, err = h.run("", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "ada@example.com") {
		t.Errorf("whoami output = %q", out)
	}
}

func TestLoginRejected(t *testing.T) {
	h, _ := newHarness(t)

	_, err := h.run("", "login", "--email", "ada@example.com", "--password", "nope")
	var ae *domain.AuthError
	if !errors.As(err, &ae) || ae.Message != "Invalid credentials" {
		t.Fatalf("err = %v, want the backend message", err)
	}
}

func TestBookmarksNeedSession(t *testing.T) {
	h, _ := newHarness(t)

	_, err := h.run("", "bookmarks", "list")
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestBookmarksListAndAdd(t *testing.T) {
	h, b := newHarness(t)
	h.login()

	out, err := h.run("", "bookmarks", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"go.dev", "Dev", "golang", "public"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output misses %q:\n%s", want, out)
		}
	}

	if _, err := h.run("", "bookmarks", "add", "not a url"); err == nil {
		t.Fatal("invalid URL accepted")
	}

	out, err = h.run("", "bookmarks", "add", "https://pkg.go.dev", "--tag", " go ,go", "--folder", "Dev")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added bookmark 2") {
		t.Errorf("add output = %q", out)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.created) != 1 {
		t.Fatalf("backend saw %d creates, want 1", len(b.created))
	}
	got := b.created[0]
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Errorf("tags = %q, want [go]", got.Tags)
	}
	if got.Folder == nil || *got.Folder != "Dev" || got.Title != nil {
		t.Errorf("create body = %+v", got)
	}
}

func TestLogoutClearsState(t *testing.T) {
	h, b := newHarness(t)
	h.login()

	if _, err := h.run("", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	b.mu.Lock()
	revoked := b.loggedOut
	b.mu.Unlock()
	if !revoked {
		t.Error("backend logout not called")
	}

	out, err := h.run("", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("whoami after logout = %q", out)
	}
}

func TestTheme(t *testing.T) {
	h, _ := newHarness(t)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"theme"}, "light"},
		{[]string{"theme", "dark"}, "Theme set to dark"},
		{[]string{"theme"}, "dark"},
		{[]string{"theme", "toggle"}, "Theme set to light"},
	}
	for _, s := range steps {
		out, err := h.run("", s.args...)
		if err != nil {
			t.Fatalf("%v: %v", s.args, err)
		}
		if !strings.Contains(out, s.want) {
			t.Errorf("%v output = %q, want %q", s.args, out, s.want)
		}
	}

	if _, err := h.run("", "theme", "purple"); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestSearchSendsOnlyLatestQuery(t *testing.T) {
	h, b := newHarness(t)

	out, err := h.run("g\ngo\ngol\n", "search", "--public")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "result for gol") {
		t.Errorf("search output = %q", out)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.searches) != 1 || b.searches[0] != "gol" {
		t.Errorf("backend searches = %q, want only %q", b.searches, "gol")
	}
}

func TestImportDryRun(t *testing.T) {
	h, b := newHarness(t)
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	yaml := `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go docs:
        - abbr: GO
          href: https://go.dev/doc
- Social:
    - Reddit:
        - href: {{HOMEPAGE_VAR_REDDIT_URL}}
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := h.run("", "import", "--dry-run", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Would import 2 bookmark(s), 0 failed, 1 skipped") {
		t.Errorf("import output = %q", out)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.created) != 0 {
		t.Errorf("dry run created %d bookmarks", len(b.created))
	}
}

func TestVersion(t *testing.T) {
	h, _ := newHarness(t)

	out, err := h.run("", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "marks ") {
		t.Errorf("version output = %q", out)
	}
}
