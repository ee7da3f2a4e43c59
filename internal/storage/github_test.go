package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// fakeGitHub serves the slice of the REST API the adapters use.
type fakeGitHub struct {
	mu     sync.Mutex
	files  map[string][]byte // path -> content
	shas   map[string]string
	seq    int
	gists  map[string]map[string]string // gist id -> filename -> content
	failed bool                         // answer every request with 500
	auth   []string
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *httptest.Server) {
	t.Helper()
	f := &fakeGitHub{
		files: map[string][]byte{},
		shas:  map[string]string{},
		gists: map[string]map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))
	if f.failed {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		return
	}

	const contents = "/repos/o/r/contents/"
	switch {
	case r.URL.Path == "/repos/o/r" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": "r", "full_name": "o/r"})

	case strings.HasPrefix(r.URL.Path, contents) && r.Method == http.MethodGet:
		p := strings.TrimPrefix(r.URL.Path, contents)
		data, ok := f.files[p]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     p,
			"sha":      f.shas[p],
			"content":  base64.StdEncoding.EncodeToString(data),
		})

	case strings.HasPrefix(r.URL.Path, contents) && r.Method == http.MethodPut:
		p := strings.TrimPrefix(r.URL.Path, contents)
		var body struct {
			Message string `json:"message"`
			Content string `json:"content"`
			SHA     string `json:"sha"`
			Branch  string `json:"branch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		current, exists := f.shas[p]
		if exists && body.SHA == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": `"sha" wasn't supplied.`})
			return
		}
		if exists && body.SHA != current {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "sha does not match"})
			return
		}
		data, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		f.seq++
		f.files[p] = data
		f.shas[p] = fmt.Sprintf("sha-%d", f.seq)
		writeJSON(w, http.StatusOK, map[string]any{"content": map[string]any{"path": p, "sha": f.shas[p]}})

	case strings.HasPrefix(r.URL.Path, "/gists/"):
		id := strings.TrimPrefix(r.URL.Path, "/gists/")
		files, ok := f.gists[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		if r.Method == http.MethodPatch {
			var body struct {
				Files map[string]struct {
					Content string `json:"content"`
				} `json:"files"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
				return
			}
			for name, file := range body.Files {
				files[name] = file.Content
			}
		}
		out := map[string]any{}
		for name, content := range files {
			out[name] = map[string]any{"filename": name, "content": content}
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "files": out})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func testDoc() domain.DataSchema {
	doc := domain.DefaultData()
	doc.Categories = []domain.Category{{
		ID: "c1", Title: "Dev", UpdatedAt: 1,
		Links: []domain.LinkItem{{ID: "l1", Title: "Go", URL: "https://go.dev", Type: domain.LinkTypeLink}},
	}}
	doc.Todos = []domain.Todo{{ID: "t1", Text: "buy milk", CreatedAt: 1}}
	return doc
}

func newTestGitHub(t *testing.T, srv *httptest.Server) *GitHubAdapter {
	t.Helper()
	a, err := NewGitHubAdapter(domain.GitHubConfig{
		Token: "tok", Owner: "o", Repo: "r", Branch: "main", Path: "public/data.json", APIBaseURL: srv.URL,
	}, Options{Now: func() time.Time { return time.UnixMilli(1_700_000_000_000) }})
	if err != nil {
		t.Fatalf("NewGitHubAdapter() error = %v", err)
	}
	return a
}

func TestGitHubLoadMissingFile(t *testing.T) {
	_, srv := newFakeGitHub(t)
	a := newTestGitHub(t, srv)

	doc, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc != nil {
		t.Errorf("Load() = %+v, want nil for a missing file", doc)
	}
}

func TestGitHubSaveCreatesThenUpdates(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	a := newTestGitHub(t, srv)
	ctx := context.Background()

	if err := a.Save(ctx, testDoc()); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	updated := testDoc()
	updated.Settings.Title = "Second"
	if err := a.Save(ctx, updated); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || !domain.Equal(*got, updated) {
		t.Errorf("Load() = %+v, want the saved document", got)
	}
	if !strings.Contains(string(fake.files["public/data.json"]), "\n  \"settings\"") {
		t.Error("document should be stored pretty-printed")
	}
	if fake.auth[0] != "Bearer tok" {
		t.Errorf("Authorization = %q, want bearer token", fake.auth[0])
	}
}

func TestGitHubStaleVersionConflicts(t *testing.T) {
	_, srv := newFakeGitHub(t)
	a := newTestGitHub(t, srv)
	ctx := context.Background()

	v1, err := a.SaveVersion(ctx, testDoc(), "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}
	if _, err := a.SaveVersion(ctx, testDoc(), v1); err != nil {
		t.Fatalf("SaveVersion() with current version error = %v", err)
	}

	_, err = a.SaveVersion(ctx, testDoc(), v1)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("SaveVersion() with stale version error = %v, want ErrConflict", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Expected != v1 {
		t.Errorf("error = %#v, want *ConflictError expecting %q", err, v1)
	}

	if _, err := a.SaveVersion(ctx, testDoc(), ""); !errors.Is(err, ErrConflict) {
		t.Errorf("create over an existing file error = %v, want ErrConflict", err)
	}
}

func TestGitHubLoadUnparsable(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	fake.files["public/data.json"] = []byte("not json")
	fake.shas["public/data.json"] = "sha-x"
	a := newTestGitHub(t, srv)

	doc, version, err := a.LoadVersion(context.Background())
	if err != nil {
		t.Fatalf("LoadVersion() error = %v", err)
	}
	if doc != nil {
		t.Error("unparsable content should load as nil")
	}
	if version != "sha-x" {
		t.Errorf("version = %q, want sha-x", version)
	}
}

func TestGitHubTransportFailure(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	fake.failed = true
	a := newTestGitHub(t, srv)

	if _, err := a.Load(context.Background()); err == nil {
		t.Error("Load() should surface a server failure")
	}
	if err := a.TestConnection(context.Background()); err == nil {
		t.Error("TestConnection() should surface a server failure")
	}
}

func TestGitHubUpload(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	a := newTestGitHub(t, srv)

	var progress []int64
	url, err := a.UploadFile(context.Background(), strings.NewReader("png-bytes"), 9, "my wall.png", "image/png",
		func(sent, _ int64) { progress = append(progress, sent) })
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}

	const want = "https://raw.githubusercontent.com/o/r/main/public/wallpapers/1700000000000-my-wall.png"
	if url != want {
		t.Errorf("UploadFile() = %q, want %q", url, want)
	}
	if string(fake.files["public/wallpapers/1700000000000-my-wall.png"]) != "png-bytes" {
		t.Error("asset not committed")
	}
	if len(progress) == 0 || progress[len(progress)-1] != 9 {
		t.Errorf("progress = %v, want to end at 9", progress)
	}
}

func TestGitHubTestConnection(t *testing.T) {
	_, srv := newFakeGitHub(t)
	if err := newTestGitHub(t, srv).TestConnection(context.Background()); err != nil {
		t.Errorf("TestConnection() error = %v", err)
	}

	other, err := NewGitHubAdapter(domain.GitHubConfig{
		Token: "tok", Owner: "o", Repo: "missing", Branch: "main", Path: "data.json", APIBaseURL: srv.URL,
	}, Options{})
	if err != nil {
		t.Fatalf("NewGitHubAdapter() error = %v", err)
	}
	if err := other.TestConnection(context.Background()); err == nil {
		t.Error("TestConnection() on a missing repository should fail")
	}
}

func TestGistRoundTrip(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	fake.gists["g1"] = map[string]string{"other.txt": "x"}
	ctx := context.Background()

	a, err := NewGistAdapter(domain.GistConfig{Token: "tok", GistID: "g1", Filename: "data.json", APIBaseURL: srv.URL}, Options{})
	if err != nil {
		t.Fatalf("NewGistAdapter() error = %v", err)
	}

	doc, err := a.Load(ctx)
	if err != nil || doc != nil {
		t.Fatalf("Load() = %v, %v; want nil, nil before the file exists", doc, err)
	}

	if err := a.Save(ctx, testDoc()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc, err = a.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc == nil || !domain.Equal(*doc, testDoc()) {
		t.Errorf("Load() = %+v, want saved document", doc)
	}
	if fake.gists["g1"]["other.txt"] != "x" {
		t.Error("other gist files must be left alone")
	}
	if err := a.TestConnection(ctx); err != nil {
		t.Errorf("TestConnection() error = %v", err)
	}
}

func TestGistMissing(t *testing.T) {
	_, srv := newFakeGitHub(t)
	a, err := NewGistAdapter(domain.GistConfig{Token: "tok", GistID: "nope", Filename: "data.json", APIBaseURL: srv.URL}, Options{})
	if err != nil {
		t.Fatalf("NewGistAdapter() error = %v", err)
	}

	doc, err := a.Load(context.Background())
	if err != nil || doc != nil {
		t.Errorf("Load() = %v, %v; want nil, nil for a missing gist", doc, err)
	}
	if err := a.TestConnection(context.Background()); err == nil {
		t.Error("TestConnection() on a missing gist should fail")
	}
	if _, err := Upload(context.Background(), a, strings.NewReader("x"), 1, "x.png", "image/png", nil); !errors.Is(err, ErrUploadUnsupported) {
		t.Errorf("Upload() error = %v, want ErrUploadUnsupported", err)
	}
}
