package gist

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeGitHub is an in-memory stand-in for the gist endpoints.
type fakeGitHub struct {
	t      *testing.T
	srv    *httptest.Server
	token  string
	mu     sync.Mutex
	gists  map[string]*Gist
	order  []string
	hits   int
	rawHit int
}

func newFakeGitHub(t *testing.T, token string) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{t: t, token: token, gists: map[string]*Gist{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gists", f.create)
	mux.HandleFunc("GET /gists", f.list)
	mux.HandleFunc("GET /gists/{id}", f.get)
	mux.HandleFunc("GET /raw/{id}/{name}", f.raw)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGitHub) client() *Client {
	return &Client{BaseURL: f.srv.URL, Token: f.token}
}

func (f *fakeGitHub) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	f.hits++
	f.mu.Unlock()
	if r.Header.Get("Authorization") != "token "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return false
	}
	return true
}

// put stores files directly, as if created through the web UI.
func (f *fakeGitHub) put(desc *string, files map[string]string) *Gist {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("%032x", len(f.order)+1)
	g := &Gist{
		ID:          id,
		HTMLURL:     "https://gist.example.com/user/" + id,
		Description: desc,
		Files:       map[string]File{},
	}
	for name, content := range files {
		g.Files[name] = File{
			Filename: name,
			RawURL:   f.srv.URL + "/raw/" + id + "/" + name,
			Size:     int64(len(content)),
			Content:  content,
		}
	}
	f.gists[id] = g
	f.order = append(f.order, id)
	return g
}

func (f *fakeGitHub) create(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var in CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	files := map[string]string{}
	for name, fc := range in.Files {
		files[name] = fc.Content
	}
	desc := in.Description
	g := f.put(&desc, files)
	g.Public = in.Public
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g)
}

func (f *fakeGitHub) list(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	out := make([]*Gist, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.gists[id])
	}
	f.mu.Unlock()
	_ = json.NewEncoder(w).Encode(out)
}

func (f *fakeGitHub) get(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	g, ok := f.gists[r.PathValue("id")]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(g)
}

func (f *fakeGitHub) raw(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.rawHit++
	g, ok := f.gists[r.PathValue("id")]
	f.mu.Unlock()
	if r.Header.Get("Authorization") != "" {
		f.t.Errorf("raw request carried credentials")
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	file, ok := g.Files[r.PathValue("name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(file.Content))
}
