package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"google.golang.org/api/googleapi"

	"taskcli/internal/gateway"
	"taskcli/internal/session"
)

// recorder captures the last request seen by a test server.
type recorder struct {
	mu     sync.Mutex
	header http.Header
	method string
	path   string
}

func (r *recorder) handler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.header = req.Header.Clone()
		r.method = req.Method
		r.path = req.URL.Path
		r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newClient(t *testing.T, url string, store session.Store) *gateway.Client {
	t.Helper()
	c, err := gateway.New(url+"/", store)
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	return c
}

func TestDo_AttachesTokenForEveryMethod(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, `{}`))
	defer srv.Close()

	tokens := []string{"abc", "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b", "x y"}
	methods := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

	for _, tok := range tokens {
		store := session.NewMemoryStore(tok)
		c := newClient(t, srv.URL, store)
		for _, m := range methods {
			if _, err := c.Do(context.Background(), m, "tareas/", nil); err != nil {
				t.Fatalf("%s: unexpected error: %v", m, err)
			}
			got := rec.header.Get("Authorization")
			if want := "Token " + tok; got != want {
				t.Errorf("%s with token %q: Authorization = %q, want %q", m, tok, got, want)
			}
		}
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, `{}`))
	defer srv.Close()

	c := newClient(t, srv.URL, session.NewMemoryStore(""))
	if _, err := c.Do(context.Background(), http.MethodPost, "login", map[string]string{"email": "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, present := rec.header["Authorization"]; present {
		t.Errorf("expected no Authorization header, got %q", rec.header.Get("Authorization"))
	}
}

func TestDo_ReadsStoreAtSendTime(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, `{}`))
	defer srv.Close()

	store := session.NewMemoryStore("")
	c := newClient(t, srv.URL, store)

	_ = store.SetToken("first")
	_, _ = c.Do(context.Background(), http.MethodGet, "profile", nil)
	if got := rec.header.Get("Authorization"); got != "Token first" {
		t.Errorf("expected Token first, got %q", got)
	}

	_ = store.Clear()
	_, _ = c.Do(context.Background(), http.MethodGet, "profile", nil)
	if got := rec.header.Get("Authorization"); got != "" {
		t.Errorf("expected no header after Clear, got %q", got)
	}
}

func TestDo_DefaultHeadersAndPath(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, `{"ok":true}`))
	defer srv.Close()

	c, err := gateway.New(srv.URL+"/api/", session.NewMemoryStore(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != srv.URL+"/api/" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	body, err := c.Do(context.Background(), http.MethodPut, "tareas/editar/7/", map[string]any{"estado": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body %q", body)
	}
	if rec.path != "/api/tareas/editar/7/" {
		t.Errorf("unexpected path %q", rec.path)
	}
	if rec.method != http.MethodPut {
		t.Errorf("unexpected method %q", rec.method)
	}
	if ct := rec.header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	if rec.header.Get(gateway.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestDo_NonSuccessCarriesStatusAndBody(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusBadRequest, `{"error":"Invalid password"}`))
	defer srv.Close()

	c := newClient(t, srv.URL, session.NewMemoryStore(""))
	_, err := c.Do(context.Background(), http.MethodPost, "login", nil)

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *googleapi.Error, got %T: %v", err, err)
	}
	if gerr.Code != http.StatusBadRequest {
		t.Errorf("expected code 400, got %d", gerr.Code)
	}
	if gerr.Body != `{"error":"Invalid password"}` {
		t.Errorf("unexpected body %q", gerr.Body)
	}
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url, session.NewMemoryStore("tok"))
	_, err := c.Do(context.Background(), http.MethodGet, "tareas/", nil)

	var nerr *gateway.NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if nerr.Method != http.MethodGet || nerr.Path != "tareas/" {
		t.Errorf("unexpected network error fields: %+v", nerr)
	}
}
