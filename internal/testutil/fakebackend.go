package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskcli/internal/service"
)

// FakeBackend is an in-memory HTTP fake of the REST backend. It follows
// the real server's routes, status codes and error bodies closely enough
// for end-to-end tests of the gateway and the REST client.
type FakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	users   map[string]*fakeUser // email -> user
	tokens  map[string]string    // token -> email
	tasks   map[string][]service.Task
	nextID  int64
	headers []http.Header
}

type fakeUser struct {
	id       int64
	username string
	email    string
	password string
}

// NewFakeBackend starts a fake backend. Callers must Close it.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		users:  make(map[string]*fakeUser),
		tokens: make(map[string]string),
		tasks:  make(map[string][]service.Task),
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/login", b.handleLogin)
	r.Post("/registrer", b.handleRegister)
	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/profile", b.handleProfile)
		r.Post("/logout", b.handleLogout)
		r.Get("/tareas/", b.handleList)
		r.Post("/tareas/crear/", b.handleCreate)
		r.Put("/tareas/editar/{id}/", b.handleEdit)
		r.Delete("/tareas/eliminar/{id}/", b.handleDelete)
	})

	b.Server = httptest.NewServer(r)
	return b
}

// BaseURL returns the address to configure the client with.
func (b *FakeBackend) BaseURL() string {
	return b.URL + "/"
}

// AddUser registers an account and returns a valid token for it.
func (b *FakeBackend) AddUser(username, email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.users[email] = &fakeUser{id: b.nextID, username: username, email: email, password: password}
	return b.issueToken(email)
}

// RevokeTokens invalidates every issued token.
func (b *FakeBackend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]string)
}

// Tasks returns a copy of the tasks owned by email.
func (b *FakeBackend) Tasks(email string) []service.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]service.Task, len(b.tasks[email]))
	copy(out, b.tasks[email])
	return out
}

// Headers returns the headers of every request received so far.
func (b *FakeBackend) Headers() []http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]http.Header, len(b.headers))
	copy(out, b.headers)
	return out
}

func (b *FakeBackend) issueToken(email string) string {
	for tok, owner := range b.tokens {
		if owner == email {
			return tok
		}
	}
	tok := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.tokens[tok] = email
	return tok
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.headers = append(b.headers, r.Header.Clone())
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(header, "Token ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		b.mu.Lock()
		email, ok := b.tokens[tok]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		r.Header.Set("X-Fake-User", email)
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) userOf(r *http.Request) *fakeUser {
	return b.users[r.Header.Get("X-Fake-User")]
}

func userJSON(u *fakeUser) map[string]any {
	return map[string]any{"id": u.id, "username": u.username, "email": u.email}
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.users[req.Email]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if u.password != req.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": b.issueToken(u.email), "user": userJSON(u)})
}

func (b *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()

	errs := map[string][]string{}
	if req.Username == "" {
		errs["username"] = []string{"This field is required."}
	}
	for _, u := range b.users {
		if u.username == req.Username && req.Username != "" {
			errs["username"] = []string{"A user with that username already exists."}
		}
	}
	if req.Email == "" {
		errs["email"] = []string{"This field is required."}
	} else if _, taken := b.users[req.Email]; taken {
		errs["email"] = []string{"Este correo ya está registrado."}
	}
	if req.Password == "" {
		errs["password"] = []string{"This field is required."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	b.nextID++
	u := &fakeUser{id: b.nextID, username: req.Username, email: req.Email, password: req.Password}
	b.users[u.email] = u
	writeJSON(w, http.StatusCreated, map[string]any{"token": b.issueToken(u.email), "user": userJSON(u)})
}

func (b *FakeBackend) handleProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, userJSON(b.userOf(r)))
}

func (b *FakeBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
	delete(b.tokens, tok)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sesión cerrada correctamente"})
}

func (b *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks := make([]service.Task, len(b.tasks[b.userOf(r).email]))
	copy(tasks, b.tasks[b.userOf(r).email])
	// Newest first, like the real server.
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	writeJSON(w, http.StatusOK, tasks)
}

// taskInput uses pointers so omitted fields can be told apart.
type taskInput struct {
	Title       *string `json:"titulo"`
	Description *string `json:"descripcion"`
	DueDate     *string `json:"fecha_vence"`
	Done        *bool   `json:"estado"`
}

func (in taskInput) validate(partial bool) map[string][]string {
	errs := map[string][]string{}
	if in.Title == nil {
		if !partial {
			errs["titulo"] = []string{"This field is required."}
		}
	} else if *in.Title == "" {
		errs["titulo"] = []string{"This field may not be blank."}
	} else if len(*in.Title) > 100 {
		errs["titulo"] = []string{"Ensure this field has no more than 100 characters."}
	}
	if in.DueDate == nil {
		if !partial {
			errs["fecha_vence"] = []string{"This field is required."}
		}
	} else if _, err := time.Parse(service.DateLayout, *in.DueDate); err != nil {
		errs["fecha_vence"] = []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
	}
	return errs
}

func (in taskInput) apply(t *service.Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.DueDate != nil {
		t.DueDate = *in.DueDate
	}
	if in.Done != nil {
		t.Done = *in.Done
	}
}

func (b *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in taskInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	if errs := in.validate(false); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	t := service.Task{ID: b.nextID}
	in.apply(&t)
	email := b.userOf(r).email
	b.tasks[email] = append(b.tasks[email], t)
	writeJSON(w, http.StatusCreated, t)
}

func (b *FakeBackend) handleEdit(w http.ResponseWriter, r *http.Request) {
	var in taskInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	if errs := in.validate(true); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tasks, i := b.find(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	in.apply(&tasks[i])
	writeJSON(w, http.StatusOK, tasks[i])
}

func (b *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks, i := b.find(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	email := b.userOf(r).email
	b.tasks[email] = append(tasks[:i], tasks[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// find returns the caller's tasks and the index of the task named in the
// URL, or -1. Tasks of other users are never found.
func (b *FakeBackend) find(r *http.Request) ([]service.Task, int) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	tasks := b.tasks[b.userOf(r).email]
	if err != nil {
		return tasks, -1
	}
	for i, t := range tasks {
		if t.ID == id {
			return tasks, i
		}
	}
	return tasks, -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
