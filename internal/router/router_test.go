package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubAuthHandler struct{}

func (stubAuthHandler) Signup(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("signup")) }
func (stubAuthHandler) Signin(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("signin")) }

type stubNotesHandler struct{}

func (stubNotesHandler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("list"))
}

func (stubNotesHandler) CreateNote(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("create"))
}

func (stubNotesHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("update " + chi.URLParam(r, "id")))
}

func (stubNotesHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("delete " + chi.URLParam(r, "id")))
}

func newTestRouter(authCalls *int) chi.Router {
	return SetupRouter(&Config{
		AuthHandler:  stubAuthHandler{},
		NotesHandler: stubNotesHandler{},
		AuthenticateMiddleware: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*authCalls++
				next.ServeHTTP(w, r)
			})
		},
	})
}

func TestSetupRouter(t *testing.T) {
	tests := []struct {
		method       string
		path         string
		expectedBody string
		protected    bool
	}{
		{http.MethodGet, "/", "hello world", false},
		{http.MethodGet, "/ping", "pong", false},
		{http.MethodPost, "/signup", "signup", false},
		{http.MethodPost, "/signin", "signin", false},
		{http.MethodGet, "/notes", "list", true},
		{http.MethodPut, "/notes", "create", true},
		{http.MethodPatch, "/notes/abc", "update abc", true},
		{http.MethodDelete, "/notes/abc", "delete abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			authCalls := 0
			r := newTestRouter(&authCalls)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
			if tt.protected {
				assert.Equal(t, 1, authCalls)
			} else {
				assert.Zero(t, authCalls)
			}
		})
	}
}

func TestSetupRouter_UnknownRoutes(t *testing.T) {
	authCalls := 0
	r := newTestRouter(&authCalls)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/notes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSetupRouter_Swagger(t *testing.T) {
	authCalls := 0
	r := newTestRouter(&authCalls)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"/notes/{id}"`)
}
