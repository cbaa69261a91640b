package container

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	database "github.com/FACorreiaa/go-notes-api/app/db"
	"github.com/FACorreiaa/go-notes-api/config"
	"github.com/FACorreiaa/go-notes-api/internal/api/auth"
	"github.com/FACorreiaa/go-notes-api/internal/router"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

// IntegrationTestSuite runs the wired application against a real Postgres.
// It is skipped unless TEST_DATABASE_URL points at a disposable database.
type IntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *Container
	server    *httptest.Server
}

func (s *IntegrationTestSuite) SetupSuite() {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		s.T().Skip("TEST_DATABASE_URL not set")
	}
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.Require().NoError(database.RunMigrations(url, logger))

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "integration-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost

	c, err := NewContainer(s.ctx, cfg, url, logger)
	s.Require().NoError(err)
	s.Require().True(c.WaitForDB(s.ctx))
	s.container = c
	s.server = httptest.NewServer(router.SetupRouter(c.RouterConfig()))
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.container != nil {
		s.container.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	_, err := s.container.Pool.Exec(s.ctx, `TRUNCATE notes, users`)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) call(method, path, token string, body any) (int, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("x-access-token", token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (s *IntegrationTestSuite) signup(username string) string {
	status, body := s.call(http.MethodPost, "/signup", "", map[string]string{"username": username, "password": "pass"})
	s.Require().Equal(http.StatusOK, status)
	token, _ := body["token"].(string)
	return token
}

func (s *IntegrationTestSuite) TestUniqueUsernameIsEnforcedByTheStore() {
	repo := auth.NewPostgresUserRepo(s.container.Pool, s.container.Logger)
	_, err := repo.CreateUser(s.ctx, "alice", "hash")
	s.Require().NoError(err)

	_, err = repo.CreateUser(s.ctx, "alice", "hash")
	s.ErrorIs(err, types.ErrConflict)
}

func (s *IntegrationTestSuite) TestNotesRoundTrip() {
	alice := s.signup("alice")
	bob := s.signup("bob")

	var ids []string
	for _, content := range []string{"one", "two", "three"} {
		status, body := s.call(http.MethodPut, "/notes", alice, map[string]string{"content": content})
		s.Require().Equal(http.StatusOK, status)
		note := body["note"].(map[string]any)
		ids = append(ids, note["id"].(string))
	}

	status, body := s.call(http.MethodGet, "/notes", alice, nil)
	s.Require().Equal(http.StatusOK, status)
	list := body["notes"].([]any)
	s.Require().Len(list, 3)
	for i, n := range list {
		s.Equal(ids[i], n.(map[string]any)["id"])
	}

	status, body = s.call(http.MethodGet, "/notes", bob, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Empty(body["notes"])

	status, _ = s.call(http.MethodPatch, "/notes/"+ids[0], bob, map[string]string{"content": "x"})
	s.Equal(http.StatusForbidden, status)

	status, body = s.call(http.MethodPatch, "/notes/"+ids[0], alice, map[string]string{"content": "edited"})
	s.Require().Equal(http.StatusOK, status)
	s.Equal("edited", body["note"].(map[string]any)["content"])

	status, _ = s.call(http.MethodDelete, "/notes/"+ids[1], alice, nil)
	s.Equal(http.StatusOK, status)

	status, _ = s.call(http.MethodDelete, "/notes/"+ids[1], alice, nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.call(http.MethodDelete, "/notes/"+uuid.NewString(), alice, nil)
	s.Equal(http.StatusNotFound, status)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
