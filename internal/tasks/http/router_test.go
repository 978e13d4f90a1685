package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/internal/tasks/service"
	"github.com/aussiebroadwan/tasktab/internal/tasks/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasktab/pkg/cryptox"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
	"github.com/aussiebroadwan/tasktab/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full stack against an in-memory database, the
// same way the app package does in production.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "tasktab-test"})
	require.NoError(t, err)

	router := NewRouter(km.KeySet, km.Verifier, "test", st, slog.Default())
	router.UserService = &service.UserService{Store: st}
	router.SessionService = &service.SessionService{
		KeyManager: km,
		Issuer:     "tasktab-test",
	}
	router.TaskService = &service.TaskService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON performs a request with an optional bearer token and JSON body,
// decoding any JSON response into a generic map.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints that return a JSON array.
func doJSONList(t *testing.T, srv *httptest.Server, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// registerAndLogin creates an account and returns a bearer token for it.
func registerAndLogin(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}

	status, _ := doJSON(t, srv, http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, srv, http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Bearer", body["token_type"])
	require.NotEmpty(t, body["access_token"])

	token, _ := body["access_token"].(string)
	return token
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "alice", "correct horse")

	var taskID string

	t.Run("create", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPost, "/tasks", token,
			map[string]string{"name": "buy milk"})
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "buy milk", body["name"])
		require.Equal(t, false, body["completed"])
		require.Nil(t, body["reminder_interval"])
		require.NotEmpty(t, body["id"])
		taskID, _ = body["id"].(string)
	})

	t.Run("list shows the new task", func(t *testing.T) {
		status, tasks := doJSONList(t, srv, http.MethodGet, "/tasks", token)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, tasks, 1)
		require.Equal(t, taskID, tasks[0]["id"])
	})

	t.Run("partial update completes without renaming", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/tasks/"+taskID, token,
			map[string]any{"completed": true})
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, true, body["completed"])
		require.Equal(t, "buy milk", body["name"])
	})

	t.Run("set a reminder", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/tasks/"+taskID+"/reminder", token,
			map[string]any{"reminder_interval": 30})
		require.Equal(t, http.StatusOK, status)
		require.EqualValues(t, 30, body["reminder_interval"])
		require.Equal(t, true, body["completed"])
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodDelete, "/tasks/"+taskID, token, nil)
		require.Equal(t, http.StatusNoContent, status)

		status, tasks := doJSONList(t, srv, http.MethodGet, "/tasks", token)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, tasks)
	})

	t.Run("deleting again looks like a missing task", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodDelete, "/tasks/"+taskID, token, nil)
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "not_found", body["error"])
	})
}

func TestOwnershipIsolation(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := registerAndLogin(t, srv, "alice", "pw-alice")
	bobToken := registerAndLogin(t, srv, "bob", "pw-bob")

	status, body := doJSON(t, srv, http.MethodPost, "/tasks", aliceToken,
		map[string]string{"name": "alice's secret"})
	require.Equal(t, http.StatusOK, status)
	taskID, _ := body["id"].(string)

	t.Run("other users cannot see the task", func(t *testing.T) {
		status, tasks := doJSONList(t, srv, http.MethodGet, "/tasks", bobToken)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, tasks)
	})

	t.Run("foreign update responds exactly like a missing task", func(t *testing.T) {
		status, foreign := doJSON(t, srv, http.MethodPut, "/tasks/"+taskID, bobToken,
			map[string]any{"completed": true})
		require.Equal(t, http.StatusNotFound, status)

		missingStatus, missing := doJSON(t, srv, http.MethodPut, "/tasks/01ARZ3NDEKTSV4RRFFQ69G5FAV", bobToken,
			map[string]any{"completed": true})
		require.Equal(t, http.StatusNotFound, missingStatus)

		// Byte-identical error bodies, nothing to probe.
		require.Equal(t, missing, foreign)
	})

	t.Run("foreign delete fails and leaves the task", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodDelete, "/tasks/"+taskID, bobToken, nil)
		require.Equal(t, http.StatusNotFound, status)

		status, tasks := doJSONList(t, srv, http.MethodGet, "/tasks", aliceToken)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, tasks, 1)
	})

	t.Run("malformed task id also reads as missing", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/tasks/not-a-real-id", aliceToken,
			map[string]any{"completed": true})
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "not_found", body["error"])
	})
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	t.Run("duplicate username", func(t *testing.T) {
		creds := map[string]string{"username": "alice", "password": "pw"}

		status, _ := doJSON(t, srv, http.MethodPost, "/register", "", creds)
		require.Equal(t, http.StatusCreated, status)

		status, body := doJSON(t, srv, http.MethodPost, "/register", "", creds)
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "duplicate_user", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPost, "/register", "",
			map[string]string{"username": "bob"})
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "invalid_request", body["error"])
	})
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "alice", "pw1")

	t.Run("wrong password and unknown user respond identically", func(t *testing.T) {
		status, wrongPW := doJSON(t, srv, http.MethodPost, "/login", "",
			map[string]string{"username": "alice", "password": "nope"})
		require.Equal(t, http.StatusUnauthorized, status)

		status, unknown := doJSON(t, srv, http.MethodPost, "/login", "",
			map[string]string{"username": "mallory", "password": "pw1"})
		require.Equal(t, http.StatusUnauthorized, status)

		require.Equal(t, wrongPW, unknown)
	})
}

func TestAuthnRequired(t *testing.T) {
	srv := newTestServer(t)

	t.Run("no token", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodGet, "/tasks", "", nil)
		require.Equal(t, http.StatusUnauthorized, status)
		require.Equal(t, "invalid_token", body["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodGet, "/tasks", "not.a.jwt", nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token from a different issuer", func(t *testing.T) {
		foreign, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "someone-else"})
		require.NoError(t, err)
		svc := &service.SessionService{KeyManager: foreign, Issuer: "someone-else"}

		token, _, err := svc.Issue(t.Context(), domain.User{ID: idx.New(), Username: "eve"})
		require.NoError(t, err)

		status, _ := doJSON(t, srv, http.MethodGet, "/tasks", token, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("livez", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "ok", body["status"])
	})

	t.Run("readyz", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "ok", body["status"])
	})
}
