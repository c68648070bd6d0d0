package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkozel/shopfloor/internal/docstore"
	"github.com/dkozel/shopfloor/internal/logging"
	"github.com/dkozel/shopfloor/internal/server/config"
	"github.com/dkozel/shopfloor/internal/server/machines"
	"github.com/dkozel/shopfloor/internal/server/seed"
	"github.com/dkozel/shopfloor/internal/server/tasks"
	"github.com/dkozel/shopfloor/internal/server/users"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost

	store, err := docstore.Open(context.Background(),
		filepath.Join(t.TempDir(), "db.json"),
		docstore.WithSeed(seed.Bootstrap(cfg.BcryptCost)))
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return NewRouter(logger,
		users.NewService(store, cfg),
		tasks.NewService(store),
		machines.NewService(store),
		cfg.SecretKey)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login as %s: %s", email, rec.Body.String())
	res := decodeBody[map[string]any](t, rec)
	token, _ := res["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_SeededAdmin(t *testing.T) {
	router := newTestRouter(t)

	token := login(t, router, seed.DefaultAdminEmail, "admin123")
	assert.NotEmpty(t, token)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": seed.DefaultAdminEmail, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/tasks", "/api/machines", "/api/users", "/api/analytics/summary"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/tasks", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsers_AdminOnly(t *testing.T) {
	router := newTestRouter(t)

	adminToken := login(t, router, seed.DefaultAdminEmail, "admin123")
	employeeToken := login(t, router, "lee@shopfloor.local", "changeme1")

	rec := doJSON(t, router, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[docstore.PageResult](t, rec)
	assert.Equal(t, 4, res.Pagination.Total)
	for _, u := range res.Data {
		_, hasPassword := u["password"]
		assert.False(t, hasPassword)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/users", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTasks_CRUDFlow(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "mika@shopfloor.local", "changeme1") // Manager

	rec := doJSON(t, router, http.MethodPost, "/api/tasks", token, map[string]any{
		"title": "Grease rails", "description": "weekly",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[docstore.Record](t, rec)
	require.NotEmpty(t, created.ID())
	assert.Equal(t, "pending", created.String("status"))

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/"+created.ID(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/tasks/"+created.ID(), token, map[string]any{
		"status": "in-progress", "progress": 25,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[docstore.Record](t, rec)
	assert.Equal(t, "in-progress", updated.String("status"))
	assert.Equal(t, "Grease rails", updated.String("title"))

	rec = doJSON(t, router, http.MethodDelete, "/api/tasks/"+created.ID(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/"+created.ID(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_EmployeeCannotWrite(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "lee@shopfloor.local", "changeme1")

	rec := doJSON(t, router, http.MethodGet, "/api/tasks", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tasks", token, map[string]any{"title": "nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMachines_MaintenanceEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, seed.DefaultAdminEmail, "admin123")

	rec := doJSON(t, router, http.MethodGet, "/api/machines", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[docstore.PageResult](t, rec)
	require.NotEmpty(t, page.Data)
	machineID := page.Data[0].ID()

	rec = doJSON(t, router, http.MethodPost, "/api/machines/"+machineID+"/maintenance", token, map[string]string{
		"description": "Replaced belt", "performedBy": "lee",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	machine := decodeBody[docstore.Record](t, rec)
	history, ok := machine["maintenanceHistory"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 1)
}

func TestPasswordReset_OverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "lee@shopfloor.local",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[map[string]string](t, rec)
	token := res["resetToken"]
	require.NotEmpty(t, token)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": token, "password": "brand-new",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	login(t, router, "lee@shopfloor.local", "brand-new")
}

func TestLogout_TokenStopsWorking(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, seed.DefaultAdminEmail, "admin123")

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsSummary(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, seed.DefaultAdminEmail, "admin123")

	rec := doJSON(t, router, http.MethodGet, "/api/analytics/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[map[string]map[string]int](t, rec)
	assert.Equal(t, 3, res["tasks"]["total"])
	assert.Equal(t, 3, res["machines"]["total"])
	assert.Equal(t, 2, res["machines"]["operational"])
}
