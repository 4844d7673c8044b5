package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"role-catalog/domain"
	"role-catalog/infrastructure"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var allowedOrigins = []string{"http://localhost:5500", "http://localhost:3000"}

func newTestRouter(t *testing.T) (*gin.Engine, *infrastructure.MemoryRoleStore) {
	t.Helper()
	store := infrastructure.NewMemoryRoleStore()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	router := NewRouter(RouterConfig{BasePath: "/api", AllowedOrigins: allowedOrigins, Store: store})
	return router, store
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeRole(t *testing.T, w *httptest.ResponseRecorder) domain.JobRole {
	t.Helper()
	var role domain.JobRole
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &role))
	return role
}

func decodeRoles(t *testing.T, w *httptest.ResponseRecorder) []domain.JobRole {
	t.Helper()
	var roles []domain.JobRole
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roles))
	return roles
}

func dataAnalist() map[string]any {
	return map[string]any{
		"title":          "Data Analist",
		"description":    "Analyseert data",
		"educationLevel": "HBO",
		"courseName":     "Informatica",
		"followUpRole":   "Senior Data Analist",
		"locationName":   "DUO Groningen",
		"latitude":       53.21,
		"longitude":      6.56,
	}
}

func TestCreateRole(t *testing.T) {
	router, _ := newTestRouter(t)

	body := dataAnalist()
	body["id"] = 999
	body["createdAt"] = "2001-01-01T00:00:00Z"
	w := doRequest(router, http.MethodPost, "/api/roles", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	role := decodeRole(t, w)
	assert.Equal(t, uint(1), role.ID)
	assert.Equal(t, "Data Analist", role.Title)
	assert.Equal(t, "DUO Groningen", role.LocationName)
	require.NotNil(t, role.Latitude)
	assert.InDelta(t, 53.21, *role.Latitude, 1e-9)
	assert.True(t, role.CreatedAt.Equal(role.UpdatedAt))
	assert.Equal(t, 2025, role.CreatedAt.Year())

	w = doRequest(router, http.MethodGet, "/api/roles/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data Analist", decodeRole(t, w).Title)
}

func TestCreateRoleRejectsInvalidBodies(t *testing.T) {
	router, store := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/roles", map[string]any{"educationLevel": "HBO"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Fields, "title")

	w = doRequest(router, http.MethodPost, "/api/roles", map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := dataAnalist()
	body["latitude"] = 91.0
	w = doRequest(router, http.MethodPost, "/api/roles", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/roles", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid JSON body"}`, w.Body.String())

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateRole(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/roles", dataAnalist())
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeRole(t, w)

	w = doRequest(router, http.MethodPut, "/api/roles/1", map[string]any{
		"title":        "Lead Data Analist",
		"locationName": "Den Haag",
		"id":           42,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeRole(t, w)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Lead Data Analist", updated.Title)
	assert.Equal(t, "Den Haag", updated.LocationName)
	assert.Empty(t, updated.EducationLevel)
	assert.Nil(t, updated.Latitude)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	w = doRequest(router, http.MethodGet, "/api/roles/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lead Data Analist", decodeRole(t, w).Title)
}

func TestUnknownAndInvalidIDs(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPut, dataAnalist()},
		{http.MethodDelete, nil},
	} {
		w := doRequest(router, tc.method, "/api/roles/77", tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method)
		assert.Empty(t, w.Body.String(), tc.method)

		w = doRequest(router, tc.method, "/api/roles/abc", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.method)
		assert.JSONEq(t, `{"error":"invalid id"}`, w.Body.String())
	}
}

func TestDeleteRoleTwice(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/roles", dataAnalist())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/roles/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(router, http.MethodDelete, "/api/roles/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(router, http.MethodGet, "/api/roles/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndFilterRoutes(t *testing.T) {
	router, store := newTestRouter(t)
	require.NoError(t, infrastructure.SeedRoles(context.Background(), store))

	w := doRequest(router, http.MethodGet, "/api/roles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeRoles(t, w)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	w = doRequest(router, http.MethodGet, "/api/roles/location/DUO%20Groningen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeRoles(t, w), 2)

	w = doRequest(router, http.MethodGet, "/api/roles/education/WO", nil)
	require.Equal(t, http.StatusOK, w.Code)
	byEducation := decodeRoles(t, w)
	require.Len(t, byEducation, 1)
	assert.Equal(t, "Beleidsmedewerker", byEducation[0].Title)

	w = doRequest(router, http.MethodGet, "/api/roles/education/PhD", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/roles/search?title=medewerker", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeRoles(t, w), 2)

	w = doRequest(router, http.MethodGet, "/api/roles/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/roles/sorted", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sorted := decodeRoles(t, w)
	require.Len(t, sorted, 3)
	assert.Equal(t, "Beleidsmedewerker", sorted[0].Title)
	assert.Equal(t, "Servicedesk Medewerker", sorted[2].Title)

	w = doRequest(router, http.MethodGet, "/api/roles/education/HBO/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"educationLevel":"HBO","count":1}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/roles/location/Utrecht/exists", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"locationName":"Utrecht","exists":false}`, w.Body.String())
}

type brokenStore struct {
	domain.RoleStore
}

var errBroken = errors.New("connection refused")

func (brokenStore) List(context.Context) ([]domain.JobRole, error) { return nil, errBroken }
func (brokenStore) Get(context.Context, uint) (domain.JobRole, error) {
	return domain.JobRole{}, errBroken
}
func (brokenStore) Ping(context.Context) error { return errBroken }

func TestStorageFailures(t *testing.T) {
	router := NewRouter(RouterConfig{BasePath: "/api", Store: brokenStore{}})

	w := doRequest(router, http.MethodGet, "/api/roles", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")

	w = doRequest(router, http.MethodGet, "/api/roles/1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	doRequest(router, http.MethodGet, "/api/roles", nil)
	w = doRequest(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `role_catalog_http_requests_total{method="GET",route="/api/roles",status="200"} 1`)
}

func TestCORS(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5500", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/roles/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}
