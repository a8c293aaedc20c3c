package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"curator/internal/auth"
	"curator/internal/config"
	"curator/internal/db"
	"curator/internal/handler"
	"curator/internal/logger"
	"curator/internal/metrics"
	"curator/internal/model"
	"curator/internal/repository"
	"curator/internal/service"
)

type testServer struct {
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	m, err := db.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, m.Migrate(model.All()...))
	t.Cleanup(func() { _ = m.Close() })

	users := repository.NewUserRepository(m.DB())
	roles := repository.NewRoleRepository(m.DB())
	categories := repository.NewCategoryRepository(m.DB())
	articles := repository.NewArticleRepository(m.DB())
	_, err = roles.Ensure(ctx, model.RoleAdmin, model.RoleUser)
	require.NoError(t, err)

	jwtService := auth.NewJWTService("router-test-secret")
	tokens := auth.NewTokenStore(nil)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	userService := service.NewUserService(users, hasher)
	e := echo.New()
	Register(e, Deps{
		Config:  &config.Config{CORSOrigins: []string{"*"}},
		Logger:  logger.New(io.Discard, false),
		Gate:    auth.NewGate(jwtService, users, tokens),
		Metrics: metrics.New("curator_test"),
		DB:      m,
	}, Handlers{
		Auth:       handler.NewAuthHandler(service.NewAuthService(users, roles, hasher, jwtService, tokens)),
		Users:      handler.NewUserHandler(userService),
		AdminUsers: handler.NewAdminUserHandler(userService),
		Articles:   handler.NewArticleHandler(service.NewArticleService(articles, categories)),
		Categories: handler.NewCategoryHandler(service.NewCategoryService(categories, articles, nil)),
		Roles:      handler.NewRoleHandler(service.NewRoleService(roles, nil)),
		Agent:      handler.NewAgentHandler(service.NewSummaryService(articles, nil, time.Minute)),
	})
	return &testServer{e: e}
}

type result struct {
	Status int
	Body   map[string]any
	Raw    string
}

func (s *testServer) do(t *testing.T, method, path, token, body string) result {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	res := result{Status: rec.Code, Raw: rec.Body.String()}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.Body), rec.Body.String())
	}
	return res
}

func (s *testServer) signupAndLogin(t *testing.T, username, role string) (access, refresh string) {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/v1/users/signup", "", `{"username":"`+username+`","email":"`+username+`@example.com","full_name":"`+username+`","password":"password123","role":"`+role+`"}`)
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)

	res = s.do(t, http.MethodPost, "/api/v1/users/login", "", `{"identifier":"`+username+`","password":"password123"}`)
	require.Equal(t, http.StatusOK, res.Status, res.Raw)
	data := res.Body["data"].(map[string]any)
	return data["access_token"].(string), data["refresh_token"].(string)
}

func TestValidationErrorsAre422(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/api/v1/users/signup", "", `{"username":"jdoe","email":"nope","full_name":"J","password":"short","role":"user"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, false, res.Body["success"])
	assert.Equal(t, "Validation error occurred", res.Body["message"])

	details := res.Body["details"].([]any)
	fields := map[string]string{}
	for _, d := range details {
		entry := d.(map[string]any)
		fields[entry["field"].(string)] = entry["tag"].(string)
	}
	assert.Equal(t, map[string]string{"email": "email", "password": "min"}, fields)
}

func TestMalformedBodyIs400(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/api/v1/users/login", "", `{"identifier":`)

	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, false, res.Body["success"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	access, refresh := s.signupAndLogin(t, "alice", model.RoleUser)

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
		expectedCode   string
	}{
		{name: "profile with access token", method: http.MethodGet, path: "/api/v1/users/auth", token: access, expectedStatus: http.StatusOK},
		{name: "profile without token", method: http.MethodGet, path: "/api/v1/users/auth", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_MISSING"},
		{name: "profile with refresh token", method: http.MethodGet, path: "/api/v1/users/auth", token: refresh, expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_TYPE_INVALID"},
		{name: "profile with garbage token", method: http.MethodGet, path: "/api/v1/users/auth", token: "garbage", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_INVALID"},
		{name: "validate access token", method: http.MethodGet, path: "/api/v1/users/validate", token: access, expectedStatus: http.StatusOK},
		{name: "refresh with refresh token", method: http.MethodGet, path: "/api/v1/users/refresh", token: refresh, expectedStatus: http.StatusOK},
		{name: "refresh with access token", method: http.MethodGet, path: "/api/v1/users/refresh", token: access, expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_TYPE_INVALID"},
		{name: "admin listing as user", method: http.MethodGet, path: "/api/v1/admin/users", token: access, expectedStatus: http.StatusForbidden, expectedCode: "PERMISSION_DENIED"},
		{name: "logout with refresh token", method: http.MethodPost, path: "/api/v1/users/logout", token: refresh, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.do(t, tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.expectedStatus, res.Status, res.Raw)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, res.Body["code"])
			}
		})
	}
}

func TestSignupRules(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin(t, "boss", model.RoleAdmin)

	res := s.do(t, http.MethodPost, "/api/v1/users/signup", "", `{"username":"boss2","email":"boss2@example.com","full_name":"B","password":"password123","role":"admin"}`)
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, "ADMIN_EXISTS", res.Body["code"])

	res = s.do(t, http.MethodPost, "/api/v1/users/signup", "", `{"username":"other","email":"boss@example.com","full_name":"B","password":"password123","role":"user"}`)
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, "EMAIL_TAKEN", res.Body["code"])

	res = s.do(t, http.MethodPost, "/api/v1/users/signup", "", `{"username":"eddie","email":"eddie@example.com","full_name":"E","password":"password123","role":"editor"}`)
	assert.Equal(t, http.StatusNotFound, res.Status, res.Raw)
	assert.Equal(t, "ROLE_NOT_FOUND", res.Body["code"])

	res = s.do(t, http.MethodPost, "/api/v1/users/login", "", `{"identifier":"boss","password":"password124"}`)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Nil(t, res.Body["data"])
}

func TestArticleAndCategoryFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := s.signupAndLogin(t, "boss", model.RoleAdmin)
	userToken, _ := s.signupAndLogin(t, "alice", model.RoleUser)

	res := s.do(t, http.MethodPost, "/api/v1/categories", userToken, `{"name":"Tech"}`)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = s.do(t, http.MethodPost, "/api/v1/categories", adminToken, `{"name":"Tech"}`)
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)
	categoryID := res.Body["data"].(map[string]any)["id"].(float64)

	res = s.do(t, http.MethodGet, "/api/v1/categoris?category=te", "", "")
	assert.Equal(t, http.StatusOK, res.Status)

	body := `{"title":"Hello World","content":"body","category_id":` + jsonNumber(categoryID) + `,"tags":["go","api"]}`
	first := s.do(t, http.MethodPost, "/api/v1/articles", userToken, body)
	require.Equal(t, http.StatusCreated, first.Status, first.Raw)
	second := s.do(t, http.MethodPost, "/api/v1/articles", userToken, body)
	require.Equal(t, http.StatusCreated, second.Status, second.Raw)

	assert.Equal(t, "hello-world", first.Body["data"].(map[string]any)["slug"])
	assert.Equal(t, "hello-world-1", second.Body["data"].(map[string]any)["slug"])

	articleID := jsonNumber(first.Body["data"].(map[string]any)["id"].(float64))
	res = s.do(t, http.MethodDelete, "/api/v1/articles/"+articleID, adminToken, "")
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Equal(t, "NOT_AUTHOR", res.Body["code"])

	res = s.do(t, http.MethodDelete, "/api/v1/categories/"+jsonNumber(categoryID), adminToken, "")
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, "CATEGORY_IN_USE", res.Body["code"])

	res = s.do(t, http.MethodGet, "/api/v1/articles?keys=hello&tag=go", "", "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, float64(2), res.Body["data"].(map[string]any)["total"])

	draftBody := `{"title":"Draft Notes","content":"wip","status":"draft","category_id":` + jsonNumber(categoryID) + `}`
	res = s.do(t, http.MethodPost, "/api/v1/articles", userToken, draftBody)
	require.Equal(t, http.StatusCreated, res.Status, res.Raw)

	res = s.do(t, http.MethodGet, "/api/v1/articles?keys=draft", "", "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, float64(1), res.Body["data"].(map[string]any)["total"])

	res = s.do(t, http.MethodGet, "/api/v1/articles?status=published", "", "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, float64(2), res.Body["data"].(map[string]any)["total"])

	res = s.do(t, http.MethodGet, "/api/v1/ai-agent/"+articleID, userToken, "")
	assert.Equal(t, http.StatusServiceUnavailable, res.Status)

	res = s.do(t, http.MethodDelete, "/api/v1/articles/"+articleID, userToken, "")
	assert.Equal(t, http.StatusOK, res.Status)
	res = s.do(t, http.MethodGet, "/api/v1/articles/"+articleID, "", "")
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, res.Status)

	res = s.do(t, http.MethodGet, "/api/v1/roles", "", "")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.ElementsMatch(t, []any{"admin", "user"}, res.Body["data"])

	res = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Raw, "curator_test_http_requests_total")

	res = s.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, false, res.Body["success"])
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}
