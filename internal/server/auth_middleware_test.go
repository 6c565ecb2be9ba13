package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/memstore"
	"rentflow-backend/internal/server/authctx"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func token(t *testing.T, role domain.UserRole, tokenType string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        uuid.NewString(),
		"email":      "user@example.com",
		"role":       string(role),
		"token_type": tokenType,
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func protected() http.Handler {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(testSecret))
	r.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleViewer))
	r.Use(WritesRequire(domain.RoleAdmin, domain.RoleManager))
	ok := func(w http.ResponseWriter, r *http.Request) {
		u := authctx.FromContext(r.Context())
		_, _ = w.Write([]byte(u.Email))
	}
	r.Get("/tenants", ok)
	r.Post("/tenants", ok)
	r.Put("/tenants/{id}", ok)
	return r
}

func call(h http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	h := protected()

	rec := call(h, http.MethodGet, "/tenants", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"missing bearer token","data":null,"error":{"code":401,"status":"Unauthorized"}}`, rec.Body.String())

	rec = call(h, http.MethodGet, "/tenants", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(h, http.MethodGet, "/tenants", token(t, domain.RoleAdmin, "refresh"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewerCanReadButNotWrite(t *testing.T) {
	h := protected()
	viewer := token(t, domain.RoleViewer, "access")

	rec := call(h, http.MethodGet, "/tenants", viewer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@example.com", rec.Body.String())

	rec = call(h, http.MethodPost, "/tenants", viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = call(h, http.MethodPut, "/tenants/1", viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestManagerCanWrite(t *testing.T) {
	h := protected()

	rec := call(h, http.MethodPost, "/tenants", token(t, domain.RoleManager, "access"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoleIsForbidden(t *testing.T) {
	h := protected()

	rec := call(h, http.MethodGet, "/tenants", token(t, domain.UserRole("staff"), "access"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoggerMiddlewareRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := NewLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rent", nil))
	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"path":"/rent"`)
}

func TestActivityMiddlewareRecordsSuccessfulWrites(t *testing.T) {
	store := &memstore.Activity{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{ID: uuid.New(), Email: "manager@example.com", Role: domain.RoleManager})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Use(NewActivityMiddleware(store, slog.Default()))
	r.Get("/tenants", func(w http.ResponseWriter, r *http.Request) {})
	r.Post("/tenants/delete", func(w http.ResponseWriter, r *http.Request) {})
	r.Put("/tenants/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	})

	call(r, http.MethodGet, "/tenants", "")
	call(r, http.MethodPut, "/tenants/42", "")
	call(r, http.MethodPost, "/tenants/delete", "")

	logs, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "POST /tenants/delete", logs[0].Title)
	assert.Equal(t, "manager@example.com", logs[0].Actor)
	assert.Equal(t, domain.LogInfo, logs[0].Type)
}
