package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/logging"
	"github.com/healthtrack/backend/metrics"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const secret = "test-secret"

type fakeUsers struct {
	byEmail map[string]uint
	err     error
}

func (f fakeUsers) FindByID(context.Context, uint) (*models.User, error) { return nil, nil }

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &models.User{Model: gorm.Model{ID: id}, Email: email}, nil
}

func init() { gin.SetMode(gin.TestMode) }

func bearer(t *testing.T, userID uint, email string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, userID, email, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	users := fakeUsers{byEmail: map[string]uint{"known@example.com": 9}}
	r := gin.New()
	r.GET("/users/:id/ping", AuthMiddleware(secret, users), RequireSelf("id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": c.GetUint(UserIDKey)})
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/users/3/ping", "", http.StatusUnauthorized},
		{"not bearer", "/users/3/ping", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/users/3/ping", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"user id claim", "/users/3/ping", bearer(t, 3, ""), http.StatusOK},
		{"someone else's path", "/users/4/ping", bearer(t, 3, ""), http.StatusForbidden},
		{"bad path id", "/users/abc/ping", bearer(t, 3, ""), http.StatusBadRequest},
		{"email fallback", "/users/9/ping", bearer(t, 0, "known@example.com"), http.StatusOK},
		{"unknown email", "/users/9/ping", bearer(t, 0, "ghost@example.com"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAuthMiddlewareLookupFailure(t *testing.T) {
	r := gin.New()
	r.GET("/x", AuthMiddleware(secret, fakeUsers{err: errors.New("db down")}), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", bearer(t, 0, "a@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var seen string
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		seen = logging.RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	minted := w.Header().Get(RequestIDHeader)
	assert.Len(t, minted, 36)
	assert.Equal(t, minted, seen)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.EqualValues(t, http.StatusNoContent, entries[0].ContextMap()["status"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "abc-123", entries[1].ContextMap()["request_id"])
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/users/1", "/users/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/users/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
