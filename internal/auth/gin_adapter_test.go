package auth

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/librarium/internal/config"
)

func setupSessionRouter(t *testing.T) (*gin.Engine, *SessionManager) {
	t.Helper()

	dbPath := "./test_sessions_" + t.Name() + ".db"
	sqlDB, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
		os.Remove(dbPath)
	})

	sm, err := NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sm.SessionLoadSave())
	return r, sm
}

func TestSessionCookieWrittenOnModify(t *testing.T) {
	r, sm := setupSessionRouter(t)

	r.GET("/put", func(c *gin.Context) {
		sm.Put(c.Request.Context(), "k", "v")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/put", nil))

	resp := w.Result()
	require.Len(t, resp.Cookies(), 1)
	cookie := resp.Cookies()[0]
	assert.Equal(t, "session", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
}

func TestSessionCookieExpiredOnDestroy(t *testing.T) {
	r, sm := setupSessionRouter(t)

	r.GET("/put", func(c *gin.Context) {
		sm.Put(c.Request.Context(), "k", "v")
		c.Status(http.StatusOK)
	})
	r.GET("/destroy", func(c *gin.Context) {
		require.NoError(t, sm.Destroy(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/put", nil))
	require.Len(t, w.Result().Cookies(), 1)
	token := w.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/destroy", nil)
	req.AddCookie(token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := w.Result()
	require.Len(t, resp.Cookies(), 1)
	cookie := resp.Cookies()[0]
	assert.Empty(t, cookie.Value)
	assert.LessOrEqual(t, cookie.MaxAge, 0)
}

func TestSessionCookieUntouchedWhenUnmodified(t *testing.T) {
	r, _ := setupSessionRouter(t)

	r.GET("/noop", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/noop", nil))

	assert.Empty(t, w.Result().Cookies())
}
