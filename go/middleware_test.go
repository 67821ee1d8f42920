package petopiaserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareRouter(logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return router
}

func TestRequestID_ReusesValidInboundID(t *testing.T) {
	router := newMiddlewareRouter(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	inbound := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, inbound)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, inbound, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, inbound, rec.Body.String())
}

func TestRequestID_ReplacesGarbage(t *testing.T) {
	router := newMiddlewareRouter(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "not a uuid\r\n")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	got := rec.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.NotEqual(t, "not a uuid\r\n", got)
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	router := newMiddlewareRouter(slog.New(slog.NewJSONHandler(&buf, nil)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "/boom", line["http.route"])
	assert.EqualValues(t, http.StatusInternalServerError, line["http.status"])
	assert.NotEmpty(t, line["request.id"])
}
