package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, deps map[string]Pinger) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler(deps).HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := serveHealth(t, map[string]Pinger{
		"database": pingFunc(func(context.Context) error { return nil }),
		"skipped":  nil,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = serveHealth(t, map[string]Pinger{
		"redis": pingFunc(func(context.Context) error { return errors.New("down") }),
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failing":"redis"`)
}

func TestCoerce(t *testing.T) {
	v, err := coerce("archived", aggregates.KindBool, "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = coerce("identifier", aggregates.KindInt, "12")
	require.NoError(t, err)
	assert.Equal(t, float64(12), v)

	v, err = coerce("name", aggregates.KindString, "12")
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	_, err = coerce("archived", aggregates.KindBool, "maybe")
	assert.True(t, domainagg.IsCode(err, domainagg.CodeArgument))
}
