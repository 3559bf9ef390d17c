package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newIdempotentRouter(cache *IdempotencyCache, status int) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := gin.New()
	r.POST("/commit", IdempotencyMiddleware(cache, zap.NewNop()), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"call": calls})
	})
	return r, &calls
}

func post(r http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/commit", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysSameRequest(t *testing.T) {
	r, calls := newIdempotentRouter(NewIdempotencyCache(time.Minute), http.StatusOK)

	first := post(r, "k", `{"a":1}`)
	second := post(r, "k", `{"a":1}`)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
}

func TestIdempotency_DifferentBodyConflicts(t *testing.T) {
	r, calls := newIdempotentRouter(NewIdempotencyCache(time.Minute), http.StatusOK)

	post(r, "k", `{"a":1}`)
	w := post(r, "k", `{"a":2}`)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotency_ServerErrorsAreRetried(t *testing.T) {
	r, calls := newIdempotentRouter(NewIdempotencyCache(time.Minute), http.StatusBadGateway)

	post(r, "k", `{}`)
	post(r, "k", `{}`)

	assert.Equal(t, 2, *calls)
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	r, calls := newIdempotentRouter(NewIdempotencyCache(time.Minute), http.StatusOK)

	post(r, "", `{}`)
	post(r, "", `{}`)

	assert.Equal(t, 2, *calls)
}

func TestIdempotency_ExpiredEntryIsDropped(t *testing.T) {
	cache := NewIdempotencyCache(time.Minute)
	cache.put("k", idempotencyEntry{requestHash: "h", status: 200, expires: time.Now().Add(-time.Second)})

	_, ok := cache.get("k", time.Now())
	assert.False(t, ok)
}
