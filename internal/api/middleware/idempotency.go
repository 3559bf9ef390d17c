package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyCache remembers responses by idempotency key for a limited time
type IdempotencyCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]idempotencyEntry
}

type idempotencyEntry struct {
	requestHash string
	status      int
	body        []byte
	expires     time.Time
}

func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{ttl: ttl, entries: make(map[string]idempotencyEntry)}
}

func (c *IdempotencyCache) get(key string, now time.Time) (idempotencyEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if ok && now.After(e.expires) {
		delete(c.entries, key)
		return idempotencyEntry{}, false
	}
	return e, ok
}

func (c *IdempotencyCache) put(key string, e idempotencyEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, old := range c.entries {
		if time.Now().After(old.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = e
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a request is retried
// with the same Idempotency-Key and body. Reusing a key with a different body
// is a conflict. Requests without the header pass through.
func IdempotencyMiddleware(cache *IdempotencyCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to POST/PUT/PATCH requests
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		// Read request body
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body for idempotency", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
			c.Abort()
			return
		}

		// Restore body for handler
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		// Calculate request hash over path and body
		hash := sha256.Sum256(append([]byte(c.Request.URL.Path+"\n"), body...))
		requestHash := hex.EncodeToString(hash[:])

		if existing, ok := cache.get(idempotencyKey, time.Now()); ok {
			if existing.requestHash != requestHash {
				// Same key, different payload - conflict
				c.JSON(http.StatusConflict, gin.H{
					"error": "idempotency key conflict: same key used with different payload",
				})
				c.Abort()
				return
			}
			logger.Info("Replaying idempotent response", zap.String("idempotency_key", idempotencyKey))
			c.Header("Idempotent-Replayed", "true")
			c.Data(existing.status, "application/json; charset=utf-8", existing.body)
			c.Abort()
			return
		}

		rw := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rw
		c.Next()

		// only settled outcomes are remembered
		if status := rw.Status(); status < http.StatusInternalServerError && status != http.StatusConflict {
			cache.put(idempotencyKey, idempotencyEntry{
				requestHash: requestHash,
				status:      status,
				body:        append([]byte(nil), rw.body.Bytes()...),
				expires:     time.Now().Add(cache.ttl),
			})
		}
	}
}
