package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/session"
	"github.com/jafarshop/productconsole/internal/workflow"
)

const (
	SessionContextKey   = "session"
	SessionIDContextKey = "session_id"
)

// SessionMiddleware resolves the :id path parameter to a live edit session
func SessionMiddleware(sessions *session.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			c.Abort()
			return
		}

		orch, err := sessions.Get(id)
		if err != nil {
			logger.Debug("Unknown session", zap.String("session_id", id.String()))
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			c.Abort()
			return
		}

		c.Set(SessionContextKey, orch)
		c.Set(SessionIDContextKey, id)
		c.Next()
	}
}

// GetSessionFromContext retrieves the session resolved by SessionMiddleware
func GetSessionFromContext(c *gin.Context) (uuid.UUID, *workflow.Orchestrator, bool) {
	o, exists := c.Get(SessionContextKey)
	if !exists {
		return uuid.Nil, nil, false
	}
	orch, ok := o.(*workflow.Orchestrator)
	if !ok {
		return uuid.Nil, nil, false
	}
	id, _ := c.Get(SessionIDContextKey)
	sid, _ := id.(uuid.UUID)
	return sid, orch, true
}
