package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/api/middleware"
	"github.com/jafarshop/productconsole/internal/edit"
	"github.com/jafarshop/productconsole/internal/session"
	"github.com/jafarshop/productconsole/internal/workflow"
)

// CreateSessionRequest opens an edit session. Record, when given, is a fetch
// payload carried over from another screen and is used without re-fetching.
type CreateSessionRequest struct {
	AccountID int64       `json:"accountId"`
	ProductID string      `json:"productId"`
	Record    interface{} `json:"record"`
}

// LoadProductRequest represents load product request
type LoadProductRequest struct {
	ProductID string `json:"productId"`
}

// SetAccountRequest represents set account request
type SetAccountRequest struct {
	AccountID int64 `json:"accountId" binding:"required"`
}

// SetSummaryFieldRequest represents a single summary field edit
type SetSummaryFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// SetMetafieldRequest represents a metafield value edit
type SetMetafieldRequest struct {
	Value interface{} `json:"value"`
}

// SessionResponse is the session view plus its id
type SessionResponse struct {
	ID string `json:"id"`
	workflow.View
}

func sessionResponse(id uuid.UUID, orch *workflow.Orchestrator) SessionResponse {
	return SessionResponse{ID: id.String(), View: orch.Snapshot()}
}

// HandleCreateSession handles POST /v1/sessions
func HandleCreateSession(sessions *session.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
				return
			}
		}

		opts := workflow.StartOptions{AccountID: req.AccountID, ProductID: req.ProductID}
		if req.Record != nil {
			rec, err := edit.DecodeRecord(req.Record)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record", "details": err.Error()})
				return
			}
			opts.Record = &rec
		}

		// start failures are reported through the session's notifications
		id, orch, err := sessions.Create(c.Request.Context(), opts)
		if err != nil {
			logger.Info("Session opened with errors", zap.String("session_id", id.String()), zap.Error(err))
		}
		c.JSON(http.StatusCreated, sessionResponse(id, orch))
	}
}

// HandleGetSession handles GET /v1/sessions/:id
func HandleGetSession() gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleDeleteSession handles DELETE /v1/sessions/:id
func HandleDeleteSession(sessions *session.Registry) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		sessions.Delete(id)
		c.Status(http.StatusNoContent)
	})
}

// HandleLoadProduct handles POST /v1/sessions/:id/load
func HandleLoadProduct(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		var req LoadProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		if err := orch.Load(c.Request.Context(), req.ProductID); err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleSetAccount handles PUT /v1/sessions/:id/account
func HandleSetAccount() gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		var req SetAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		orch.SetAccount(req.AccountID)
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleSetSummaryField handles PATCH /v1/sessions/:id/summary
func HandleSetSummaryField(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		var req SetSummaryFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		if err := orch.SetSummaryField(req.Field, req.Value); err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleSetMetafield handles PUT /v1/sessions/:id/metafields/:index
func HandleSetMetafield(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid metafield index"})
			return
		}
		var req SetMetafieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		if err := orch.SetMetafieldValue(index, req.Value); err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleResetEdits handles POST /v1/sessions/:id/reset
func HandleResetEdits(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		if err := orch.ResetEdits(); err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleValidate handles POST /v1/sessions/:id/validate. A validation with
// issues is still a 200; the issues are in the view.
func HandleValidate(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		if _, err := orch.Validate(c.Request.Context()); err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleCommit handles POST /v1/sessions/:id/commit
func HandleCommit(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		if err := orch.Commit(c.Request.Context()); err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(id, orch))
	})
}

// HandleGetPayload handles GET /v1/sessions/:id/payload
func HandleGetPayload(logger *zap.Logger) gin.HandlerFunc {
	return withSession(func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator) {
		payload, err := orch.Payload()
		if err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, payload)
	})
}

func withSession(fn func(c *gin.Context, id uuid.UUID, orch *workflow.Orchestrator)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, orch, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		fn(c, id, orch)
	}
}
