package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/edit"
	"github.com/jafarshop/productconsole/internal/repository"
)

// SaveSearchStateRequest represents the last search of a console client
type SaveSearchStateRequest struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	AccountID int64  `json:"accountId"`
}

// HandleGetSearchState handles GET /v1/search-state/:key
func HandleGetSearchState(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.Param("key"))
		state, err := repos.SearchState.Load(c.Request.Context(), key)
		if err != nil {
			logger.Error("Failed to load search state", zap.Error(err), zap.String("key", key))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load search state"})
			return
		}
		if state == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no search state"})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// HandleSaveSearchState handles PUT /v1/search-state/:key
func HandleSaveSearchState(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.Param("key"))
		var req SaveSearchStateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		state := &domain.SearchState{
			ProductID: edit.Canonicalize(req.ProductID),
			Title:     strings.TrimSpace(req.Title),
			AccountID: req.AccountID,
			UpdatedAt: time.Now(),
		}
		if err := repos.SearchState.Save(c.Request.Context(), key, state); err != nil {
			logger.Error("Failed to save search state", zap.Error(err), zap.String("key", key))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save search state"})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}
