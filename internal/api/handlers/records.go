package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/repository"
)

// HandleListRecords handles GET /v1/records?accountId=&id=&title=&page=&size=
func HandleListRecords(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repos.CommitRecord == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commit journal is not configured"})
			return
		}

		filter := domain.CommitRecordFilter{
			Title: c.Query("title"),
			Page:  1,
			Size:  20,
		}
		if v := c.Query("accountId"); v != "" {
			accountID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accountId"})
				return
			}
			filter.AccountID = accountID
		}
		if v := c.Query("id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
				return
			}
			filter.ID = &id
		}
		if v := c.Query("page"); v != "" {
			if p, err := strconv.Atoi(v); err == nil && p > 0 {
				filter.Page = p
			}
		}
		if v := c.Query("size"); v != "" {
			if s, err := strconv.Atoi(v); err == nil && s > 0 && s <= 200 {
				filter.Size = s
			}
		}

		records, total, err := repos.CommitRecord.List(c.Request.Context(), filter)
		if err != nil {
			logger.Error("Failed to list commit records", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list records"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":  records,
			"total": total,
			"page":  filter.Page,
			"size":  filter.Size,
		})
	}
}
