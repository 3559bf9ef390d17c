package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/workflow"
)

// HandleListAccounts handles GET /v1/accounts
func HandleListAccounts(accounts workflow.AccountLister, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := accounts.ListAccounts(c.Request.Context())
		if err != nil {
			respondError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}
