package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/pkg/errors"
)

// respondError maps a typed error to its HTTP status and writes it
func respondError(c *gin.Context, err error, logger *zap.Logger) {
	var (
		notFound   *errors.ErrNotFound
		validation *errors.ErrValidation
		precond    *errors.ErrPrecondition
		conflict   *errors.ErrConflict
		transition *errors.ErrInvalidStateTransition
		transport  *errors.ErrTransport
	)

	switch {
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stderrors.As(err, &validation):
		body := gin.H{"error": err.Error()}
		if len(validation.Fields) > 0 {
			body["fields"] = validation.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case stderrors.As(err, &precond):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": precond.Reason})
	case stderrors.As(err, &conflict), stderrors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &transport):
		logger.Warn("Catalog call failed", zap.String("op", transport.Op), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": transport.UserMessage(err.Error())})
	default:
		logger.Error("Request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
