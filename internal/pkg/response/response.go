package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func List(c *gin.Context, data interface{}, total, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     data,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes the envelope for err. Internal errors are logged and their
// message hidden from the client.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	code := apperror.CodeOf(err)
	status := apperror.HTTPStatus(code)

	message := err.Error()
	if code == apperror.CodeInternal {
		if log != nil {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		message = "internal server error"
	} else {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	}

	Abort(c, status, code, message)
}

func Abort(c *gin.Context, status int, code apperror.Code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c *gin.Context, err error) {
	Abort(c, http.StatusBadRequest, apperror.CodeValidation, err.Error())
}
