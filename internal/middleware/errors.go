package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github-relay/internal/domain/account"
)

// ErrorHandler is the last line of error reporting. It answers requests whose
// handler attached an error without writing a response, and recovers panics.
// The stack trace is only included when exposeStack is set.
func ErrorHandler(log *logrus.Entry, exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("%v", r)
				respond(c, log, http.StatusInternalServerError, err, string(debug.Stack()), exposeStack)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		respond(c, log, account.HTTPStatus(err), err, "", exposeStack)
	}
}

func respond(c *gin.Context, log *logrus.Entry, status int, err error, stack string, exposeStack bool) {
	message := err.Error()
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}

	log.WithField("request_id", GetRequestID(c)).Errorf("%d - %s - %s - %s - %s",
		status, message, c.Request.URL.String(), c.Request.Method, c.ClientIP())

	body := gin.H{
		"success": false,
		"message": message,
	}
	if exposeStack && stack != "" {
		body["stack"] = stack
	}
	c.AbortWithStatusJSON(status, body)
}

// NotFound answers unmatched routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	}
}
