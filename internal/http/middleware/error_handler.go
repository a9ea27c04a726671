package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phtrivia/phtrivia-backend/internal/logger"
	"github.com/phtrivia/phtrivia-backend/internal/pkg/apperror"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
)

// ErrorHandler turns errors attached to the gin context into responses,
// masking anything that smells internal.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request error")
		}

		statusCode := http.StatusInternalServerError
		message := "internal server error"

		var appErr *apperror.AppError
		switch {
		case errors.As(err.Err, &appErr):
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		case errors.Is(err.Err, repository.ErrUserNotFound):
			statusCode = http.StatusNotFound
			message = "user not found"
		case errors.Is(err.Err, repository.ErrQuestionNotFound):
			statusCode = http.StatusNotFound
			message = "question not found"
		case errors.Is(err.Err, repository.ErrWithdrawalNotFound):
			statusCode = http.StatusNotFound
			message = "withdrawal not found"
		case err.Error() != "" && !containsInternalKeywords(err.Error()):
			message = err.Error()
			if contains(message, "invalid") || contains(message, "required") {
				statusCode = http.StatusBadRequest
			} else if contains(message, "access denied") {
				statusCode = http.StatusForbidden
			}
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}

// containsInternalKeywords catches driver and runtime noise that must
// not leak to clients.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}
	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
