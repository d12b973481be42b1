package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	adminKey        = "admin"
)

// InitSentry enables error reporting. An empty dsn leaves reporting off.
func InitSentry(dsn string, environment string) error {
	if dsn == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// requestLogger logs every request with zap and tags it with a request id.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error("Request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Debug("Request handled", fields...)
	}
}

// reportErrors sends the errors attached to the request to Sentry, if Sentry is configured.
func reportErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		hub := sentry.CurrentHub()
		if len(c.Errors) == 0 || hub == nil || hub.Client() == nil {
			return
		}
		for _, ginErr := range c.Errors {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetExtra("endpoint", c.Request.URL.Path)
				scope.SetExtra("method", c.Request.Method)
				scope.SetExtra("status", c.Writer.Status())
				scope.SetTag("request_id", c.Writer.Header().Get(requestIDHeader))
				hub.CaptureException(ginErr.Err)
			})
		}
	}
}

// requireAdmin rejects requests of visitors that have not entered the admin password.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You are not authorized to delete data."})
			return
		}
		c.Next()
	}
}

func isAdmin(c *gin.Context) bool {
	admin, _ := sessions.Default(c).Get(adminKey).(bool)
	return admin
}

// flashes returns and clears the pending messages of the given kind.
func flashes(session sessions.Session, kind string) []string {
	var messages []string
	for _, f := range session.Flashes(kind) {
		if s, ok := f.(string); ok && strings.TrimSpace(s) != "" {
			messages = append(messages, s)
		}
	}
	return messages
}
