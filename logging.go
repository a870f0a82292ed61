package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// newLogger builds the process logger: JSON in release mode, text otherwise.
func newLogger(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stdout
	l.Level = level
	if gin.Mode() == gin.ReleaseMode {
		l.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	return l
}

// requestLogging attaches a request-scoped logger carrying request_id, method
// and path, echoes the id in X-Request-ID, and logs one line per request.
func requestLogging(base logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		log := base.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, log)
		c.Header(requestIDHeader, id)

		c.Next()

		log.WithFields(logrus.Fields{
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request served")
	}
}

// requestLogger returns the logger set by requestLogging, or the standard
// logger when the middleware did not run (tests, background work).
func requestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
