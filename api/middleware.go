package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// IdentityHeader carries the caller's email, set by the authenticating gateway.
const IdentityHeader = "X-User-Email"

const identityKey = "identity"

var identityValidator = validator.New()

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error(c.Request.Context(), "http request", attrs...)
			return
		}
		log.Info(c.Request.Context(), "http request", attrs...)
	}
}

// requireIdentity rejects requests without a well-formed identity header.
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader(IdentityHeader)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing " + IdentityHeader + " header"})
			return
		}
		if err := identityValidator.Var(email, "email"); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "malformed " + IdentityHeader + " header"})
			return
		}
		c.Set(identityKey, email)
		c.Next()
	}
}

func identity(c *gin.Context) string {
	return c.GetString(identityKey)
}
