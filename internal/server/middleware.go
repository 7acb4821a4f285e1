package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/pkg/telemetry"
)

const (
	// HeaderBusiness selects the tenant a request operates on.
	HeaderBusiness  = "X-Business-ID"
	HeaderRequestID = "X-Request-ID"
)

// RequestID propagates an inbound request id or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger emits one structured line per request and feeds the API
// metrics.
func RequestLogger(log *zap.Logger, metrics *telemetry.Metrics) gin.HandlerFunc {
	accessLog := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.ObserveAPIRequest(c.Request.Method, route, statusLabel(status), duration)
		accessLog.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

// BusinessContext resolves the tenant from the X-Business-ID header,
// falling back to the configured default business, and stores it on the
// request context for the services.
func (s *Server) BusinessContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderBusiness))
		if raw == "" {
			raw = strings.TrimSpace(c.Query("business_id"))
		}

		var businessID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("business_id", "invalid_business", "invalid business id"))
				return
			}
			businessID = parsed
		} else if s.cfg.DefaultBusinessID != 0 {
			businessID = snowflake.ID(s.cfg.DefaultBusinessID)
		} else {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := bizcontext.WithBusinessID(c.Request.Context(), int64(businessID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RateLimit throttles requests per business when the redis limiter is
// configured. Limiter errors fail open so a redis outage does not take
// the API down with it.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		businessID, ok := bizcontext.BusinessIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := s.limiter.AllowBusiness(c.Request.Context(), businessID.String())
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds()+1)))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: errorPayload{
				Type:    "rate_limited",
				Message: "too many requests",
			}})
			return
		}
		c.Next()
	}
}
