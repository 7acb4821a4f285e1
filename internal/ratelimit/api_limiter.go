// Package ratelimit throttles API traffic per business through a shared
// redis token bucket.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/smallbiznis/bizbook/internal/config"
)

const keyAPIBusiness = "api:business:%s"

// APILimiter throttles requests per business. A nil limiter allows
// everything, so deployments without redis keep working unchanged.
type APILimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewAPILimiter(cfg config.Config) (*APILimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.APIRate <= 0 || limitCfg.APIBurst <= 0 {
		return nil, errors.New("api rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &APILimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.APIRate,
		burst:   limitCfg.APIBurst,
	}, nil
}

func (l *APILimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowBusiness takes one token from the business bucket. When the limiter
// is disabled every request passes.
func (l *APILimiter) AllowBusiness(ctx context.Context, businessID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAPIBusiness, strings.TrimSpace(businessID)), l.rate, l.burst)
}
