package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/orderdesk/api/responses"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// RateLimiterStore counts requests in fixed windows.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy caps how often one user may hit a route.
type RateLimitPolicy struct {
	name   string
	limit  int64
	window time.Duration
}

func NewRateLimitPolicy(name string, limit int64, window time.Duration) RateLimitPolicy {
	return RateLimitPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		limit:  limit,
		window: window,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.limit > 0 && p.window > 0
}

func (p RateLimitPolicy) scope(username string) string {
	name := p.name
	if name == "" {
		name = "default"
	}
	return name + ":" + strings.ToLower(username)
}

// UserRateLimit counts requests per signed-in user in fixed windows. A nil store disables it.
func UserRateLimit(policy RateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			creds, ok := pkgAuth.CredentialsFromContext(ctx)
			if !ok || creds.Username == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := store.FixedWindowAllow(ctx, policy.scope(creds.Username), policy.limit, policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.NetworkOrService(0, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"policy":         policy.name,
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					}), "rate_limit.blocked")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
