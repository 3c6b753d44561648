package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/api/validators"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/auth/session"
	"github.com/angelmondragon/orderdesk/pkg/config"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// Auth validates the bearer token, refuses revoked token ids and seeds the request context with the
// caller's credentials. revocations may be nil when no shared store is configured.
func Auth(cfg config.JWTConfig, revocations session.RevocationChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token, time.Now())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if revocations != nil && claims.ID != "" {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.NetworkOrService(0, err, "check token revocation"))
					return
				}
				if revoked {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthenticated("session signed out"))
					return
				}
			}

			creds := pkgAuth.FromClaims(token, claims)
			ctx := pkgAuth.WithCredentials(r.Context(), creds)
			if logg != nil {
				ctx = logg.WithUsername(ctx, creds.Username)
				ctx = logg.WithRole(ctx, creds.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
