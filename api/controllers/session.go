package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/internal/session"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// Sessions hands out the per-user desk session.
type Sessions interface {
	Get(username string) (*session.Session, error)
	Drop(username string) bool
}

// TokenRevoker signs an access token out before it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

func currentSession(r *http.Request, sessions Sessions) (*session.Session, pkgAuth.Credentials, error) {
	if sessions == nil {
		return nil, pkgAuth.Credentials{}, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable")
	}
	creds, ok := pkgAuth.CredentialsFromContext(r.Context())
	if !ok || creds.Username == "" {
		return nil, pkgAuth.Credentials{}, pkgerrors.Unauthenticated("missing credentials")
	}
	s, err := sessions.Get(creds.Username)
	if err != nil {
		return nil, creds, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
	}
	return s, creds, nil
}

// ensureCatalog loads the snapshot on first use so cart edits can be checked against stock.
func ensureCatalog(ctx context.Context, s *session.Session) error {
	if !s.Catalog.FetchedAt().IsZero() {
		return nil
	}
	if err := s.Catalog.Refresh(ctx); err != nil {
		return pkgerrors.NetworkOrService(0, err, "load catalog")
	}
	return nil
}

// SessionLogout revokes the caller's token id and discards the session along with its cart.
// revoker may be nil when no shared store is configured.
func SessionLogout(sessions Sessions, revoker TokenRevoker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := pkgAuth.CredentialsFromContext(r.Context())
		if !ok || creds.Username == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthenticated("missing credentials"))
			return
		}

		revoked := false
		if revoker != nil && creds.TokenID != "" {
			if err := revoker.Revoke(r.Context(), creds.TokenID, creds.ExpiresAt); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.NetworkOrService(0, err, "revoke token"))
				return
			}
			revoked = true
		}

		dropped := false
		if sessions != nil {
			dropped = sessions.Drop(creds.Username)
		}
		if logg != nil {
			logg.Info(logg.WithFields(r.Context(), map[string]any{
				"token_revoked":   revoked,
				"session_dropped": dropped,
			}), "session.logout")
		}
		responses.WriteSuccess(w, map[string]any{
			"signed_out":    true,
			"token_revoked": revoked,
		})
	}
}
