package middleware

import (
	"net/http"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/internal/navigation"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// RequireSection lets the request through only when the caller's role may open section.
func RequireSection(section enums.Section, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, ok := pkgAuth.CredentialsFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthenticated("missing credentials"))
				return
			}
			if !navigation.CanAccess(creds.Role, section) {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "section not available for role").
					WithDetails(map[string]any{"section": section, "role": creds.Role})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
