package controllers

import (
	"net/http"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/internal/navigation"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

type navigationResponse struct {
	Username string `json:"username"`
	Branch   string `json:"branch,omitempty"`
	navigation.Menu
}

// Navigation returns the sections the caller's role may open and where to land after sign-in.
func Navigation(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := pkgAuth.CredentialsFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthenticated("missing credentials"))
			return
		}
		responses.WriteSuccess(w, navigationResponse{
			Username: creds.Username,
			Branch:   creds.Branch,
			Menu:     navigation.MenuFor(creds.Role),
		})
	}
}
