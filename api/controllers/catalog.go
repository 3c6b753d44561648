package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/api/validators"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/models"
)

type catalogResponse struct {
	Items     []models.CatalogItem `json:"items"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// CatalogList searches the caller's catalog snapshot, refreshing it on first use or when asked.
func CatalogList(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refresh, err := validators.ParseQueryBool(r, "refresh")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if refresh {
			if err := s.Catalog.Refresh(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.NetworkOrService(0, err, "refresh catalog"))
				return
			}
		} else if err := ensureCatalog(r.Context(), s); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := validators.SearchTerm(r, "q", 128)
		responses.WriteSuccess(w, catalogResponse{
			Items:     s.Catalog.Search(query),
			FetchedAt: s.Catalog.FetchedAt(),
		})
	}
}
