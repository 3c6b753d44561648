package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/api/validators"
	"github.com/angelmondragon/orderdesk/internal/cart"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

type cartLineResponse struct {
	ItemID    int64           `json:"item_id"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
}

func newCartLineResponse(line cart.Line) cartLineResponse {
	return cartLineResponse{
		ItemID:    line.ItemID,
		ItemName:  line.ItemName,
		UnitPrice: line.UnitPrice,
		Quantity:  line.Quantity,
		Subtotal:  line.Subtotal(),
	}
}

func newCartLinesResponse(lines []cart.Line) []cartLineResponse {
	out := make([]cartLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, newCartLineResponse(line))
	}
	return out
}

func newCartResponse(store *cart.Store) cartResponse {
	return cartResponse{
		Lines:     newCartLinesResponse(store.Lines()),
		Total:     store.Total(),
		ItemCount: store.ItemCount(),
	}
}

type addCartItemRequest struct {
	ItemID   int64 `json:"item_id" validate:"required,min=1"`
	Quantity int   `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func CartFetch(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

// CartAddItem puts an item in the cart, replacing the quantity when it is already there.
func CartAddItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := ensureCatalog(r.Context(), s); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := s.Cart.Add(payload.ItemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(s.Cart))
	}
}

func CartUpdateItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := s.Cart.UpdateQuantity(itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

// CartRemoveItem drops a line. Removing an item that is not in the cart is not an error.
func CartRemoveItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		s.Cart.Remove(itemID)
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

func CartClear(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		s.Cart.Clear()
		responses.WriteSuccess(w, newCartResponse(s.Cart))
	}
}

