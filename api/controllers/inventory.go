package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/api/validators"
	"github.com/angelmondragon/orderdesk/internal/inventory"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

type inventoryItemRequest struct {
	ItemName     string           `json:"item_name" validate:"max=255"`
	Quantity     *int             `json:"quantity"`
	SupplierName string           `json:"supplier_name" validate:"max=255"`
	Price        *decimal.Decimal `json:"price"`
	Store        string           `json:"store" validate:"max=255"`
}

func (r inventoryItemRequest) toInput() inventory.ItemInput {
	return inventory.ItemInput{
		ItemName:     r.ItemName,
		Quantity:     r.Quantity,
		SupplierName: r.SupplierName,
		Price:        r.Price,
		Store:        r.Store,
	}
}

type stockAmountRequest struct {
	Quantity int `json:"quantity"`
}

type transferRequest struct {
	Quantity   int    `json:"quantity"`
	FromBranch string `json:"from_branch"`
	ToBranch   string `json:"to_branch" validate:"required"`
}

func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventoryItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Save(r.Context(), 0, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload inventoryItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Save(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// InventoryIssue takes stock out of an item.
func InventoryIssue(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload stockAmountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Issue(r.Context(), id, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// InventoryRequest asks for stock to be sent to the caller's branch.
func InventoryRequest(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload stockAmountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Request(r.Context(), id, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{"item_id": id, "requested": payload.Quantity})
	}
}

func InventoryTransfer(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload transferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err = svc.Transfer(r.Context(), id, inventory.TransferInput{
			Amount:     payload.Quantity,
			FromBranch: payload.FromBranch,
			ToBranch:   payload.ToBranch,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"item_id":     id,
			"transferred": payload.Quantity,
			"to_branch":   payload.ToBranch,
		})
	}
}
