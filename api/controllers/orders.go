package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/api/validators"
	"github.com/angelmondragon/orderdesk/internal/orders"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/angelmondragon/orderdesk/pkg/pagination"
)

type orderListResponse struct {
	pagination.Page[models.OrderRecord]
	Search string      `json:"search,omitempty"`
	Sort   orders.Sort `json:"sort"`
}

type updateOrderRequest struct {
	CustomerName  string          `json:"customer_name" validate:"required,max=255"`
	ProductName   string          `json:"product_name" validate:"required,max=255"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TransactionID string          `json:"transaction_id" validate:"required,max=128"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Status        string          `json:"status" validate:"required"`
}

func (r updateOrderRequest) toInput() orders.UpdateInput {
	return orders.UpdateInput{
		CustomerName:  r.CustomerName,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		Price:         r.Price,
		TransactionID: r.TransactionID,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
	}
}

// OrdersList serves the order list screen with search, sort and paging applied. toggle=<key>
// applies a column-header click on top of the current sort/dir.
func OrdersList(svc orders.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pageSize <= 0 {
			pageSize = pagination.DefaultLimit
		}
		limit, err := validators.ParseQueryInt(r, "limit", pageSize, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		sort := orders.ParseSort(query.Get("sort"), query.Get("dir"))
		if key := query.Get("toggle"); key != "" {
			sort = sort.Toggle(key)
		}
		params := orders.ListParams{
			Search: validators.SearchTerm(r, "search", 128),
			Sort:   sort,
			Params: pagination.Params{Limit: limit, Page: page},
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{Page: result, Search: params.Search, Sort: params.Sort})
	}
}

func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Update(r.Context(), id, payload.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "updated": true})
	}
}

// OrderProcess marks an order Processed.
func OrderProcess(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.MarkProcessed(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "status": enums.OrderStatusProcessed})
	}
}

func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}
