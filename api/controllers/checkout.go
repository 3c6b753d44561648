package controllers

import (
	"net/http"

	"github.com/angelmondragon/orderdesk/api/responses"
	"github.com/angelmondragon/orderdesk/api/validators"
	"github.com/angelmondragon/orderdesk/internal/checkout"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/angelmondragon/orderdesk/pkg/types"
)

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=32"`
}

type lineResultResponse struct {
	Line          cartLineResponse    `json:"line"`
	TransactionID string              `json:"transaction_id"`
	Order         *models.OrderRecord `json:"order,omitempty"`
	StockAfter    *int                `json:"stock_after,omitempty"`
	Error         *types.APIError     `json:"error,omitempty"`
}

type checkoutResponse struct {
	Outcome   enums.CheckoutOutcome `json:"outcome"`
	Succeeded []lineResultResponse  `json:"succeeded"`
	Failed    *lineResultResponse   `json:"failed,omitempty"`
	Pending   []cartLineResponse    `json:"pending"`
	Reason    *types.APIError       `json:"reason,omitempty"`
	Warning   *types.APIError       `json:"warning,omitempty"`
	Cart      cartResponse          `json:"cart"`
}

func newLineResultResponse(lr checkout.LineResult) lineResultResponse {
	out := lineResultResponse{
		Line:          newCartLineResponse(lr.Line),
		TransactionID: lr.TransactionID,
		Order:         lr.Order,
		StockAfter:    lr.StockAfter,
	}
	if lr.Err != nil {
		apiErr, _ := responses.PublicError(lr.Err)
		out.Error = &apiErr
	}
	return out
}

// Checkout submits the caller's cart. Completed answers 200, PartiallyFailed 409 and Rejected the
// status of its reason; the body always carries the full result.
func Checkout(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := currentSession(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := s.Checkout.Submit(r.Context(), checkout.Request{PaymentMethod: payload.PaymentMethod})
		if result == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body := checkoutResponse{
			Outcome:   result.Outcome,
			Succeeded: make([]lineResultResponse, 0, len(result.Succeeded)),
			Pending:   newCartLinesResponse(result.Pending),
			Cart:      newCartResponse(s.Cart),
		}
		for _, lr := range result.Succeeded {
			body.Succeeded = append(body.Succeeded, newLineResultResponse(lr))
		}
		if result.Failed != nil {
			failed := newLineResultResponse(*result.Failed)
			body.Failed = &failed
		}
		if result.RefreshErr != nil {
			warning, _ := responses.PublicError(pkgerrors.NetworkOrService(0, result.RefreshErr, "refresh catalog"))
			body.Warning = &warning
		}

		status := http.StatusOK
		if result.Reason != nil {
			reason, reasonStatus := responses.PublicError(result.Reason)
			body.Reason = &reason
			responses.LogError(r.Context(), logg, reasonStatus, result.Reason)
			status = reasonStatus
			if result.Outcome == enums.CheckoutOutcomePartiallyFailed {
				status = http.StatusConflict
			}
		}
		responses.WriteSuccessStatus(w, status, body)
	}
}
