package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/requestid"
	"github.com/angelmondragon/orderdesk/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// PublicError converts err into the payload shown to callers along with its HTTP status.
func PublicError(err error) (types.APIError, int) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeInternal, pkgerrors.CodeDependency:
	default:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	apiErr := types.APIError{
		Code:    string(typed.Code()),
		Message: msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			apiErr.Details = details
		}
	}
	return apiErr, meta.HTTPStatus
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	apiErr, status := PublicError(err)
	LogError(ctx, logg, status, err)
	writeJSON(w, status, types.ErrorEnvelope{Error: apiErr, RequestID: requestid.From(ctx)})
}

// LogError records err with its flattened chain. Client errors are logged as warnings.
func LogError(ctx context.Context, logg *logger.Logger, status int, err error) {
	if logg == nil || err == nil {
		return
	}
	dump := pkgerrors.Dump(err)
	fields := map[string]any{
		"error":       dump.TopMessage,
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
		"status":      status,
		"retryable":   dump.Retryable,
	}
	if dump.ItemID != 0 {
		fields["item_id"] = dump.ItemID
	}
	ctx = logg.WithFields(ctx, fields)
	if status >= http.StatusInternalServerError {
		logg.Error(ctx, "request.error", err)
		return
	}
	logg.Warn(ctx, "request.rejected")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
