package errors

import "fmt"

// Constructors for the order-desk failure taxonomy. Item ids are exposed under details["item_id"].

func InvalidQuantity(quantity int) *Error {
	return New(CodeInvalidQuantity, fmt.Sprintf("quantity %d is below 1", quantity)).
		WithDetails(map[string]any{"quantity": quantity})
}

func InsufficientStock(itemID int64, requested, available int) *Error {
	return New(CodeInsufficientStock, fmt.Sprintf("only %d units available for item %d", available, itemID)).
		WithDetails(map[string]any{
			"item_id":   itemID,
			"requested": requested,
			"available": available,
		})
}

func NotFound(itemID int64) *Error {
	return New(CodeNotFound, fmt.Sprintf("item %d not found", itemID)).
		WithDetails(map[string]any{"item_id": itemID})
}

func EmptyCart() *Error {
	return New(CodeEmptyCart, "cart contains no items")
}

func Unauthenticated(reason string) *Error {
	return New(CodeUnauthenticated, reason)
}

func AlreadyInProgress() *Error {
	return New(CodeAlreadyInProgress, "a checkout is already running for this session")
}

// NetworkOrService reports a failed remote call; itemID is zero when the call is not tied to a line.
func NetworkOrService(itemID int64, cause error, message string) *Error {
	details := map[string]any{}
	if itemID != 0 {
		details["item_id"] = itemID
	}
	if typed := As(cause); typed != nil {
		if dm, ok := typed.Details().(map[string]any); ok {
			for k, v := range dm {
				if _, exists := details[k]; !exists {
					details[k] = v
				}
			}
		}
	}
	return Wrap(CodeDependency, cause, message).WithDetails(details)
}

// ItemID extracts the item id attached to a taxonomy error, if any.
func ItemID(err error) (int64, bool) {
	typed := As(err)
	if typed == nil {
		return 0, false
	}
	dm, ok := typed.Details().(map[string]any)
	if !ok {
		return 0, false
	}
	id, ok := dm["item_id"].(int64)
	return id, ok
}
