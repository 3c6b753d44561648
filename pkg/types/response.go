package types

// SuccessEnvelope wraps every 2xx desk API payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of a pkg/errors value. Details carry item ids, violations and
// missing field names for the desk UI.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx payload. RequestID echoes X-Request-Id so a desk user can
// quote it when reporting a failed checkout.
type ErrorEnvelope struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
}
