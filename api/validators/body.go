package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps desk API request bodies; cart, order and inventory payloads are a few fields.
const MaxBodyBytes = 64 << 10

var validate = newValidator()

// newValidator reports fields by their json names so details match the request payload.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSONBody decodes a required JSON payload into dest and validates it.
func DecodeJSONBody(r *http.Request, dest any) error {
	return decodeBody(r, dest, false)
}

// DecodeOptionalJSONBody is DecodeJSONBody for endpoints whose payload may be omitted. An empty
// body, chunked or not, leaves dest at its zero value before validation.
func DecodeOptionalJSONBody(r *http.Request, dest any) error {
	return decodeBody(r, dest, true)
}

func decodeBody(r *http.Request, dest any, optional bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		if !optional {
			return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
		}
		return validateStruct(dest)
	}
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dest)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && optional:
	case errors.Is(err, io.EOF):
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
				WithDetails(map[string]any{"limit_bytes": tooLarge.Limit})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return validateStruct(dest)
}

func validateStruct(dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "please fill all fields correctly").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
