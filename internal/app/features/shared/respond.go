// Package shared holds the JSON plumbing common to the feature
// handlers: response encoding, request decoding with validation, and
// the mapping from error kinds to HTTP status codes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apierr.Kind) int {
	switch kind {
	case apierr.Validation, apierr.InvalidField, apierr.InvalidRole:
		return http.StatusBadRequest
	case apierr.Unauthenticated:
		return http.StatusUnauthorized
	case apierr.Forbidden:
		return http.StatusForbidden
	case apierr.NotFound:
		return http.StatusNotFound
	case apierr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error response. Internal errors are logged
// and masked; tagged errors pass their message through.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(apierr.KindOf(err))
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		JSON(w, status, errorBody{Error: "internal error"})
		return
	}
	JSON(w, status, errorBody{Error: err.Error()})
}

// Decode reads the request body into dst and runs struct validation.
// Failures come back as Validation errors ready for Error.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierr.Wrap(apierr.Validation, err, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apierr.New(apierr.Validation, "invalid request: field %s failed on %s", verrs[0].Field(), verrs[0].Tag())
		}
		return apierr.Wrap(apierr.Validation, err, "invalid request")
	}
	return nil
}
