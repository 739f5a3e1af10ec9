// Package handlers provides HTTP handlers for the JSON API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/pkg/errors"
)

var validate = validator.New()

// errorResponse is the wire shape of every error payload.
type errorResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message,omitempty"`
	Field       string `json:"field,omitempty"`
	CheckoutKey string `json:"checkoutKey,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps an application error to its HTTP status and payload.
// Unknown errors are reported as internal without leaking their message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := errors.Wrap(err, "request failed")

	body := errorResponse{
		Error:   string(appErr.Code),
		Message: appErr.Message,
	}
	if field, ok := appErr.Metadata["field"].(string); ok {
		body.Field = field
	}
	if key, ok := appErr.Metadata["checkout_key"].(string); ok {
		body.CheckoutKey = key
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", string(appErr.Code)), zap.Error(appErr))
		body.Message = "An unexpected error occurred"
	}

	writeJSON(w, logger, status, body)
}

func writeBadRequest(w http.ResponseWriter, logger *zap.Logger, message string) {
	writeError(w, logger, errors.NewAppError(errors.CodeBadRequest, message, ""))
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewAppError(errors.CodeBadRequest, "Invalid JSON payload", "")
	}
	return nil
}

// decodeAndValidate decodes the body and checks the struct's validate tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
