package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Hint    string `json:"hint,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
	})
}

// WriteDomainError maps a serrors.Base to its JSON envelope, falling
// back to a generic 500 for everything else.
func WriteDomainError(w http.ResponseWriter, status int, err error) error {
	var base *serrors.Base
	if errors.As(err, &base) {
		return WriteJSON(w, status, &ErrorEnvelope{
			Code:    base.Code,
			Message: base.Message,
			Hint:    base.Hint,
		})
	}
	return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
