package handler

import (
	"encoding/json"
	"net/http"

	"github.com/credisim/credisim-server/internal/model"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the failure taxonomy to transport status and shape. This
// is the only place HTTP semantics are decided for errors.
func writeError(w http.ResponseWriter, err error) {
	switch model.KindOf(err) {
	case model.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   model.KindValidation.String(),
			Message: err.Error(),
		})
	case model.KindAuthentication:
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:   model.KindAuthentication.String(),
			Message: err.Error(),
		})
	case model.KindConnection:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   model.KindConnection.String(),
			Message: err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   model.KindUnexpected.String(),
			Message: "An unexpected error occurred.",
		})
	}
}
