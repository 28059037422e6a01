package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swapcycle/apiserver/apperr"
	"github.com/swapcycle/apiserver/internal/services"
	"go.uber.org/zap"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func identityFromContext(ctx context.Context) (services.Identity, error) {
	identity, ok := ctx.Value(contextIdentityKey).(services.Identity)
	if !ok || identity.ID < 1 {
		return services.Identity{}, errors.New("missing identity")
	}
	return identity, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// respondError maps a taxonomy error to its HTTP status. Internal detail
// is logged server-side; the caller only ever sees a generic message.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	message := apperr.MessageOf(err)

	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		writeError(w, http.StatusBadRequest, message)
	case apperr.KindAuth:
		writeError(w, http.StatusUnauthorized, message)
	case apperr.KindForbidden:
		writeError(w, http.StatusForbidden, message)
	case apperr.KindNotFound:
		writeError(w, http.StatusNotFound, message)
	default:
		logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
