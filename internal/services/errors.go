package services

import (
	"errors"

	"github.com/swapcycle/apiserver/apperr"
	"github.com/swapcycle/apiserver/internal/store"
)

// translateStoreErr lifts a store failure into the error taxonomy.
// The not-found and conflict messages are entity-specific; everything
// else is internal.
func translateStoreErr(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(notFoundMsg)
	case errors.Is(err, store.ErrConflict):
		return apperr.Conflict(conflictMsg)
	default:
		return apperr.Internal(err)
	}
}

// ownerOnly rejects callers that do not own the resource. Shared by the
// listing and offer services so the ownership rule lives in one place.
func ownerOnly(callerID, ownerID int) error {
	if callerID != ownerID {
		return apperr.Forbidden("not the owner")
	}
	return nil
}
