package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/security/validation"
	"github.com/username/stockledger/src/services"
	"github.com/username/stockledger/src/utils"
)

// writeServiceError maps service errors onto responses: validation failures
// are 400, missing records 404, and everything else a logged 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	if fields, ok := validation.AsFieldErrors(err); ok {
		utils.SendJSONFieldErrors(w, fields)
		return
	}
	if errors.Is(err, validation.ErrValidationFailed) {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		logger.WarnFromContext(r.Context(), "Resource not found", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	logger.ErrorFromContext(r.Context(), fallbackMsg, "error", err)
	utils.SendJSONError(w, fallbackMsg, http.StatusInternalServerError)
}

// pathID parses the {id} URL parameter. It writes a 404 and returns false
// when the parameter is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Not found.", http.StatusNotFound)
		return 0, false
	}
	return id, true
}
