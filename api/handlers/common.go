package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"ministore/core/accounts"
	"ministore/core/cart"
	"ministore/core/catalog"
	"ministore/core/mailer"
	"ministore/core/orders"
	"ministore/core/store"
	"ministore/core/utils"
)

const (
	SessionCookieName = "ministore_session"
	CartCookieName    = "ministore_cart"

	maxBodyBytes = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeErrorMessage(w, http.StatusBadRequest, "bad request")
		return false
	}
	return true
}

// writeServiceError maps domain errors to HTTP responses. Anything unknown
// is logged and reported as a 500 without details.
func writeServiceError(w http.ResponseWriter, logger *utils.Logger, err error) {
	var verrs utils.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs.Messages()})
	case errors.Is(err, accounts.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, accounts.ErrDuplicateIdentifier):
		writeJSON(w, http.StatusConflict, map[string]any{"errors": map[string]string{"id": "This ID is already taken."}})
	case errors.Is(err, accounts.ErrProtectedAccount):
		writeErrorMessage(w, http.StatusForbidden, "The root administrator cannot be changed this way.")
	case errors.Is(err, accounts.ErrInvalidTransition):
		writeErrorMessage(w, http.StatusConflict, "The account is not in a state that allows this action.")
	case errors.Is(err, catalog.ErrOutOfStock):
		writeErrorMessage(w, http.StatusConflict, "This product is out of stock.")
	case errors.Is(err, cart.ErrEmptyCart):
		writeErrorMessage(w, http.StatusBadRequest, "Your cart is empty.")
	case errors.Is(err, mailer.ErrMissingFields):
		writeErrorMessage(w, http.StatusBadRequest, "Please fill in all fields.")
	case errors.Is(err, store.ErrStaleRevision):
		writeErrorMessage(w, http.StatusConflict, "The data changed while saving. Please retry.")
	default:
		if logger != nil {
			logger.Errorf("request failed: %v", err)
		}
		writeErrorMessage(w, http.StatusInternalServerError, "server error")
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return v
}
