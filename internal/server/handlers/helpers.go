// Package handlers exposes the dashboard-facing JSON endpoints: account
// management plus thin passthroughs to the signed marketplace calls.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sellerdesk/lazgate/internal/accounts"
	"github.com/sellerdesk/lazgate/internal/db/models"
	"github.com/sellerdesk/lazgate/internal/lazada"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps core errors to transport status codes: rejected grants are
// 401, upstream transport failures 502, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var apiErr *lazada.APIError
	switch {
	case lazada.IsAuthorizationError(err):
		status = http.StatusUnauthorized
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	case errors.Is(err, accounts.ErrNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeResponse passes a platform response body through untouched. An
// application-level non-success code stays data: the dashboard decides what
// to do with it.
func writeResponse(w http.ResponseWriter, resp *lazada.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp.Raw)
}

// activeAccount resolves the account to use right now, failing with 401 when
// none is connected or active.
func activeAccount(w http.ResponseWriter, store *accounts.Store) (*models.Account, bool) {
	acc, err := store.GetActive()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if acc == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no active account"})
		return nil, false
	}
	return acc, true
}
