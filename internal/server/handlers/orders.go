package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sellerdesk/lazgate/internal/accounts"
	"github.com/sellerdesk/lazgate/internal/lazada"
)

// OrdersHandler lists the active account's orders, newest first.
func OrdersHandler(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := activeAccount(w, store)
		if !ok {
			return
		}

		limit := queryInt(r, "limit", 20)
		offset := queryInt(r, "offset", 0)

		resp, err := client.GetOrders(r.Context(), acc.AccessToken, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResponse(w, resp)
	}
}

// OrderItemsHandler fetches the line items of one order.
func OrderItemsHandler(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := activeAccount(w, store)
		if !ok {
			return
		}

		resp, err := client.GetOrderItems(r.Context(), acc.AccessToken, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeResponse(w, resp)
	}
}

// MultiOrderItemsHandler fetches line items for a batch of orders. The body
// is {"order_ids": [...]}; the id list is JSON-serialized into a single flat
// parameter before signing.
func MultiOrderItemsHandler(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := activeAccount(w, store)
		if !ok {
			return
		}

		var body struct {
			OrderIDs []string `json:"order_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(body.OrderIDs) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_ids is required"})
			return
		}

		resp, err := client.GetMultipleOrderItems(r.Context(), acc.AccessToken, body.OrderIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResponse(w, resp)
	}
}

// SellerPolicyHandler fetches the active account's policy tree (FFR lives
// under the logistic policy).
func SellerPolicyHandler(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := activeAccount(w, store)
		if !ok {
			return
		}

		resp, err := client.GetSellerPolicy(r.Context(), acc.AccessToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResponse(w, resp)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
