package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/sellerdesk/lazgate/internal/accounts"
	"github.com/sellerdesk/lazgate/internal/db/models"
	"github.com/sellerdesk/lazgate/internal/lazada"
)

// AccountView is the dashboard-safe projection of a stored account. Tokens
// stay server-side.
type AccountView struct {
	ID             string    `json:"id"`
	SellerID       string    `json:"seller_id"`
	Account        string    `json:"account"`
	Country        string    `json:"country"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	AddedAt        time.Time `json:"added_at"`
	IsActive       bool      `json:"is_active"`
	IsExpired      bool      `json:"is_expired"`
}

func accountView(store *accounts.Store, acc *models.Account, activeID string) AccountView {
	return AccountView{
		ID:             acc.ID,
		SellerID:       acc.SellerID,
		Account:        acc.Account,
		Country:        acc.Country,
		TokenExpiresAt: acc.TokenExpiresAt,
		AddedAt:        acc.AddedAt,
		IsActive:       acc.ID == activeID,
		IsExpired:      store.IsExpired(acc),
	}
}

// ListAccountsHandler returns every connected account in insertion order.
func ListAccountsHandler(store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accs, err := store.List()
		if err != nil {
			writeError(w, err)
			return
		}

		activeID := ""
		if active, err := store.GetActive(); err == nil && active != nil {
			activeID = active.ID
		}

		views := make([]AccountView, 0, len(accs))
		for i := range accs {
			views = append(views, accountView(store, &accs[i], activeID))
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accounts": views,
			"count":    len(views),
		})
	}
}

// RemoveAccountHandler deletes one account. Unknown ids succeed silently.
func RemoveAccountHandler(store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Remove(id); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("id", id).Msg("account removed")
		writeJSON(w, http.StatusOK, map[string]string{"removed": id})
	}
}

// ActivateAccountHandler marks one account as the active default.
func ActivateAccountHandler(store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := store.SetActive(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("id", acc.ID).Str("account", acc.Account).Msg("active account changed")
		writeJSON(w, http.StatusOK, accountView(store, acc, acc.ID))
	}
}

// ActiveAccountHandler returns the active account, or null when none is set.
func ActiveAccountHandler(store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := store.GetActive()
		if err != nil {
			writeError(w, err)
			return
		}
		if acc == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"active": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"active": accountView(store, acc, acc.ID),
		})
	}
}

// ClearAccountsHandler removes every account and the active pointer.
func ClearAccountsHandler(store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearAll(); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Msg("all accounts cleared")
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// RefreshAccountHandler performs an explicit, caller-invoked refresh-token
// exchange for one account and stores the new tokens. Nothing calls this
// automatically on expiry; reconnecting is always a deliberate action.
func RefreshAccountHandler(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := store.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}

		tok, err := client.RefreshAccessToken(r.Context(), acc.RefreshToken)
		if err != nil {
			log.Error().Err(err).Str("id", acc.ID).Msg("manual refresh failed")
			writeError(w, err)
			return
		}

		updated, err := store.Upsert(tok)
		if err != nil {
			writeError(w, err)
			return
		}

		activeID := ""
		if active, err := store.GetActive(); err == nil && active != nil {
			activeID = active.ID
		}
		log.Info().Str("id", updated.ID).Msg("token refreshed")
		writeJSON(w, http.StatusOK, accountView(store, updated, activeID))
	}
}
