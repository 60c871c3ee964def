package auth

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sellerdesk/lazgate/internal/accounts"
	"github.com/sellerdesk/lazgate/internal/lazada"
)

// HandleCallback finishes one authorization attempt. The marketplace
// redirects back with either a one-time code or an error; a code is exchanged
// for tokens and, only on full success, written to the store and made the
// active account. No partial credential is ever stored.
func HandleCallback(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if errParam := query.Get("error"); errParam != "" {
			log.Warn().Str("error", errParam).Msg("authorization rejected by marketplace")
			renderResult(w, http.StatusBadRequest, "Authorization failed", errParam)
			return
		}

		code := query.Get("code")
		if code == "" {
			renderResult(w, http.StatusBadRequest, "Authorization failed", "no authorization code in callback")
			return
		}

		if state := query.Get("state"); state != "" && state != stateToken {
			renderResult(w, http.StatusBadRequest, "Authorization failed", "state token mismatch")
			return
		}

		tok, err := client.CreateAccessToken(r.Context(), code)
		if err != nil {
			log.Error().Err(err).Msg("token exchange failed")
			status := http.StatusBadGateway
			if lazada.IsAuthorizationError(err) {
				status = http.StatusUnauthorized
			}
			renderResult(w, status, "Token exchange failed", err.Error())
			return
		}

		acc, err := store.Upsert(tok)
		if err != nil {
			log.Error().Err(err).Msg("storing account failed")
			renderResult(w, http.StatusInternalServerError, "Storing account failed", err.Error())
			return
		}
		if _, err := store.SetActive(acc.ID); err != nil {
			log.Error().Err(err).Msg("activating account failed")
			renderResult(w, http.StatusInternalServerError, "Activating account failed", err.Error())
			return
		}

		log.Info().
			Str("id", acc.ID).
			Str("account", acc.Account).
			Str("country", acc.Country).
			Msg("account connected")
		renderResult(w, http.StatusOK, "Account connected", fmt.Sprintf("%s (%s)", acc.Account, acc.Country))
	}
}

func renderResult(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta http-equiv="refresh" content="3;url=/">
	<title>%s</title>
</head>
<body>
	<h1>%s</h1>
	<p>%s</p>
	<p>Redirecting to the dashboard...</p>
</body>
</html>`, title, title, detail)
}
