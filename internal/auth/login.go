// Package auth handles the browser-facing side of the marketplace
// authorization flow: producing the consent URL and finishing the callback.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/sellerdesk/lazgate/internal/config"
)

// stateToken protects the callback against CSRF. Regenerated per process.
var stateToken = uuid.NewString()

// AuthorizationURL builds the marketplace consent URL the seller must visit
// before any token exchange can happen. Only the authorize side of the flow
// is standard OAuth; the exchange itself goes through the signed client.
func AuthorizationURL(cfg *config.Config) string {
	oc := &oauth2.Config{
		ClientID:    cfg.AppKey,
		RedirectURL: cfg.RedirectURL,
		Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthURL},
	}
	return oc.AuthCodeURL(stateToken, oauth2.SetAuthURLParam("force_auth", "true"))
}

// StateToken returns the current CSRF state token for validation.
func StateToken() string {
	return stateToken
}

// HandleLogin redirects the browser to the marketplace consent page.
func HandleLogin(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, AuthorizationURL(cfg), http.StatusTemporaryRedirect)
	}
}

// AuthURLHandler returns the consent URL as JSON for dashboards that open the
// consent page themselves.
func AuthURLHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"url": AuthorizationURL(cfg)})
	}
}
