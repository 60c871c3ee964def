package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sellerdesk/lazgate/internal/accounts"
	"github.com/sellerdesk/lazgate/internal/auth"
	"github.com/sellerdesk/lazgate/internal/config"
	"github.com/sellerdesk/lazgate/internal/db"
	"github.com/sellerdesk/lazgate/internal/lazada"
	"github.com/sellerdesk/lazgate/internal/logging"
	"github.com/sellerdesk/lazgate/internal/server/handlers"
	"github.com/sellerdesk/lazgate/internal/version"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LAZGATE_PRETTY_LOG") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load(os.Getenv("LAZGATE_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening credential store")
	}

	store := accounts.NewStore(database)
	client := lazada.NewClient(cfg.AppKey, cfg.AppSecret, cfg.APIBaseURL)

	r := chi.NewRouter()
	r.Use(logging.RequestID)
	r.Use(logging.AccessLog)
	r.Use(chimiddleware.Recoverer)

	// Authorization flow
	r.Get("/auth/login", auth.HandleLogin(cfg))
	r.Get("/auth/callback", auth.HandleCallback(client, store))

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/url", auth.AuthURLHandler(cfg))

		// Account management
		r.Get("/accounts", handlers.ListAccountsHandler(store))
		r.Delete("/accounts", handlers.ClearAccountsHandler(store))
		r.Get("/accounts/active", handlers.ActiveAccountHandler(store))
		r.Delete("/accounts/{id}", handlers.RemoveAccountHandler(store))
		r.Post("/accounts/{id}/activate", handlers.ActivateAccountHandler(store))
		r.Post("/accounts/{id}/refresh", handlers.RefreshAccountHandler(client, store))

		// Marketplace data
		r.Get("/orders", handlers.OrdersHandler(client, store))
		r.Get("/orders/{id}/items", handlers.OrderItemsHandler(client, store))
		r.Post("/orders/items", handlers.MultiOrderItemsHandler(client, store))
		r.Get("/seller/policy", handlers.SellerPolicyHandler(client, store))
		r.Get("/reports/overview", handlers.ReportOverviewHandler(client, store))
	})

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("version", version.Version).
		Msg("lazgate starting")

	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
