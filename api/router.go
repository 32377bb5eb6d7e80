package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter registers every API endpoint on a chi router
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/ledgers/{identity}", func(rr chi.Router) {
		rr.Get("/", h.GetLedger)
		rr.Post("/rounds", h.PlayRound)
		rr.Get("/purchases", h.ListPurchases)
		rr.Post("/purchases", h.BuyPackage)
		rr.Post("/cashouts", h.Cashout)
	})

	r.Get("/cashouts/quote", h.QuoteCashout)
	r.Get("/packages", h.ListPackages)
	r.Get("/catalog", h.GetCatalog)
	r.Get("/catalog/odds", h.GetCatalogOdds)
	r.Get("/pool", h.GetPool)

	return r
}
