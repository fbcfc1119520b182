package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lootvault/internal/engine"
)

// Handler serves the economy engine over JSON HTTP.
type Handler struct {
	engine *engine.Engine
}

// New builds the router. The HTTP surface is a thin shell; all rules
// live in the engine.
func New(e *engine.Engine) http.Handler {
	h := &Handler{engine: e}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rewards", func(r chi.Router) {
			r.Post("/earn", h.EarnReward)
			r.Post("/earn-random", h.EarnRandomReward)
			r.Post("/{instanceID}/claim", h.ClaimReward)
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/rewards", h.ListRewards)
			r.Get("/progress", h.GetProgress)
			r.Get("/wallet", h.GetWallet)
			r.Get("/daily", h.DailyStatus)
			r.Post("/daily/claim", h.ClaimDaily)
			r.Get("/achievements", h.ListAchievements)
		})

		r.Post("/achievements/report", h.ReportAchievement)

		r.Route("/shop", func(r chi.Router) {
			r.Get("/items", h.ListShopItems)
			r.Get("/featured", h.FeaturedShopItems)
			r.Post("/purchase", h.Purchase)
		})

		r.Get("/stats", h.Stats)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
