package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type earnRequest struct {
	PlayerID   string `json:"player_id"`
	TemplateID string `json:"template_id"`
	Source     string `json:"source,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (h *Handler) EarnReward(w http.ResponseWriter, r *http.Request) {
	var req earnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" || req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "player_id and template_id are required")
		return
	}

	inst := h.engine.EarnReward(req.PlayerID, req.TemplateID, req.Source, req.Reason)
	if inst == nil {
		// unknown template and failed eligibility are indistinguishable
		writeError(w, http.StatusNotFound, "reward not available")
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (h *Handler) EarnRandomReward(w http.ResponseWriter, r *http.Request) {
	var req earnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	inst := h.engine.EarnRandomReward(req.PlayerID, req.Source, req.Reason)
	if inst == nil {
		writeError(w, http.StatusNotFound, "reward not available")
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (h *Handler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")
	if !h.engine.ClaimReward(instanceID) {
		writeError(w, http.StatusNotFound, "unknown or already claimed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"claimed": true})
}

func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	unclaimedOnly := r.URL.Query().Get("unclaimed") == "true"
	writeJSON(w, http.StatusOK, h.engine.Rewards.ListForPlayer(playerID, unclaimedOnly))
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	writeJSON(w, http.StatusOK, h.engine.Players.Get(playerID))
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	writeJSON(w, http.StatusOK, h.engine.Wallet.State(playerID))
}

func (h *Handler) DailyStatus(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	writeJSON(w, http.StatusOK, map[string]any{
		"can_claim": h.engine.CanClaimDaily(playerID),
		"next":      h.engine.Daily.Next(playerID),
		"cycle_len": h.engine.Daily.Length(),
	})
}

func (h *Handler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	entry, ok := h.engine.ClaimDaily(playerID)
	if !ok {
		writeError(w, http.StatusConflict, "daily reward on cooldown")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	writeJSON(w, http.StatusOK, h.engine.Achievements.ListForPlayer(playerID))
}

type reportRequest struct {
	PlayerID      string `json:"player_id"`
	AchievementID string `json:"achievement_id"`
	Delta         int    `json:"delta"`
}

func (h *Handler) ReportAchievement(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" || req.AchievementID == "" {
		writeError(w, http.StatusBadRequest, "player_id and achievement_id are required")
		return
	}

	// Unknown ids are a silent no-op in the tracker; report accepted.
	h.engine.ReportAchievement(req.PlayerID, req.AchievementID, req.Delta)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reported"})
}

func (h *Handler) ListShopItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Shop.Catalog().List())
}

func (h *Handler) FeaturedShopItems(w http.ResponseWriter, r *http.Request) {
	count := 3
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}
	writeJSON(w, http.StatusOK, h.engine.Shop.Featured(count))
}

type purchaseRequest struct {
	PlayerID string `json:"player_id"`
	ItemID   string `json:"item_id"`
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.engine.Purchase(req.PlayerID, req.ItemID) {
		writeError(w, http.StatusConflict, "unknown item or insufficient funds")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"purchased": true})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -7)
	if v := r.URL.Query().Get("since"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			since = t
		}
	}
	writeJSON(w, http.StatusOK, h.engine.EventLog.CalculateStats(since))
}
