package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lootvault/internal/achievement"
	"lootvault/internal/clock"
	"lootvault/internal/config"
	"lootvault/internal/daily"
	"lootvault/internal/economy"
	"lootvault/internal/engine"
	"lootvault/internal/reward"
	"lootvault/internal/shop"
)

func newTestServer(t *testing.T) (*httptest.Server, *engine.Engine) {
	t.Helper()

	eng, err := engine.New(engine.Options{
		DataDir: t.TempDir(),
		Balance: config.Default(),
		Catalog: reward.NewCatalog([]reward.Template{
			{
				ID:   "level_win",
				Name: "Level Complete",
				Type: reward.TypeLevelComplete,
				Payouts: []reward.PayoutSpec{
					{CurrencyID: economy.CurrencyCoins, Amount: 100},
				},
			},
		}),
		DailyTable: []daily.Entry{
			{Day: 1, Payouts: []reward.Payout{{CurrencyID: economy.CurrencyCoins, Amount: 50}}},
		},
		AchievementDefs: []achievement.Def{
			{ID: "century", Name: "Century", Type: achievement.TypeScore, Target: 100},
		},
		ShopCatalog: shop.NewCatalog([]shop.Item{
			{
				ID:           "potion",
				Name:         "Potion",
				CostCurrency: economy.CurrencyCoins,
				CostAmount:   40,
				Grants:       []shop.Grant{{ItemID: "potion", Count: 1}},
			},
		}),
		Clock:  clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
		RNG:    rand.New(rand.NewSource(1)),
		Logger: log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(New(eng))
	t.Cleanup(srv.Close)
	return srv, eng
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestEarnAndClaimFlow(t *testing.T) {
	srv, eng := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/rewards/earn", map[string]string{
		"player_id":   "p1",
		"template_id": "level_win",
		"source":      "level_3",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	instanceID, _ := body["id"].(string)
	require.NotEmpty(t, instanceID)
	assert.Equal(t, false, body["claimed"])

	resp, claimBody := postJSON(t, srv.URL+"/api/rewards/"+instanceID+"/claim", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, claimBody["claimed"])
	assert.Equal(t, 100, eng.Wallet.Balance("p1", economy.CurrencyCoins))

	resp, _ = postJSON(t, srv.URL+"/api/rewards/"+instanceID+"/claim", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEarn_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/rewards/earn", map[string]string{
		"player_id": "p1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/api/rewards/earn", map[string]string{
		"player_id":   "p1",
		"template_id": "nope",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListRewards_UnclaimedFilter(t *testing.T) {
	srv, eng := newTestServer(t)

	first := eng.EarnReward("p1", "level_win", "", "")
	require.NotNil(t, first)
	second := eng.EarnReward("p1", "level_win", "", "")
	require.NotNil(t, second)
	require.True(t, eng.ClaimReward(first.ID))

	var all []map[string]any
	getJSON(t, srv.URL+"/api/players/p1/rewards", &all)
	assert.Len(t, all, 2)

	var unclaimed []map[string]any
	getJSON(t, srv.URL+"/api/players/p1/rewards?unclaimed=true", &unclaimed)
	require.Len(t, unclaimed, 1)
	assert.Equal(t, second.ID, unclaimed[0]["id"])
}

func TestDailyEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var status map[string]any
	getJSON(t, srv.URL+"/api/players/p1/daily", &status)
	assert.Equal(t, true, status["can_claim"])

	resp, entry := postJSON(t, srv.URL+"/api/players/p1/daily/claim", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), entry["day"])

	resp, _ = postJSON(t, srv.URL+"/api/players/p1/daily/claim", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	getJSON(t, srv.URL+"/api/players/p1/daily", &status)
	assert.Equal(t, false, status["can_claim"])
}

func TestAchievementEndpoints(t *testing.T) {
	srv, eng := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/achievements/report", map[string]any{
		"player_id":      "p1",
		"achievement_id": "century",
		"delta":          100,
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	st, ok := eng.Achievements.Get("p1", "century")
	require.True(t, ok)
	assert.True(t, st.Unlocked)

	var list []map[string]any
	getJSON(t, srv.URL+"/api/players/p1/achievements", &list)
	require.Len(t, list, 1)
}

func TestShopEndpoints(t *testing.T) {
	srv, eng := newTestServer(t)

	var items []map[string]any
	getJSON(t, srv.URL+"/api/shop/items", &items)
	require.Len(t, items, 1)
	assert.Equal(t, "potion", items[0]["id"])

	resp, _ := postJSON(t, srv.URL+"/api/shop/purchase", map[string]string{
		"player_id": "p1",
		"item_id":   "potion",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no funds yet")

	eng.Wallet.Credit("p1", economy.CurrencyCoins, 100, "seed")
	resp, body := postJSON(t, srv.URL+"/api/shop/purchase", map[string]string{
		"player_id": "p1",
		"item_id":   "potion",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["purchased"])
	assert.Equal(t, 1, eng.Wallet.ItemCount("p1", "potion"))
}

func TestProgressAndWalletEndpoints(t *testing.T) {
	srv, eng := newTestServer(t)

	inst := eng.EarnReward("p1", "level_win", "", "")
	require.NotNil(t, inst)
	require.True(t, eng.ClaimReward(inst.ID))

	var prog map[string]any
	getJSON(t, srv.URL+"/api/players/p1/progress", &prog)
	assert.Equal(t, float64(1), prog["total_earned"])
	assert.Equal(t, float64(1), prog["current_streak"])

	var wallet map[string]any
	getJSON(t, srv.URL+"/api/players/p1/wallet", &wallet)
	balances := wallet["balances"].(map[string]any)
	assert.Equal(t, float64(100), balances["coins"])
}

func TestStatsEndpoint(t *testing.T) {
	srv, eng := newTestServer(t)

	inst := eng.EarnReward("p1", "level_win", "", "")
	require.NotNil(t, inst)
	require.True(t, eng.ClaimReward(inst.ID))

	var stats map[string]any
	resp := getJSON(t, srv.URL+"/api/stats?since=2025-01-01", &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), stats["earned"])
	assert.Equal(t, float64(1), stats["claimed"])
}
