package v2

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/crashgames/plinkostat/server/httperr"
	"github.com/crashgames/plinkostat/server/svrcfg"
)

// DropsHandler 原始落球資料的輕量查詢端點，直接走儲存層的聚合 SQL，
// 不經過統計引擎。
type DropsHandler struct {
	store svrcfg.DropStore
}

func NewDropsHandler(store svrcfg.DropStore) *DropsHandler {
	return &DropsHandler{store: store}
}

// Summary GET /api/drops/summary — 整表描述統計。
func (h *DropsHandler) Summary(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	st, err := h.store.Summary(ctx)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, st)
}

const (
	defaultRecentLimit = 100
	maxRecentLimit     = 1000
)

// Recent GET /api/drops/recent?limit=100 — 最近 N 筆摘要。
func (h *DropsHandler) Recent(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	limit := defaultRecentLimit
	if s := q.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRecentLimit)
	}

	st, err := h.store.Recent(ctx, limit)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, struct {
		Limit     int     `json:"limit"`
		AvgMult   float64 `json:"avg_multiplier"`
		Under2Pct float64 `json:"under_2x_pct"`
	}{limit, st.AvgMult, st.Under2xPct})
}

// Distribution GET /api/drops/distribution — 賠率分桶。
func (h *DropsHandler) Distribution(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	buckets, err := h.store.Buckets(ctx)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, buckets)
}

// ============================================================
// ** HealthHandler **
// ============================================================

type HealthHandler struct {
	store svrcfg.DropStore
}

func NewHealthHandler(store svrcfg.DropStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health GET /health — 服務存活 + 最後一筆資料時間。
// 儲存層失敗時回報 degraded 而非 5xx：服務本身仍在。
func (h *HealthHandler) Health(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), 3*time.Second)
	defer cancel()

	resp := struct {
		Status     string     `json:"status"`
		LastUpdate *time.Time `json:"last_update,omitempty"`
	}{Status: "ok"}

	last, err := h.store.LastUpdate(ctx)
	if err != nil {
		resp.Status = "degraded"
	} else if !last.IsZero() {
		resp.LastUpdate = &last
	}
	writeJSON(w, resp)
}
