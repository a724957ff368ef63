// Copyright 2026 Crash Games Network
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crashgames/plinkostat"
	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/server/httperr"
)

const handlerTimeout = 10 * time.Second

// PlinkoHandler 統計報表端點。
type PlinkoHandler struct {
	rep *plinkostat.Reporter
}

func NewPlinkoHandler(rep *plinkostat.Reporter) *PlinkoHandler {
	return &PlinkoHandler{rep: rep}
}

// period 取 query 參數，缺省時用端點各自的預設值。
// 無法辨識的 token 交給 ResolvePeriod 落回 24h，不報錯。
func period(q *http.Request, def string) string {
	if p := q.URL.Query().Get("period"); p != "" {
		return p
	}
	return def
}

func riskParam(q *http.Request) board.RiskLevel {
	return board.RiskLevel(chi.URLParam(q, "risk")).Norm()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperr.Errs(w, err)
	}
}

// Aggregate GET /api/v2/plinko?period=24h — 完整統計報表。
func (h *PlinkoHandler) Aggregate(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	rep, err := h.rep.Build(ctx, period(q, "24h"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, rep)
}

// Slots GET /api/v2/plinko/slots/{risk}?period=24h — 單一等級落點分佈。
func (h *PlinkoHandler) Slots(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	rep, err := h.rep.Distribution(ctx, period(q, "24h"), riskParam(q))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, rep)
}

// Fairness GET /api/v2/plinko/fairness/{risk}?period=7d — 卡方公平性檢定。
func (h *PlinkoHandler) Fairness(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	rep, err := h.rep.FairnessFor(ctx, period(q, "7d"), riskParam(q))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, rep)
}

// Jackpot GET /api/v2/plinko/jackpot?period=30d — 高風險頭獎追蹤。
func (h *PlinkoHandler) Jackpot(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	rep, err := h.rep.JackpotTracker(ctx, period(q, "30d"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, rep)
}

// Comparison GET /api/v2/plinko/risk-comparison?period=7d — 三等級對比。
func (h *PlinkoHandler) Comparison(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	rep, err := h.rep.Comparison(ctx, period(q, "7d"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, rep)
}
