// Copyright 2026 Crash Games Network
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plinkostat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
	"github.com/crashgames/plinkostat/stats"
)

// AggregateReport 一次產出的完整 Plinko 統計。
type AggregateReport struct {
	Game        string    `json:"game"`
	Period      string    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`

	SlotDistributions map[board.RiskLevel]stats.DistributionReport `json:"slot_distributions"`
	RiskComparisons   []stats.ComparisonReport                     `json:"risk_comparisons"`
	Fairness          map[board.RiskLevel]stats.FairnessReport     `json:"fairness_analysis"`
	Jackpot           stats.JackpotState                           `json:"jackpot_tracker"`

	TotalDrops     int     `json:"total_drops"`
	OverallAvgMult float64 `json:"overall_avg_multiplier"`
	OverallRTP     float64 `json:"overall_rtp"`
}

// Build resolves the period, fetches one window per risk level plus the
// combined window in parallel, and assembles the aggregate report.
//
// 局部容錯：單一等級抓取失敗或為空時只略過該段，不會讓整份報表失敗。
// Jackpot tracking runs on the high-risk window only.
func (r *Reporter) Build(ctx context.Context, period string) (*AggregateReport, error) {
	hours := ResolvePeriod(period)

	levels := board.Levels()
	windows := make(map[board.RiskLevel][]outcome.Outcome, len(levels))
	var combined []outcome.Outcome

	// Per-level fetches have no ordering dependency; issue them together.
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, lv := range levels {
		wg.Add(1)
		go func(lv board.RiskLevel) {
			defer wg.Done()
			window, err := r.store.Window(ctx, hours, lv)
			if err != nil {
				r.log.Warn("outcome window fetch failed",
					slog.String("risk", string(lv)), slog.Any("err", err))
				return
			}
			if len(window) == 0 {
				return
			}
			mu.Lock()
			windows[lv] = window
			mu.Unlock()
		}(lv)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		all, err := r.store.Combined(ctx, hours)
		if err != nil {
			r.log.Warn("combined window fetch failed", slog.Any("err", err))
			return
		}
		mu.Lock()
		combined = all
		mu.Unlock()
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &AggregateReport{
		Game:              "plinko",
		Period:            period,
		GeneratedAt:       time.Now().UTC(),
		SlotDistributions: make(map[board.RiskLevel]stats.DistributionReport, len(windows)),
		Fairness:          make(map[board.RiskLevel]stats.FairnessReport, len(windows)),
	}

	for lv, window := range windows {
		rep.SlotDistributions[lv] = stats.AnalyzeSlots(r.cfg, window, lv)
		rep.Fairness[lv] = stats.AnalyzeFairness(r.cfg, window, lv)
	}
	rep.RiskComparisons = stats.CompareRisks(r.cfg, windows)
	rep.Jackpot = r.trackHighJackpots(windows[board.High])

	rep.TotalDrops = len(combined)
	rep.OverallAvgMult = 1.0
	if len(combined) > 0 {
		sum := 0.0
		for _, o := range combined {
			sum += o.Multiplier
		}
		rep.OverallAvgMult = stats.Round4(sum / float64(len(combined)))
	}
	rep.OverallRTP = stats.Round2(rep.OverallAvgMult * 100)

	return rep, nil
}

// trackHighJackpots asserts the newest-first contract at this boundary
// before handing the window to the tracker.
func (r *Reporter) trackHighJackpots(window []outcome.Outcome) stats.JackpotState {
	if !outcome.MostRecentFirst(window) {
		// 不重排：順序破壞屬於資料取得方的違約，只記錄。
		r.log.Warn("high risk window not ordered most-recent-first; drought metrics may be skewed")
	}
	return stats.TrackJackpots(r.cfg, window, board.High)
}

// ============================================================
// ** 單段報表（個別 API 端點用）**
// ============================================================

// Distribution fetches one risk level's window and runs the slot analyzer.
func (r *Reporter) Distribution(ctx context.Context, period string, risk board.RiskLevel) (stats.DistributionReport, error) {
	window, err := r.store.Window(ctx, ResolvePeriod(period), risk.Norm())
	if err != nil {
		return stats.DistributionReport{}, err
	}
	return stats.AnalyzeSlots(r.cfg, window, risk.Norm()), nil
}

// FairnessFor fetches one risk level's window and runs the fairness test.
func (r *Reporter) FairnessFor(ctx context.Context, period string, risk board.RiskLevel) (stats.FairnessReport, error) {
	window, err := r.store.Window(ctx, ResolvePeriod(period), risk.Norm())
	if err != nil {
		return stats.FairnessReport{}, err
	}
	return stats.AnalyzeFairness(r.cfg, window, risk.Norm()), nil
}

// JackpotTracker fetches the high-risk window and runs the tracker.
func (r *Reporter) JackpotTracker(ctx context.Context, period string) (stats.JackpotState, error) {
	window, err := r.store.Window(ctx, ResolvePeriod(period), board.High)
	if err != nil {
		return stats.JackpotState{}, err
	}
	return r.trackHighJackpots(window), nil
}

// Comparison fetches every risk level's window and compares them.
func (r *Reporter) Comparison(ctx context.Context, period string) ([]stats.ComparisonReport, error) {
	hours := ResolvePeriod(period)
	windows := make(map[board.RiskLevel][]outcome.Outcome)
	for _, lv := range board.Levels() {
		window, err := r.store.Window(ctx, hours, lv)
		if err != nil {
			return nil, err
		}
		if len(window) > 0 {
			windows[lv] = window
		}
	}
	return stats.CompareRisks(r.cfg, windows), nil
}
