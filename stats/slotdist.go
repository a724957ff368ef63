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

// Package stats implements the Plinko analysis engine: slot-distribution
// histograms, cross-risk comparisons, a chi-square fairness test and jackpot
// drought tracking. Every function here is pure and synchronous over an
// immutable outcome window; identical inputs yield identical reports.
package stats

import (
	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
)

// SlotStat 單一落袋的統計。
type SlotStat struct {
	Slot        int     `json:"slot_id"`
	Multiplier  float64 `json:"multiplier"`
	HitCount    int     `json:"hit_count"`
	Percentage  float64 `json:"percentage"`
	Theoretical float64 `json:"theoretical_percentage"`
	Deviation   float64 `json:"deviation"`
}

// DistributionReport 一個風險等級在窗口內的完整落袋分布。
type DistributionReport struct {
	TotalDrops  int             `json:"total_drops"`
	RiskLevel   board.RiskLevel `json:"risk_level"`
	Slots       []SlotStat      `json:"slots"`
	MostHitSlot int             `json:"most_hit_slot"`
	LeastHit    int             `json:"least_hit_slot"`
	AvgMult     float64         `json:"avg_multiplier"`
	EdgeRate    float64         `json:"edge_rate"`
	CenterRate  float64         `json:"center_rate"`
	JackpotRate float64         `json:"jackpot_rate"`
}

// AnalyzeSlots turns one risk level's outcome window into a per-slot
// histogram plus edge/center/jackpot summary rates.
//
// Out-of-range landing slots are dropped from the histogram but their
// multiplier still counts toward the average and the denominator. 這個不對稱
// 是刻意保留的行為，不是 bug。
func AnalyzeSlots(cfg *board.Config, window []outcome.Outcome, risk board.RiskLevel) DistributionReport {
	if len(window) == 0 {
		return DistributionReport{
			TotalDrops:  0,
			RiskLevel:   risk,
			Slots:       []SlotStat{},
			MostHitSlot: cfg.CenterSlot(),
			LeastHit:    0,
			AvgMult:     1.0,
		}
	}

	counts := make([]int, cfg.Slots)
	multSum := 0.0
	for _, o := range window {
		if o.Slot >= 0 && o.Slot < cfg.Slots {
			counts[o.Slot]++
		}
		multSum += o.Multiplier
	}

	n := len(window)
	table := cfg.Table(risk)

	slots := make([]SlotStat, cfg.Slots)
	for i := 0; i < cfg.Slots; i++ {
		pct := float64(counts[i]) / float64(n) * 100
		theoPct := cfg.Theoretical[i] * 100
		slots[i] = SlotStat{
			Slot:        i,
			Multiplier:  table[i],
			HitCount:    counts[i],
			Percentage:  Round2(pct),
			Theoretical: Round2(theoPct),
			Deviation:   Round2(pct - theoPct),
		}
	}

	// Ties: most hit resolves toward the lowest slot index, least hit
	// toward the highest.
	mostHit, leastHit := 0, 0
	for i := 1; i < cfg.Slots; i++ {
		if counts[i] > counts[mostHit] {
			mostHit = i
		}
		if counts[i] <= counts[leastHit] {
			leastHit = i
		}
	}

	return DistributionReport{
		TotalDrops:  n,
		RiskLevel:   risk,
		Slots:       slots,
		MostHitSlot: mostHit,
		LeastHit:    leastHit,
		AvgMult:     Round4(multSum / float64(n)),
		EdgeRate:    Round2(rateOf(counts, cfg.EdgeSlots(), n)),
		CenterRate:  Round2(rateOf(counts, cfg.CenterSlots(), n)),
		JackpotRate: Round4(rateOf(counts, cfg.JackpotSlots(risk), n)),
	}
}

// rateOf 指定落袋集合的命中率（百分比）。
func rateOf(counts []int, slots []int, n int) float64 {
	hits := 0
	for _, s := range slots {
		hits += counts[s]
	}
	return float64(hits) / float64(n) * 100
}
