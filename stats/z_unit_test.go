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

package stats_test

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
	"github.com/crashgames/plinkostat/stats"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// mkWindow builds a most-recent-first window from landing slots; index i is
// the i-th most recent drop. Multipliers come from the board table, or are
// zero for out-of-range slots unless overridden by mults.
func mkWindow(cfg *board.Config, risk board.RiskLevel, slots []int) []outcome.Outcome {
	table := cfg.Table(risk)
	out := make([]outcome.Outcome, len(slots))
	for i, s := range slots {
		mult := 0.0
		if s >= 0 && s < cfg.Slots {
			mult = table[s]
		}
		out[i] = outcome.Outcome{
			DropID:     fmt.Sprintf("d-%03d", i),
			Risk:       risk,
			RowCount:   cfg.Slots - 1,
			Slot:       s,
			Multiplier: mult,
			RecordedAt: t0.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

// smallBoard is a 4-slot board with hand-checkable numbers:
// theoretical [0.125, 0.375, 0.375, 0.125].
func smallBoard(t *testing.T) *board.Config {
	t.Helper()
	cfg := &board.Config{
		Slots: 4,
		Multipliers: map[board.RiskLevel][]float64{
			board.Low:    {1.0, 0.5, 0.5, 1.0},
			board.Medium: {2.0, 0.5, 0.5, 2.0},
			board.High:   {10.0, 0.2, 0.2, 10.0},
		},
		// exact binomial(3, 0.5) masses, so expected counts and the chi
		// statistic stay exact in assertions
		Theoretical: []float64{0.125, 0.375, 0.375, 0.125},
	}
	if err := cfg.Init(); err != nil {
		t.Fatalf("small board init: %v", err)
	}
	return cfg
}

// ============================================================
// ** AnalyzeSlots **
// ============================================================

func TestAnalyzeSlotsEmptyWindow(t *testing.T) {
	cfg := board.Default16()
	rep := stats.AnalyzeSlots(cfg, nil, board.Medium)

	if rep.TotalDrops != 0 {
		t.Fatalf("TotalDrops got %d want 0", rep.TotalDrops)
	}
	if rep.MostHitSlot != 7 {
		t.Fatalf("MostHitSlot got %d want center slot 7", rep.MostHitSlot)
	}
	if rep.LeastHit != 0 {
		t.Fatalf("LeastHit got %d want 0", rep.LeastHit)
	}
	if rep.AvgMult != 1.0 {
		t.Fatalf("AvgMult got %v want 1.0", rep.AvgMult)
	}
	if rep.Slots == nil || len(rep.Slots) != 0 {
		t.Fatalf("Slots got %v want empty non-nil slice", rep.Slots)
	}
	if rep.EdgeRate != 0 || rep.CenterRate != 0 || rep.JackpotRate != 0 {
		t.Fatalf("rates got %v/%v/%v want all 0", rep.EdgeRate, rep.CenterRate, rep.JackpotRate)
	}
}

func TestAnalyzeSlotsHistogram(t *testing.T) {
	cfg := board.Default16()
	// 7 x2, 8 x1, 0 x1 → n=4 medium drops.
	window := mkWindow(cfg, board.Medium, []int{7, 8, 7, 0})
	rep := stats.AnalyzeSlots(cfg, window, board.Medium)

	if rep.TotalDrops != 4 {
		t.Fatalf("TotalDrops got %d want 4", rep.TotalDrops)
	}
	if got := rep.Slots[7].HitCount; got != 2 {
		t.Fatalf("slot 7 hits got %d want 2", got)
	}
	if got := rep.Slots[7].Percentage; got != 50.0 {
		t.Fatalf("slot 7 pct got %v want 50.0", got)
	}
	if rep.MostHitSlot != 7 {
		t.Fatalf("MostHitSlot got %d want 7", rep.MostHitSlot)
	}
	// medium table: slots 7/8/7 pay 9.0, slot 0 pays 0.3
	wantAvg := stats.Round4((9.0 + 9.0 + 9.0 + 0.3) / 4)
	if rep.AvgMult != wantAvg {
		t.Fatalf("AvgMult got %v want %v", rep.AvgMult, wantAvg)
	}
	// center slots are 6..9 → 3 of 4 drops; edge slots 0,1,2,13,14,15 → 1 drop.
	if rep.CenterRate != 75.0 {
		t.Fatalf("CenterRate got %v want 75.0", rep.CenterRate)
	}
	if rep.EdgeRate != 25.0 {
		t.Fatalf("EdgeRate got %v want 25.0", rep.EdgeRate)
	}
	// jackpot slots for medium are 7 and 8 → 3 of 4.
	if rep.JackpotRate != 75.0 {
		t.Fatalf("JackpotRate got %v want 75.0", rep.JackpotRate)
	}
}

// Out-of-range slots are dropped from the histogram but still count toward
// the average and the percentage denominator.
func TestAnalyzeSlotsOutOfRangeAsymmetry(t *testing.T) {
	cfg := board.Default16()
	window := mkWindow(cfg, board.Medium, []int{7, 99})
	window[1].Multiplier = 3.0

	rep := stats.AnalyzeSlots(cfg, window, board.Medium)

	if rep.TotalDrops != 2 {
		t.Fatalf("TotalDrops got %d want 2", rep.TotalDrops)
	}
	hits := 0
	for _, s := range rep.Slots {
		hits += s.HitCount
	}
	if hits != 1 {
		t.Fatalf("histogram hits got %d want 1 (out-of-range dropped)", hits)
	}
	// denominator is still 2
	if got := rep.Slots[7].Percentage; got != 50.0 {
		t.Fatalf("slot 7 pct got %v want 50.0", got)
	}
	if want := stats.Round4((9.0 + 3.0) / 2); rep.AvgMult != want {
		t.Fatalf("AvgMult got %v want %v (out-of-range included)", rep.AvgMult, want)
	}
}

func TestAnalyzeSlotsTieBreaks(t *testing.T) {
	cfg := board.Default16()
	// slots 3 and 5 hit once each; every other slot 0.
	rep := stats.AnalyzeSlots(cfg, mkWindow(cfg, board.Low, []int{3, 5}), board.Low)

	// most-hit tie resolves toward the lowest index
	if rep.MostHitSlot != 3 {
		t.Fatalf("MostHitSlot got %d want 3", rep.MostHitSlot)
	}
	// least-hit tie (zero hits) resolves toward the highest index
	if rep.LeastHit != 15 {
		t.Fatalf("LeastHit got %d want 15", rep.LeastHit)
	}
}

func TestAnalyzeSlotsIdempotent(t *testing.T) {
	cfg := board.Default16()
	window := mkWindow(cfg, board.High, []int{0, 7, 8, 15, 4, 11, 7})

	a := stats.AnalyzeSlots(cfg, window, board.High)
	b := stats.AnalyzeSlots(cfg, window, board.High)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same window produced different reports:\n%+v\n%+v", a, b)
	}
}

// ============================================================
// ** CompareRisks **
// ============================================================

func TestCompareRisksDescriptives(t *testing.T) {
	cfg := board.Default16()
	// Fixed multipliers rather than table-derived, to pin the math.
	window := mkWindow(cfg, board.Medium, []int{0, 1, 2, 3})
	for i, m := range []float64{0.5, 1.5, 5.0, 20.0} {
		window[i].Multiplier = m
	}

	reps := stats.CompareRisks(cfg, map[board.RiskLevel][]outcome.Outcome{
		board.Medium: window,
	})
	if len(reps) != 1 {
		t.Fatalf("report count got %d want 1", len(reps))
	}
	rep := reps[0]

	if rep.RiskLevel != board.Medium || rep.TotalDrops != 4 {
		t.Fatalf("header got %s/%d want medium/4", rep.RiskLevel, rep.TotalDrops)
	}
	if want := stats.Round4(6.75); rep.AvgMult != want {
		t.Fatalf("AvgMult got %v want %v", rep.AvgMult, want)
	}
	// even length: midpoint of the two middle values
	if want := stats.Round4((1.5 + 5.0) / 2); rep.MedianMult != want {
		t.Fatalf("MedianMult got %v want %v", rep.MedianMult, want)
	}
	if rep.RTPActual != 675.0 {
		t.Fatalf("RTPActual got %v want 675.0", rep.RTPActual)
	}
	// sample std dev of {0.5, 1.5, 4, 10}
	mean := 6.75
	varSum := 0.0
	for _, m := range []float64{0.5, 1.5, 5.0, 20.0} {
		varSum += (m - mean) * (m - mean)
	}
	if want := stats.Round4(math.Sqrt(varSum / 3)); rep.StdDeviation != want {
		t.Fatalf("StdDeviation got %v want %v", rep.StdDeviation, want)
	}
	// tiers: 0.5→loss, 1.5→small, 5→medium, 20→big
	if rep.LossRate != 25.0 || rep.SmallWinRate != 25.0 || rep.MediumWinRate != 25.0 || rep.BigWinRate != 25.0 {
		t.Fatalf("tier rates got %v/%v/%v/%v want 25 each",
			rep.LossRate, rep.SmallWinRate, rep.MediumWinRate, rep.BigWinRate)
	}
}

func TestCompareRisksSingleDropStdZero(t *testing.T) {
	cfg := board.Default16()
	reps := stats.CompareRisks(cfg, map[board.RiskLevel][]outcome.Outcome{
		board.Low: mkWindow(cfg, board.Low, []int{7}),
	})
	if len(reps) != 1 || reps[0].StdDeviation != 0 {
		t.Fatalf("single-drop std got %+v want 0", reps)
	}
}

func TestCompareRisksJackpotIsValueBased(t *testing.T) {
	cfg := board.Default16()
	// One drop at an edge slot carrying the max multiplier anyway.
	window := mkWindow(cfg, board.High, []int{0, 7})
	window[0].Multiplier = 110.0

	reps := stats.CompareRisks(cfg, map[board.RiskLevel][]outcome.Outcome{
		board.High: window,
	})
	if reps[0].JackpotRate != 100.0 {
		t.Fatalf("JackpotRate got %v want 100.0 (both reach table max)", reps[0].JackpotRate)
	}
	if reps[0].MaxMultiplier != 110.0 {
		t.Fatalf("MaxMultiplier got %v want 110.0", reps[0].MaxMultiplier)
	}
}

func TestCompareRisksOrderAndSkip(t *testing.T) {
	cfg := board.Default16()
	windows := map[board.RiskLevel][]outcome.Outcome{
		board.High: mkWindow(cfg, board.High, []int{7}),
		board.Low:  mkWindow(cfg, board.Low, []int{8}),
		// medium absent
	}
	reps := stats.CompareRisks(cfg, windows)
	if len(reps) != 2 {
		t.Fatalf("report count got %d want 2", len(reps))
	}
	if reps[0].RiskLevel != board.Low || reps[1].RiskLevel != board.High {
		t.Fatalf("order got %s,%s want low,high", reps[0].RiskLevel, reps[1].RiskLevel)
	}
}

// ============================================================
// ** AnalyzeFairness **
// ============================================================

func TestAnalyzeFairnessEmptyWindow(t *testing.T) {
	rep := stats.AnalyzeFairness(board.Default16(), nil, board.Low)
	if rep.ChiSquare != 0 || rep.DeviationScore != 0 || !rep.IsFair {
		t.Fatalf("empty window got %+v want zero scores and fair", rep)
	}
	if len(rep.SlotComparisons) != 0 || len(rep.Overperforming) != 0 || len(rep.Underperforming) != 0 {
		t.Fatalf("empty window slices got %+v want empty", rep)
	}
}

func TestAnalyzeFairnessPerfectFit(t *testing.T) {
	cfg := smallBoard(t)
	// n=8 with observed [1,3,3,1] matches expected exactly → chi = 0.
	rep := stats.AnalyzeFairness(cfg, mkWindow(cfg, board.Low, []int{0, 1, 1, 1, 2, 2, 2, 3}), board.Low)

	if rep.ChiSquare != 0 {
		t.Fatalf("ChiSquare got %v want 0", rep.ChiSquare)
	}
	if rep.DeviationScore != 0 {
		t.Fatalf("DeviationScore got %v want 0", rep.DeviationScore)
	}
	if !rep.IsFair {
		t.Fatal("IsFair got false want true")
	}
	if len(rep.Overperforming) != 0 || len(rep.Underperforming) != 0 {
		t.Fatalf("flagged slots got %v/%v want none", rep.Overperforming, rep.Underperforming)
	}
	if rep.SlotComparisons[1].Expected != 3.0 || rep.SlotComparisons[1].Observed != 3 {
		t.Fatalf("slot 1 comparison got %+v", rep.SlotComparisons[1])
	}
}

func TestAnalyzeFairnessSkewed(t *testing.T) {
	cfg := smallBoard(t)
	// all 8 drops in slot 0: chi = 49/1 + 9/3 + 9/3 + 1/1 = 56
	rep := stats.AnalyzeFairness(cfg, mkWindow(cfg, board.Low, []int{0, 0, 0, 0, 0, 0, 0, 0}), board.Low)

	if rep.ChiSquare != 56.0 {
		t.Fatalf("ChiSquare got %v want 56.0", rep.ChiSquare)
	}
	if rep.IsFair {
		t.Fatal("IsFair got true want false")
	}
	// |87.5| + |-37.5| + |-37.5| + |-12.5| = 175 → capped at 1
	if rep.DeviationScore != 1.0 {
		t.Fatalf("DeviationScore got %v want 1.0", rep.DeviationScore)
	}
	if !reflect.DeepEqual(rep.Overperforming, []int{0}) {
		t.Fatalf("Overperforming got %v want [0]", rep.Overperforming)
	}
	if !reflect.DeepEqual(rep.Underperforming, []int{1, 2, 3}) {
		t.Fatalf("Underperforming got %v want [1 2 3]", rep.Underperforming)
	}
}

// is_fair flips against the unrounded statistic crossing ChiCritical.
func TestAnalyzeFairnessCriticalBoundary(t *testing.T) {
	cfg := smallBoard(t)
	cfg.ChiCritical = 56.0

	window := mkWindow(cfg, board.Low, []int{0, 0, 0, 0, 0, 0, 0, 0})
	rep := stats.AnalyzeFairness(cfg, window, board.Low)
	// 56 < 56 is false → not fair at the exact threshold
	if rep.IsFair {
		t.Fatal("IsFair got true at chi == critical, want false")
	}

	cfg.ChiCritical = 56.0001
	rep = stats.AnalyzeFairness(cfg, window, board.Low)
	if !rep.IsFair {
		t.Fatal("IsFair got false just under critical, want true")
	}
}

// ============================================================
// ** TrackJackpots **
// ============================================================

func TestTrackJackpotsNone(t *testing.T) {
	cfg := board.Default16()
	window := mkWindow(cfg, board.High, []int{4, 5, 6, 9, 10})

	st := stats.TrackJackpots(cfg, window, board.High)
	if st.TotalJackpots != 0 {
		t.Fatalf("TotalJackpots got %d want 0", st.TotalJackpots)
	}
	if st.DropsSince != 5 {
		t.Fatalf("DropsSince got %d want window length 5", st.DropsSince)
	}
	if st.LastJackpotTime != nil || st.AvgDropsBetween != nil {
		t.Fatalf("optional fields got %+v want nil", st)
	}
	if st.JackpotProb != 0.3 {
		t.Fatalf("JackpotProb got %v want 0.3", st.JackpotProb)
	}
}

func TestTrackJackpotsMostRecentIsJackpot(t *testing.T) {
	cfg := board.Default16()
	window := mkWindow(cfg, board.High, []int{7, 4, 5})

	st := stats.TrackJackpots(cfg, window, board.High)
	if st.TotalJackpots != 1 || st.DropsSince != 0 {
		t.Fatalf("got jackpots=%d since=%d want 1/0", st.TotalJackpots, st.DropsSince)
	}
	if st.LastJackpotTime == nil || !st.LastJackpotTime.Equal(window[0].RecordedAt) {
		t.Fatalf("LastJackpotTime got %v want %v", st.LastJackpotTime, window[0].RecordedAt)
	}
}

func TestTrackJackpotsGapsArePositive(t *testing.T) {
	cfg := board.Default16()
	// jackpots at window indices 2, 5, 9 → gaps 3 and 4 → avg 3.5
	slots := []int{4, 5, 7, 6, 9, 8, 10, 11, 4, 7, 5}
	window := mkWindow(cfg, board.High, slots)

	st := stats.TrackJackpots(cfg, window, board.High)
	if st.TotalJackpots != 3 {
		t.Fatalf("TotalJackpots got %d want 3", st.TotalJackpots)
	}
	if st.DropsSince != 2 {
		t.Fatalf("DropsSince got %d want 2", st.DropsSince)
	}
	if st.AvgDropsBetween == nil || *st.AvgDropsBetween != 3.5 {
		t.Fatalf("AvgDropsBetween got %v want 3.5", st.AvgDropsBetween)
	}
}

// Drought fires only strictly beyond 1.5x the expected interval; for high risk
// (0.3%) the boundary sits at exactly 500 drops.
func TestTrackJackpotsDroughtBoundary(t *testing.T) {
	cfg := board.Default16()

	at := func(n int) bool {
		slots := make([]int, n)
		for i := range slots {
			slots[i] = 4
		}
		return stats.TrackJackpots(cfg, mkWindow(cfg, board.High, slots), board.High).CurrentDrought
	}

	if at(500) {
		t.Fatal("drought at exactly 500 drops, want false (strict boundary)")
	}
	if !at(501) {
		t.Fatal("no drought at 501 drops, want true")
	}
}

func TestTrackJackpotsZeroProbNeverDrought(t *testing.T) {
	cfg := smallBoard(t)
	cfg.JackpotProb[board.High] = 0 // after Init; simulate degenerate config

	slots := make([]int, 10000)
	for i := range slots {
		slots[i] = 1
	}
	st := stats.TrackJackpots(cfg, mkWindow(cfg, board.High, slots), board.High)
	if st.CurrentDrought {
		t.Fatal("drought fired with zero jackpot probability")
	}
}
