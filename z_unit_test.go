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

package plinkostat_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/crashgames/plinkostat"
	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/errs"
	"github.com/crashgames/plinkostat/outcome"
)

// memStore 測試用記憶體儲存。Windows are keyed by risk; failRisk simulates a
// partial storage outage.
type memStore struct {
	byRisk   map[board.RiskLevel][]outcome.Outcome
	failRisk board.RiskLevel
	failAll  bool
}

func (m *memStore) Window(_ context.Context, _ int, risk board.RiskLevel) ([]outcome.Outcome, error) {
	if m.failAll || (m.failRisk != "" && risk == m.failRisk) {
		return nil, errs.NewWarn("storage offline")
	}
	return m.byRisk[risk], nil
}

func (m *memStore) Combined(_ context.Context, _ int) ([]outcome.Outcome, error) {
	if m.failAll {
		return nil, errs.NewWarn("storage offline")
	}
	var all []outcome.Outcome
	for _, lv := range board.Levels() {
		all = append(all, m.byRisk[lv]...)
	}
	return all, nil
}

func drops(cfg *board.Config, risk board.RiskLevel, slots ...int) []outcome.Outcome {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	table := cfg.Table(risk)
	out := make([]outcome.Outcome, len(slots))
	for i, s := range slots {
		out[i] = outcome.Outcome{
			DropID:     fmt.Sprintf("%s-%d", risk, i),
			Risk:       risk,
			RowCount:   cfg.Slots - 1,
			Slot:       s,
			Multiplier: table[s],
			RecordedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestResolvePeriod(t *testing.T) {
	cases := map[string]int{
		"1h":      1,
		"6h":      6,
		"24h":     24,
		"7d":      168,
		"30d":     720,
		"":        24,
		"forever": 24,
	}
	for token, want := range cases {
		if got := plinkostat.ResolvePeriod(token); got != want {
			t.Fatalf("ResolvePeriod(%q) got %d want %d", token, got, want)
		}
	}
}

func TestNewReporterValidation(t *testing.T) {
	cfg := board.Default16()
	if _, err := plinkostat.NewReporter(nil, &memStore{}, nil); err == nil {
		t.Fatal("nil config accepted")
	}
	if _, err := plinkostat.NewReporter(cfg, nil, nil); err == nil {
		t.Fatal("nil store accepted")
	}
	if _, err := plinkostat.NewReporter(cfg, &memStore{}, nil); err != nil {
		t.Fatalf("valid args rejected: %v", err)
	}
}

func TestBuildAggregate(t *testing.T) {
	cfg := board.Default16()
	store := &memStore{byRisk: map[board.RiskLevel][]outcome.Outcome{
		board.Low:    drops(cfg, board.Low, 7, 8, 6),
		board.Medium: drops(cfg, board.Medium, 7, 0),
		board.High:   drops(cfg, board.High, 7, 4, 5), // index 0 is a jackpot
	}}
	rep, err := mustReporter(t, cfg, store).Build(context.Background(), "24h")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if rep.Game != "plinko" || rep.Period != "24h" {
		t.Fatalf("header got %s/%s", rep.Game, rep.Period)
	}
	if rep.TotalDrops != 8 {
		t.Fatalf("TotalDrops got %d want 8", rep.TotalDrops)
	}
	if len(rep.SlotDistributions) != 3 || len(rep.Fairness) != 3 {
		t.Fatalf("per-level sections got %d/%d want 3/3",
			len(rep.SlotDistributions), len(rep.Fairness))
	}
	if len(rep.RiskComparisons) != 3 {
		t.Fatalf("RiskComparisons got %d want 3", len(rep.RiskComparisons))
	}
	if rep.Jackpot.TotalJackpots != 1 || rep.Jackpot.DropsSince != 0 {
		t.Fatalf("Jackpot got %+v want 1 jackpot at index 0", rep.Jackpot)
	}
	if rep.OverallRTP == 0 {
		t.Fatal("OverallRTP not computed")
	}
}

// A single failing risk level degrades the report instead of failing it.
func TestBuildToleratesPartialFailure(t *testing.T) {
	cfg := board.Default16()
	store := &memStore{
		byRisk: map[board.RiskLevel][]outcome.Outcome{
			board.Low:  drops(cfg, board.Low, 7, 8),
			board.High: drops(cfg, board.High, 4),
		},
		failRisk: board.High,
	}
	rep, err := mustReporter(t, cfg, store).Build(context.Background(), "7d")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := rep.SlotDistributions[board.High]; ok {
		t.Fatal("failed level present in distributions")
	}
	if _, ok := rep.SlotDistributions[board.Low]; !ok {
		t.Fatal("healthy level missing from distributions")
	}
	// high window unavailable → jackpot tracker sees an empty window
	if rep.Jackpot.TotalJackpots != 0 || rep.Jackpot.DropsSince != 0 {
		t.Fatalf("Jackpot got %+v want empty-window state", rep.Jackpot)
	}
}

func TestBuildEmptyStore(t *testing.T) {
	cfg := board.Default16()
	store := &memStore{byRisk: map[board.RiskLevel][]outcome.Outcome{}}

	rep, err := mustReporter(t, cfg, store).Build(context.Background(), "1h")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.TotalDrops != 0 {
		t.Fatalf("TotalDrops got %d want 0", rep.TotalDrops)
	}
	if rep.OverallAvgMult != 1.0 {
		t.Fatalf("OverallAvgMult got %v want neutral 1.0", rep.OverallAvgMult)
	}
	if rep.OverallRTP != 100.0 {
		t.Fatalf("OverallRTP got %v want 100.0", rep.OverallRTP)
	}
	if len(rep.RiskComparisons) != 0 {
		t.Fatalf("RiskComparisons got %d want 0", len(rep.RiskComparisons))
	}
}

func TestBuildCancelledContext(t *testing.T) {
	cfg := board.Default16()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mustReporter(t, cfg, &memStore{failAll: true}).Build(ctx, "24h")
	if err == nil {
		t.Fatal("cancelled context did not propagate")
	}
}

func TestComparisonPropagatesStoreError(t *testing.T) {
	cfg := board.Default16()
	store := &memStore{failRisk: board.Medium, byRisk: map[board.RiskLevel][]outcome.Outcome{
		board.Low: drops(cfg, board.Low, 7),
	}}
	if _, err := mustReporter(t, cfg, store).Comparison(context.Background(), "24h"); err == nil {
		t.Fatal("Comparison swallowed a store error")
	}
}

func TestDistributionNormalizesRisk(t *testing.T) {
	cfg := board.Default16()
	store := &memStore{byRisk: map[board.RiskLevel][]outcome.Outcome{
		board.Medium: drops(cfg, board.Medium, 7, 8),
	}}
	rep, err := mustReporter(t, cfg, store).Distribution(context.Background(), "24h", "mystery")
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if rep.RiskLevel != board.Medium || rep.TotalDrops != 2 {
		t.Fatalf("got %s/%d want medium/2", rep.RiskLevel, rep.TotalDrops)
	}
}

func mustReporter(t *testing.T, cfg *board.Config, store plinkostat.OutcomeStore) *plinkostat.Reporter {
	t.Helper()
	rep, err := plinkostat.NewReporter(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewReporter: %v", err)
	}
	return rep
}
