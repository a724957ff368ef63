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

package board_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/crashgames/plinkostat/board"
)

func TestDefault16Valid(t *testing.T) {
	cfg := board.Default16()

	if cfg.Slots != 16 {
		t.Fatalf("Slots got %d want 16", cfg.Slots)
	}
	if cfg.ChiCritical != 25.0 {
		t.Fatalf("ChiCritical got %v want 25.0", cfg.ChiCritical)
	}
	if cfg.DevThreshold != 1.0 {
		t.Fatalf("DevThreshold got %v want 1.0", cfg.DevThreshold)
	}
	if cfg.RTPTheoretical != 99.0 {
		t.Fatalf("RTPTheoretical got %v want 99.0", cfg.RTPTheoretical)
	}
	if got := cfg.MaxMultiplier(board.High); got != 110.0 {
		t.Fatalf("high max multiplier got %v want 110.0", got)
	}
	if got := cfg.JackpotProb[board.High]; got != 0.3 {
		t.Fatalf("high jackpot prob got %v want 0.3", got)
	}
}

func TestBinomialPMF(t *testing.T) {
	pmf := board.BinomialPMF(16)

	sum := 0.0
	for i, p := range pmf {
		if p <= 0 {
			t.Fatalf("pmf[%d] got %v want > 0", i, p)
		}
		if mirror := pmf[len(pmf)-1-i]; math.Abs(mirror-p) > 1e-12 {
			t.Fatalf("pmf not symmetric at %d: %v vs %v", i, p, mirror)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("pmf sums to %v want 1", sum)
	}
	// binomial(15, 0.5) center pair: C(15,7)/2^15
	want := 6435.0 / 32768.0
	if math.Abs(pmf[7]-want) > 1e-12 || math.Abs(pmf[8]-want) > 1e-12 {
		t.Fatalf("center mass got %v/%v want %v", pmf[7], pmf[8], want)
	}
}

func TestInitRejectsAsymmetricTable(t *testing.T) {
	cfg := &board.Config{
		Slots: 4,
		Multipliers: map[board.RiskLevel][]float64{
			board.Low:    {1.0, 0.5, 0.5, 2.0}, // not symmetric
			board.Medium: {1.0, 0.5, 0.5, 1.0},
			board.High:   {1.0, 0.5, 0.5, 1.0},
		},
	}
	if err := cfg.Init(); err == nil {
		t.Fatal("asymmetric table passed Init, want error")
	}
}

func TestInitRejectsBadPMF(t *testing.T) {
	cfg := &board.Config{
		Slots: 4,
		Multipliers: map[board.RiskLevel][]float64{
			board.Low:    {1.0, 0.5, 0.5, 1.0},
			board.Medium: {1.0, 0.5, 0.5, 1.0},
			board.High:   {1.0, 0.5, 0.5, 1.0},
		},
		Theoretical: []float64{0.3, 0.3, 0.3, 0.3}, // sums to 1.2
	}
	if err := cfg.Init(); err == nil {
		t.Fatal("pmf summing to 1.2 passed Init, want error")
	}
}

func TestInitRejectsMissingTable(t *testing.T) {
	cfg := &board.Config{
		Slots: 4,
		Multipliers: map[board.RiskLevel][]float64{
			board.Low: {1.0, 0.5, 0.5, 1.0},
		},
	}
	if err := cfg.Init(); err == nil {
		t.Fatal("missing medium/high tables passed Init, want error")
	}
}

func TestDerivedSlotSets(t *testing.T) {
	cfg := board.Default16()

	if got := cfg.CenterSlot(); got != 7 {
		t.Fatalf("CenterSlot got %d want 7", got)
	}
	if got := cfg.EdgeSlots(); !reflect.DeepEqual(got, []int{0, 1, 2, 13, 14, 15}) {
		t.Fatalf("EdgeSlots got %v", got)
	}
	if got := cfg.CenterSlots(); !reflect.DeepEqual(got, []int{6, 7, 8, 9}) {
		t.Fatalf("CenterSlots got %v", got)
	}
	if got := cfg.JackpotSlots(board.Medium); !reflect.DeepEqual(got, []int{7, 8}) {
		t.Fatalf("JackpotSlots(medium) got %v", got)
	}
	if got := cfg.JackpotSlots(board.High); !reflect.DeepEqual(got, []int{7, 8}) {
		t.Fatalf("JackpotSlots(high) got %v", got)
	}
}

func TestRiskLevelNorm(t *testing.T) {
	cases := map[board.RiskLevel]board.RiskLevel{
		board.Low:    board.Low,
		board.Medium: board.Medium,
		board.High:   board.High,
		"extreme":    board.Medium,
		"":           board.Medium,
		"HIGH":       board.Medium, // lowercasing is the caller's job
	}
	for in, want := range cases {
		if got := in.Norm(); got != want {
			t.Fatalf("Norm(%q) got %q want %q", in, got, want)
		}
	}
	if board.RiskLevel("turbo").Known() {
		t.Fatal("Known(turbo) got true")
	}
}

func TestTableFallsBackToMedium(t *testing.T) {
	cfg := board.Default16()
	if got := cfg.Table("mystery"); !reflect.DeepEqual(got, cfg.Table(board.Medium)) {
		t.Fatal("unknown risk level did not fall back to medium table")
	}
}

// ============================================================
// ** 設定載入 **
// ============================================================

const yamlCfg = `
slots: 4
multipliers:
  low: [1.0, 0.5, 0.5, 1.0]
  medium: [2.0, 0.5, 0.5, 2.0]
  high: [10.0, 0.2, 0.2, 10.0]
chi_critical: 7.81
jackpot_prob:
  high: 25.0
`

func TestGetConfigByYAML(t *testing.T) {
	cfg, err := board.GetConfigByYAML([]byte(yamlCfg))
	if err != nil {
		t.Fatalf("GetConfigByYAML: %v", err)
	}
	if cfg.Slots != 4 || cfg.ChiCritical != 7.81 {
		t.Fatalf("loaded config got %+v", cfg)
	}
	if got := cfg.MaxMultiplier(board.High); got != 10.0 {
		t.Fatalf("high max got %v want 10.0", got)
	}
	if got := cfg.JackpotProb[board.High]; got != 25.0 {
		t.Fatalf("high jackpot prob got %v want 25.0", got)
	}
	// unset levels fall back to the center-pair theoretical mass: 75%
	if got := cfg.JackpotProb[board.Low]; got != 75.0 {
		t.Fatalf("low jackpot prob got %v want 75.0", got)
	}
}

func TestGetConfigByYAMLRejectsUnknownRisk(t *testing.T) {
	bad := `
slots: 4
multipliers:
  turbo: [1.0, 0.5, 0.5, 1.0]
`
	if _, err := board.GetConfigByYAML([]byte(bad)); err == nil {
		t.Fatal("unknown risk level passed loader, want error")
	}
}

func TestGetConfigByJSON(t *testing.T) {
	jsonCfg := `{
		"slots": 4,
		"multipliers": {
			"low": [1.0, 0.5, 0.5, 1.0],
			"medium": [1.0, 0.5, 0.5, 1.0],
			"high": [1.0, 0.5, 0.5, 1.0]
		}
	}`
	cfg, err := board.GetConfigByJSON([]byte(jsonCfg))
	if err != nil {
		t.Fatalf("GetConfigByJSON: %v", err)
	}
	// defaults filled for a non-reference board
	if cfg.ChiCritical == 0 || cfg.DevThreshold != 1.0 {
		t.Fatalf("defaults not filled: %+v", cfg)
	}
}
