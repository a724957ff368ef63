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

package stats

import (
	"math"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
)

// SlotComparison 單一落袋的 observed / expected 對照。
type SlotComparison struct {
	Slot      int     `json:"slot"`
	Observed  int     `json:"observed"`
	Expected  float64 `json:"expected"`
	ActualPct float64 `json:"actual_pct"`
	TheoPct   float64 `json:"theoretical_pct"`
	Deviation float64 `json:"deviation"`
}

// FairnessReport chi-square 適合度檢定結果。
type FairnessReport struct {
	RiskLevel       board.RiskLevel  `json:"risk_level"`
	ChiSquare       float64          `json:"chi_square_score"`
	DeviationScore  float64          `json:"deviation_score"`
	IsFair          bool             `json:"is_fair"`
	SlotComparisons []SlotComparison `json:"slot_comparisons"`
	Overperforming  []int            `json:"overperforming_slots"`
	Underperforming []int            `json:"underperforming_slots"`
}

// AnalyzeFairness runs a chi-square goodness-of-fit test of the observed slot
// distribution against the board's theoretical one, and flags slots deviating
// more than the configured threshold (percentage points) either way.
func AnalyzeFairness(cfg *board.Config, window []outcome.Outcome, risk board.RiskLevel) FairnessReport {
	if len(window) == 0 {
		return FairnessReport{
			RiskLevel:       risk,
			ChiSquare:       0,
			DeviationScore:  0,
			IsFair:          true,
			SlotComparisons: []SlotComparison{},
			Overperforming:  []int{},
			Underperforming: []int{},
		}
	}

	counts := make([]int, cfg.Slots)
	for _, o := range window {
		if o.Slot >= 0 && o.Slot < cfg.Slots {
			counts[o.Slot]++
		}
	}

	n := len(window)
	chiSquare := 0.0
	totalDev := 0.0
	comparisons := make([]SlotComparison, cfg.Slots)
	over := make([]int, 0)
	under := make([]int, 0)

	for i := 0; i < cfg.Slots; i++ {
		observed := counts[i]
		expected := cfg.Theoretical[i] * float64(n)

		// expected==0 貢獻略過；合法 PMF 不會發生，防禦用。
		if expected > 0 {
			diff := float64(observed) - expected
			chiSquare += diff * diff / expected
		}

		actualPct := float64(observed) / float64(n) * 100
		theoPct := cfg.Theoretical[i] * 100
		deviation := actualPct - theoPct

		comparisons[i] = SlotComparison{
			Slot:      i,
			Observed:  observed,
			Expected:  Round2(expected),
			ActualPct: Round2(actualPct),
			TheoPct:   Round2(theoPct),
			Deviation: Round2(deviation),
		}
		// deviation_score 累積用的是報表上的整約值。
		totalDev += math.Abs(comparisons[i].Deviation)

		switch {
		case deviation > cfg.DevThreshold:
			over = append(over, i)
		case deviation < -cfg.DevThreshold:
			under = append(under, i)
		}
	}

	return FairnessReport{
		RiskLevel:       risk,
		ChiSquare:       Round4(chiSquare),
		DeviationScore:  Round4(math.Min(totalDev/100, 1.0)),
		IsFair:          chiSquare < cfg.ChiCritical,
		SlotComparisons: comparisons,
		Overperforming:  over,
		Underperforming: under,
	}
}
