package stats

import (
	"time"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
)

// JackpotState jackpot 出現與乾旱（drought）狀態。
type JackpotState struct {
	TotalJackpots   int        `json:"total_jackpots"`
	LastJackpotTime *time.Time `json:"last_jackpot_time,omitempty"`
	DropsSince      int        `json:"drops_since_jackpot"`
	AvgDropsBetween *float64   `json:"average_drops_between,omitempty"`
	JackpotProb     float64    `json:"jackpot_probability"`
	CurrentDrought  bool       `json:"current_drought"`
}

// TrackJackpots detects maximum-payout outcomes in a window ordered
// most-recent-first and estimates drought status.
//
// The ordering precondition is the caller's contract (asserted at the store /
// orchestrator boundary); this function neither validates nor re-sorts.
// Gaps between successive jackpots are reported as positive drop counts:
// the raw index difference in a newest-first window would be non-positive,
// so the subtraction is oriented older-minus-newer.
func TrackJackpots(cfg *board.Config, window []outcome.Outcome, risk board.RiskLevel) JackpotState {
	maxMult := cfg.MaxMultiplier(risk)

	indices := make([]int, 0, 4)
	for i, o := range window {
		if o.Multiplier >= maxMult {
			indices = append(indices, i)
		}
	}

	state := JackpotState{
		TotalJackpots: len(indices),
		DropsSince:    len(window), // no jackpot anywhere in this window
		JackpotProb:   cfg.JackpotProb[risk.Norm()],
	}

	if len(indices) > 0 {
		state.DropsSince = indices[0]
		t := window[indices[0]].RecordedAt
		state.LastJackpotTime = &t
	}

	if len(indices) > 1 {
		gapSum := 0
		for i := 0; i+1 < len(indices); i++ {
			gapSum += indices[i+1] - indices[i]
		}
		avg := Round1(float64(gapSum) / float64(len(indices)-1))
		state.AvgDropsBetween = &avg
	}

	// Drought when the current jackpot-free streak exceeds 1.5x the expected
	// interval. Strict float comparison: at exactly the boundary it is not
	// yet a drought.
	if state.JackpotProb > 0 {
		expected := 100 / state.JackpotProb
		state.CurrentDrought = float64(state.DropsSince) > 1.5*expected
	}

	return state
}
