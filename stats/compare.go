package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
)

// ComparisonReport 跨風險等級的描述統計與輸贏分層。
type ComparisonReport struct {
	RiskLevel     board.RiskLevel `json:"risk_level"`
	TotalDrops    int             `json:"total_drops"`
	AvgMult       float64         `json:"avg_multiplier"`
	MedianMult    float64         `json:"median_multiplier"`
	StdDeviation  float64         `json:"std_deviation"`
	RTPActual     float64         `json:"rtp_actual"`
	RTPTheo       float64         `json:"rtp_theoretical"`
	LossRate      float64         `json:"loss_rate"`
	SmallWinRate  float64         `json:"small_win_rate"`
	MediumWinRate float64         `json:"medium_win_rate"`
	BigWinRate    float64         `json:"big_win_rate"`
	JackpotRate   float64         `json:"jackpot_rate"`
	MaxMultiplier float64         `json:"max_multiplier"`
}

// CompareRisks builds one ComparisonReport per risk level that has outcomes,
// in fixed low/medium/high order. Empty levels are skipped, no placeholder.
//
// Win tiers are mutually exclusive and exhaustive: <1 / [1,2) / [2,10) / ≥10.
// Their rates sum to 100% within rounding.
func CompareRisks(cfg *board.Config, windows map[board.RiskLevel][]outcome.Outcome) []ComparisonReport {
	out := make([]ComparisonReport, 0, len(windows))
	for _, lv := range board.Levels() {
		window := windows[lv]
		if len(window) == 0 {
			continue
		}
		out = append(out, compareOne(cfg, lv, window))
	}
	return out
}

func compareOne(cfg *board.Config, lv board.RiskLevel, window []outcome.Outcome) ComparisonReport {
	mults := outcome.Multipliers(window)
	n := len(mults)

	var loss, small, medium, big int
	for _, m := range mults {
		switch {
		case m < 1.0:
			loss++
		case m < 2.0:
			small++
		case m < 10.0:
			medium++
		default:
			big++
		}
	}

	// Jackpot detection here is value-based: any multiplier reaching the
	// table max counts, regardless of which slot produced it.
	maxMult := cfg.MaxMultiplier(lv)
	jackpots := 0
	for _, m := range mults {
		if m >= maxMult {
			jackpots++
		}
	}

	mean := stat.Mean(mults, nil)
	std := 0.0
	if n > 1 {
		std = stat.StdDev(mults, nil)
	}

	pct := func(k int) float64 { return float64(k) / float64(n) * 100 }

	return ComparisonReport{
		RiskLevel:     lv,
		TotalDrops:    n,
		AvgMult:       Round4(mean),
		MedianMult:    Round4(median(mults)),
		StdDeviation:  Round4(std),
		RTPActual:     Round2(mean * 100),
		RTPTheo:       cfg.RTPTheoretical,
		LossRate:      Round2(pct(loss)),
		SmallWinRate:  Round2(pct(small)),
		MediumWinRate: Round2(pct(medium)),
		BigWinRate:    Round2(pct(big)),
		JackpotRate:   Round4(pct(jackpots)),
		MaxMultiplier: maxMult,
	}
}

// median 偶數長度取中間兩值平均。
func median(xs []float64) float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return (cp[mid-1] + cp[mid]) / 2
}
