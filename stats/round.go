package stats

import "math"

// Report-facing rounding. Percentages round to 2 decimal places, averages
// and chi-square scores to 4, jackpot gaps to 1.

func Round1(x float64) float64 { return math.Round(x*10) / 10 }

func Round2(x float64) float64 { return math.Round(x*100) / 100 }

func Round4(x float64) float64 { return math.Round(x*10000) / 10000 }
