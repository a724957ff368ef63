package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// FmtDistribution renders a DistributionReport as an aligned two-column
// table for terminal output.
func FmtDistribution(rep DistributionReport) string {
	p := message.NewPrinter(lang)
	keys := []string{
		"Risk Level", "Total Drops", "Most Hit Slot", "Least Hit Slot",
		"Avg Multiplier", "Edge Rate", "Center Rate", "Jackpot Rate",
	}
	msg := map[string]string{
		"Risk Level":     string(rep.RiskLevel),
		"Total Drops":    p.Sprintf("%d", rep.TotalDrops),
		"Most Hit Slot":  p.Sprintf("%d", rep.MostHitSlot),
		"Least Hit Slot": p.Sprintf("%d", rep.LeastHit),
		"Avg Multiplier": p.Sprintf("%.4f", rep.AvgMult),
		"Edge Rate":      p.Sprintf("%.2f %%", rep.EdgeRate),
		"Center Rate":    p.Sprintf("%.2f %%", rep.CenterRate),
		"Jackpot Rate":   p.Sprintf("%.4f %%", rep.JackpotRate),
	}
	return fmtTable("Slot Distribution ("+string(rep.RiskLevel)+")", keys, msg)
}

// FmtComparison renders one risk level's comparison row.
func FmtComparison(rep ComparisonReport) string {
	p := message.NewPrinter(lang)
	keys := []string{
		"Risk Level", "Total Drops", "Avg / Median", "Std Deviation",
		"RTP Actual", "RTP Theoretical", "Loss Rate", "Small Win", "Medium Win",
		"Big Win", "Jackpot Rate", "Max Multiplier",
	}
	msg := map[string]string{
		"Risk Level":      string(rep.RiskLevel),
		"Total Drops":     p.Sprintf("%d", rep.TotalDrops),
		"Avg / Median":    p.Sprintf("%.4f / %.4f", rep.AvgMult, rep.MedianMult),
		"Std Deviation":   p.Sprintf("%.4f", rep.StdDeviation),
		"RTP Actual":      p.Sprintf("%.2f %%", rep.RTPActual),
		"RTP Theoretical": p.Sprintf("%.2f %%", rep.RTPTheo),
		"Loss Rate":       p.Sprintf("%.2f %%", rep.LossRate),
		"Small Win":       p.Sprintf("%.2f %%", rep.SmallWinRate),
		"Medium Win":      p.Sprintf("%.2f %%", rep.MediumWinRate),
		"Big Win":         p.Sprintf("%.2f %%", rep.BigWinRate),
		"Jackpot Rate":    p.Sprintf("%.4f %%", rep.JackpotRate),
		"Max Multiplier":  p.Sprintf("%.1fx", rep.MaxMultiplier),
	}
	return fmtTable("Risk Comparison ("+string(rep.RiskLevel)+")", keys, msg)
}

// FmtJackpot renders the jackpot tracker state.
func FmtJackpot(st JackpotState) string {
	p := message.NewPrinter(lang)
	last := "-"
	if st.LastJackpotTime != nil {
		last = st.LastJackpotTime.Format("2006-01-02 15:04:05")
	}
	between := "-"
	if st.AvgDropsBetween != nil {
		between = p.Sprintf("%.1f", *st.AvgDropsBetween)
	}
	keys := []string{
		"Total Jackpots", "Last Jackpot", "Drops Since", "Avg Drops Between",
		"Theoretical Prob", "Current Drought",
	}
	msg := map[string]string{
		"Total Jackpots":    p.Sprintf("%d", st.TotalJackpots),
		"Last Jackpot":      last,
		"Drops Since":       p.Sprintf("%d", st.DropsSince),
		"Avg Drops Between": between,
		"Theoretical Prob":  p.Sprintf("%.2f %%", st.JackpotProb),
		"Current Drought":   fmt.Sprintf("%t", st.CurrentDrought),
	}
	return fmtTable("Jackpot Tracker", keys, msg)
}

// FmtFairness renders the fairness verdict.
func FmtFairness(rep FairnessReport) string {
	p := message.NewPrinter(lang)
	keys := []string{
		"Risk Level", "Chi-Square", "Deviation Score", "Is Fair",
		"Overperforming", "Underperforming",
	}
	msg := map[string]string{
		"Risk Level":      string(rep.RiskLevel),
		"Chi-Square":      p.Sprintf("%.4f", rep.ChiSquare),
		"Deviation Score": p.Sprintf("%.4f", rep.DeviationScore),
		"Is Fair":         fmt.Sprintf("%t", rep.IsFair),
		"Overperforming":  fmtSlotList(rep.Overperforming),
		"Underperforming": fmtSlotList(rep.Underperforming),
	}
	return fmtTable("Fairness ("+string(rep.RiskLevel)+")", keys, msg)
}

func fmtSlotList(slots []int) string {
	if len(slots) == 0 {
		return "-"
	}
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ", ")
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)))
		b.WriteString(" | " + msg[k] + blank(maxValLen-2-runewidth.StringWidth(msg[k])) + " |\n")
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
