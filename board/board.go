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

// Package board holds the static configuration of a Plinko board: the
// multiplier-per-slot tables for each risk level and the theoretical landing
// distribution. A Config is built once at startup and passed by reference
// into every analyzer call; it is never mutated afterwards.
package board

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/crashgames/plinkostat/errs"
)

// RiskLevel 風險等級：選擇一組賠率表，等級越高變異越大。
type RiskLevel string

const (
	Low    RiskLevel = "low"
	Medium RiskLevel = "medium"
	High   RiskLevel = "high"
)

// Levels returns the known risk levels in fixed order.
func Levels() []RiskLevel {
	return []RiskLevel{Low, Medium, High}
}

// Norm maps unrecognized risk levels to Medium. 上游資料來源五花八門，
// 不認得的等級一律落回 medium，不報錯。
func (r RiskLevel) Norm() RiskLevel {
	switch r {
	case Low, Medium, High:
		return r
	default:
		return Medium
	}
}

func (r RiskLevel) Known() bool {
	switch r {
	case Low, Medium, High:
		return true
	default:
		return false
	}
}

// Config 一張 Plinko 板的完整靜態設定。
//
// All fields are read-only after Init. Derived index sets (edge / center /
// jackpot slots) are parameterized on Slots rather than hardcoded, so boards
// other than the 16-slot reference layout stay correct.
type Config struct {
	// Slots 落袋數（參考佈局為 16）。
	Slots int

	// Multipliers 每個風險等級的賠率表，長度 = Slots，沿中心對稱。
	Multipliers map[RiskLevel][]float64

	// Theoretical 每個落袋的理論機率質量，總和為 1（二項分布形狀）。
	Theoretical []float64

	// ChiCritical chi-square 檢定門檻（Slots-1 自由度、95% 信心水準的
	// 近似臨界值）。啟發式常數，不在每次檢定時重算。
	ChiCritical float64

	// DevThreshold over/under-performing 判定門檻（百分點）。
	DevThreshold float64

	// JackpotProb 每個風險等級的理論 jackpot 機率（百分比）。
	// 報表用固定常數，不由賠率表推導。
	JackpotProb map[RiskLevel]float64

	// RTPTheoretical 報表用的理論 RTP 常數。
	RTPTheoretical float64
}

// Reference 16-slot defaults (BGaming-style layout).
var (
	lowTable = []float64{
		0.5, 0.5, 0.5, 0.7, 0.7, 1.0, 1.0, 1.4,
		1.4, 1.0, 1.0, 0.7, 0.7, 0.5, 0.5, 0.5,
	}
	mediumTable = []float64{
		0.3, 0.4, 0.5, 0.7, 1.0, 1.5, 2.0, 9.0,
		9.0, 2.0, 1.5, 1.0, 0.7, 0.5, 0.4, 0.3,
	}
	highTable = []float64{
		0.2, 0.2, 0.3, 0.5, 1.0, 2.0, 7.0, 110.0,
		110.0, 7.0, 2.0, 1.0, 0.5, 0.3, 0.2, 0.2,
	}
)

const (
	defaultSlots        = 16
	defaultChiCritical  = 25.0 // df=15, 95%
	defaultDevThreshold = 1.0
	defaultRTP          = 99.0
)

// Default16 returns the reference 16-slot configuration: the standard
// multiplier tables and a binomial(Slots-1, 0.5) theoretical distribution.
func Default16() *Config {
	cfg := &Config{
		Slots: defaultSlots,
		Multipliers: map[RiskLevel][]float64{
			Low:    lowTable,
			Medium: mediumTable,
			High:   highTable,
		},
		Theoretical: BinomialPMF(defaultSlots),
		ChiCritical: defaultChiCritical,
		JackpotProb: map[RiskLevel]float64{
			Low:    39.3,
			Medium: 39.3,
			High:   0.3,
		},
	}
	if err := cfg.Init(); err != nil {
		// 內建設定必須合法；走到這裡代表表格被改壞了。
		panic(err)
	}
	return cfg
}

// BinomialPMF builds the theoretical landing distribution for a board with
// the given slot count: a ball falling through slots-1 peg rows with a fair
// left/right choice lands binomially.
func BinomialPMF(slots int) []float64 {
	bin := distuv.Binomial{N: float64(slots - 1), P: 0.5}
	pmf := make([]float64, slots)
	for k := range pmf {
		pmf[k] = bin.Prob(float64(k))
	}
	return pmf
}

// ChiCriticalFor returns the 95% chi-square critical value for slots-1
// degrees of freedom. Used to seed ChiCritical for non-reference boards.
func ChiCriticalFor(slots int) float64 {
	chi := distuv.ChiSquared{K: float64(slots - 1)}
	return chi.Quantile(0.95)
}

// Init fills defaults and validates the invariants. Must be called once
// before the config is shared; loaders call it for you.
func (c *Config) Init() error {
	if c.Slots < 4 {
		return errs.Warnf("board slots must be >= 4, got %d", c.Slots)
	}
	if len(c.Multipliers) == 0 {
		return errs.NewWarn("multiplier tables required")
	}
	for _, lv := range Levels() {
		table, ok := c.Multipliers[lv]
		if !ok {
			return errs.Warnf("missing multiplier table for risk level %q", lv)
		}
		if err := checkTable(string(lv), table, c.Slots); err != nil {
			return err
		}
	}
	if c.Theoretical == nil {
		c.Theoretical = BinomialPMF(c.Slots)
	}
	if err := checkPMF(c.Theoretical, c.Slots); err != nil {
		return err
	}
	if c.ChiCritical == 0 {
		if c.Slots == defaultSlots {
			c.ChiCritical = defaultChiCritical
		} else {
			c.ChiCritical = ChiCriticalFor(c.Slots)
		}
	}
	if c.DevThreshold == 0 {
		c.DevThreshold = defaultDevThreshold
	}
	if c.RTPTheoretical == 0 {
		c.RTPTheoretical = defaultRTP
	}
	if c.JackpotProb == nil {
		c.JackpotProb = map[RiskLevel]float64{}
	}
	for _, lv := range Levels() {
		if c.JackpotProb[lv] < 0 {
			return errs.Warnf("jackpot probability for %q must be >= 0", lv)
		}
		if c.JackpotProb[lv] == 0 {
			// 落回中心兩袋的理論機率（百分比）。
			center := c.CenterSlot()
			c.JackpotProb[lv] = round1((c.Theoretical[center] + c.Theoretical[center+1]) * 100)
		}
	}
	return nil
}

func checkTable(name string, table []float64, slots int) error {
	if len(table) != slots {
		return errs.Warnf("multiplier table %q has %d entries, board has %d slots", name, len(table), slots)
	}
	for i, m := range table {
		if m <= 0 {
			return errs.Warnf("multiplier table %q slot %d: value must be > 0", name, i)
		}
		if mirror := table[slots-1-i]; mirror != m {
			return errs.Warnf("multiplier table %q not symmetric at slot %d", name, i)
		}
	}
	return nil
}

func checkPMF(pmf []float64, slots int) error {
	if len(pmf) != slots {
		return errs.Warnf("theoretical distribution has %d entries, board has %d slots", len(pmf), slots)
	}
	sum := 0.0
	for i, p := range pmf {
		if p < 0 {
			return errs.Warnf("theoretical distribution slot %d: negative mass", i)
		}
		if mirror := pmf[slots-1-i]; math.Abs(mirror-p) > 1e-9 {
			return errs.Warnf("theoretical distribution not symmetric at slot %d", i)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return errs.Warnf("theoretical distribution sums to %.9f, want 1", sum)
	}
	return nil
}

// ============================================================
// ** 衍生索引集合 **
// ============================================================

// Table returns the multiplier table for the risk level; unrecognized levels
// fall back to the medium table rather than failing.
func (c *Config) Table(r RiskLevel) []float64 {
	if t, ok := c.Multipliers[r.Norm()]; ok {
		return t
	}
	return c.Multipliers[Medium]
}

// MaxMultiplier 該風險等級賠率表中的最大值（jackpot 判定基準）。
func (c *Config) MaxMultiplier(r RiskLevel) float64 {
	maxMult := 0.0
	for _, m := range c.Table(r) {
		if m > maxMult {
			maxMult = m
		}
	}
	return maxMult
}

// CenterSlot is the empty-window default for "most hit": the (lower) center
// of the board. 7 on the 16-slot reference layout.
func (c *Config) CenterSlot() int {
	return (c.Slots - 1) / 2
}

// EdgeSlots 邊緣落袋：左右各取三個（小板夾到 Slots/4）。
func (c *Config) EdgeSlots() []int {
	band := 3
	if q := c.Slots / 4; q < band {
		band = q
	}
	out := make([]int, 0, 2*band)
	for i := 0; i < band; i++ {
		out = append(out, i)
	}
	for i := c.Slots - band; i < c.Slots; i++ {
		out = append(out, i)
	}
	return out
}

// CenterSlots 中心落袋：最內側四個（小板夾到 Slots/2）。
func (c *Config) CenterSlots() []int {
	width := 4
	if h := c.Slots / 2; h < width {
		width = h
	}
	start := c.Slots/2 - width/2
	out := make([]int, 0, width)
	for i := start; i < start+width; i++ {
		out = append(out, i)
	}
	return out
}

// JackpotSlots 掛著該等級最大賠率的落袋（對稱板上是中心一對）。
func (c *Config) JackpotSlots(r RiskLevel) []int {
	table := c.Table(r)
	maxMult := c.MaxMultiplier(r)
	out := make([]int, 0, 2)
	for i, m := range table {
		if m == maxMult {
			out = append(out, i)
		}
	}
	return out
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
