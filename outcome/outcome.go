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

// Package outcome defines the immutable record of one completed Plinko drop.
package outcome

import (
	"time"

	"github.com/crashgames/plinkostat/board"
)

// Outcome 一次完整落球的紀錄。Produced once by the ingestion pipeline and
// treated as read-only by every analyzer.
type Outcome struct {
	DropID     string          `json:"drop_id"`
	Risk       board.RiskLevel `json:"risk_level"`
	RowCount   int             `json:"row_count"`
	Slot       int             `json:"landing_slot"`
	Multiplier float64         `json:"multiplier"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// MostRecentFirst reports whether the window is ordered newest to oldest.
//
// Jackpot 追蹤要求輸入由新到舊排序；這個檢查屬於資料取得邊界
// （store / orchestrator），分析器本身不驗證也不重排。
func MostRecentFirst(window []Outcome) bool {
	for i := 1; i < len(window); i++ {
		if window[i].RecordedAt.After(window[i-1].RecordedAt) {
			return false
		}
	}
	return true
}

// Multipliers collects the multiplier column of a window.
func Multipliers(window []Outcome) []float64 {
	out := make([]float64, len(window))
	for i, o := range window {
		out[i] = o.Multiplier
	}
	return out
}
