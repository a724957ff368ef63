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

// Package ingest turns arbitrary game-feed payloads into typed Outcome
// records. Field names vary between providers, so extraction is heuristic:
// a fixed list of known aliases per field, with a one-level descent into
// "result"/"data" envelopes. The analysis engine never sees partially-typed
// data — a payload either becomes a valid Outcome or a structured Reject.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
)

// Reason 拒收分類。
type Reason uint8

const (
	ReasonBadPayload   Reason = iota // not a JSON object
	ReasonNotResult                  // message type present but not a drop-result type
	ReasonNoMultiplier               // no usable multiplier field
	ReasonNoSlot                     // no usable landing-slot field
	ReasonNoDropID                   // no usable drop identifier
	ReasonBadValue                   // extracted value violates the Outcome contract
)

var reasonNames = map[Reason]string{
	ReasonBadPayload:   "bad_payload",
	ReasonNotResult:    "not_result",
	ReasonNoMultiplier: "no_multiplier",
	ReasonNoSlot:       "no_slot",
	ReasonNoDropID:     "no_drop_id",
	ReasonBadValue:     "bad_value",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// Reject is the structured rejection side of the parse result.
type Reject struct {
	Reason Reason
	Detail string
}

func (r *Reject) Error() string {
	if r.Detail == "" {
		return "ingest reject: " + r.Reason.String()
	}
	return fmt.Sprintf("ingest reject: %s (%s)", r.Reason, r.Detail)
}

func reject(reason Reason, detail string) *Reject {
	return &Reject{Reason: reason, Detail: detail}
}

// AsReject unwraps a parse error back into its structured form.
func AsReject(err error) (*Reject, bool) {
	r, ok := err.(*Reject)
	return r, ok
}

// Known field aliases, collected from observed provider feeds.
var (
	multiplierFields = []string{"multiplier", "payout", "result", "coefficient", "odds", "prize", "win"}
	dropIDFields     = []string{"dropId", "gameId", "id", "drop", "dropNumber", "gameNumber", "sessionId", "ballId"}
	riskFields       = []string{"risk", "riskLevel", "risk_level", "difficulty", "mode"}
	rowsFields       = []string{"rows", "rowCount", "row_count", "pins", "levels"}
	slotFields       = []string{"position", "landing", "slot", "bucket", "landingPosition", "landing_position", "finalPosition", "final_position"}
	typeFields       = []string{"type", "t", "action", "event", "messageType", "cmd"}
)

// endTypes 代表一次落球已完成的訊息類型。
var endTypes = map[string]struct{}{
	"drop_result": {}, "result": {}, "finish": {}, "end": {},
	"ball_landed": {}, "drop_end": {}, "completed": {}, "landed": {},
}

const defaultRowCount = 16

// Parse extracts one Outcome from a raw feed payload. recordedAt is stamped
// by the caller (arrival time); the feed itself carries no usable clock.
func Parse(payload []byte, recordedAt time.Time) (outcome.Outcome, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return outcome.Outcome{}, reject(ReasonBadPayload, err.Error())
	}
	return ParseMap(data, recordedAt)
}

// ParseMap is Parse for already-decoded payloads.
func ParseMap(data map[string]any, recordedAt time.Time) (outcome.Outcome, error) {
	if data == nil {
		return outcome.Outcome{}, reject(ReasonBadPayload, "nil payload")
	}

	// 有訊息類型但不是落球完成 → 不是我們要的訊息。
	if t, ok := extractString(data, typeFields); ok {
		if _, end := endTypes[t]; !end {
			return outcome.Outcome{}, reject(ReasonNotResult, "type="+t)
		}
	}

	mult, ok := extractFloat(data, multiplierFields)
	if !ok {
		return outcome.Outcome{}, reject(ReasonNoMultiplier, "")
	}
	slot, ok := extractInt(data, slotFields)
	if !ok {
		return outcome.Outcome{}, reject(ReasonNoSlot, "")
	}
	dropID, ok := extractString(data, dropIDFields)
	if !ok || dropID == "" {
		return outcome.Outcome{}, reject(ReasonNoDropID, "")
	}

	risk := board.Medium
	if raw, ok := extractString(data, riskFields); ok {
		risk = board.RiskLevel(strings.ToLower(raw)).Norm()
	}
	rows, ok := extractInt(data, rowsFields)
	if !ok {
		rows = defaultRowCount
	}

	if mult <= 0 {
		return outcome.Outcome{}, reject(ReasonBadValue, fmt.Sprintf("multiplier=%v", mult))
	}
	if slot < 0 {
		return outcome.Outcome{}, reject(ReasonBadValue, fmt.Sprintf("slot=%d", slot))
	}
	if rows <= 0 {
		return outcome.Outcome{}, reject(ReasonBadValue, fmt.Sprintf("rows=%d", rows))
	}

	return outcome.Outcome{
		DropID:     dropID,
		Risk:       risk,
		RowCount:   rows,
		Slot:       slot,
		Multiplier: mult,
		RecordedAt: recordedAt,
	}, nil
}

// ============================================================
// ** 欄位抽取 **
// ============================================================

// descend 允許往 result/data 內層找一輪。
func descend(data map[string]any) []map[string]any {
	out := make([]map[string]any, 0, 2)
	for _, key := range []string{"result", "data"} {
		if sub, ok := data[key].(map[string]any); ok {
			out = append(out, sub)
		}
	}
	return out
}

func extractString(data map[string]any, fields []string) (string, bool) {
	if s, ok := topString(data, fields); ok {
		return s, true
	}
	for _, sub := range descend(data) {
		if s, ok := topString(sub, fields); ok {
			return s, true
		}
	}
	return "", false
}

func extractFloat(data map[string]any, fields []string) (float64, bool) {
	if x, ok := topFloat(data, fields); ok {
		return x, true
	}
	for _, sub := range descend(data) {
		if x, ok := topFloat(sub, fields); ok {
			return x, true
		}
	}
	return 0, false
}

// topString 只看當前層的鍵，不再往下鑽。
func topString(data map[string]any, fields []string) (string, bool) {
	for _, f := range fields {
		if v, ok := data[f]; ok {
			switch s := v.(type) {
			case string:
				return s, true
			case float64:
				return strconv.FormatFloat(s, 'f', -1, 64), true
			}
		}
	}
	return "", false
}

func topFloat(data map[string]any, fields []string) (float64, bool) {
	for _, f := range fields {
		v, ok := data[f]
		if !ok {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x, true
		case string:
			if parsed, err := strconv.ParseFloat(x, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func extractInt(data map[string]any, fields []string) (int, bool) {
	if x, ok := extractFloat(data, fields); ok {
		return int(x), true
	}
	return 0, false
}
