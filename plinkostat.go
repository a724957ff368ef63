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

// Package plinkostat assembles the Plinko statistics engine: it resolves a
// reporting period to a lookback window, fetches outcome windows per risk
// level from the outcome store, runs the analyzers and builds one aggregate
// report. The engine holds no state across calls and persists nothing.
package plinkostat

import (
	"context"
	"log/slog"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/errs"
	"github.com/crashgames/plinkostat/outcome"
)

// OutcomeStore 外部落球儲存。
//
// Window returns one risk level's outcomes within the lookback, ordered
// most-recent-first; Combined returns all risk levels together under the
// same ordering. The ordering is a contract the store must guarantee — the
// analyzers do not re-sort.
type OutcomeStore interface {
	Window(ctx context.Context, hours int, risk board.RiskLevel) ([]outcome.Outcome, error)
	Combined(ctx context.Context, hours int) ([]outcome.Outcome, error)
}

// periodHours 報表期間對照表。
var periodHours = map[string]int{
	"1h":  1,
	"6h":  6,
	"24h": 24,
	"7d":  168,
	"30d": 720,
}

const defaultHours = 24

// ResolvePeriod maps a period token to a lookback in hours. Unknown tokens
// fall back to 24h rather than erroring.
func ResolvePeriod(period string) int {
	if h, ok := periodHours[period]; ok {
		return h
	}
	return defaultHours
}

// Reporter 統計報表協調器。Pure fan-out over the store plus the stats
// analyzers; safe for concurrent use.
type Reporter struct {
	cfg   *board.Config
	store OutcomeStore
	log   *slog.Logger
}

// NewReporter wires a board config and an outcome store into a Reporter.
// A nil logger silences boundary warnings.
func NewReporter(cfg *board.Config, store OutcomeStore, log *slog.Logger) (*Reporter, error) {
	if cfg == nil {
		return nil, errs.NewFatal("board config is required")
	}
	if store == nil {
		return nil, errs.NewFatal("outcome store is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Reporter{cfg: cfg, store: store, log: log}, nil
}

// Config exposes the board configuration the reporter was built with.
func (r *Reporter) Config() *board.Config {
	return r.cfg
}
