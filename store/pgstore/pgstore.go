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

// Package pgstore implements the outcome store on Postgres. Windows are
// always returned ordered recorded_at DESC — the most-recent-first contract
// the jackpot tracker depends on is guaranteed here, at the boundary.
package pgstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/errs"
	"github.com/crashgames/plinkostat/outcome"
)

const (
	table     = "plinko_rounds"
	colDropID = "drop_id"
	colRisk   = "risk_level"
	colRows   = "row_count"
	colSlot   = "landing_slot"
	colMult   = "multiplier"
	colRecAt  = "recorded_at"
)

type Store struct {
	dbc *pgxpool.Pool
}

func New(dbc *pgxpool.Pool) *Store {
	return &Store{dbc: dbc}
}

// EnsureSchema creates the rounds table and its indexes when missing.
// Called once at service startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
			id BIGSERIAL PRIMARY KEY,
			` + colDropID + ` TEXT NOT NULL UNIQUE,
			` + colRisk + ` TEXT NOT NULL,
			` + colRows + ` INT NOT NULL,
			` + colSlot + ` INT NOT NULL,
			` + colMult + ` DOUBLE PRECISION NOT NULL,
			` + colRecAt + ` TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plinko_rounds_recorded ON ` + table + ` (` + colRecAt + ` DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_plinko_rounds_risk ON ` + table + ` (` + colRisk + `)`,
		`CREATE INDEX IF NOT EXISTS idx_plinko_rounds_mult ON ` + table + ` (` + colMult + `)`,
	}
	for _, stmt := range stmts {
		if _, err := s.dbc.Exec(ctx, stmt); err != nil {
			return errs.Wrap(err, "ensure schema")
		}
	}
	return nil
}

// Window 取單一風險等級在回看範圍內的落球，由新到舊。
func (s *Store) Window(ctx context.Context, hours int, risk board.RiskLevel) ([]outcome.Outcome, error) {
	return s.window(ctx, hours, string(risk))
}

// Combined 取所有風險等級的落球，由新到舊。
func (s *Store) Combined(ctx context.Context, hours int) ([]outcome.Outcome, error) {
	return s.window(ctx, hours, "")
}

func (s *Store) window(ctx context.Context, hours int, risk string) ([]outcome.Outcome, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	query := sq.Select(colDropID, colRisk, colRows, colSlot, colMult, colRecAt).
		From(table).
		Where(sq.GtOrEq{colRecAt: cutoff}).
		OrderBy(colRecAt + " DESC").
		PlaceholderFormat(sq.Dollar)
	if risk != "" {
		query = query.Where(sq.Eq{colRisk: risk})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, errs.Wrap(err, "build window query")
	}

	rows, err := s.dbc.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errs.Wrap(err, "query outcome window")
	}
	defer rows.Close()

	var out []outcome.Outcome
	for rows.Next() {
		var o outcome.Outcome
		var riskStr string
		if err := rows.Scan(&o.DropID, &riskStr, &o.RowCount, &o.Slot, &o.Multiplier, &o.RecordedAt); err != nil {
			return nil, errs.Wrap(err, "scan outcome row")
		}
		o.Risk = board.RiskLevel(riskStr).Norm()
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate outcome rows")
	}
	return out, nil
}

// Save 寫入一筆落球；drop_id 重複時靜默略過。
func (s *Store) Save(ctx context.Context, o outcome.Outcome) error {
	query := sq.Insert(table).
		Columns(colDropID, colRisk, colRows, colSlot, colMult, colRecAt).
		Values(o.DropID, string(o.Risk.Norm()), o.RowCount, o.Slot, o.Multiplier, o.RecordedAt).
		Suffix("ON CONFLICT (" + colDropID + ") DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return errs.Wrap(err, "build insert query")
	}
	if _, err := s.dbc.Exec(ctx, sqlStr, args...); err != nil {
		return errs.Wrap(err, "insert outcome")
	}
	return nil
}

// LastUpdate returns the timestamp of the newest stored outcome, or zero
// time when the table is empty.
func (s *Store) LastUpdate(ctx context.Context) (time.Time, error) {
	sqlStr, args, err := sq.Select("MAX(" + colRecAt + ")").From(table).ToSql()
	if err != nil {
		return time.Time{}, errs.Wrap(err, "build last update query")
	}
	var last *time.Time
	if err := s.dbc.QueryRow(ctx, sqlStr, args...).Scan(&last); err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, errs.Wrap(err, "query last update")
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// SummaryStats 全表摘要。
type SummaryStats struct {
	TotalDrops   int     `json:"total_drops"`
	AvgMult      float64 `json:"avg_multiplier"`
	MedianMult   float64 `json:"median_multiplier"`
	MaxMult      float64 `json:"max_multiplier"`
	MinMult      float64 `json:"min_multiplier"`
	Under2xCount int     `json:"under_2x_count"`
	Over10xCount int     `json:"over_10x_count"`
}

// Summary 單趟查詢整表的描述統計。
func (s *Store) Summary(ctx context.Context) (SummaryStats, error) {
	const sqlStr = `SELECT
		COUNT(*),
		COALESCE(AVG(` + colMult + `), 0),
		COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY ` + colMult + `), 0),
		COALESCE(MAX(` + colMult + `), 0),
		COALESCE(MIN(` + colMult + `), 0),
		COUNT(*) FILTER (WHERE ` + colMult + ` < 2),
		COUNT(*) FILTER (WHERE ` + colMult + ` >= 10)
	FROM ` + table

	var st SummaryStats
	err := s.dbc.QueryRow(ctx, sqlStr).Scan(
		&st.TotalDrops, &st.AvgMult, &st.MedianMult,
		&st.MaxMult, &st.MinMult, &st.Under2xCount, &st.Over10xCount,
	)
	if err != nil {
		return SummaryStats{}, errs.Wrap(err, "query summary")
	}
	return st, nil
}

// RecentStats 最近 N 筆的摘要。
type RecentStats struct {
	AvgMult    float64 `json:"avg_multiplier"`
	Under2xPct float64 `json:"under_2x_pct"`
}

// Recent summarizes the most recent limit outcomes.
func (s *Store) Recent(ctx context.Context, limit int) (RecentStats, error) {
	const sqlStr = `SELECT
		COALESCE(AVG(` + colMult + `), 0),
		COALESCE(100.0 * COUNT(*) FILTER (WHERE ` + colMult + ` < 2) / NULLIF(COUNT(*), 0), 0)
	FROM (SELECT ` + colMult + ` FROM ` + table + ` ORDER BY ` + colRecAt + ` DESC LIMIT $1) recent`

	var st RecentStats
	if err := s.dbc.QueryRow(ctx, sqlStr, limit).Scan(&st.AvgMult, &st.Under2xPct); err != nil {
		return RecentStats{}, errs.Wrap(err, "query recent stats")
	}
	return st, nil
}

// Bucket 賠率落點分桶。
type Bucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// 固定分桶邊界（含下界、含上界），與前端展示一致。
var bucketRanges = []struct {
	label string
	lo    float64
	hi    float64 // hi < 0 代表無上界
}{
	{"instant", 1, 1},
	{"1.01-1.5x", 1.01, 1.5},
	{"1.51-2x", 1.51, 2},
	{"2.01-3x", 2.01, 3},
	{"3.01-5x", 3.01, 5},
	{"5.01-10x", 5.01, 10},
	{"10.01-50x", 10.01, 50},
	{"50.01-100x", 50.01, 100},
	{"100x+", 100.01, -1},
}

// Buckets counts outcomes per multiplier range.
func (s *Store) Buckets(ctx context.Context) ([]Bucket, error) {
	totalSQL, _, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return nil, errs.Wrap(err, "build total count query")
	}
	var total int
	if err := s.dbc.QueryRow(ctx, totalSQL).Scan(&total); err != nil {
		return nil, errs.Wrap(err, "query total count")
	}

	out := make([]Bucket, 0, len(bucketRanges))
	for _, br := range bucketRanges {
		query := sq.Select("COUNT(*)").From(table).PlaceholderFormat(sq.Dollar)
		if br.hi < 0 {
			query = query.Where(sq.GtOrEq{colMult: br.lo})
		} else {
			query = query.Where(sq.GtOrEq{colMult: br.lo}).Where(sq.LtOrEq{colMult: br.hi})
		}
		sqlStr, args, err := query.ToSql()
		if err != nil {
			return nil, errs.Wrap(err, "build bucket query")
		}
		var count int
		if err := s.dbc.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
			return nil, errs.Wrap(err, "query bucket count")
		}
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		out = append(out, Bucket{Range: br.label, Count: count, Percentage: pct})
	}
	return out, nil
}
