// Copyright 2026 Crash Games Network
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// CLI 報表：從 Postgres 拉回看窗格，在終端機印出統計表格。
// 給營運巡檢用，不經過 HTTP 服務。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/crashgames/plinkostat"
	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/stats"
	"github.com/crashgames/plinkostat/store/pgstore"
)

func main() {
	period := flag.String("period", "24h", "report period: 1h|6h|24h|7d|30d")
	flag.Parse()

	if err := run(*period); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(period string) error {
	_ = godotenv.Load()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		return fmt.Errorf("PG_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	rep, err := plinkostat.NewReporter(board.Default16(), pgstore.New(pool), nil)
	if err != nil {
		return err
	}
	agg, err := rep.Build(ctx, period)
	if err != nil {
		return err
	}

	fmt.Printf("plinko report — period %s, %d drops, overall RTP %.2f%%\n\n",
		agg.Period, agg.TotalDrops, agg.OverallRTP)

	for _, lv := range board.Levels() {
		if dist, ok := agg.SlotDistributions[lv]; ok {
			fmt.Println(stats.FmtDistribution(dist))
		}
	}
	for _, cmp := range agg.RiskComparisons {
		fmt.Println(stats.FmtComparison(cmp))
	}
	for _, lv := range board.Levels() {
		if fa, ok := agg.Fairness[lv]; ok {
			fmt.Println(stats.FmtFairness(fa))
		}
	}
	fmt.Println(stats.FmtJackpot(agg.Jackpot))
	return nil
}
