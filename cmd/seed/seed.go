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

// 測試資料產生器：模擬 Plinko 落球寫入 Postgres，供統計端點有料可看。
// 落點用 rows 次公平硬幣模擬（二項分佈），與理論分佈一致，
// 所以 fairness 端點對種子資料應回報 is_fair=true。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/crashgames/plinkostat/board"
	"github.com/crashgames/plinkostat/outcome"
	"github.com/crashgames/plinkostat/store/pgstore"
)

func main() {
	var (
		n     = flag.Int("n", 10000, "number of drops to generate")
		days  = flag.Int("days", 30, "spread drops over the last N days")
		seed  = flag.Uint64("seed", 0, "rng seed (0 = random)")
		quiet = flag.Bool("quiet", false, "suppress progress bar")
	)
	flag.Parse()

	if err := run(*n, *days, *seed, *quiet); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(n, days int, seed uint64, quiet bool) error {
	_ = godotenv.Load()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		return fmt.Errorf("PG_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store := pgstore.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	cfg := board.Default16()
	levels := board.Levels()
	span := time.Duration(days) * 24 * time.Hour
	now := time.Now().UTC()

	bar := pb.StartNew(n)
	if quiet {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < n; i++ {
		risk := levels[rng.IntN(len(levels))]
		slot := dropBall(rng, cfg.Slots)
		o := outcome.Outcome{
			DropID:     fmt.Sprintf("seed-%d-%06d", seed, i),
			Risk:       risk,
			RowCount:   cfg.Slots - 1,
			Slot:       slot,
			Multiplier: cfg.Table(risk)[slot],
			RecordedAt: now.Add(-time.Duration(rng.Int64N(int64(span)))),
		}
		if err := store.Save(ctx, o); err != nil {
			bar.Finish()
			return err
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	fmt.Printf("seeded %d drops in %s (seed=%d)\n", n, used.Round(time.Millisecond), seed)
	return nil
}

// dropBall 模擬一顆球走 slots-1 排釘子，每排公平地往左或往右。
func dropBall(rng *rand.Rand, slots int) int {
	s := 0
	for i := 0; i < slots-1; i++ {
		if rng.IntN(2) == 1 {
			s++
		}
	}
	return s
}
