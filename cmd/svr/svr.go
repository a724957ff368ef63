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
	"github.com/crashgames/plinkostat/server"
	"github.com/crashgames/plinkostat/server/logger"
	"github.com/crashgames/plinkostat/server/svrcfg"
	"github.com/crashgames/plinkostat/store/pgstore"
)

// 統計服務入口。資料庫連線字串走 PG_DSN 環境變數（.env 可覆蓋），
// 其餘用 flag。
func main() {
	cfg, cleanup, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	server.Run(cfg)
}

type config struct {
	LogMode   string
	Addr      string
	BoardYAML string
}

func loadConfig() (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.Addr, "addr", ":8000", "listen address")
	flag.StringVar(&cfg.BoardYAML, "board", "", "board config yaml path (empty = builtin 16-slot)")
	flag.Parse()

	// .env 不存在時不報錯，維持十二因子慣例。
	_ = godotenv.Load()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		return nil, nil, fmt.Errorf("PG_DSN is required")
	}

	log, ah := logger.NewAsync(4096, cfg.norm())

	boardCfg, err := loadBoard(cfg.BoardYAML)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := pgstore.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	rep, err := plinkostat.NewReporter(boardCfg, store, log)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	sCfg := &svrcfg.SvrCfg{
		Log:      log,
		Reporter: rep,
		Drops:    store,
		Addr:     cfg.Addr,
	}
	cleanup := func() {
		pool.Close()
		ah.Close()
	}
	return sCfg, cleanup, nil
}

func loadBoard(path string) (*board.Config, error) {
	if path == "" {
		return board.Default16(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board config: %w", err)
	}
	return board.GetConfigByYAML(raw)
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
