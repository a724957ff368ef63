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

package svrcfg

import (
	"context"
	"log/slog"
	"time"

	"github.com/crashgames/plinkostat"
	"github.com/crashgames/plinkostat/errs"
	"github.com/crashgames/plinkostat/outcome"
	"github.com/crashgames/plinkostat/server/logger"
	"github.com/crashgames/plinkostat/store/pgstore"
)

// DropStore 是 /api/drops/* 端點所需的儲存面。
// pgstore.Store 是預設實作；測試可注入記憶體版。
type DropStore interface {
	Save(ctx context.Context, o outcome.Outcome) error
	LastUpdate(ctx context.Context) (time.Time, error)
	Summary(ctx context.Context) (pgstore.SummaryStats, error)
	Recent(ctx context.Context, limit int) (pgstore.RecentStats, error)
	Buckets(ctx context.Context) ([]pgstore.Bucket, error)
}

type SvrCfg struct {
	Log      *slog.Logger
	Reporter *plinkostat.Reporter
	Drops    DropStore
	Addr     string
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Reporter == nil {
		return errs.NewFatal("reporter is required")
	}
	if sc.Drops == nil {
		return errs.NewFatal("drop store is required")
	}
	if sc.Addr == "" {
		sc.Addr = ":8000"
	}
	return nil
}
