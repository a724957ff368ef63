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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v2 "github.com/crashgames/plinkostat/server/api/v2"
	"github.com/crashgames/plinkostat/server/netsvr"
	"github.com/crashgames/plinkostat/server/netsvr/middleware"
	"github.com/crashgames/plinkostat/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr, sCfg)          // 2. 主頁 + 健康檢查
	registerV2API(svr, sCfg)          // 3. 統計報表 api
	registerDropsAPI(svr, sCfg)       // 4. 原始資料 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.CORS())
	svr.Use(middleware.Compression)
}

func registerIndex(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": "plinkostat",
			"docs":    "/api/v2/plinko",
		})
	})
	svr.Get("/health", v2.NewHealthHandler(sCfg.Drops).Health)
}

// 註冊 v2 統計 api
func registerV2API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	p := v2.NewPlinkoHandler(sCfg.Reporter)
	svr.Group("/api/v2/plinko", func(r netsvr.NetRouter) {
		r.Get("/", p.Aggregate)
		r.Get("/slots/{risk}", p.Slots)
		r.Get("/fairness/{risk}", p.Fairness)
		r.Get("/jackpot", p.Jackpot)
		r.Get("/risk-comparison", p.Comparison)
	})
}

// 註冊原始落點查詢 api
func registerDropsAPI(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	d := v2.NewDropsHandler(sCfg.Drops)
	in := v2.NewIngestHandler(sCfg.Drops)
	svr.Group("/api/drops", func(r netsvr.NetRouter) {
		r.Get("/summary", d.Summary)
		r.Get("/recent", d.Recent)
		r.Get("/distribution", d.Distribution)
		r.Post("/ingest", in.Ingest)
	})
}
