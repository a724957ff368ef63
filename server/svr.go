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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/crashgames/plinkostat/errs"
	"github.com/crashgames/plinkostat/server/api"
	"github.com/crashgames/plinkostat/server/app"
	"github.com/crashgames/plinkostat/server/netsvr"
	"github.com/crashgames/plinkostat/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口：驗證 SvrCfg、建 HTTP server、
// 註冊路由、交給 app.Run() 直到收到停止訊號。
//
// Run 不綁定任何檔案路徑或環境變數策略；所有依賴透過 SvrCfg 注入。
// 要自訂 server 組裝方式時改用 RunWithSvr。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的 logger 不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	RunWithSvr(sCfg, netsvr.NewChiAdapter(sCfg.Addr))
}

// RunWithSvr 同 Run，但允許注入自訂 NetSvr（自己的 adapter、listener、
// timeout 策略，或把路由掛進既有服務）。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
		return
	}

	// 註冊 Api
	api.RegisterRoutes(svr, sCfg)

	// 運行
	a := app.NewWith(svr)
	sCfg.Log.Info("[plinkostat] listening on " + sCfg.Addr)
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}
