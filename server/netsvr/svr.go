package netsvr

import (
	"net/http"

	"github.com/crashgames/plinkostat/server/app"
)

// NetSvr 封裝「路由行為 + 服務啟停」。
//   - 只暴露給最外層組裝層；handler 只需面向 NetRouter。
//   - 依賴反轉：換 http 框架時只要重新實作此介面。
//   - NetSvr 同時實作 app.Component，可直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 純路由行為。Group 回呼只拿到 NetRouter，看不到 Run/Shutdown，
// 避免子模組誤用 server 生命週期。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
