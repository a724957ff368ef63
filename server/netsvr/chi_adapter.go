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

package netsvr

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crashgames/plinkostat/errs"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// ChiAdapter 以 chi 實作 NetSvr。
type ChiAdapter struct {
	mux  *chi.Mux
	hs   *http.Server
	addr string
}

var _ NetSvr = (*ChiAdapter)(nil)

func NewChiAdapter(addr string) *ChiAdapter {
	mux := chi.NewRouter()
	return &ChiAdapter{
		mux:  mux,
		addr: addr,
		hs: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
	}
}

func (a *ChiAdapter) Address() string { return a.addr }

// Ready 檢查 adapter 是否組裝完整（防止零值注入）。
func (a *ChiAdapter) Ready() bool { return a != nil && a.mux != nil && a.hs != nil }

// Run 阻塞直到 Shutdown 或監聽失敗。正常關閉回傳 nil。
func (a *ChiAdapter) Run() error {
	err := a.hs.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return errs.Wrap(err, "netsvr: listen "+a.addr)
	}
	return nil
}

func (a *ChiAdapter) Shutdown(ctx context.Context) error {
	if err := a.hs.Shutdown(ctx); err != nil {
		return errs.Wrap(err, "netsvr: shutdown")
	}
	return nil
}

// ============ ** 路由轉接 ** ============

func (a *ChiAdapter) Use(mw func(http.Handler) http.Handler) { a.mux.Use(mw) }

func (a *ChiAdapter) Get(path string, h http.HandlerFunc)  { a.mux.Get(path, h) }
func (a *ChiAdapter) Post(path string, h http.HandlerFunc) { a.mux.Post(path, h) }

func (a *ChiAdapter) Group(path string, fn func(NetRouter)) {
	a.mux.Route(path, func(r chi.Router) {
		fn(&chiSubRouter{r: r})
	})
}

// chiSubRouter 讓 Group 內的巢狀路由同樣走 NetRouter 介面。
type chiSubRouter struct {
	r chi.Router
}

func (s *chiSubRouter) Use(mw func(http.Handler) http.Handler) { s.r.Use(mw) }
func (s *chiSubRouter) Get(path string, h http.HandlerFunc)   { s.r.Get(path, h) }
func (s *chiSubRouter) Post(path string, h http.HandlerFunc)  { s.r.Post(path, h) }

func (s *chiSubRouter) Group(path string, fn func(NetRouter)) {
	s.r.Route(path, func(r chi.Router) {
		fn(&chiSubRouter{r: r})
	})
}
