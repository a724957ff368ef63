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

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownGrace = 5 * time.Second

// App 啟動所有註冊的 Component，並在收到 OS 信號或任一 Component 出錯時
// 協調優雅關閉。
type App struct {
	comps []Component
}

func New() *App { return &App{} }

// NewWith 建立 App 並直接註冊多個 Component。
func NewWith(comps ...Component) *App {
	a := New()
	a.comps = append(a.comps, comps...)
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// Run blocks until SIGINT/SIGTERM arrives or any Component's Run returns.
// A signal means a normal stop (nil); a component error is returned after
// the graceful shutdown completes.
func (a *App) Run() error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		a.gracefulShutdown(shutdownGrace)
		return nil
	case err := <-errCh:
		a.gracefulShutdown(shutdownGrace)
		return err
	}
}

func (a *App) gracefulShutdown(td time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stdout, "shutdown err: %v\n", err)
		}
	}
}
