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

// Package httperr maps engine errors onto HTTP status codes at the boundary.
// It lives under server/ so the core errs package never depends on net/http.
package httperr

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crashgames/plinkostat/errs"
)

// StatusCode 邊界層最小映射：
//   - ctx timeout/cancel → 504/408
//   - errs.Warn          → 400（請求/參數問題）
//   - errs.Fatal / 其他  → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Errs writes the mapped status code plus a plain error body.
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	http.Error(w, err.Error(), StatusCode(err))
}

// Log records the error with a level matching its mapped status.
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status >= 500:
		log.Error(msg, slog.Any("err", err))
	case status >= 400:
		log.Warn(msg, slog.Any("err", err))
	}
}
