package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS 開放給前端儀表板跨域讀取統計報表（唯讀 API，放寬 origin）。
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}
