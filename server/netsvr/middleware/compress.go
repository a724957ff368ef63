package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// 報表 JSON 高度重複（slot 欄位名 × slots 數），壓縮收益很大，
// 因此 API 回應預設啟用 zstd/gzip 協商。

var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

func getGzip(w io.Writer) *gzip.Writer {
	if v := gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw
	}
	gw, _ := gzip.NewWriterLevel(w, gzip.DefaultCompression)
	return gw
}

func getZstd(w io.Writer) *zstd.Encoder {
	if v := zstdPool.Get(); v != nil {
		zw := v.(*zstd.Encoder)
		zw.Reset(w)
		return zw
	}
	zw, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic(err)
	}
	return zw
}

type compressWriter struct {
	http.ResponseWriter
	cw io.Writer
}

func (c *compressWriter) Write(b []byte) (int, error) {
	c.Header().Del("Content-Length")
	if c.Header().Get("Content-Type") == "" {
		c.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return c.cw.Write(b)
}

func (c *compressWriter) WriteHeader(code int) {
	c.Header().Del("Content-Length")
	c.ResponseWriter.WriteHeader(code)
}

func (c *compressWriter) Flush() {
	if f, ok := c.cw.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	if f, ok := c.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Compression 依 Accept-Encoding 協商 zstd / gzip。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}

		accept := r.Header.Get("Accept-Encoding")

		switch {
		case strings.Contains(accept, "zstd"):
			w.Header().Set("Content-Encoding", "zstd")
			w.Header().Add("Vary", "Accept-Encoding")

			zw := getZstd(w)
			defer func() {
				_ = zw.Close()
				zstdPool.Put(zw)
			}()
			next.ServeHTTP(&compressWriter{ResponseWriter: w, cw: zw}, r)

		case strings.Contains(accept, "gzip"):
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")

			gw := getGzip(w)
			defer func() {
				_ = gw.Close()
				gzipPool.Put(gw)
			}()
			next.ServeHTTP(&compressWriter{ResponseWriter: w, cw: gw}, r)

		default:
			next.ServeHTTP(w, r)
		}
	})
}
