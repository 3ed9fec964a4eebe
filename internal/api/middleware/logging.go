package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request. It replaces chi's
// plain-text Logger and must run after chi's RequestID middleware.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				entry := log.WithFields(logrus.Fields{
					"http.req.method":   r.Method,
					"http.req.path":     r.URL.Path,
					"http.req.id":       chiMiddleware.GetReqID(r.Context()),
					"http.req.remote":   r.RemoteAddr,
					"http.resp.status":  status,
					"http.resp.bytes":   ww.BytesWritten(),
					"http.resp.took_ms": time.Since(start).Milliseconds(),
				})
				switch {
				case status >= http.StatusInternalServerError:
					entry.Error("request complete")
				case status >= http.StatusBadRequest:
					entry.Warn("request complete")
				default:
					entry.Info("request complete")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
