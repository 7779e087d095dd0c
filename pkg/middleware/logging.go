// Package middleware holds the HTTP middleware applied outside the mux.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
)

// RequestLogger logs every request once it completes. The client IP honors
// proxy headers, matching what the rate limiters key on. Server errors log
// at error level, client errors at warn, everything else at debug so normal
// traffic stays out of production logs.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", ratelimit.ClientIP(r)),
			}
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Debug("request", fields...)
			}
		})
	}
}

// statusRecorder captures the response status for the log line. Repeated
// WriteHeader calls keep the first status, like net/http itself does.
type statusRecorder struct {
	http.ResponseWriter
	status        int
	headerWritten bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.headerWritten {
		return
	}
	s.status = code
	s.headerWritten = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.headerWritten = true
	return s.ResponseWriter.Write(b)
}
