package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog writes one line per request; 5xx at error, 4xx at warn.
func AccessLog(log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newRTWriter(w)
			next.ServeHTTP(rw, r)

			lvl := zapcore.InfoLevel
			switch {
			case rw.status >= 500:
				lvl = zapcore.ErrorLevel
			case rw.status >= 400:
				lvl = zapcore.WarnLevel
			}
			if ce := log.Check(lvl, "http"); ce != nil {
				ce.Write(
					zap.String("request_id", GetRequestID(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rw.status),
					zap.Int("bytes", rw.bytes),
					zap.Duration("took", time.Since(rw.start)),
					zap.String("ip", clientIP(r)),
				)
			}
		})
	}
}
