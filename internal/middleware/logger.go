package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietPaths are polled by orchestrators and scrapers; they are only logged on failure.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// ZapRequestLogger logs one line per request. 5xx responses log at error,
// 4xx at warn, everything else at info.
func ZapRequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rvr := recover()
				status := responseStatus(ww, rvr)
				logRequest(logger, r, ww, status, time.Since(start), rvr)
				if rvr != nil {
					panic(rvr)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// responseStatus is the status the client will see. A panic that escaped the
// handler has written nothing yet; the recoverer further out answers 500.
func responseStatus(ww middleware.WrapResponseWriter, rvr any) int {
	if rvr != nil && rvr != http.ErrAbortHandler && ww.Status() == 0 {
		return http.StatusInternalServerError
	}
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

func logRequest(logger *zap.Logger, r *http.Request, ww middleware.WrapResponseWriter, status int, elapsed time.Duration, rvr any) {
	level := zapcore.InfoLevel
	switch {
	case status >= http.StatusInternalServerError:
		level = zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		level = zapcore.WarnLevel
	case quietPaths[r.URL.Path]:
		return
	}

	ce := logger.Check(level, "request")
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Int("bytes", ww.BytesWritten()),
		zap.Duration("duration", elapsed),
		zap.String("remote_ip", r.RemoteAddr),
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		fields = append(fields, zap.String("route", rctx.RoutePattern()))
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if rvr != nil {
		fields = append(fields, zap.Any("panic", rvr))
	}
	ce.Write(fields...)
}
