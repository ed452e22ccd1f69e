package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulldump/docrest/metrics"
)

// statusRecorder remembers the status written by the handler. Only the
// first WriteHeader reaches the client: box writes a 204 after handlers that
// stream their own response and return no value.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status != 0 {
		return
	}
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func recordStatus(ctx context.Context) *statusRecorder {
	c := box.GetBoxContext(ctx)
	if recorder, ok := c.Response.(*statusRecorder); ok {
		return recorder
	}
	recorder := &statusRecorder{ResponseWriter: c.Response}
	c.Response = recorder
	return recorder
}

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				zap.L().Error("panic",
					zap.Any("recovered", err),
					zap.Stack("stack"),
				)
				writeError(box.GetResponse(ctx), fmt.Errorf("internal server error"))
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *zap.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			recorder := recordStatus(ctx)

			requestId := r.Header.Get("X-Request-Id")
			if requestId == "" {
				requestId = uuid.NewString()
			}
			recorder.Header().Set("X-Request-Id", requestId)

			now := time.Now()
			defer func() {
				l.Info("request",
					zap.String("request_id", requestId),
					zap.String("remote_addr", formatRemoteAddr(r)),
					zap.String("method", r.Method),
					zap.String("url", r.URL.String()),
					zap.Int("status", recorder.Status()),
					zap.Duration("duration", time.Since(now)),
				)
			}()

			next(ctx)
		}
	}
}

func Metrics(next box.H) box.H {
	return func(ctx context.Context) {
		r := box.GetRequest(ctx)
		recorder := recordStatus(ctx)

		now := time.Now()
		defer func() {
			metrics.HttpRequests.WithLabelValues(r.Method, strconv.Itoa(recorder.Status())).Inc()
			metrics.HttpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(now).Seconds())
		}()

		next(ctx)
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}
