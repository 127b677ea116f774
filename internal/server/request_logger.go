package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("orgcatalog/server")

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func requestID(r *http.Request, header string) string {
	if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
		return v
	}
	return uuid.NewString()
}

// withRequestLogger assigns a request id, opens a span continuing any
// incoming traceparent and logs one line per completed request.
func withRequestLogger(logger logrus.FieldLogger, requestIDHeader string, next http.Handler) http.Handler {
	if requestIDHeader == "" {
		requestIDHeader = "X-Request-ID"
	}
	propagator := propagation.TraceContext{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestID(r, requestIDHeader)
		r.Header.Set(requestIDHeader, id)
		w.Header().Set(requestIDHeader, id)

		ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, "http.request",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.request_id", id),
			),
		)
		defer span.End()
		propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

		fields := logrus.Fields{
			"request-id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			fields["trace-id"] = sc.TraceID().String()
		}

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		status := rec.Status()
		duration := time.Since(start)
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int64("http.request_duration_ms", duration.Milliseconds()),
		)
		fields["status"] = status
		fields["duration"] = duration.String()

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	})
}
