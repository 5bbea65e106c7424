package middlewarectx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Количество HTTP-запросов к порталу.",
	}, []string{"method", "path", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "Длительность обработки HTTP-запросов.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// AuditRecorder описывает интерфейс записи журнала запросов.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.APILog)
}

// RequestLogMiddleware пишет каждую запись в журнал API и метрики Prometheus.
// Запись журнала выполняется после ответа и не влияет на его статус.
func RequestLogMiddleware(audit AuditRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(ww.Status())).Inc()
			requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())

			entry := models.APILog{
				Endpoint:     r.URL.Path,
				Method:       r.Method,
				StatusCode:   ww.Status(),
				ResponseTime: int(elapsed.Milliseconds()),
				Timestamp:    start.UTC(),
			}
			if identity, ok := IdentityFromContext(r.Context()); ok {
				entry.UserID = identity.ID
			}
			audit.Record(r.Context(), entry)
		})
	}
}
