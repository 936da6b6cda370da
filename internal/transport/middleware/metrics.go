package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/walico/walico-backend/internal/metrics"
)

// Metrics returns middleware that records request duration per method,
// route pattern, and status code. The route label uses the ServeMux
// pattern when available so path parameters do not explode cardinality.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}
			m.RequestDuration.WithLabelValues(
				r.Method,
				route,
				strconv.Itoa(sw.status),
			).Observe(time.Since(start).Seconds())
		})
	}
}
