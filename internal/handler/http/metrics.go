package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medsum/internal/handler/http/responsewriter"
	"medsum/internal/observability/metrics"
)

// unmatchedRoute labels requests outside the known routes.
const unmatchedRoute = "unmatched"

// knownRoutes keeps the path label bounded.
var knownRoutes = map[string]struct{}{
	"/":               {},
	"/summarize":      {},
	"/summarize/text": {},
	"/health":         {},
	"/ready":          {},
	"/models":         {},
	"/metrics":        {},
}

// routeLabel returns the metrics label for path.
func routeLabel(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return unmatchedRoute
}

// MetricsMiddleware records HTTP request metrics: counts, duration, request
// and response sizes by method, route and status, plus in-flight requests.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)

		requestSize := 0
		if r.ContentLength > 0 {
			requestSize = int(r.ContentLength)
		}
		metrics.RecordHTTPRequest(
			r.Method,
			routeLabel(r.URL.Path),
			strconv.Itoa(rw.StatusCode()),
			time.Since(start),
			requestSize,
			rw.BytesWritten(),
		)
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
