package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "orgsvc",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "The total number of API requests by route and status code",
}, []string{"method", "route", "code"})

// unmatchedRoute labels requests that matched no API route.
const unmatchedRoute = "unmatched"

// logWriter records what a request did so it can be logged once the
// handler returns. Handlers fill in the route and the authenticated user.
type logWriter struct {
	http.ResponseWriter
	code, bytes int
	route, user string
}

// Write implements http.ResponseWriter.
func (r *logWriter) Write(p []byte) (int, error) {
	written, err := r.ResponseWriter.Write(p)
	r.bytes += written
	return written, err
}

// WriteHeader implements http.ResponseWriter.
func (r *logWriter) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying http.ResponseWriter.
func (r *logWriter) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// recordRoute is a router middleware that stores the matched route template,
// e.g. "/api/organisations/{orgId}", on the request log.
func recordRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lw, ok := w.(*logWriter); ok {
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					lw.route = tmpl
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// recordUser stores the authenticated user id on the request log.
func recordUser(w http.ResponseWriter, id string) {
	if lw, ok := w.(*logWriter); ok {
		lw.user = id
	}
}

// NewLoggingMiddleware returns a middleware that logs every request with its
// route template, status, size, latency, and authenticated user, and counts
// it in the requests metric.
func NewLoggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &logWriter{code: http.StatusOK, ResponseWriter: w}
		next.ServeHTTP(writer, r)
		elapsed := time.Since(start)

		route := writer.route
		if route == "" {
			route = unmatchedRoute
		}
		requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(writer.code)).Inc()

		keyvals := []interface{}{
			"method", r.Method,
			"route", route,
			"status", writer.code,
			"bytes", humanize.Bytes(uint64(writer.bytes)), //nolint:gosec
			"time", elapsed,
		}
		if writer.user != "" {
			keyvals = append(keyvals, "user", writer.user)
		}

		if writer.code >= http.StatusInternalServerError {
			logger.Warn("request", keyvals...)
			return
		}
		logger.Debug("request", keyvals...)
	})
}
