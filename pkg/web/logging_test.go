package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/matryer/is"
)

func TestLoggingMiddleware(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	router := mux.NewRouter()
	router.Use(recordRoute)
	router.HandleFunc("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		recordUser(w, "user-1")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hello")) //nolint:errcheck
	})
	h := NewLoggingMiddleware(router, logger)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/abc", nil))
	is.Equal(w.Code, http.StatusTeapot)

	out := buf.String()
	is.True(strings.Contains(out, "route=/api/users/{id}"))
	is.True(strings.Contains(out, "user=user-1"))
	is.True(strings.Contains(out, "status=418"))
	is.True(!strings.Contains(out, "/api/users/abc"))

	buf.Reset()
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	is.Equal(w.Code, http.StatusNotFound)
	out = buf.String()
	is.True(strings.Contains(out, "route="+unmatchedRoute))
	is.True(!strings.Contains(out, "user="))
}
