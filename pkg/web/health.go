package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/db"
)

// readiness reports the dependencies the API needs to serve requests.
type readiness struct {
	Database string `json:"database"`
	Signing  string `json:"signing,omitempty"`
}

// HealthController registers the health check routes for the web server.
func HealthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/livez", getLiveness).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", getReadiness).Methods(http.MethodGet, http.MethodHead)
}

func getLiveness(w http.ResponseWriter, _ *http.Request) {
	renderSuccess(w, http.StatusOK, "Alive", nil)
}

// getReadiness pings the database and checks that tokens can be issued.
func getReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	dbx := db.FromContext(ctx)
	be := backend.FromContext(ctx)

	var ready readiness
	switch {
	case dbx == nil:
		ready.Database = "missing"
	case dbx.PingContext(ctx) != nil:
		ready.Database = "unreachable"
	default:
		ready.Database = "ok"
	}
	if be != nil && be.Tokens() != nil {
		ready.Signing = be.Tokens().Algorithm()
	}

	if ready.Database != "ok" || ready.Signing == "" {
		logger.Warn("readiness check failed", "database", ready.Database, "signing", ready.Signing)
		renderJSON(w, http.StatusServiceUnavailable, successResponse{
			Status:  "error",
			Message: "Not ready",
			Data:    ready,
		})
		return
	}

	renderSuccess(w, http.StatusOK, "Ready", ready)
}
