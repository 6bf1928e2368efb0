package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/config"
)

// ErrNoBackend is returned when the HTTP server is created from a context
// without a backend.
var ErrNoBackend = errors.New("no backend in context")

const (
	readHeaderTimeout = 10 * time.Second
	requestTimeout    = 30 * time.Second
	idleTimeout       = 60 * time.Second

	// Request bodies are limited separately by maxBodySize.
	maxHeaderBytes = 64 << 10
)

// HTTPServer serves the orgsvc API.
type HTTPServer struct {
	*http.Server
}

// NewHTTPServer creates the API server. ctx must carry the config and the
// backend.
func NewHTTPServer(ctx context.Context) (*HTTPServer, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, config.ErrNilConfig
	}
	if backend.FromContext(ctx) == nil {
		return nil, ErrNoBackend
	}

	logger := log.FromContext(ctx).WithPrefix("http")
	return &HTTPServer{
		Server: &http.Server{
			Addr:              cfg.HTTP.ListenAddr,
			Handler:           NewRouter(ctx),
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       requestTimeout,
			WriteTimeout:      requestTimeout,
			IdleTimeout:       idleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
			ErrorLog:          logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
		},
	}, nil
}
