package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/snake/pkg/api/handlers"
	"github.com/cbodonnell/snake/pkg/api/middleware"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         string
	TLS          *TLSConfig
	Session      handlers.Session
	StateManager state.StateManager
	Input        *input.Buffer
	// WebSocketHandler serves /ws. The route is not registered when nil.
	WebSocketHandler http.HandlerFunc
}

// NewRouter returns the API routes.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logging, middleware.CORS)
	router.HandleFunc("/session", handlers.HandleGetSession(opts.Session)).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/state", handlers.HandleGetState(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/direction", handlers.HandlePostDirection(opts.Input)).Methods(http.MethodPost, http.MethodOptions)
	if opts.WebSocketHandler != nil {
		router.HandleFunc("/ws", opts.WebSocketHandler).Methods(http.MethodGet)
	}
	return router
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
