// Package api serves insights, the watch target and metrics over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"StockInsight/internal/metrics"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler, m *metrics.Metrics, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/insights/{symbol}", handler.GetInsights).Methods("GET")
	api.HandleFunc("/watch", handler.GetWatch).Methods("GET")
	api.HandleFunc("/watch", handler.SetWatch).Methods("POST")
	api.HandleFunc("/watch", handler.DeleteWatch).Methods("DELETE")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	return r
}

// Server is the HTTP presentation adapter.
type Server struct {
	httpServer *http.Server
	log        *logrus.Logger
}

// NewServer wraps the router with panic recovery.
func NewServer(addr string, router http.Handler, log *logrus.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handlers.RecoveryHandler(handlers.RecoveryLogger(log), handlers.PrintRecoveryStack(true))(router),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
		log: log,
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func loggingMiddleware(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   wrapped.statusCode,
				"duration": time.Since(start).Milliseconds(),
				"remote":   r.RemoteAddr,
			}).Info("http request")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
