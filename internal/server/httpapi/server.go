// Package httpapi exposes the notice and user services over a small HTTP
// API. Handlers translate between HTTP and service calls; business rules,
// storage consistency and transactions all live below this layer.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"noticeboard/internal/logging"
	"noticeboard/internal/server/services"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 60 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	// maxUploadMemory bounds the in-memory part of multipart parsing;
	// larger files spill to temporary files.
	maxUploadMemory = 32 << 20
)

// Server wraps HTTP handlers for the noticeboard API.
type Server struct {
	addr            string
	notices         *services.NoticeService
	users           *services.UserService
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// New creates a new server instance.
func New(addr string, notices *services.NoticeService, users *services.UserService, logger logging.Logger, shutdownTimeout time.Duration) *Server {
	return &Server{
		addr:            addr,
		notices:         notices,
		users:           users,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/notices", s.handleListNotices)
	mux.HandleFunc("POST /api/notices", s.handleCreateNotice)
	mux.HandleFunc("GET /api/notices/{id}", s.handleGetNotice)
	mux.HandleFunc("DELETE /api/notices/{id}", s.handleDeleteNotice)
	mux.HandleFunc("GET /api/attachments/{id}", s.handleDownloadAttachment)

	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("POST /api/users", s.handleSignUp)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/users/{id}/photo", s.handleUserPhoto)

	return mux
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting http server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
