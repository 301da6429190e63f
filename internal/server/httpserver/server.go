// Package httpserver exposes UserService over HTTP/JSON with a chi router.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
)

const shutdownTimeout = 10 * time.Second

// UserService is the subset of services.UserService the handlers call.
type UserService interface {
	Signup(ctx context.Context, req services.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req services.LoginRequest) (*sessions.Session, error)
	Authenticate(ctx context.Context, token string) (*sessions.Session, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	LoginHistory(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error)
	Logout(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

type HTTPServer struct {
	address     string
	users       UserService
	logger      logging.Logger
	corsOrigins []string
	trustProxy  bool
}

// NewHTTPServer builds the API server. With trustProxy set the client
// address is taken from X-Real-IP / X-Forwarded-For, so enable it only
// behind a proxy that overwrites those headers.
func NewHTTPServer(address string, l logging.Logger, us UserService, corsOrigins []string, trustProxy bool) *HTTPServer {
	return &HTTPServer{
		address:     address,
		users:       us,
		logger:      l.With("module", "http_server"),
		corsOrigins: corsOrigins,
		trustProxy:  trustProxy,
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
