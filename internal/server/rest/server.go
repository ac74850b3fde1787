// Package rest exposes the auth operations over an HTTP JSON API.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datalyst-app/authd/internal/logging"
	"github.com/datalyst-app/authd/internal/server/accounts"
)

// AuthService is the slice of the accounts service the HTTP layer needs.
type AuthService interface {
	SignUp(ctx context.Context, email, firstName, lastName, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	RequestRecovery(ctx context.Context, email string) (string, error)
	ConfirmRecovery(ctx context.Context, email, code, newPassword string) (string, error)
	GetProfile(ctx context.Context, email string) (*accounts.Account, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	accounts  AuthService
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, svc AuthService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "rest_server"),
		accounts:  svc,
		jwtSecret: []byte(secretKey),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.GET("/ping", s.Ping)
	v1.POST("/signup", s.SignUp)
	v1.POST("/signin", s.SignIn)
	v1.POST("/password/forgot", s.ForgotPassword)
	v1.POST("/password/reset", s.ResetPassword)
	v1.GET("/me", s.requireToken(), s.Me)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
