// Package app wires the dashboard runtime: storage, domain services, the
// HTTP API and its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tikdhq/tikd/internal/auth"
	"github.com/tikdhq/tikd/internal/dashboard/api"
	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/dashboard/storage/sqlite"
	"github.com/tikdhq/tikd/internal/platform/cmd"
	"github.com/tikdhq/tikd/internal/platform/httpx"
	"github.com/tikdhq/tikd/internal/platform/requestctx"
)

const shutdownTimeout = 10 * time.Second

// Options configures a dashboard server.
type Options struct {
	Addr       string
	DBPath     string
	AuthSecret string
	AuthIssuer string
}

// Server hosts the dashboard HTTP API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
}

// New creates a configured dashboard server listening on opts.Addr.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.AuthSecret) == "" {
		return nil, errors.New("auth secret is required")
	}
	issuer := strings.TrimSpace(opts.AuthIssuer)
	if issuer == "" {
		issuer = "tikd"
	}

	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", opts.Addr, err)
	}

	store, err := sqlite.Open(opts.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	services := api.Services{
		Events:    domain.NewEventService(store, store, nil, nil),
		Tickets:   domain.NewTicketService(store, store, nil, nil),
		Team:      domain.NewTeamService(store, nil, nil),
		Prefs:     domain.NewPrefsService(store),
		Payments:  domain.NewPaymentService(store, nil),
		Analytics: domain.NewAnalyticsService(store, store, nil),
	}
	tokenConfig := auth.Config{Issuer: issuer, Secret: []byte(opts.AuthSecret)}
	handler := api.NewHandler(services,
		httpx.RequestID(),
		httpx.Trace(cmd.ServiceDashboard),
		httpx.RecoverPanic(),
		BearerAuth(tokenConfig),
	)

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store: store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a dashboard server until context cancellation.
func Run(ctx context.Context, opts Options) error {
	server, err := New(opts)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("dashboard server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the server's listener and storage.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close dashboard store: %v", err)
		}
	}
}

// BearerAuth verifies Authorization bearer tokens and attaches the actor
// they grant to the request context. The health endpoint stays open.
func BearerAuth(cfg auth.Config) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			actor, err := auth.Verify(cfg, token)
			if err != nil {
				message := "access token is invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					message = "access token is expired"
				}
				http.Error(w, message, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
