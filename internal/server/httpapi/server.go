// Package httpapi serves the session endpoints over HTTP: origin checks,
// the session cookie and the JSON bodies the session client expects.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PathUserByToken is an older name of the session check endpoint.
const PathUserByToken = "/api/getUserByToken"

const shutdownTimeout = 5 * time.Second

// UserService is what the handlers need from services.UserService.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SessionValidity() time.Duration
}

// Options configures a Server.
//
// Fields:
//   - Address: listen address for Run.
//   - AllowedOrigins: Origin values accepted; anything else gets 403.
//   - ImagesDir: directory served by the random image endpoint.
//   - SecureCookie: adds the Secure attribute to the session cookie.
type Options struct {
	Address        string
	AllowedOrigins []string
	ImagesDir      string
	SecureCookie   bool
}

type Server struct {
	address   string
	users     UserService
	logger    logging.Logger
	origins   map[string]struct{}
	imagesDir string
	secure    bool
}

func NewServer(opts Options, l logging.Logger, us UserService) *Server {
	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = struct{}{}
	}

	return &Server{
		address:   opts.Address,
		users:     us,
		logger:    l.With("module", "http_server"),
		origins:   origins,
		imagesDir: opts.ImagesDir,
		secure:    opts.SecureCookie,
	}
}

// Handler builds the router. Every route, preflight included, sits behind
// the origin check; the user listing and the image need a session.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.checkOrigin)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, common.ErrorBody{Error: "Not Found!"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, common.ErrorBody{Error: "Method Not Allowed!"})
	})

	r.Post(common.PathLogin, s.login)
	r.Post(common.PathRegister, s.register)
	r.Get(common.PathLogout, s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get(common.PathCheckSession, s.checkSession)
		r.Get(PathUserByToken, s.checkSession)
		r.Get(common.PathAllUsers, s.allUsers)
		r.Get(common.PathRandomImage, s.randomImage)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
