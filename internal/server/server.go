// Package server hosts the page over HTTP without client script. Every
// request is one turn: the visitor's document is restored from the session,
// the matching event is dispatched and the document is stored back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-pageshell/pkg/clock"
	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/page"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/renderers/html"
	"github.com/goliatone/go-pageshell/pkg/renderers/tui"
	"github.com/goliatone/go-pageshell/pkg/view"
)

const (
	sessionSnapshotKey = "pageshell.snapshot"
	sessionPageKey     = "pageshell.page"

	// DefaultShutdownGrace bounds how long in-flight requests may run after
	// the listen context ends.
	DefaultShutdownGrace = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the bundled page configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithCatalog overrides the message catalog.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionManager replaces the session manager (for example to use a
// persistent store or different cookie settings).
func WithSessionManager(sessions *scs.SessionManager) Option {
	return func(s *Server) {
		if sessions != nil {
			s.sessions = sessions
		}
	}
}

// WithNow overrides the clock time source.
func WithNow(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithThemeSelector resolves the page theme through go-theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *Server) {
		s.selector = selector
	}
}

// WithRenderer registers an additional output format.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.extra = append(s.extra, renderer)
		}
	}
}

// WithScript makes rendered pages load the script at url.
func WithScript(url string) Option {
	return func(s *Server) {
		s.script = url
	}
}

// WithStaticDir serves files under dir at /static/.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithTemplatesDir renders HTML with templates from dir, falling back to the
// bundled ones.
func WithTemplatesDir(dir string) Option {
	return func(s *Server) {
		s.templatesDir = dir
	}
}

// WithShutdownGrace overrides DefaultShutdownGrace.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.grace = d
		}
	}
}

// Server serves the page over HTTP.
type Server struct {
	cfg       config.Config
	catalog   *i18n.Catalog
	logger    *zap.Logger
	sessions  *scs.SessionManager
	now       func() time.Time
	selector  theme.ThemeSelector
	extra     []render.Renderer
	registry  *render.Registry
	script    string
	staticDir string
	grace     time.Duration

	templatesDir string

	handler http.Handler
}

// New builds the server and its routes.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     config.Default(),
		catalog: i18n.Default(),
		logger:  zap.NewNop(),
		now:     time.Now,
		grace:   DefaultShutdownGrace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("server: invalid config: %w", err)
	}
	if s.sessions == nil {
		s.sessions = scs.New()
		s.sessions.Cookie.Name = "pageshell_session"
		s.sessions.Cookie.HttpOnly = true
		s.sessions.Cookie.SameSite = http.SameSiteLaxMode
	}

	htmlRenderer, err := html.New(
		html.WithThemeSelector(s.selector),
		html.WithTemplatesDir(s.templatesDir),
		html.WithLogger(s.logger.Named("html")),
	)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	renderers := append([]render.Renderer{htmlRenderer, tui.NewRenderer()}, s.extra...)
	s.registry, err = render.NewRegistry(renderers...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s.handler = s.sessions.LoadAndSave(s.logRequests(s.routes()))
	return s, nil
}

// Handler returns the root handler, session middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}

// turn is one request's page: built over the visitor's restored document.
type turn struct {
	app *page.App
	doc *view.Memory
}

func (s *Server) begin(r *http.Request) (*turn, error) {
	ctx := r.Context()
	doc := page.NewDocument(s.cfg)

	if raw := s.sessions.GetBytes(ctx, sessionSnapshotKey); len(raw) > 0 {
		var snap view.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			s.logger.Warn("discarding unreadable session snapshot", zap.Error(err))
		} else {
			doc.Restore(snap)
		}
	}

	app, err := page.New(doc,
		page.WithConfig(s.cfg),
		page.WithCatalog(s.catalog),
		// The startup confirmation would otherwise be logged on every request.
		page.WithLogger(s.logger.Named("page").WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))),
		page.WithInitialPage(s.sessions.GetString(ctx, sessionPageKey)),
		page.WithoutClockLoop(),
		page.WithClockOptions(clock.WithNow(s.now)),
	)
	if err != nil {
		return nil, err
	}
	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	return &turn{app: app, doc: doc}, nil
}

// end stores the document for the next turn and returns the state to render.
// Alerts belong to this turn only.
func (s *Server) end(r *http.Request, t *turn) (view.Snapshot, error) {
	t.app.Stop()
	snap := t.doc.Snapshot()

	stored := snap
	stored.Alerts = nil
	raw, err := json.Marshal(stored)
	if err != nil {
		return snap, fmt.Errorf("server: encode snapshot: %w", err)
	}
	s.sessions.Put(r.Context(), sessionSnapshotKey, raw)
	s.sessions.Put(r.Context(), sessionPageKey, t.app.CurrentPage())
	return snap, nil
}
