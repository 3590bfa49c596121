// Package page assembles the router, the contact form validator and the clock
// into one page application with a single startup entry point.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/clock"
	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/events"
	"github.com/goliatone/go-pageshell/pkg/form"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/router"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// KeyLoaded is the startup confirmation message.
const KeyLoaded = "app.loaded"

var (
	// ErrNilView is returned when the page is built without a document.
	ErrNilView = errors.New("page: view is required")
	// ErrStarted is returned by a second Start call.
	ErrStarted = errors.New("page: already started")
)

// Option configures an App.
type Option func(*App)

// WithConfig replaces the bundled page configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCatalog overrides the message catalog.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(a *App) {
		if catalog != nil {
			a.catalog = catalog
		}
	}
}

// WithClockOptions forwards options to the clock display (for example a fake
// time source).
func WithClockOptions(opts ...clock.Option) Option {
	return func(a *App) {
		a.clockOpts = append(a.clockOpts, opts...)
	}
}

// WithInitialPage shows key at startup instead of the configured default.
// Hosts that rebuild the page per turn use it to resume where the visitor was.
func WithInitialPage(key string) Option {
	return func(a *App) {
		a.initialPage = key
	}
}

// WithoutClockLoop skips the background refresh. The display is still
// updated once at startup and on every clock.tick event.
func WithoutClockLoop() Option {
	return func(a *App) {
		a.noClockLoop = true
	}
}

// App is one running page. Components are independent; the dispatcher is
// their only shared collaborator.
type App struct {
	cfg     config.Config
	view    view.View
	catalog *i18n.Catalog
	logger  *zap.Logger

	dispatcher *events.Dispatcher
	router     *router.Router
	form       *form.Validator
	clock      *clock.Display

	clockOpts   []clock.Option
	noClockLoop bool
	initialPage string

	mu         sync.Mutex
	started    bool
	lastResult form.Result
	cancel     context.CancelFunc
	done       chan struct{}
}

// New builds the page components over v. Nothing touches the document until
// Start.
func New(v view.View, opts ...Option) (*App, error) {
	if v == nil {
		return nil, ErrNilView
	}

	a := &App{
		cfg:     config.Default(),
		view:    v,
		catalog: i18n.Default(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("page: invalid config: %w", err)
	}

	a.dispatcher = events.NewDispatcher(events.WithLogger(a.logger.Named("events")))

	var err error
	a.router, err = router.New(v, a.cfg.PageKeys(), router.WithLogger(a.logger.Named("router")))
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}

	a.form, err = form.New(v, a.cfg.Form,
		form.WithTranslator(a.catalog),
		form.WithDateFormatter(a.catalog),
		form.WithLocale(a.cfg.Locale),
		form.WithLogger(a.logger.Named("form")),
	)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}

	clockOpts := append([]clock.Option{
		clock.WithFormatter(a.catalog),
		clock.WithLocale(a.cfg.Clock.Locale),
		clock.WithLogger(a.logger.Named("clock")),
	}, a.clockOpts...)
	a.clock, err = clock.New(v, a.cfg.Clock.Target, clockOpts...)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}

	return a, nil
}

// Start binds the handlers, shows the default page, starts the clock and logs
// the startup confirmation. The clock loop stops when ctx ends or Stop is
// called.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrStarted
	}
	a.started = true
	a.mu.Unlock()

	a.bind()
	a.dispatcher.Do(func() {
		a.router.Init(a.startPage())
	})

	if a.cfg.Clock.Disabled || a.noClockLoop {
		a.dispatcher.Dispatch(events.Event{Point: events.PointClockTick})
	} else {
		loopCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		a.mu.Lock()
		a.cancel = cancel
		a.done = done
		a.mu.Unlock()

		ready := make(chan struct{})
		go func() {
			defer close(done)
			first := true
			clock.Every(loopCtx, a.cfg.Clock.Interval, func() {
				a.dispatcher.Dispatch(events.Event{Point: events.PointClockTick})
				if first {
					first = false
					close(ready)
				}
			})
		}()
		// The first display update happens before Start returns.
		<-ready
	}

	a.dispatcher.Dispatch(events.Event{Point: events.PointPageLoad})
	a.logger.Info(i18n.Lookup(a.catalog, a.cfg.Locale, KeyLoaded, nil))
	return nil
}

// Stop ends the clock loop and waits for it. It is safe to call more than
// once and before Start.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (a *App) startPage() string {
	if a.initialPage != "" {
		if _, ok := a.cfg.Page(a.initialPage); ok {
			return a.initialPage
		}
	}
	return a.cfg.DefaultPage
}

func (a *App) bind() {
	a.dispatcher.On(events.PointNavClick, func(e events.Event) {
		a.router.SwitchTo(e.Target)
	})
	a.dispatcher.On(events.PointFormSubmit, func(events.Event) {
		result := a.form.Submit()
		a.mu.Lock()
		a.lastResult = result
		a.mu.Unlock()
	})
	a.dispatcher.On(events.PointFieldBlur, func(e events.Event) {
		a.form.HandleBlur(e.Target)
	})
	a.dispatcher.On(events.PointClockTick, func(events.Event) {
		a.clock.Update()
	})
}

// Click dispatches a nav click towards the page key.
func (a *App) Click(key string) {
	a.dispatcher.Dispatch(events.Event{Point: events.PointNavClick, Target: key})
}

// Blur dispatches a focus loss on the control id.
func (a *App) Blur(controlID string) {
	a.dispatcher.Dispatch(events.Event{Point: events.PointFieldBlur, Target: controlID})
}

// Submit dispatches a form submission and returns its result.
func (a *App) Submit() form.Result {
	a.dispatcher.Dispatch(events.Event{Point: events.PointFormSubmit})
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastResult
}

// Tick dispatches one clock refresh.
func (a *App) Tick() {
	a.dispatcher.Dispatch(events.Event{Point: events.PointClockTick})
}

// Dispatcher exposes the event dispatcher so hosts can register extra
// handlers or forward their own events.
func (a *App) Dispatcher() *events.Dispatcher {
	return a.dispatcher
}

// Config returns the page configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Catalog returns the message catalog.
func (a *App) Catalog() *i18n.Catalog {
	return a.catalog
}

// CurrentPage returns the visible page key.
func (a *App) CurrentPage() string {
	var key string
	a.dispatcher.Do(func() {
		key = a.router.Current()
	})
	return key
}

// Values returns the current form control values.
func (a *App) Values() form.Values {
	return a.form.Values()
}

// Validator exposes the form validator for single-field checks.
func (a *App) Validator() *form.Validator {
	return a.form
}

// Text translates key in the page locale.
func (a *App) Text(key string) string {
	return i18n.Lookup(a.catalog, a.cfg.Locale, key, nil)
}
