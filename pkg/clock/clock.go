// Package clock keeps a live date/time display up to date.
package clock

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// DefaultInterval is the refresh period of the display.
const DefaultInterval = time.Second

// ErrNilView is returned when a display is built without a document.
var ErrNilView = errors.New("clock: view is required")

// Formatter renders an instant for a locale.
type Formatter interface {
	FormatDateTime(locale string, t time.Time) string
}

// Option configures a Display.
type Option func(*Display)

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(d *Display) {
		if now != nil {
			d.now = now
		}
	}
}

// WithFormatter overrides the rendering of the current time.
func WithFormatter(f Formatter) Option {
	return func(d *Display) {
		if f != nil {
			d.formatter = f
		}
	}
}

// WithLocale selects the rendering locale. Defaults to en-US.
func WithLocale(locale string) Option {
	return func(d *Display) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			d.locale = trimmed
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Display) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Display writes the formatted current time into one target element.
type Display struct {
	view      view.View
	target    string
	now       func() time.Time
	formatter Formatter
	locale    string
	logger    *zap.Logger
}

// New binds a display to the target element.
func New(v view.View, target string, opts ...Option) (*Display, error) {
	if v == nil {
		return nil, ErrNilView
	}
	d := &Display{
		view:      v,
		target:    target,
		now:       time.Now,
		formatter: i18n.Default(),
		locale:    "en-US",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Render formats t the way the display would show it.
func (d *Display) Render(t time.Time) string {
	return d.formatter.FormatDateTime(d.locale, t.Local())
}

// Update writes the current local time. A missing target is ignored.
func (d *Display) Update() {
	if !d.view.Exists(d.target) {
		return
	}
	d.view.SetText(d.target, d.Render(d.now()))
}

// Every calls fn immediately and then once per interval until ctx is done.
// It blocks; run it on its own goroutine.
func Every(ctx context.Context, interval time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	fn()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
