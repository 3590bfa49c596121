// Package router switches which page section of the document is visible and
// keeps the nav highlighting in step with it.
package router

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/view"
)

// ErrNilView is returned when a router is built without a document.
var ErrNilView = errors.New("router: view is required")

// Option configures a Router.
type Option func(*Router)

// WithLogger routes navigation diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Router owns the current page key. Exactly one known section is visible and
// exactly one nav control is active once Init has run.
type Router struct {
	view     view.View
	sections []string
	known    map[string]struct{}
	current  string
	logger   *zap.Logger
}

// New builds a router over the given section keys. Blank and duplicate keys
// are rejected.
func New(v view.View, sections []string, opts ...Option) (*Router, error) {
	if v == nil {
		return nil, ErrNilView
	}

	r := &Router{
		view:   v,
		known:  make(map[string]struct{}, len(sections)),
		logger: zap.NewNop(),
	}
	for _, key := range sections {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return nil, errors.New("router: section key is required")
		}
		if _, exists := r.known[trimmed]; exists {
			return nil, fmt.Errorf("router: duplicate section %q", trimmed)
		}
		r.known[trimmed] = struct{}{}
		r.sections = append(r.sections, trimmed)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Init reveals defaultKey and runs the activation pass over the nav controls.
// An unknown default leaves the document untouched.
func (r *Router) Init(defaultKey string) {
	if !r.routable(defaultKey) {
		r.logger.Debug("default page not found", zap.String("page", defaultKey))
		return
	}
	r.activate(defaultKey)
}

// SwitchTo makes key the visible page. Switching to the current page or to a
// key without a section is a silent no-op.
func (r *Router) SwitchTo(key string) {
	if key == r.current {
		return
	}
	if !r.routable(key) {
		r.logger.Debug("ignoring unknown page", zap.String("page", key))
		return
	}
	r.activate(key)
}

// Current returns the visible page key, "" before Init.
func (r *Router) Current() string {
	return r.current
}

// Sections returns the known section keys in declaration order.
func (r *Router) Sections() []string {
	return append([]string(nil), r.sections...)
}

func (r *Router) routable(key string) bool {
	if _, ok := r.known[key]; !ok {
		return false
	}
	return r.view.Exists(key)
}

func (r *Router) activate(key string) {
	for _, section := range r.sections {
		r.view.SetVisible(section, false)
	}
	r.view.SetVisible(key, true)

	for _, section := range r.sections {
		r.view.SetActive(section, section == key)
	}

	r.logger.Debug("page switched", zap.String("from", r.current), zap.String("to", key))
	r.current = key
}
