// Package html renders a page document as a complete HTML page. The markup
// carries the same element ids the page components address, so a browser
// host can bind to it directly.
package html

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/render"
	rendertemplate "github.com/goliatone/go-pageshell/pkg/render/template"
	"github.com/goliatone/go-pageshell/pkg/render/template/gotemplate"
)

const pageTemplate = "page"

// Option configures the renderer.
type Option func(*options)

type options struct {
	templateFS  fs.FS
	templateDir string
	selector    theme.ThemeSelector
	stylesheet  *string
	logger      *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// page.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(o *options) {
		o.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. A page.tpl there
// replaces the bundled one; the bundle still serves anything the directory
// lacks.
func WithTemplatesDir(path string) Option {
	return func(o *options) {
		o.templateDir = path
	}
}

// WithThemeSelector resolves the configured theme through a go-theme
// selector. Manifest tokens override the configured ones.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *options) {
		o.selector = selector
	}
}

// WithStylesheet replaces the bundled stylesheet. An empty string omits it.
func WithStylesheet(css string) Option {
	return func(o *options) {
		o.stylesheet = &css
	}
}

// WithLogger sets the logger used for theme resolution warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	selector  theme.ThemeSelector
	logger    *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(opts ...Option) (*Renderer, error) {
	o := options{
		templateFS: TemplatesFS(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}
	if o.templateFS == nil {
		o.templateFS = TemplatesFS()
	}

	stylesheet := defaultStylesheet()
	if o.stylesheet != nil {
		stylesheet = *o.stylesheet
	}

	engine, err := gotemplate.New(
		gotemplate.WithBaseDir(o.templateDir),
		gotemplate.WithFS(o.templateFS),
		gotemplate.WithGlobalData(map[string]any{"stylesheet": stylesheet}),
	)
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
	}

	return &Renderer{
		templates: engine,
		selector:  o.selector,
		logger:    o.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the full page for the document state in p.
func (r *Renderer) Render(_ context.Context, p render.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if p.Catalog == nil {
		p.Catalog = i18n.Default()
	}

	var buf bytes.Buffer
	if err := r.templates.RenderTemplate(&buf, pageTemplate, r.pageData(p, opts)); err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return buf.Bytes(), nil
}

// ThemeConfig converts the configured theme into a go-theme renderer config.
// Every token is exposed as a CSS custom property of the same name.
func ThemeConfig(t config.Theme) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
		Tokens:  make(map[string]string, len(t.Tokens)),
		CSSVars: make(map[string]string, len(t.Tokens)),
	}
	for key, value := range t.Tokens {
		cfg.Tokens[key] = value
		cfg.CSSVars["--"+key] = value
	}
	return cfg
}

func (r *Renderer) resolveTheme(t config.Theme, override *theme.RendererConfig) *theme.RendererConfig {
	if override != nil {
		return override
	}
	cfg := ThemeConfig(t)
	if r.selector == nil {
		return cfg
	}

	selection, err := r.selector.Select(t.Name, t.Variant)
	if err != nil || selection == nil {
		r.logger.Warn("theme selection failed, using configured tokens",
			zap.String("theme", t.Name),
			zap.String("variant", t.Variant),
			zap.Error(err),
		)
		return cfg
	}

	if selection.Theme != "" {
		cfg.Theme = selection.Theme
	}
	if selection.Variant != "" {
		cfg.Variant = selection.Variant
	}
	if selection.Manifest != nil {
		for key, value := range selection.Manifest.Tokens {
			cfg.Tokens[key] = value
			cfg.CSSVars["--"+key] = value
		}
	}
	return cfg
}
