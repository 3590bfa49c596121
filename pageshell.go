// Package pageshell is the quick-start entry point: it builds a started page
// over an in-memory document and renders it with a named renderer.
package pageshell

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/page"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/renderers/html"
	"github.com/goliatone/go-pageshell/pkg/renderers/tui"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// RenderOptions aliases render.RenderOptions for callers of the root package.
type RenderOptions = render.RenderOptions

// Config aliases config.Config.
type Config = config.Config

// NewRegistry returns a registry holding the bundled renderers: "html" and
// "text".
func NewRegistry(opts ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(opts...)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, tui.NewRenderer())
}

// Start builds and starts a page for cfg over a fresh in-memory document.
// The clock is refreshed once; call App.Tick for later updates.
func Start(ctx context.Context, cfg Config, opts ...page.Option) (*page.App, *view.Memory, error) {
	doc := page.NewDocument(cfg)
	base := []page.Option{page.WithConfig(cfg), page.WithoutClockLoop()}
	app, err := page.New(doc, append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	if err := app.Start(ctx); err != nil {
		return nil, nil, err
	}
	return app, doc, nil
}

// Render renders the current state of a started page.
func Render(ctx context.Context, app *page.App, doc *view.Memory, rendererName string, options RenderOptions) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.Page{
		Config:   app.Config(),
		Snapshot: doc.Snapshot(),
		Current:  app.CurrentPage(),
		Catalog:  app.Catalog(),
	}, options)
}

// GenerateHTML renders the page for cfg as it looks after loading, with
// pageKey shown when it names a configured page.
func GenerateHTML(ctx context.Context, cfg Config, pageKey string, options RenderOptions) ([]byte, error) {
	app, doc, err := Start(ctx, cfg, page.WithInitialPage(pageKey))
	if err != nil {
		return nil, fmt.Errorf("pageshell: %w", err)
	}
	defer app.Stop()
	return Render(ctx, app, doc, "html", options)
}

// EmbeddedTemplates exposes the HTML renderer templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the bundled stylesheet.
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
