package render

import (
	"context"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// Page is everything a renderer needs to draw the document: the page
// description, the document state and the visible page key.
type Page struct {
	Config   config.Config
	Snapshot view.Snapshot
	Current  string
	Catalog  *i18n.Catalog
}

// Renderer converts a Page into a byte representation (HTML, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}
