// Package tui drives a page from the terminal. Renderer prints a document as
// plain text and Session runs the interactive menu on top of survey prompts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/view"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// Renderer implements render.Renderer for plain text output.
type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer constructs the text renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "text"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints the visible page: a title line, the nav with the active entry
// bracketed, the clock, the page body and, on the form page, the form state.
func (r *Renderer) Render(ctx context.Context, p render.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Catalog == nil {
		p.Catalog = i18n.Default()
	}
	cfg := p.Config
	locale := cfg.Locale
	if opts.Locale != "" {
		locale = opts.Locale
	}
	label := func(key string) string {
		return i18n.Lookup(p.Catalog, locale, key, nil)
	}

	snap := p.Snapshot
	current := p.Current
	if len(snap.Elements) > 0 {
		current = ""
		for _, pg := range cfg.Pages {
			if snap.Elements[pg.Key].Active {
				current = pg.Key
				break
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", cfg.Title)

	nav := make([]string, 0, len(cfg.Pages))
	for _, pg := range cfg.Pages {
		active := pg.Key == current
		if len(snap.Nav) > 0 {
			active = snap.Nav[pg.Key]
		}
		if active {
			nav = append(nav, "["+pg.Nav+"]")
		} else {
			nav = append(nav, pg.Nav)
		}
	}
	b.WriteString(strings.Join(nav, "  "))
	b.WriteString("\n")

	if !cfg.Clock.Disabled {
		if text := snap.Elements[cfg.Clock.Target].Text; text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	if pg, ok := cfg.Page(current); ok {
		b.WriteString("\n")
		for _, line := range PlainLines(pg.Body) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		if pg.Key == cfg.Form.Page {
			writeForm(&b, cfg.Form, snap, label)
		}
	}

	for _, alert := range snap.Alerts {
		fmt.Fprintf(&b, "\n! %s\n", alert)
	}
	return []byte(b.String()), nil
}

func writeForm(b *strings.Builder, f config.Form, snap view.Snapshot, label func(string) string) {
	rows := []struct {
		label, value, errText string
	}{
		{label("form.label.name"), snap.Elements[f.Fields.Name].Value, snap.Elements[f.Errors.Name].Text},
		{label("form.label.birthdate"), snap.Elements[f.Fields.Birthdate].Value, snap.Elements[f.Errors.Birthdate].Text},
		{label("form.label.gender"), snap.Groups[f.Fields.Gender].Checked, snap.Elements[f.Errors.Gender].Text},
		{label("form.label.message"), snap.Elements[f.Fields.Message].Value, snap.Elements[f.Errors.Message].Text},
	}
	b.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(b, "%s: %s", row.label, row.value)
		if row.errText != "" {
			fmt.Fprintf(b, " (%s)", row.errText)
		}
		b.WriteString("\n")
	}

	results := []struct {
		label, text string
	}{
		{label("form.label.name"), snap.Elements[f.Results.Name].Text},
		{label("form.label.birthdate"), snap.Elements[f.Results.Birthdate].Text},
		{label("form.label.gender"), snap.Elements[f.Results.Gender].Text},
		{label("form.label.message"), snap.Elements[f.Results.Message].Text},
	}
	if results[0].text == "" {
		return
	}
	fmt.Fprintf(b, "\n%s\n", label("summary.title"))
	for _, row := range results {
		fmt.Fprintf(b, "  %s: %s\n", row.label, row.text)
	}
}

// PlainLines strips markup from an HTML fragment and returns its non-empty
// lines, trimmed.
func PlainLines(fragment string) []string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
		stripPolicy.AddSpaceWhenStrippingTag(true)
	})
	text := html.UnescapeString(stripPolicy.Sanitize(fragment))

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
