package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/page"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/renderers/html"
	"github.com/goliatone/go-pageshell/pkg/renderers/tui"
)

type renderOptions struct {
	page      string
	format    string
	output    string
	script    string
	pageHref  string
	templates string
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	ro := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page once as HTML or plain text",
		Long: `Renders the page as it looks right after loading, optionally switched to
another page. The HTML output carries the element ids the wasm build binds to.

Example:
  pageshell render --page contact --output index.html
  pageshell render --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			out, err := renderOnce(cmd, cfg, opts, ro)
			if err != nil {
				return err
			}
			if ro.output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(ro.output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			opts.log().Info("page written")
			return nil
		},
	}

	cmd.Flags().StringVar(&ro.page, "page", "", "page key to show (defaults to the configured default page)")
	cmd.Flags().StringVar(&ro.format, "format", "html", "output format: html or text")
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&ro.script, "script", "", "script URL loaded by the page")
	cmd.Flags().StringVar(&ro.pageHref, "href", "#%s", "nav link pattern, %s is the page key")
	cmd.Flags().StringVar(&ro.templates, "templates", "", "directory whose page.tpl replaces the bundled template")
	return cmd
}

func renderOnce(cmd *cobra.Command, cfg config.Config, opts *globalOptions, ro renderOptions) ([]byte, error) {
	htmlRenderer, err := html.New(
		html.WithLogger(opts.log()),
		html.WithTemplatesDir(ro.templates),
	)
	if err != nil {
		return nil, err
	}
	registry, err := render.NewRegistry(htmlRenderer, tui.NewRenderer())
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(ro.format)
	if err != nil {
		return nil, err
	}

	doc := page.NewDocument(cfg)
	app, err := page.New(doc,
		page.WithConfig(cfg),
		page.WithLogger(opts.log()),
		page.WithInitialPage(ro.page),
		page.WithoutClockLoop(),
	)
	if err != nil {
		return nil, err
	}
	if err := app.Start(cmd.Context()); err != nil {
		return nil, err
	}
	defer app.Stop()

	return renderer.Render(cmd.Context(), render.Page{
		Config:   cfg,
		Snapshot: doc.Snapshot(),
		Current:  app.CurrentPage(),
		Catalog:  app.Catalog(),
	}, render.RenderOptions{
		Script:   ro.script,
		PageHref: ro.pageHref,
	})
}
