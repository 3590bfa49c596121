//go:build js && wasm

// Command pageshell-wasm runs the page inside the browser against markup
// produced by the html renderer.
package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/dom"
	"github.com/goliatone/go-pageshell/pkg/page"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	doc := dom.NewDocument()
	app, err := page.New(doc, page.WithLogger(logger))
	if err != nil {
		logger.Fatal("build page", zap.Error(err))
	}
	if err := app.Start(context.Background()); err != nil {
		logger.Fatal("start page", zap.Error(err))
	}
	binding := dom.Bind(doc, app)
	defer binding.Release()

	select {}
}
