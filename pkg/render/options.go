package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers use to customise their
// output without touching the document state.
type RenderOptions struct {
	// Locale overrides the configured locale for labels.
	Locale string
	// FormAction is the URL the contact form posts to. Empty keeps the form
	// client-side only.
	FormAction string
	// PageHref formats nav links; "%s" is replaced with the page key.
	PageHref string
	// Script, when set, is loaded by the page (for example a wasm bootstrap).
	Script string
	// Theme overrides the theme resolved from the configuration.
	Theme *theme.RendererConfig
}
