// Package render defines the contract between the page state and its output
// formats. Renderers receive a Page (configuration plus document snapshot)
// and per-request RenderOptions; the Registry looks them up by name.
package render
