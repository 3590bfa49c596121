// Package view defines the seam between page behaviour and the document that
// hosts it. Routing, validation and the clock only ever read and write the
// document through View, which keeps them testable without a browser.
//
// Memory is the in-process implementation used by tests, the server-rendered
// host and the terminal session. The js/wasm host lives in pkg/dom.
package view
