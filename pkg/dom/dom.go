//go:build js && wasm

// Package dom implements view.View over the browser document and binds the
// page's interaction points to DOM listeners.
package dom

import (
	"syscall/js"

	"github.com/goliatone/go-pageshell/pkg/view"
)

// Document is the live browser document.
type Document struct {
	doc js.Value
	win js.Value
}

var _ view.View = (*Document)(nil)

// NewDocument wraps the global document.
func NewDocument() *Document {
	return &Document{
		doc: js.Global().Get("document"),
		win: js.Global(),
	}
}

func (d *Document) byID(id string) (js.Value, bool) {
	if id == "" {
		return js.Null(), false
	}
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return el, false
	}
	return el, true
}

func (d *Document) radio(group, suffix string) js.Value {
	return d.doc.Call("querySelector", `input[type="radio"][name="`+group+`"]`+suffix)
}

// Exists reports whether id names an element or a radio group.
func (d *Document) Exists(id string) bool {
	if _, ok := d.byID(id); ok {
		return true
	}
	return !d.radio(id, "").IsNull()
}

// SetVisible toggles the active marker on a section.
func (d *Document) SetVisible(id string, visible bool) {
	if el, ok := d.byID(id); ok {
		el.Get("classList").Call("toggle", view.ActiveMarker, visible)
	}
}

// SetActive toggles the active marker on every nav control targeting target.
func (d *Document) SetActive(target string, active bool) {
	links := d.doc.Call("querySelectorAll", `[data-target="`+target+`"]`)
	for i := 0; i < links.Length(); i++ {
		links.Index(i).Get("classList").Call("toggle", view.ActiveMarker, active)
	}
}

// SetText replaces the text content of id.
func (d *Document) SetText(id, text string) {
	if el, ok := d.byID(id); ok {
		el.Set("textContent", text)
	}
}

// Value returns the current value of a form control.
func (d *Document) Value(id string) string {
	el, ok := d.byID(id)
	if !ok {
		return ""
	}
	v := el.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

// Selected returns the checked option of a radio group.
func (d *Document) Selected(group string) string {
	el := d.radio(group, ":checked")
	if el.IsNull() || el.IsUndefined() {
		return ""
	}
	return el.Get("value").String()
}

// Reset restores the form's controls to their initial state.
func (d *Document) Reset(formID string) {
	if el, ok := d.byID(formID); ok {
		el.Call("reset")
	}
}

// Alert shows a blocking browser alert.
func (d *Document) Alert(message string) {
	d.win.Call("alert", message)
}
