//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/goliatone/go-pageshell/pkg/page"
)

// Binding holds the listeners installed by Bind.
type Binding struct {
	funcs   []js.Func
	removes []func()
}

// Release detaches every listener and frees the callbacks.
func (b *Binding) Release() {
	for _, remove := range b.removes {
		remove()
	}
	for _, fn := range b.funcs {
		fn.Release()
	}
	b.funcs, b.removes = nil, nil
}

func (b *Binding) listen(target js.Value, event string, fn func(this js.Value, event js.Value)) {
	if target.IsNull() || target.IsUndefined() {
		return
	}
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(this, ev)
		return nil
	})
	target.Call("addEventListener", event, cb)
	b.funcs = append(b.funcs, cb)
	b.removes = append(b.removes, func() {
		target.Call("removeEventListener", event, cb)
	})
}

// Bind wires nav clicks, the contact form submit and blur on the name and
// message controls to app. Default browser navigation and submission are
// suppressed.
func Bind(d *Document, app *page.App) *Binding {
	b := &Binding{}
	cfg := app.Config()

	links := d.doc.Call("querySelectorAll", "[data-target]")
	for i := 0; i < links.Length(); i++ {
		link := links.Index(i)
		key := link.Call("getAttribute", "data-target").String()
		b.listen(link, "click", func(_ js.Value, ev js.Value) {
			if ev.Truthy() {
				ev.Call("preventDefault")
			}
			app.Click(key)
		})
	}

	if formEl, ok := d.byID(cfg.Form.ID); ok {
		b.listen(formEl, "submit", func(_ js.Value, ev js.Value) {
			if ev.Truthy() {
				ev.Call("preventDefault")
			}
			app.Submit()
		})
	}

	for _, id := range []string{cfg.Form.Fields.Name, cfg.Form.Fields.Message} {
		el, ok := d.byID(id)
		if !ok {
			continue
		}
		controlID := id
		b.listen(el, "blur", func(js.Value, js.Value) {
			app.Blur(controlID)
		})
	}
	return b
}
