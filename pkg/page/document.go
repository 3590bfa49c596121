package page

import (
	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// NewDocument declares, in an in-memory document, every element the page
// markup is expected to carry for cfg.
func NewDocument(cfg config.Config, opts ...view.MemoryOption) *view.Memory {
	doc := view.NewMemory(opts...)

	keys := cfg.PageKeys()
	doc.AddElement(keys...)
	doc.AddNav(keys...)

	f := cfg.Form
	doc.AddControl(f.ID, f.Fields.Name, f.Fields.Birthdate, f.Fields.Message)
	doc.AddRadioGroup(f.ID, f.Fields.Gender, f.Genders...)
	doc.AddElement(f.Errors.Name, f.Errors.Birthdate, f.Errors.Gender, f.Errors.Message)
	doc.AddElement(f.Results.Name, f.Results.Birthdate, f.Results.Gender, f.Results.Message)

	if !cfg.Clock.Disabled {
		doc.AddElement(cfg.Clock.Target)
	}
	return doc
}
