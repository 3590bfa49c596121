package html

import (
	"sort"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/view"
)

const (
	keyLabelName      = "form.label.name"
	keyLabelBirthdate = "form.label.birthdate"
	keyLabelGender    = "form.label.gender"
	keyLabelMessage   = "form.label.message"
	keyLabelSubmit    = "form.label.submit"
	keySummaryTitle   = "summary.title"
	keyGenderPrefix   = "form.gender."
)

// pageView is the template data of page.tpl. Text fields hold document text
// as it is; the template escapes them. Body is sanitised markup.
type pageView struct {
	Lang   string      `json:"lang"`
	Title  string      `json:"title"`
	Href   string      `json:"href"`
	Script string      `json:"script"`
	Pages  []pageEntry `json:"pages"`
	Alerts []string    `json:"alerts"`
	Clock  clockView   `json:"clock"`
	Form   formView    `json:"form"`
	Theme  themeView   `json:"theme"`
}

type pageEntry struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Nav     string `json:"nav"`
	Body    string `json:"body"`
	Visible bool   `json:"visible"`
	Active  bool   `json:"active"`
}

type clockView struct {
	Enabled bool   `json:"enabled"`
	ID      string `json:"id"`
	Text    string `json:"text"`
}

type formView struct {
	ID           string       `json:"id"`
	Page         string       `json:"page"`
	Action       string       `json:"action"`
	Submit       string       `json:"submit"`
	SummaryTitle string       `json:"summary_title"`
	Fields       []fieldView  `json:"fields"`
	Results      []resultView `json:"results"`
}

type fieldView struct {
	Kind    string       `json:"kind"`
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Value   string       `json:"value"`
	Options []optionView `json:"options,omitempty"`
	ErrorID string       `json:"error_id"`
	Error   string       `json:"error"`
}

type optionView struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type resultView struct {
	Label string `json:"label"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

type themeView struct {
	Name    string   `json:"name"`
	Variant string   `json:"variant"`
	Vars    []cssVar `json:"vars"`
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *Renderer) pageData(p render.Page, opts render.RenderOptions) pageView {
	cfg := p.Config
	locale := cfg.Locale
	if opts.Locale != "" {
		locale = opts.Locale
	}
	label := func(key string) string {
		return i18n.Lookup(p.Catalog, locale, key, nil)
	}

	snap := p.Snapshot
	hasDocument := len(snap.Elements) > 0

	pages := make([]pageEntry, 0, len(cfg.Pages))
	for _, pg := range cfg.Pages {
		visible := pg.Key == p.Current
		active := visible
		if hasDocument {
			visible = snap.Elements[pg.Key].Active
			active = snap.Nav[pg.Key]
		}
		pages = append(pages, pageEntry{
			Key:     pg.Key,
			Title:   pg.Title,
			Nav:     pg.Nav,
			Body:    sanitizeBody(pg.Body),
			Visible: visible,
			Active:  active,
		})
	}

	themeCfg := r.resolveTheme(cfg.Theme, opts.Theme)
	names := make([]string, 0, len(themeCfg.CSSVars))
	for name := range themeCfg.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	vars := make([]cssVar, 0, len(names))
	for _, name := range names {
		vars = append(vars, cssVar{Name: name, Value: themeCfg.CSSVars[name]})
	}

	href := opts.PageHref
	if href == "" {
		href = "#%s"
	}

	return pageView{
		Lang:   p.Catalog.Resolve(locale),
		Title:  cfg.Title,
		Href:   href,
		Script: opts.Script,
		Pages:  pages,
		Alerts: append([]string(nil), snap.Alerts...),
		Clock: clockView{
			Enabled: !cfg.Clock.Disabled,
			ID:      cfg.Clock.Target,
			Text:    snap.Elements[cfg.Clock.Target].Text,
		},
		Form: formData(cfg.Form, snap, opts.FormAction, label),
		Theme: themeView{
			Name:    themeCfg.Theme,
			Variant: themeCfg.Variant,
			Vars:    vars,
		},
	}
}

func formData(f config.Form, snap view.Snapshot, action string, label func(string) string) formView {
	el := func(id string) view.ElementState {
		return snap.Elements[id]
	}
	checked := snap.Groups[f.Fields.Gender].Checked

	options := make([]optionView, 0, len(f.Genders))
	for _, g := range f.Genders {
		options = append(options, optionView{
			Value:   g,
			Label:   label(keyGenderPrefix + g),
			Checked: g == checked,
		})
	}

	input := func(kind, id, text, errorID string) fieldView {
		return fieldView{
			Kind:    kind,
			ID:      id,
			Label:   text,
			Value:   el(id).Value,
			ErrorID: errorID,
			Error:   el(errorID).Text,
		}
	}
	result := func(text, id string) resultView {
		return resultView{Label: text, ID: id, Text: el(id).Text}
	}

	return formView{
		ID:           f.ID,
		Page:         f.Page,
		Action:       action,
		Submit:       label(keyLabelSubmit),
		SummaryTitle: label(keySummaryTitle),
		Fields: []fieldView{
			input("text", f.Fields.Name, label(keyLabelName), f.Errors.Name),
			input("date", f.Fields.Birthdate, label(keyLabelBirthdate), f.Errors.Birthdate),
			{
				Kind:    "radio",
				ID:      f.Fields.Gender,
				Label:   label(keyLabelGender),
				Options: options,
				ErrorID: f.Errors.Gender,
				Error:   el(f.Errors.Gender).Text,
			},
			input("textarea", f.Fields.Message, label(keyLabelMessage), f.Errors.Message),
		},
		Results: []resultView{
			result(label(keyLabelName), f.Results.Name),
			result(label(keyLabelBirthdate), f.Results.Birthdate),
			result(label(keyLabelGender), f.Results.Gender),
			result(label(keyLabelMessage), f.Results.Message),
		},
	}
}
