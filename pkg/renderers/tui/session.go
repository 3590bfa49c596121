package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-pageshell/pkg/form"
	"github.com/goliatone/go-pageshell/pkg/page"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/view"
)

const (
	menuSwitch = iota
	menuForm
	menuTime
	menuQuit
)

// Session runs the interactive menu for one started page. The document must
// be the one the page was built over.
type Session struct {
	app    *page.App
	doc    *view.Memory
	driver PromptDriver
	theme  Theme
	text   *Renderer
}

// NewSession builds a session with the survey driver and the default theme.
func NewSession(app *page.App, doc *view.Memory, opts ...Option) (*Session, error) {
	if app == nil || doc == nil {
		return nil, ErrNilApp
	}
	s := &Session{
		app:    app,
		doc:    doc,
		driver: NewSurveyDriver(nil),
		theme:  DefaultTheme(),
		text:   NewRenderer(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Run shows the current page and loops over the menu until the user quits,
// aborts the prompt or ctx ends.
func (s *Session) Run(ctx context.Context) error {
	if err := s.show(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message: s.app.Text("tui.menu"),
			Options: []string{
				s.app.Text("tui.menu.switch"),
				s.app.Text("tui.menu.form"),
				s.app.Text("tui.menu.time"),
				s.app.Text("tui.menu.quit"),
			},
		})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case menuSwitch:
			err = s.switchPage(ctx)
		case menuForm:
			err = s.fillForm(ctx)
		case menuTime:
			err = s.showTime(ctx)
		default:
			return nil
		}
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) switchPage(ctx context.Context) error {
	cfg := s.app.Config()
	options := make([]string, 0, len(cfg.Pages))
	current := 0
	for i, pg := range cfg.Pages {
		options = append(options, pg.Nav)
		if pg.Key == s.app.CurrentPage() {
			current = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      s.app.Text("tui.menu.switch"),
		Options:      options,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(cfg.Pages) {
		s.app.Click(cfg.Pages[idx].Key)
	}
	return s.show(ctx)
}

func (s *Session) fillForm(ctx context.Context) error {
	cfg := s.app.Config()
	f := cfg.Form
	s.app.Click(f.Page)

	name, err := s.driver.Input(ctx, InputConfig{
		Message: s.app.Text("form.label.name"),
		Default: s.doc.Value(f.Fields.Name),
	})
	if err != nil {
		return err
	}
	s.doc.SetValue(f.Fields.Name, name)
	s.app.Blur(f.Fields.Name)
	if err := s.fieldError(ctx, f.Errors.Name); err != nil {
		return err
	}

	birthdate, err := s.driver.Input(ctx, InputConfig{
		Message: s.app.Text("form.label.birthdate"),
		Default: s.doc.Value(f.Fields.Birthdate),
		Help:    form.DateLayout,
	})
	if err != nil {
		return err
	}
	s.doc.SetValue(f.Fields.Birthdate, strings.TrimSpace(birthdate))

	genders := make([]string, 0, len(f.Genders))
	for _, g := range f.Genders {
		genders = append(genders, s.app.Text("form.gender."+g))
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      s.app.Text("form.label.gender"),
		Options:      genders,
		DefaultIndex: -1,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(f.Genders) {
		s.doc.Check(f.Fields.Gender, f.Genders[idx])
	}

	message, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: s.app.Text("form.label.message"),
		Default: s.doc.Value(f.Fields.Message),
	})
	if err != nil {
		return err
	}
	s.doc.SetValue(f.Fields.Message, message)
	s.app.Blur(f.Fields.Message)
	if err := s.fieldError(ctx, f.Errors.Message); err != nil {
		return err
	}

	result := s.app.Submit()
	return s.report(ctx, result)
}

func (s *Session) report(ctx context.Context, result form.Result) error {
	c := s.theme.Error
	if result.Valid {
		c = s.theme.Success
	}
	for _, alert := range s.doc.DrainAlerts() {
		if err := s.driver.Info(ctx, paint(c, alert)); err != nil {
			return err
		}
	}

	f := s.app.Config().Form
	if !result.Valid {
		for _, id := range []string{f.Errors.Name, f.Errors.Birthdate, f.Errors.Gender, f.Errors.Message} {
			if err := s.fieldError(ctx, id); err != nil {
				return err
			}
		}
		return nil
	}

	lines := []string{
		paint(s.theme.Title, s.app.Text("summary.title")),
		fmt.Sprintf("  %s: %s", s.app.Text("form.label.name"), result.Summary.Name),
		fmt.Sprintf("  %s: %s", s.app.Text("form.label.birthdate"), result.Summary.Birthdate),
		fmt.Sprintf("  %s: %s", s.app.Text("form.label.gender"), result.Summary.Gender),
		fmt.Sprintf("  %s: %s", s.app.Text("form.label.message"), result.Summary.Message),
	}
	return s.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (s *Session) fieldError(ctx context.Context, errorID string) error {
	text := s.doc.Text(errorID)
	if text == "" {
		return nil
	}
	return s.driver.Info(ctx, paint(s.theme.Error, "  "+text))
}

func (s *Session) showTime(ctx context.Context) error {
	cfg := s.app.Config()
	if cfg.Clock.Disabled {
		return s.driver.Info(ctx, paint(s.theme.Muted, form.Placeholder))
	}
	s.app.Tick()
	return s.driver.Info(ctx, paint(s.theme.Title, s.doc.Text(cfg.Clock.Target)))
}

func (s *Session) show(ctx context.Context) error {
	out, err := s.text.Render(ctx, render.Page{
		Config:   s.app.Config(),
		Snapshot: s.doc.Snapshot(),
		Current:  s.app.CurrentPage(),
		Catalog:  s.app.Catalog(),
	}, render.RenderOptions{})
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}
