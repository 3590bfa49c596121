package page_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-pageshell/pkg/clock"
	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/events"
	"github.com/goliatone/go-pageshell/pkg/form"
	"github.com/goliatone/go-pageshell/pkg/page"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 5, 15, 4, 5, 0, time.Local)
}

func TestNew_Validation(t *testing.T) {
	if _, err := page.New(nil); !errors.Is(err, page.ErrNilView) {
		t.Fatalf("expected ErrNilView, got %v", err)
	}

	cfg := config.Default()
	cfg.DefaultPage = "nowhere"
	if _, err := page.New(page.NewDocument(config.Default()), page.WithConfig(cfg)); err == nil {
		t.Fatalf("expected invalid config error")
	}
}

func TestStart_InitialisesEveryComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := config.Default()
	doc := page.NewDocument(cfg)

	app, err := page.New(doc,
		page.WithLogger(zap.New(core)),
		page.WithClockOptions(clock.WithNow(fixedNow)),
	)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer app.Stop()

	if app.CurrentPage() != "home" {
		t.Fatalf("expected home, got %q", app.CurrentPage())
	}
	if diff := cmp.Diff([]string{"home"}, doc.VisibleSections()); diff != "" {
		t.Fatalf("visible sections mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Text(cfg.Clock.Target); got != "Tuesday, March 5, 2024 at 03:04:05 PM" {
		t.Fatalf("expected clock written at startup, got %q", got)
	}

	entries := logs.FilterMessage("🚀 Website loaded successfully!").All()
	if len(entries) != 1 {
		t.Fatalf("expected one startup confirmation, got %d (all: %v)", len(entries), logs.All())
	}

	if err := app.Start(context.Background()); !errors.Is(err, page.ErrStarted) {
		t.Fatalf("expected ErrStarted, got %v", err)
	}
}

func TestApp_NavigationAndForm(t *testing.T) {
	cfg := config.Default()
	doc := page.NewDocument(cfg)
	app, err := page.New(doc, page.WithoutClockLoop(), page.WithClockOptions(clock.WithNow(fixedNow)))
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	app.Click("contact")
	app.Click("missing")
	if app.CurrentPage() != "contact" {
		t.Fatalf("expected contact, got %q", app.CurrentPage())
	}
	if diff := cmp.Diff([]string{"contact"}, doc.ActiveNav()); diff != "" {
		t.Fatalf("active nav mismatch (-want +got):\n%s", diff)
	}

	f := cfg.Form
	doc.SetValue(f.Fields.Name, "A")
	app.Blur(f.Fields.Name)
	if doc.Text(f.Errors.Name) != "Nama minimal 2 karakter" {
		t.Fatalf("expected blur validation, got %q", doc.Text(f.Errors.Name))
	}

	doc.SetValue(f.Fields.Name, "Al")
	doc.SetValue(f.Fields.Birthdate, "2000-01-01")
	doc.Check(f.Fields.Gender, "male")
	doc.SetValue(f.Fields.Message, "Hello there!")

	result := app.Submit()
	if !result.Valid {
		t.Fatalf("expected valid submit, errors %v", result.Errors)
	}
	want := form.Summary{Name: "Al", Birthdate: "1 Januari 2000", Gender: "male", Message: "Hello there!"}
	if diff := cmp.Diff(want, result.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(form.Values{}, app.Values()); diff != "" {
		t.Fatalf("expected reset form (-want +got):\n%s", diff)
	}
}

func TestApp_InitialPage(t *testing.T) {
	doc := page.NewDocument(config.Default())
	app, err := page.New(doc, page.WithoutClockLoop(), page.WithInitialPage("about"))
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if app.CurrentPage() != "about" {
		t.Fatalf("expected about, got %q", app.CurrentPage())
	}

	doc = page.NewDocument(config.Default())
	app, _ = page.New(doc, page.WithoutClockLoop(), page.WithInitialPage("bogus"))
	_ = app.Start(context.Background())
	if app.CurrentPage() != "home" {
		t.Fatalf("expected unknown initial page to fall back to home, got %q", app.CurrentPage())
	}
}

func TestApp_ClockLoopTicks(t *testing.T) {
	cfg := config.Default()
	cfg.Clock.Interval = 5 * time.Millisecond
	doc := page.NewDocument(cfg)

	app, err := page.New(doc, page.WithConfig(cfg))
	if err != nil {
		t.Fatalf("new page: %v", err)
	}

	ticks := make(chan struct{}, 1)
	app.Dispatcher().On(events.PointClockTick, func(events.Event) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatalf("expected clock tick %d", i)
		}
	}

	app.Stop()
	app.Stop()
	if doc.Text(cfg.Clock.Target) == "" {
		t.Fatalf("expected clock text")
	}
}

func TestApp_DisabledClockWithoutTarget(t *testing.T) {
	cfg := config.Default()
	cfg.Clock.Disabled = true
	doc := page.NewDocument(cfg)

	app, err := page.New(doc, page.WithConfig(cfg))
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	app.Tick()
	if doc.Exists(cfg.Clock.Target) {
		t.Fatalf("clock target should not exist")
	}
}
