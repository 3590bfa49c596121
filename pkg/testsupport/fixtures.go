// Package testsupport holds helpers shared by package tests: page fixtures,
// started apps over in-memory documents and golden file handling.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pageshell/pkg/clock"
	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/page"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// FixedNow is the instant fixtures use for the clock display:
// Tuesday, March 5, 2024 at 03:04:05 PM local time.
func FixedNow() time.Time {
	return time.Date(2024, time.March, 5, 15, 4, 5, 0, time.Local)
}

// LoadConfig reads a page configuration fixture overlaid on the defaults.
func LoadConfig(t *testing.T, path string) config.Config {
	t.Helper()

	cfg, err := config.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

// StartApp builds and starts a page over a fresh in-memory document. The
// clock loop is disabled and the clock reads FixedNow.
func StartApp(t *testing.T, cfg config.Config, opts ...page.Option) (*page.App, *view.Memory) {
	t.Helper()

	doc := page.NewDocument(cfg)
	base := []page.Option{
		page.WithConfig(cfg),
		page.WithoutClockLoop(),
		page.WithClockOptions(clock.WithNow(FixedNow)),
	}
	app, err := page.New(doc, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if err := app.Start(Context()); err != nil {
		t.Fatalf("start page: %v", err)
	}
	t.Cleanup(app.Stop)
	return app, doc
}

// FillForm writes values into the contact form controls of doc.
func FillForm(doc *view.Memory, f config.Form, name, birthdate, gender, message string) {
	doc.SetValue(f.Fields.Name, name)
	doc.SetValue(f.Fields.Birthdate, birthdate)
	doc.Check(f.Fields.Gender, gender)
	doc.SetValue(f.Fields.Message, message)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
