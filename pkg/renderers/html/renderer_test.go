package html_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/render"
	"github.com/goliatone/go-pageshell/pkg/renderers/html"
	"github.com/goliatone/go-pageshell/pkg/testsupport"
)

func renderPage(t *testing.T, r *html.Renderer, page render.Page, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), page, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func mustContain(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, out)
		}
	}
}

func mustNotContain(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(out, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, out)
		}
	}
}

func newRenderer(t *testing.T, opts ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "html" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	if !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderer_StartedPage(t *testing.T) {
	cfg := config.Default()
	app, doc := testsupport.StartApp(t, cfg)
	r := newRenderer(t)

	out := renderPage(t, r,
		render.Page{Config: cfg, Snapshot: doc.Snapshot(), Current: app.CurrentPage(), Catalog: app.Catalog()},
		render.RenderOptions{PageHref: "?page=%s", FormAction: "/contact"},
	)

	mustContain(t, out,
		`<html lang="id">`,
		`<title>Halaman Pribadi</title>`,
		`<section id="home" class="page active">`,
		`<section id="contact" class="page">`,
		`<a href="?page=home" data-target="home" class="nav-link active">Beranda</a>`,
		`<a href="?page=contact" data-target="contact" class="nav-link">Kontak</a>`,
		`<div id="currentTime" class="clock">Tuesday, March 5, 2024 at 03:04:05 PM</div>`,
		`<form id="contactForm" method="post" action="/contact" novalidate>`,
		`<label for="name">Nama</label>`,
		`<input type="date" id="birthdate" name="birthdate" value="">`,
		`<textarea id="messageText" name="messageText"></textarea>`,
		`value="male"> Laki-laki`,
		`<span id="nameError" class="error"></span>`,
		`<dd id="resultName"></dd>`,
		`--brand: #2563eb;`,
		`data-theme="default" data-variant="light"`,
	)
	mustNotContain(t, out, `<dialog`, `<script`)
}

func TestRenderer_FailedSubmitShowsErrorsAndAlert(t *testing.T) {
	cfg := config.Default()
	app, doc := testsupport.StartApp(t, cfg)
	app.Click("contact")
	testsupport.FillForm(doc, cfg.Form, "A", "", "", "short")
	app.Submit()

	r := newRenderer(t)
	out, err := r.Render(context.Background(), render.Page{
		Config:   cfg,
		Snapshot: doc.Snapshot(),
		Current:  app.CurrentPage(),
		Catalog:  app.Catalog(),
	}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	mustContain(t, string(out),
		`<section id="contact" class="page active">`,
		`<section id="home" class="page">`,
		`<span id="nameError" class="error">Nama minimal 2 karakter</span>`,
		`<span id="birthdateError" class="error">Tanggal lahir harus diisi</span>`,
		`<span id="genderError" class="error">Pilih jenis kelamin</span>`,
		`<span id="messageError" class="error">Pesan minimal 10 karakter</span>`,
		`<input type="text" id="name" name="name" value="A">`,
		`<dialog open class="alert"><p>❌ Harap perbaiki error pada form sebelum mengirim.</p>`,
		`<a href="#contact" data-target="contact" class="nav-link active">`,
	)
	mustNotContain(t, string(out), ` action=`)
}

func TestRenderer_SuccessfulSubmitEscapesSummary(t *testing.T) {
	cfg := config.Default()
	app, doc := testsupport.StartApp(t, cfg)
	app.Click("contact")
	testsupport.FillForm(doc, cfg.Form, "<b>Al</b>", "2000-01-01", "female", "if a<b and c>d then done")
	if result := app.Submit(); !result.Valid {
		t.Fatalf("expected valid submit, got %v", result.Errors)
	}

	r := newRenderer(t)
	out, err := r.Render(context.Background(), render.Page{Config: cfg, Snapshot: doc.Snapshot(), Catalog: app.Catalog()}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	mustContain(t, string(out),
		`<dd id="resultName">&lt;b&gt;Al&lt;/b&gt;</dd>`,
		`<dd id="resultBirthdate">1 Januari 2000</dd>`,
		`<dd id="resultGender">female</dd>`,
		`<dd id="resultMessage">if a&lt;b and c&gt;d then done</dd>`,
		`<p>✅ Pesan berhasil dikirim! Terima kasih.</p>`,
		`<input type="text" id="name" name="name" value="">`,
	)
	mustNotContain(t, string(out), `<b>Al</b>`, ` checked`)
}

func TestRenderer_EscapesErrorAndAlertText(t *testing.T) {
	cfg := config.Default()
	app, doc := testsupport.StartApp(t, cfg)
	doc.SetText(cfg.Form.Errors.Name, `a<b & "c"`)
	doc.Alert(`<i>x</i> > y`)

	r := newRenderer(t)
	out, err := r.Render(context.Background(), render.Page{Config: cfg, Snapshot: doc.Snapshot(), Catalog: app.Catalog()}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out),
		`<span id="nameError" class="error">a&lt;b &amp; &quot;c&quot;</span>`,
		`<p>&lt;i&gt;x&lt;/i&gt; &gt; y</p>`,
	)
	mustNotContain(t, string(out), `<i>x</i>`)
}

func TestRenderer_EscapesControlValues(t *testing.T) {
	cfg := config.Default()
	app, doc := testsupport.StartApp(t, cfg)
	doc.SetValue(cfg.Form.Fields.Name, `"><script>x</script>`)
	doc.Check(cfg.Form.Fields.Gender, "male")

	r := newRenderer(t)
	out, err := r.Render(context.Background(), render.Page{Config: cfg, Snapshot: doc.Snapshot(), Catalog: app.Catalog()}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustNotContain(t, string(out), `<script>x</script>`)
	mustContain(t, string(out), `value="male" checked>`)
}

func TestRenderer_SanitisesPageBodies(t *testing.T) {
	cfg := config.Default()
	cfg.Pages[0].Body = `<p onclick="steal()">Hi <a href="javascript:alert(1)">there</a></p><script>alert(1)</script>`

	r := newRenderer(t)
	out, err := r.Render(context.Background(), render.Page{Config: cfg, Current: "home"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out), `<p>Hi`, `<section id="home" class="page active">`)
	mustNotContain(t, string(out), `onclick`, `javascript:`, `<script>alert(1)</script>`)
}

func TestRenderer_ScriptAndStylesheetOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Clock.Disabled = true
	r := newRenderer(t, html.WithStylesheet(""))

	out, err := r.Render(context.Background(), render.Page{Config: cfg, Current: "about"}, render.RenderOptions{Script: "/static/boot.js"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out), `<script src="/static/boot.js" defer></script>`, `<section id="about" class="page active">`)
	mustNotContain(t, string(out), `class="clock"`, `.nav-link.active`)
}

type stubSelector struct {
	selection *theme.Selection
	err       error
	calls     int
}

func (s *stubSelector) Select(_, _ string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls++
	return s.selection, s.err
}

func TestRenderer_ThemeSelector(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456"},
		},
	}}
	r := newRenderer(t, html.WithThemeSelector(selector))

	out, err := r.Render(context.Background(), render.Page{Config: config.Default(), Current: "home"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if selector.calls != 1 {
		t.Fatalf("expected one selector call, got %d", selector.calls)
	}
	mustContain(t, string(out), `--brand: #123456;`, `--surface: #ffffff;`, `data-theme="acme" data-variant="dark"`)
}

func TestRenderer_ThemeSelectorFailureFallsBack(t *testing.T) {
	r := newRenderer(t, html.WithThemeSelector(&stubSelector{err: errors.New("boom")}))

	out, err := r.Render(context.Background(), render.Page{Config: config.Default(), Current: "home"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out), `--brand: #2563eb;`, `data-theme="default"`)
}

func TestRenderer_ThemeOverride(t *testing.T) {
	r := newRenderer(t)
	override := &theme.RendererConfig{
		Theme:   "night",
		Variant: "dark",
		CSSVars: map[string]string{"--surface": "#000000"},
	}

	out, err := r.Render(context.Background(), render.Page{Config: config.Default(), Current: "home"}, render.RenderOptions{Theme: override})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out), `--surface: #000000;`, `data-theme="night"`)
	mustNotContain(t, string(out), `--brand: #2563eb;`)
}

func TestThemeConfig(t *testing.T) {
	cfg := html.ThemeConfig(config.Theme{Name: "x", Variant: "y", Tokens: map[string]string{"brand": "#fff"}})
	if cfg.Theme != "x" || cfg.Variant != "y" {
		t.Fatalf("unexpected theme %+v", cfg)
	}
	if cfg.CSSVars["--brand"] != "#fff" || cfg.Tokens["brand"] != "#fff" {
		t.Fatalf("tokens not mapped: %+v", cfg)
	}
}

func TestRenderer_MinimalPageGolden(t *testing.T) {
	cfg := testsupport.LoadConfig(t, filepath.Join("testdata", "minimal.yaml"))
	app, doc := testsupport.StartApp(t, cfg)
	r := newRenderer(t, html.WithStylesheet(""))

	output, err := r.Render(context.Background(), render.Page{
		Config:   cfg,
		Snapshot: doc.Snapshot(),
		Current:  app.CurrentPage(),
		Catalog:  app.Catalog(),
	}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "minimal.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, output) {
		return
	}
	want := testsupport.MustReadGolden(t, goldenPath)
	if diff := testsupport.CompareGolden(string(want), string(output)); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_TemplatesDirOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.tpl"), []byte(`{{ title }}|{{ stylesheet|length }}`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	r := newRenderer(t, html.WithTemplatesDir(dir), html.WithStylesheet("body{}"))

	out := renderPage(t, r, render.Page{Config: config.Default(), Current: "home"}, render.RenderOptions{})
	if out != "Halaman Pribadi|6" {
		t.Fatalf("unexpected output %q", out)
	}
}
