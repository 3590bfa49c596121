package gotemplate_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pageshell/pkg/render/template/gotemplate"
)

func bundle() fstest.MapFS {
	return fstest.MapFS{
		"greeting.tpl": {Data: []byte(`Hello {{ name|trim }}!`)},
		"nav.tpl":      {Data: []byte(`{% for key in pages %}<a href="{{ key|pagehref:pattern }}">{{ key }}</a>{% endfor %}`)},
		"vars.tpl":     {Data: []byte(`{% for name, value in tokens %}{{ name|cssvar }}: {{ value }};{% endfor %}`)},
		"site.tpl":     {Data: []byte(`{{ site }}/{{ title }}`)},
		"counts.tpl":   {Data: []byte(`{{ a }}-{{ b }}{% for i in items %},{{ i }}{% endfor %}{% if b == 2 %} two{% endif %}`)},
	}
}

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(bundle())}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func render(t *testing.T, engine *gotemplate.Engine, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := engine.RenderTemplate(&buf, name, data); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestNew_RequiresTemplateSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	if out := render(t, engine, "greeting", map[string]any{"name": "  Ada "}); out != "Hello Ada!" {
		t.Fatalf("unexpected output %q", out)
	}
	if out := render(t, engine, "greeting.tpl", map[string]any{"name": "Lin"}); out != "Hello Lin!" {
		t.Fatalf("unexpected output with extension %q", out)
	}
}

func TestEngine_StructDataKeepsIntegers(t *testing.T) {
	engine := newEngine(t)

	out := render(t, engine, "counts", struct {
		A     string `json:"a"`
		B     int    `json:"b"`
		Items []int  `json:"items"`
	}{A: "x", B: 2, Items: []int{3, 4}})
	if out != "x-2,3,4 two" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_RejectsNonObjectData(t *testing.T) {
	engine := newEngine(t)
	var buf bytes.Buffer
	if err := engine.RenderTemplate(&buf, "greeting", []string{"a"}); err == nil {
		t.Fatalf("expected error for list data")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}

func TestEngine_PageHrefFilter(t *testing.T) {
	engine := newEngine(t)

	out := render(t, engine, "nav", map[string]any{
		"pages":   []any{"home", "about"},
		"pattern": "?page=%s",
	})
	want := `<a href="?page=home">home</a><a href="?page=about">about</a>`
	if out != want {
		t.Fatalf("unexpected nav:\nwant %s\ngot  %s", want, out)
	}

	if out := render(t, engine, "nav", map[string]any{"pages": []any{"home"}}); out != `<a href="#home">home</a>` {
		t.Fatalf("expected fragment link without pattern, got %q", out)
	}
}

func TestEngine_CSSVarFilter(t *testing.T) {
	engine := newEngine(t)

	out := render(t, engine, "vars", map[string]any{
		"tokens": map[string]any{"color.brand": "#0af"},
	})
	if out != "--color-brand: #0af;" {
		t.Fatalf("unexpected vars %q", out)
	}
}

func TestEngine_GlobalData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"site": "pageshell"}))

	if out := render(t, engine, "site", map[string]any{"title": "Home"}); out != "pageshell/Home" {
		t.Fatalf("unexpected output %q", out)
	}
	if out := render(t, engine, "site", map[string]any{"site": "other", "title": "About"}); out != "other/About" {
		t.Fatalf("expected render data to win over globals, got %q", out)
	}
}

func TestEngine_BaseDirOverridesBundle(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.tpl"), []byte(`Hi {{ name }}`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine := newEngine(t, gotemplate.WithBaseDir(dir))

	if out := render(t, engine, "greeting", map[string]any{"name": "Ada"}); out != "Hi Ada" {
		t.Fatalf("expected directory template, got %q", out)
	}
	if out := render(t, engine, "site", map[string]any{"site": "s", "title": "t"}); out != "s/t" {
		t.Fatalf("expected bundle fallback, got %q", out)
	}
}

func TestEngine_Errors(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	if err := engine.RenderTemplate(&buf, "absent", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
	if err := engine.RenderTemplate(nil, "greeting", nil); err == nil {
		t.Fatalf("expected nil writer error")
	}
	if _, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for a missing base dir")
	}
}
