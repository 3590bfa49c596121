package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-pageshell/pkg/render/template"
)

// DefaultExtension is appended to template names given without one.
const DefaultExtension = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk. Directory templates
// take precedence over the ones provided through WithFS, so a directory may
// override a single template and fall back to the bundle for the rest.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobalData seeds values available to every template. Per-render data
// with the same key wins.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine implements template.TemplateRenderer with a pongo2 template set.
// Parsed templates are cached by name.
type Engine struct {
	set *pongo2.TemplateSet

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Either WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	set := pongo2.NewSet("pageshell", loaders...)
	registerDefaultFilters()

	if len(cfg.globalData) > 0 {
		globals, err := toContext(cfg.globalData)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
		}
		set.Globals.Update(globals)
	}
	return &Engine{set: set, cache: make(map[string]*pongo2.Template)}, nil
}

// RenderTemplate executes the named template into w. The extension is
// optional. Nothing is written when execution fails.
func (e *Engine) RenderTemplate(w io.Writer, name string, data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if w == nil {
		return errors.New("gotemplate: writer is nil")
	}
	if path.Ext(name) == "" {
		name += DefaultExtension
	}

	tmpl, err := e.lookup(name)
	if err != nil {
		return err
	}
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: convert data for %q: %w", name, err)
	}
	if err := tmpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("gotemplate: execute template %q: %w", name, err)
	}
	return nil
}

// lookup resolves name through every loader in order. pongo2's own cache
// resolves names against the first loader only, which breaks the fallback
// from a base directory to the bundle.
func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// toContext turns data into a pongo2 context. Maps are used as they are;
// anything else goes through its JSON encoding so templates address struct
// fields by their JSON names.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	m, ok := normaliseNumbers(decoded).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("template data must encode to an object, got %T", data)
	}
	return pongo2.Context(m), nil
}

// normaliseNumbers replaces json.Number values with int64 when they are
// integral and float64 otherwise, so templates print 2 rather than 2.000000.
func normaliseNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for key, item := range v {
			v[key] = normaliseNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normaliseNumbers(item)
		}
		return v
	default:
		return v
	}
}
