// Package config describes the page: its sections, the contact form's element
// identifiers, the clock and the theme. Configuration is YAML; Default returns
// the bundled page and Load overlays a file on top of it.
package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/page.yaml
var embeddedDefaults embed.FS

const defaultsPath = "defaults/page.yaml"

// Config is the full page description.
type Config struct {
	Title       string `yaml:"title"`
	Locale      string `yaml:"locale"`
	DefaultPage string `yaml:"defaultPage"`
	Pages       []Page `yaml:"pages"`
	Form        Form   `yaml:"form"`
	Clock       Clock  `yaml:"clock"`
	Theme       Theme  `yaml:"theme"`
}

// Page is one toggle-visible section and its nav control.
type Page struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Nav   string `yaml:"nav"`
	// Body is HTML; renderers sanitise it before output.
	Body string `yaml:"body"`
}

// Fields names one element per contact form field.
type Fields struct {
	Name      string `yaml:"name"`
	Birthdate string `yaml:"birthdate"`
	Gender    string `yaml:"gender"`
	Message   string `yaml:"message"`
}

// Form holds the contact form's element identifiers.
type Form struct {
	ID string `yaml:"id"`
	// Page is the section that hosts the form and its summary.
	Page    string   `yaml:"page"`
	Fields  Fields   `yaml:"fields"`
	Errors  Fields   `yaml:"errors"`
	Results Fields   `yaml:"results"`
	Genders []string `yaml:"genders"`
}

// Clock configures the live time display.
type Clock struct {
	Target   string        `yaml:"target"`
	Interval time.Duration `yaml:"interval"`
	Locale   string        `yaml:"locale"`
	Disabled bool          `yaml:"disabled"`
}

// Theme selects presentation tokens for rendered hosts.
type Theme struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

// Default returns the bundled configuration.
func Default() Config {
	data, err := embeddedDefaults.ReadFile(defaultsPath)
	if err != nil {
		panic(err)
	}
	cfg, err := parse(Config{}, data, defaultsPath)
	if err != nil {
		// The bundled file is covered by tests.
		panic(err)
	}
	return cfg
}

// Load reads path from fsys and overlays it on the defaults. Lists (pages,
// genders) replace the defaults; maps merge.
func Load(fsys fs.FS, path string) (Config, error) {
	if fsys == nil {
		return Config{}, errors.New("config: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(Default(), data, path)
}

func parse(base Config, data []byte, source string) (Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

func (c *Config) normalise() {
	c.DefaultPage = strings.TrimSpace(c.DefaultPage)
	for i := range c.Pages {
		c.Pages[i].Key = strings.TrimSpace(c.Pages[i].Key)
		if c.Pages[i].Nav == "" {
			c.Pages[i].Nav = c.Pages[i].Title
		}
	}
	if c.Clock.Locale == "" {
		c.Clock.Locale = c.Locale
	}
}

// Validate reports the first structural problem of the configuration.
func (c Config) Validate() error {
	if len(c.Pages) == 0 {
		return errors.New("at least one page is required")
	}
	seen := make(map[string]struct{}, len(c.Pages))
	for i, page := range c.Pages {
		if page.Key == "" {
			return fmt.Errorf("page %d: key is required", i)
		}
		if _, exists := seen[page.Key]; exists {
			return fmt.Errorf("duplicate page %q", page.Key)
		}
		seen[page.Key] = struct{}{}
	}
	if _, ok := seen[c.DefaultPage]; !ok {
		return fmt.Errorf("default page %q is not a page", c.DefaultPage)
	}
	if c.Form.ID == "" {
		return errors.New("form id is required")
	}
	if len(c.Form.Genders) != 2 {
		return fmt.Errorf("form: expected exactly two gender options, got %d", len(c.Form.Genders))
	}
	if c.Clock.Interval <= 0 {
		return fmt.Errorf("clock: interval must be positive, got %s", c.Clock.Interval)
	}
	return nil
}

// PageKeys returns the section keys in declaration order.
func (c Config) PageKeys() []string {
	keys := make([]string, 0, len(c.Pages))
	for _, page := range c.Pages {
		keys = append(keys, page.Key)
	}
	return keys
}

// Page returns the page with key.
func (c Config) Page(key string) (Page, bool) {
	for _, page := range c.Pages {
		if page.Key == key {
			return page, true
		}
	}
	return Page{}, false
}
