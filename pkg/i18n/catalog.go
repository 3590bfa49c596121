package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// DefaultLocale is used when a requested locale matches no catalog entry.
const DefaultLocale = "id"

var (
	// ErrMissingTranslation reports a key absent from the resolved locale.
	ErrMissingTranslation = errors.New("i18n: missing translation")
	// ErrMissingTranslator reports that no translator was configured.
	ErrMissingTranslator = errors.New("i18n: translator is not configured")
)

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// resolved.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// MissingKey is the default handler: it shows the key itself.
func MissingKey(_ string, key string, _ []any, _ error) string {
	return key
}

// Formats holds the long-form patterns of a locale. Placeholders: {weekday}
// {month} {day} {year} {hh} {h12} {mm} {ss} {ampm}.
type Formats struct {
	Date     string `yaml:"date"`
	DateTime string `yaml:"datetime"`
}

// Locale is one parsed catalog file.
type Locale struct {
	Tag      string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
	Formats  Formats           `yaml:"formats"`
	Months   []string          `yaml:"months"`
	Weekdays []string          `yaml:"weekdays"`
}

// Catalog is a set of locales with tag matching. The zero value is not usable;
// build one with LoadFS or Default.
type Catalog struct {
	locales  map[string]*Locale
	tags     []string
	matcher  language.Matcher
	fallback string
}

var _ Translator = (*Catalog)(nil)

// LoadFS parses every *.yaml file at the root of fsys. fallback names the
// locale used when nothing matches and must be present.
func LoadFS(fsys fs.FS, fallback string) (*Catalog, error) {
	if fsys == nil {
		return nil, errors.New("i18n: filesystem is required")
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}

	c := &Catalog{locales: make(map[string]*Locale)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}
		var loc Locale
		if err := yaml.Unmarshal(data, &loc); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", entry.Name(), err)
		}
		if err := loc.validate(entry.Name()); err != nil {
			return nil, err
		}
		if _, exists := c.locales[loc.Tag]; exists {
			return nil, fmt.Errorf("i18n: duplicate locale %q (file %s)", loc.Tag, entry.Name())
		}
		c.locales[loc.Tag] = &loc
	}

	fallback = strings.TrimSpace(fallback)
	if _, ok := c.locales[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %q not loaded", fallback)
	}
	c.fallback = fallback

	// The matcher falls back to the first supported tag on no match.
	c.tags = append(c.tags, fallback)
	rest := make([]string, 0, len(c.locales)-1)
	for tag := range c.locales {
		if tag != fallback {
			rest = append(rest, tag)
		}
	}
	sort.Strings(rest)
	c.tags = append(c.tags, rest...)

	supported := make([]language.Tag, 0, len(c.tags))
	for _, tag := range c.tags {
		supported = append(supported, language.Make(tag))
	}
	c.matcher = language.NewMatcher(supported)
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog bundled with the module.
func Default() *Catalog {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			panic(err)
		}
		catalog, err := LoadFS(sub, DefaultLocale)
		if err != nil {
			// The bundled files are covered by tests.
			panic(err)
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// Locales lists loaded locale tags, fallback first.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.tags...)
}

// Resolve maps a requested locale (for example "en-US") to a loaded one.
func (c *Catalog) Resolve(locale string) string {
	locale = strings.TrimSpace(locale)
	if _, ok := c.locales[locale]; ok {
		return locale
	}
	if locale == "" {
		return c.fallback
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return c.fallback
	}
	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(c.tags) {
		return c.fallback
	}
	return c.tags[index]
}

// Translate implements Translator. Extra args are applied with fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	loc := c.locales[c.Resolve(locale)]
	msg, ok := loc.Messages[key]
	if !ok || strings.TrimSpace(msg) == "" {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, loc.Tag, key)
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg, nil
}

// FormatDate renders t as a long-form date, for example "1 Januari 2000".
func (c *Catalog) FormatDate(locale string, t time.Time) string {
	loc := c.locales[c.Resolve(locale)]
	return loc.expand(loc.Formats.Date, t)
}

// FormatDateTime renders t with weekday, date and zero-padded time.
func (c *Catalog) FormatDateTime(locale string, t time.Time) string {
	loc := c.locales[c.Resolve(locale)]
	return loc.expand(loc.Formats.DateTime, t)
}

// Lookup translates key through t, routing failures to onMissing.
func Lookup(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	if onMissing == nil {
		onMissing = MissingKey
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, args, err)
	}
	return msg
}

func (l *Locale) validate(source string) error {
	l.Tag = strings.TrimSpace(l.Tag)
	if l.Tag == "" {
		return fmt.Errorf("i18n: file %s does not declare a locale", source)
	}
	if _, err := language.Parse(l.Tag); err != nil {
		return fmt.Errorf("i18n: file %s: invalid locale %q: %w", source, l.Tag, err)
	}
	if len(l.Months) != 12 {
		return fmt.Errorf("i18n: file %s: expected 12 months, got %d", source, len(l.Months))
	}
	if len(l.Weekdays) != 7 {
		return fmt.Errorf("i18n: file %s: expected 7 weekdays, got %d", source, len(l.Weekdays))
	}
	if l.Formats.Date == "" || l.Formats.DateTime == "" {
		return fmt.Errorf("i18n: file %s: date and datetime formats are required", source)
	}
	if l.Messages == nil {
		l.Messages = map[string]string{}
	}
	return nil
}

func (l *Locale) expand(pattern string, t time.Time) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	r := strings.NewReplacer(
		"{weekday}", l.Weekdays[int(t.Weekday())],
		"{month}", l.Months[int(t.Month())-1],
		"{day}", strconv.Itoa(t.Day()),
		"{year}", strconv.Itoa(t.Year()),
		"{hh}", pad2(t.Hour()),
		"{h12}", pad2(hour12),
		"{mm}", pad2(t.Minute()),
		"{ss}", pad2(t.Second()),
		"{ampm}", ampm,
	)
	return r.Replace(pattern)
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
