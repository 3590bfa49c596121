// Package form validates the contact form, shows inline error messages and
// copies accepted submissions into the summary view.
package form

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-pageshell/pkg/config"
	"github.com/goliatone/go-pageshell/pkg/i18n"
	"github.com/goliatone/go-pageshell/pkg/view"
)

// Logical field names used as keys in Result.Errors.
const (
	FieldName      = "name"
	FieldBirthdate = "birthdate"
	FieldGender    = "gender"
	FieldMessage   = "message"
)

const (
	// MinNameLength is the shortest accepted name, in characters.
	MinNameLength = 2
	// MinMessageLength is the shortest accepted message, in characters.
	MinMessageLength = 10
	// Placeholder is shown in the summary for empty values.
	Placeholder = "-"
	// DateLayout is the wire format of the birthdate control.
	DateLayout = "2006-01-02"
)

// Message keys resolved through the translator.
const (
	KeyNameRequired      = "form.name.required"
	KeyNameTooShort      = "form.name.too_short"
	KeyBirthdateRequired = "form.birthdate.required"
	KeyGenderRequired    = "form.gender.required"
	KeyMessageRequired   = "form.message.required"
	KeyMessageTooShort   = "form.message.too_short"
	KeySubmitSuccess     = "form.submit.success"
	KeySubmitFailure     = "form.submit.failure"
)

// ErrNilView is returned when a validator is built without a document.
var ErrNilView = errors.New("form: view is required")

// DateFormatter renders the submitted birthdate for the summary.
type DateFormatter interface {
	FormatDate(locale string, t time.Time) string
}

// Values are the raw control values, as typed.
type Values struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
	Gender    string `json:"gender"`
	Message   string `json:"message"`
}

// Summary is the display-ready copy of an accepted submission.
type Summary struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
	Gender    string `json:"gender"`
	Message   string `json:"message"`
}

// Result describes the outcome of Submit.
type Result struct {
	Valid   bool              `json:"valid"`
	Summary Summary           `json:"summary"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Option configures a Validator.
type Option func(*Validator)

// WithTranslator overrides the message catalog.
func WithTranslator(t i18n.Translator) Option {
	return func(v *Validator) {
		if t != nil {
			v.translator = t
		}
	}
}

// WithLocale selects the message and date locale.
func WithLocale(locale string) Option {
	return func(v *Validator) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			v.locale = trimmed
		}
	}
}

// WithDateFormatter overrides how the birthdate is rendered in the summary.
func WithDateFormatter(f DateFormatter) Option {
	return func(v *Validator) {
		if f != nil {
			v.dates = f
		}
	}
}

// WithMissingTranslationHandler controls the text shown for unknown keys.
func WithMissingTranslationHandler(fn i18n.MissingTranslationHandler) Option {
	return func(v *Validator) {
		if fn != nil {
			v.onMissing = fn
		}
	}
}

// WithLogger routes validation diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator is bound to one form. Every method reads the current control
// values from the view, so it holds no field state of its own.
type Validator struct {
	view       view.View
	ids        config.Form
	translator i18n.Translator
	dates      DateFormatter
	locale     string
	onMissing  i18n.MissingTranslationHandler
	logger     *zap.Logger
}

// New binds a validator to the form described by ids.
func New(v view.View, ids config.Form, opts ...Option) (*Validator, error) {
	if v == nil {
		return nil, ErrNilView
	}
	catalog := i18n.Default()
	val := &Validator{
		view:       v,
		ids:        ids,
		translator: catalog,
		dates:      catalog,
		locale:     i18n.DefaultLocale,
		onMissing:  i18n.MissingKey,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(val)
		}
	}
	return val, nil
}

// Values reads the current control values.
func (v *Validator) Values() Values {
	return Values{
		Name:      v.view.Value(v.ids.Fields.Name),
		Birthdate: v.view.Value(v.ids.Fields.Birthdate),
		Gender:    v.view.Selected(v.ids.Fields.Gender),
		Message:   v.view.Value(v.ids.Fields.Message),
	}
}

// ValidateName requires a trimmed name of at least MinNameLength characters.
func (v *Validator) ValidateName() bool {
	return v.apply(v.ids.Errors.Name, checkName(v.view.Value(v.ids.Fields.Name)))
}

// ValidateBirthdate requires a non-empty birthdate.
func (v *Validator) ValidateBirthdate() bool {
	return v.apply(v.ids.Errors.Birthdate, checkBirthdate(v.view.Value(v.ids.Fields.Birthdate)))
}

// ValidateGender requires one checked gender option.
func (v *Validator) ValidateGender() bool {
	return v.apply(v.ids.Errors.Gender, checkGender(v.view.Selected(v.ids.Fields.Gender)))
}

// ValidateMessage requires a trimmed message of at least MinMessageLength
// characters.
func (v *Validator) ValidateMessage() bool {
	return v.apply(v.ids.Errors.Message, checkMessage(v.view.Value(v.ids.Fields.Message)))
}

// ValidateAll runs every field validator, even after a failure, so all error
// messages are refreshed, and reports whether all of them passed.
func (v *Validator) ValidateAll() bool {
	name := v.ValidateName()
	birthdate := v.ValidateBirthdate()
	gender := v.ValidateGender()
	message := v.ValidateMessage()
	return name && birthdate && gender && message
}

// HandleBlur re-validates the name or message control when it loses focus.
// Other controls are only validated on submit.
func (v *Validator) HandleBlur(controlID string) {
	switch controlID {
	case v.ids.Fields.Name:
		v.ValidateName()
	case v.ids.Fields.Message:
		v.ValidateMessage()
	}
}

// Submit validates the form. On success the summary is written, the user is
// notified and the form is reset; on failure the user is notified and the
// values and error messages stay in place.
func (v *Validator) Submit() Result {
	values := v.Values()
	valid := v.ValidateAll()

	if !valid {
		result := Result{Valid: false, Errors: v.errorsFor(values)}
		v.logger.Debug("form rejected", zap.Int("errors", len(result.Errors)))
		v.view.Alert(v.text(KeySubmitFailure))
		return result
	}

	summary := v.summarize(values)
	v.view.SetText(v.ids.Results.Name, summary.Name)
	v.view.SetText(v.ids.Results.Birthdate, summary.Birthdate)
	v.view.SetText(v.ids.Results.Gender, summary.Gender)
	v.view.SetText(v.ids.Results.Message, summary.Message)
	v.view.Alert(v.text(KeySubmitSuccess))
	v.view.Reset(v.ids.ID)

	v.logger.Debug("form accepted")
	return Result{Valid: true, Summary: summary}
}

func (v *Validator) summarize(values Values) Summary {
	return Summary{
		Name:      orPlaceholder(strings.TrimSpace(values.Name)),
		Birthdate: orPlaceholder(v.formatBirthdate(values.Birthdate)),
		Gender:    orPlaceholder(values.Gender),
		Message:   orPlaceholder(strings.TrimSpace(values.Message)),
	}
}

func (v *Validator) formatBirthdate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	// Date-only values are calendar dates, not instants: parse in UTC so no
	// timezone shifts the day.
	date, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return raw
	}
	return v.dates.FormatDate(v.locale, date)
}

func (v *Validator) errorsFor(values Values) map[string]string {
	out := make(map[string]string)
	if key := checkName(values.Name); key != "" {
		out[FieldName] = v.text(key)
	}
	if key := checkBirthdate(values.Birthdate); key != "" {
		out[FieldBirthdate] = v.text(key)
	}
	if key := checkGender(values.Gender); key != "" {
		out[FieldGender] = v.text(key)
	}
	if key := checkMessage(values.Message); key != "" {
		out[FieldMessage] = v.text(key)
	}
	return out
}

func (v *Validator) apply(errorID, key string) bool {
	if key != "" {
		v.view.SetText(errorID, v.text(key))
		return false
	}
	v.view.SetText(errorID, "")
	return true
}

func (v *Validator) text(key string) string {
	return i18n.Lookup(v.translator, v.locale, key, v.onMissing)
}

func checkName(raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return KeyNameRequired
	case utf8.RuneCountInString(name) < MinNameLength:
		return KeyNameTooShort
	}
	return ""
}

func checkBirthdate(raw string) string {
	if raw == "" {
		return KeyBirthdateRequired
	}
	return ""
}

func checkGender(selected string) string {
	if selected == "" {
		return KeyGenderRequired
	}
	return ""
}

func checkMessage(raw string) string {
	message := strings.TrimSpace(raw)
	switch {
	case message == "":
		return KeyMessageRequired
	case utf8.RuneCountInString(message) < MinMessageLength:
		return KeyMessageTooShort
	}
	return ""
}

func orPlaceholder(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}
