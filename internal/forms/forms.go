// Package forms validates submitted HTML forms.
//
// A form is declared as a list of (field, constraint) rules. Constraints use
// go-playground/validator tags and are evaluated one value at a time, so the
// result is a plain field → messages map independent of rendering.
package forms

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/meuseventos/server/internal/sanitize"
)

// DateLayout is the ISO calendar date accepted by date fields.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// nomarkup rejects values a browser would not read as plain text.
	if err := v.RegisterValidation("nomarkup", func(fl validator.FieldLevel) bool {
		return !sanitize.HasMarkup(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register nomarkup validation: %v", err))
	}
	return v
}

// Rule is one constraint on one field. Message is shown when Tag fails.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// Definition describes a form: its fields, which of them must never be
// echoed back or trimmed, and its rules in evaluation order.
type Definition struct {
	Fields []string
	Secret []string
	Rules  []Rule
}

// Errors maps a field to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], "; ")))
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

// Form holds submitted values and the validation outcome.
type Form struct {
	def    *Definition
	Values map[string]string
	Errors Errors
}

// Empty returns a form with no values, as shown on first display.
func (d *Definition) Empty() *Form {
	return &Form{def: d, Values: map[string]string{}, Errors: Errors{}}
}

// Bind copies the declared fields out of values and validates them.
func (d *Definition) Bind(values url.Values) *Form {
	f := d.Empty()
	for _, field := range d.Fields {
		value := values.Get(field)
		if !d.isSecret(field) {
			value = strings.TrimSpace(value)
		}
		f.Values[field] = value
	}
	f.Errors = d.Validate(f.Values)
	return f
}

// Validate evaluates the rules against values. Only the first failing rule
// of each field is reported.
func (d *Definition) Validate(values map[string]string) Errors {
	errs := Errors{}
	for _, rule := range d.Rules {
		if errs.Has(rule.Field) {
			continue
		}
		if err := validate.Var(values[rule.Field], rule.Tag); err != nil {
			errs.Add(rule.Field, rule.Message)
		}
	}
	return errs
}

func (d *Definition) isSecret(field string) bool {
	for _, secret := range d.Secret {
		if secret == field {
			return true
		}
	}
	return false
}

func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

func (f *Form) Get(field string) string {
	return f.Values[field]
}

func (f *Form) Set(field, value string) {
	f.Values[field] = value
}

// Redacted returns a copy safe to render: secret fields are blanked.
func (f *Form) Redacted() *Form {
	values := make(map[string]string, len(f.Values))
	for field, value := range f.Values {
		if f.def != nil && f.def.isSecret(field) {
			value = ""
		}
		values[field] = value
	}
	return &Form{def: f.def, Values: values, Errors: f.Errors}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// FormatDate renders a date the way date inputs expect it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
