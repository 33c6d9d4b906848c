// Package validation holds the declarative field rules shared by every
// create and edit form. Validation is pure: the same fields and clock always
// give the same errors.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Fields is a form's raw values keyed by field name.
type Fields map[string]string

// Errors maps a field name to its message. Empty means valid.
type Errors map[string]string

// Input is what a rule sees for one field.
type Input struct {
	Field  string
	Value  string // Trimmed
	Fields Fields
	Now    time.Time
}

// Rule returns a message when the input is invalid, "" otherwise.
type Rule func(in Input) string

// FieldRules binds rules to a field; the first failing rule wins.
type FieldRules struct {
	Field string
	Rules []Rule
}

func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Field: name, Rules: rules}
}

// Ruleset is an ordered set of field rules.
type Ruleset struct {
	fields []FieldRules
	now    func() time.Time
}

func NewRuleset(fields ...FieldRules) Ruleset {
	return Ruleset{fields: fields, now: time.Now}
}

// WithClock returns a copy that evaluates date-derived rules at now().
func (r Ruleset) WithClock(now func() time.Time) Ruleset {
	r.now = now
	return r
}

// Validate runs every field's rules. The clock is read once per call, so
// derived rules use the validation instant, not the moment the form opened.
func (r Ruleset) Validate(fields Fields) Errors {
	now := r.clock()
	errs := Errors{}
	for _, fr := range r.fields {
		if msg := fr.check(fields, now); msg != "" {
			errs[fr.Field] = msg
		}
	}
	return errs
}

// ValidateField runs the rules of a single field.
func (r Ruleset) ValidateField(name string, fields Fields) string {
	now := r.clock()
	for _, fr := range r.fields {
		if fr.Field == name {
			return fr.check(fields, now)
		}
	}
	return ""
}

// FieldNames lists the validated fields in declaration order.
func (r Ruleset) FieldNames() []string {
	names := make([]string, len(r.fields))
	for i, fr := range r.fields {
		names[i] = fr.Field
	}
	return names
}

func (r Ruleset) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

func (fr FieldRules) check(fields Fields, now time.Time) string {
	in := Input{Field: fr.Field, Value: strings.TrimSpace(fields[fr.Field]), Fields: fields, Now: now}
	for _, rule := range fr.Rules {
		if msg := rule(in); msg != "" {
			return msg
		}
	}
	return ""
}

var validate = validator.New()

// Required fails on blank values. Every other rule passes blank values so
// optional fields stay optional.
func Required(msg string) Rule {
	return func(in Input) string {
		if in.Value == "" {
			return msg
		}
		return ""
	}
}

func MinLength(n int, msg string) Rule {
	return func(in Input) string {
		if in.Value != "" && utf8.RuneCountInString(in.Value) < n {
			return msg
		}
		return ""
	}
}

func EmailFormat(msg string) Rule {
	return func(in Input) string {
		if in.Value != "" && validate.Var(in.Value, "email") != nil {
			return msg
		}
		return ""
	}
}

// ExactDigits requires exactly n ASCII digits.
func ExactDigits(n int, msg string) Rule {
	tag := fmt.Sprintf("number,len=%d", n)
	return func(in Input) string {
		if in.Value != "" && validate.Var(in.Value, tag) != nil {
			return msg
		}
		return ""
	}
}

// NumericRange requires a number within [min, max].
func NumericRange(min, max float64, msg string) Rule {
	return func(in Input) string {
		if in.Value == "" {
			return ""
		}
		v, err := strconv.ParseFloat(in.Value, 64)
		if err != nil || math.IsNaN(v) || v < min || v > max {
			return msg
		}
		return ""
	}
}

// DateRequired requires a YYYY-MM-DD calendar date.
func DateRequired(msg string) Rule {
	return func(in Input) string {
		if _, err := time.Parse(domain.DateLayout, in.Value); err != nil {
			return msg
		}
		return ""
	}
}

// DerivedAgeRange requires the age computed from the field's date, at
// validation time, to be within [min, max] years.
func DerivedAgeRange(min, max int, msg string) Rule {
	return func(in Input) string {
		born, err := time.Parse(domain.DateLayout, in.Value)
		if err != nil {
			return ""
		}
		age := domain.YearsBetween(born, in.Now)
		if age < min || age > max {
			return msg
		}
		return ""
	}
}

// OneOf requires the value to be one of allowed (case-sensitive).
func OneOf(msg string, allowed ...string) Rule {
	return func(in Input) string {
		if in.Value == "" {
			return ""
		}
		for _, a := range allowed {
			if in.Value == a {
				return ""
			}
		}
		return msg
	}
}

// SameAs requires the field to equal other exactly, untrimmed.
func SameAs(other, msg string) Rule {
	return func(in Input) string {
		if in.Value != "" && in.Fields[in.Field] != in.Fields[other] {
			return msg
		}
		return ""
	}
}

// NotSameAs rejects a field equal to other, untrimmed.
func NotSameAs(other, msg string) Rule {
	return func(in Input) string {
		if in.Value != "" && in.Fields[in.Field] == in.Fields[other] {
			return msg
		}
		return ""
	}
}
