package fieldcheck

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reoring/fieldcheck/internal/formats"
)

// Kind tags a Constraint.
type Kind int

const (
	KindRequired Kind = iota + 1
	KindTrim
	KindMinLength
	KindMaxLength
	KindFormat
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindTrim:
		return "trim"
	case KindMinLength:
		return "minLength"
	case KindMaxLength:
		return "maxLength"
	case KindFormat:
		return "format"
	case KindEnum:
		return "enumMembership"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Format names understood by the Format constraint. "uuid" is accepted too.
const (
	FormatEmail = "email"
	FormatURL   = "url"
)

// Constraint is one step of a field's rule chain. KindTrim rewrites the
// working value; the other kinds are predicates over it.
type Constraint struct {
	Kind   Kind
	Limit  int      // KindMinLength, KindMaxLength
	Format string   // KindFormat
	Values []string // KindEnum
}

// Required rejects a missing field that has no default.
func Required() Constraint { return Constraint{Kind: KindRequired} }

// Trim strips leading and trailing whitespace before later steps.
func Trim() Constraint { return Constraint{Kind: KindTrim} }

// MinLength requires at least n code points.
func MinLength(n int) Constraint { return Constraint{Kind: KindMinLength, Limit: n} }

// MaxLength allows at most n code points.
func MaxLength(n int) Constraint { return Constraint{Kind: KindMaxLength, Limit: n} }

// Format requires the value to match a named syntax (FormatEmail, ...).
func Format(name string) Constraint { return Constraint{Kind: KindFormat, Format: name} }

// Email is shorthand for Format(FormatEmail).
func Email() Constraint { return Format(FormatEmail) }

// OneOf requires membership in values.
func OneOf(values ...string) Constraint {
	return Constraint{Kind: KindEnum, Values: append([]string(nil), values...)}
}

func (c Constraint) clone() Constraint {
	if c.Values != nil {
		c.Values = append([]string(nil), c.Values...)
	}
	return c
}

// check validates the constraint's own parameters at schema construction.
func (c Constraint) check(base Primitive) error {
	switch c.Kind {
	case KindRequired:
		return nil
	case KindTrim, KindMinLength, KindMaxLength, KindFormat, KindEnum:
		if base != String {
			return fmt.Errorf("%s applies to strings, not %s", c.Kind, base)
		}
	default:
		return fmt.Errorf("unknown constraint kind %d", int(c.Kind))
	}
	switch c.Kind {
	case KindMinLength, KindMaxLength:
		if c.Limit < 0 {
			return fmt.Errorf("%s: negative limit %d", c.Kind, c.Limit)
		}
	case KindFormat:
		if err := formats.Lookup(c.Format); err != nil {
			return fmt.Errorf("%s %q: %w", c.Kind, c.Format, err)
		}
	case KindEnum:
		if len(c.Values) == 0 {
			return fmt.Errorf("%s: no values", c.Kind)
		}
	}
	return nil
}

// apply runs the step against the working value. ok=false means the
// returned issue (with an unset path) ends the field's evaluation.
func (c Constraint) apply(v any) (any, Issue, bool) {
	s, _ := v.(string)
	switch c.Kind {
	case KindTrim:
		return strings.TrimSpace(s), Issue{}, true
	case KindMinLength:
		if utf8.RuneCountInString(s) < c.Limit {
			return v, Issue{
				Code:    CodeTooShort,
				Message: fmt.Sprintf("String must contain at least %d character(s)", c.Limit),
				Params:  map[string]any{"min": c.Limit},
			}, false
		}
	case KindMaxLength:
		if utf8.RuneCountInString(s) > c.Limit {
			return v, Issue{
				Code:    CodeTooLong,
				Message: fmt.Sprintf("String must contain at most %d character(s)", c.Limit),
				Params:  map[string]any{"max": c.Limit},
			}, false
		}
	case KindFormat:
		if !formats.Valid(c.Format, s) {
			return v, Issue{
				Code:    CodeInvalidFormat,
				Message: "Invalid " + c.Format,
				Params:  map[string]any{"format": c.Format},
			}, false
		}
	case KindEnum:
		for _, want := range c.Values {
			if s == want {
				return v, Issue{}, true
			}
		}
		return v, Issue{
			Code:    CodeInvalidEnum,
			Message: fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", quoteJoin(c.Values), s),
			Params:  map[string]any{"options": append([]string(nil), c.Values...), "received": s},
		}, false
	}
	return v, Issue{}, true
}

func quoteJoin(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = "'" + v + "'"
	}
	return strings.Join(parts, " | ")
}
