package fieldcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema wraps every schema construction error.
var ErrInvalidSchema = errors.New("fieldcheck: invalid schema")

// Primitive is the base type of a field.
type Primitive int

const (
	String Primitive = iota + 1
	Number
	Bool
)

func (p Primitive) String() string {
	switch p {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	default:
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
}

// accepts reports whether v is an instance of p.
func (p Primitive) accepts(v any) bool {
	switch p {
	case String:
		_, ok := v.(string)
		return ok
	case Bool:
		_, ok := v.(bool)
		return ok
	case Number:
		switch v.(type) {
		case float64, float32, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, json.Number:
			return true
		}
	}
	return false
}

// Transform normalizes a validated value into its stored form. It must be pure.
type Transform func(any) any

// LowerTrim lowercases and trims string values; other values pass through.
func LowerTrim(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(strings.ToLower(s))
	}
	return v
}

// FieldSchema describes one input field. The zero value is not usable; build
// it with Field. A FieldSchema is never modified after construction.
type FieldSchema struct {
	base        Primitive
	constraints []Constraint
	transform   Transform
	def         any
	hasDefault  bool
	err         error
}

// FieldOption configures optional parts of a FieldSchema.
type FieldOption func(*FieldSchema)

// WithDefault substitutes v when the field is absent from the input.
func WithDefault(v any) FieldOption {
	return func(f *FieldSchema) {
		f.def = v
		f.hasDefault = true
	}
}

// WithTransform sets the transform applied after the chain passes.
func WithTransform(fn Transform) FieldOption {
	return func(f *FieldSchema) { f.transform = fn }
}

// Field builds a FieldSchema. Parameter errors are recorded and surface
// when the field is placed into an Object.
func Field(base Primitive, constraints []Constraint, opts ...FieldOption) FieldSchema {
	f := FieldSchema{base: base, constraints: cloneConstraints(constraints)}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	f.err = f.check()
	return f
}

// With returns a new FieldSchema whose chain is f's chain followed by more.
func (f FieldSchema) With(more ...Constraint) FieldSchema {
	out := f
	out.constraints = append(cloneConstraints(f.constraints), cloneConstraints(more)...)
	out.err = out.check()
	return out
}

// Base returns the field's primitive type.
func (f FieldSchema) Base() Primitive { return f.base }

// Constraints returns a copy of the rule chain.
func (f FieldSchema) Constraints() []Constraint { return cloneConstraints(f.constraints) }

// Default returns the default value and whether one is declared.
func (f FieldSchema) Default() (any, bool) { return f.def, f.hasDefault }

// IsRequired reports whether the chain contains a Required constraint.
func (f FieldSchema) IsRequired() bool {
	for _, c := range f.constraints {
		if c.Kind == KindRequired {
			return true
		}
	}
	return false
}

func (f FieldSchema) check() error {
	switch f.base {
	case String, Number, Bool:
	default:
		return fmt.Errorf("unknown base type %d", int(f.base))
	}
	lo, hi := -1, -1
	for _, c := range f.constraints {
		if err := c.check(f.base); err != nil {
			return err
		}
		switch c.Kind {
		case KindMinLength:
			lo = max(lo, c.Limit)
		case KindMaxLength:
			if hi < 0 || c.Limit < hi {
				hi = c.Limit
			}
		}
	}
	if lo >= 0 && hi >= 0 && lo > hi {
		return fmt.Errorf("minLength %d exceeds maxLength %d", lo, hi)
	}
	if f.hasDefault && !f.base.accepts(f.def) {
		return fmt.Errorf("default %v is not a %s", f.def, f.base)
	}
	return nil
}

func cloneConstraints(in []Constraint) []Constraint {
	if len(in) == 0 {
		return nil
	}
	out := make([]Constraint, len(in))
	for i, c := range in {
		out[i] = c.clone()
	}
	return out
}

// Property pairs a field name with its schema.
type Property struct {
	Name  string
	Field FieldSchema
}

// Prop is shorthand for Property{Name: name, Field: f}.
func Prop(name string, f FieldSchema) Property { return Property{Name: name, Field: f} }

// ObjectSchema is an ordered set of named fields. It is read-only and safe
// for concurrent use.
type ObjectSchema struct {
	props []Property
	index map[string]int
}

// Object builds an ObjectSchema from props in declaration order.
func Object(props ...Property) (ObjectSchema, error) {
	o := ObjectSchema{
		props: make([]Property, 0, len(props)),
		index: make(map[string]int, len(props)),
	}
	for _, p := range props {
		if p.Name == "" {
			return ObjectSchema{}, fmt.Errorf("%w: empty field name", ErrInvalidSchema)
		}
		if _, dup := o.index[p.Name]; dup {
			return ObjectSchema{}, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, p.Name)
		}
		if p.Field.err != nil {
			return ObjectSchema{}, fmt.Errorf("%w: field %q: %v", ErrInvalidSchema, p.Name, p.Field.err)
		}
		if p.Field.base == 0 {
			return ObjectSchema{}, fmt.Errorf("%w: field %q: zero FieldSchema", ErrInvalidSchema, p.Name)
		}
		o.index[p.Name] = len(o.props)
		o.props = append(o.props, Property{Name: p.Name, Field: p.Field})
	}
	return o, nil
}

// MustObject is like Object but panics on error. Use it for package-level schemas.
func MustObject(props ...Property) ObjectSchema {
	o, err := Object(props...)
	if err != nil {
		panic(err)
	}
	return o
}

// Names returns the field names in declaration order.
func (o ObjectSchema) Names() []string {
	out := make([]string, len(o.props))
	for i, p := range o.props {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the schema of a declared field.
func (o ObjectSchema) Lookup(name string) (FieldSchema, bool) {
	i, ok := o.index[name]
	if !ok {
		return FieldSchema{}, false
	}
	return o.props[i].Field, true
}

// Extend returns a new schema with props added; a prop whose name is already
// declared replaces that field in place.
func (o ObjectSchema) Extend(props ...Property) (ObjectSchema, error) {
	merged := append([]Property(nil), o.props...)
	for _, p := range props {
		if i, ok := o.index[p.Name]; ok {
			merged[i] = p
			continue
		}
		merged = append(merged, p)
	}
	return Object(merged...)
}

// Pick returns a new schema holding only the named fields, in o's order.
func (o ObjectSchema) Pick(names ...string) (ObjectSchema, error) {
	keep, err := o.nameSet(names)
	if err != nil {
		return ObjectSchema{}, err
	}
	var props []Property
	for _, p := range o.props {
		if keep[p.Name] {
			props = append(props, p)
		}
	}
	return Object(props...)
}

// Omit returns a new schema without the named fields.
func (o ObjectSchema) Omit(names ...string) (ObjectSchema, error) {
	drop, err := o.nameSet(names)
	if err != nil {
		return ObjectSchema{}, err
	}
	var props []Property
	for _, p := range o.props {
		if !drop[p.Name] {
			props = append(props, p)
		}
	}
	return Object(props...)
}

func (o ObjectSchema) nameSet(names []string) (map[string]bool, error) {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := o.index[n]; !ok {
			return nil, fmt.Errorf("%w: undeclared field %q", ErrInvalidSchema, n)
		}
		set[n] = true
	}
	return set, nil
}
