package fieldcheck

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Result is the outcome of validating one input against one schema: either a
// success carrying the normalized value, or a failure carrying the issues.
type Result struct {
	value map[string]any
	err   *ValidationError
}

// OK reports whether validation succeeded.
func (r Result) OK() bool { return r.err == nil }

// Value returns the normalized field map of a success, nil on failure.
func (r Result) Value() map[string]any { return r.value }

// Issues returns the issues of a failure, nil on success.
func (r Result) Issues() Issues {
	if r.err == nil {
		return nil
	}
	return r.err.Issues
}

// Source returns the diagnostic payload of a failure, nil on success. It is
// the value callers hand to FormatValidationError.
func (r Result) Source() *ValidationError { return r.err }

// Err returns Source as an error, or nil on success.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Validate evaluates every declared field of s against input and collects
// all failures. Each field is evaluated independently and yields at most one
// issue. Unknown input keys are ignored.
func Validate(s ObjectSchema, input any) Result {
	src, iss := asObject(input)
	if iss != nil {
		return fail(Issues{*iss})
	}

	out := make(map[string]any, len(s.props))
	var (
		root   Path
		issues Issues
	)
	for _, p := range s.props {
		raw, present := src[p.Name]
		v, keep, issue := p.Field.evaluate(raw, present)
		if issue != nil {
			issue.Path = root.Field(p.Name)
			issues = append(issues, *issue)
			continue
		}
		if keep {
			out[p.Name] = v
		}
	}
	if len(issues) > 0 {
		return fail(issues)
	}
	return Result{value: out}
}

// Parse is Validate returning (value, error). The error is a *ValidationError.
func Parse(s ObjectSchema, input any) (map[string]any, error) {
	r := Validate(s, input)
	if !r.OK() {
		return nil, r.err
	}
	return r.value, nil
}

func fail(issues Issues) Result {
	return Result{err: &ValidationError{Issues: issues}}
}

// evaluate runs the field pipeline. keep=false means the field is absent
// and optional and must not appear in the output.
func (f FieldSchema) evaluate(raw any, present bool) (any, bool, *Issue) {
	if !present {
		if f.hasDefault {
			// defaults are trusted and bypass the chain and the transform
			return f.def, true, nil
		}
		if f.IsRequired() {
			it := issueAt(nil, CodeRequired, "Required", nil)
			return nil, false, &it
		}
		return nil, false, nil
	}

	if !f.base.accepts(raw) {
		got := typeName(raw)
		it := issueAt(nil, CodeInvalidType,
			fmt.Sprintf("Expected %s, received %s", f.base, got),
			map[string]any{"expected": f.base.String(), "received": got})
		return nil, false, &it
	}

	v := raw
	for _, c := range f.constraints {
		if c.Kind == KindRequired {
			continue
		}
		next, it, ok := c.apply(v)
		if !ok {
			return nil, false, &it
		}
		v = next
	}
	if f.transform != nil {
		v = f.transform(v)
	}
	return v, true, nil
}

func asObject(input any) (map[string]any, *Issue) {
	switch m := input.(type) {
	case nil:
		it := issueAt(Path{}, CodeRequired, "Required", nil)
		return nil, &it
	case map[string]any:
		return m, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}
	got := typeName(input)
	it := issueAt(Path{}, CodeInvalidType, "Expected object, received "+got,
		map[string]any{"expected": "object", "received": got})
	return nil, &it
}

// typeName names the JSON-ish type of v for messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case map[string]any, map[string]string:
		return "object"
	case []any:
		return "array"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return typeName(rv.Elem().Interface())
	}
	return fmt.Sprintf("%T", v)
}
