package fieldcheck

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// fallbackMessage is returned when there is nothing to report.
const fallbackMessage = "Validation failed"

// FormatValidationError renders errs as one display string. It never panics:
//
//   - nil, or a value without an issues member, gives "Validation failed";
//   - an issues member holding a sequence gives "<path>: <message>" entries
//     joined by ", ", where the path is dot-joined or "body" for the root;
//   - an issues member holding anything else dumps errs as JSON.
//
// The issues member is looked up on maps (key "issues"), on structs (a field
// named Issues or tagged json:"issues") and through wrapped errors.
func FormatValidationError(errs any) string {
	if isNil(errs) {
		return fallbackMessage
	}
	switch e := errs.(type) {
	case IssueLister:
		return joinIssues(e.ValidationIssues())
	case ValidationError:
		return joinIssues(e.Issues)
	case []Issue:
		return joinIssues(e)
	}
	holder := errs
	member, found := issuesMember(reflect.ValueOf(errs))
	if e, ok := errs.(error); ok && !found {
		if iss, ok := AsIssues(e); ok {
			return joinIssues(iss)
		}
		for cur := errors.Unwrap(e); cur != nil && !found; cur = errors.Unwrap(cur) {
			member, found = issuesMember(reflect.ValueOf(cur))
			holder = cur
		}
	}
	if !found || isNil(member) {
		return fallbackMessage
	}
	list, ok := sequence(reflect.ValueOf(member))
	if !ok {
		return dump(holder)
	}
	issues := make([]Issue, 0, len(list))
	for _, el := range list {
		issues = append(issues, issueFromAny(el))
	}
	return joinIssues(issues)
}

func joinIssues(issues []Issue) string {
	if len(issues) == 0 {
		return fallbackMessage
	}
	parts := make([]string, len(issues))
	for i, it := range issues {
		parts[i] = it.Path.String() + ": " + it.Message
	}
	return strings.Join(parts, ", ")
}

// issuesMember finds the issues container of a map or struct value.
func issuesMember(rv reflect.Value) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf("issues").Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if tag == "issues" || (tag == "" && strings.EqualFold(f.Name, "issues")) {
				return rv.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}

// sequence unpacks slices and arrays; byte slices are not sequences.
func sequence(rv reflect.Value) ([]any, bool) {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// issueFromAny reads path and message from an issue-shaped element:
// an Issue, a map or any struct that encodes to a JSON object.
func issueFromAny(el any) Issue {
	switch it := el.(type) {
	case Issue:
		return it
	case *Issue:
		if it != nil {
			return *it
		}
		return Issue{}
	}
	obj, ok := el.(map[string]any)
	if !ok {
		obj = toObject(el)
	}

	var it Issue
	if raw, ok := lookupFold(obj, "path"); ok {
		if s, isStr := raw.(string); isStr {
			if s != "" {
				it.Path = Path{s}
			}
		} else if segs, ok := sequence(reflect.ValueOf(raw)); ok {
			for _, s := range segs {
				it.Path = append(it.Path, fmt.Sprint(s))
			}
		}
	}
	if msg, ok := lookupFold(obj, "message"); ok && msg != nil {
		it.Message = fmt.Sprint(msg)
	}
	return it
}

// toObject normalizes a struct or typed map through its JSON encoding.
func toObject(v any) (obj map[string]any) {
	defer func() {
		if recover() != nil {
			obj = nil
		}
	}()
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil
	}
	return obj
}

func lookupFold(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func dump(v any) (out string) {
	defer func() {
		// user MarshalJSON implementations may panic
		if r := recover(); r != nil {
			out = fmt.Sprintf("%v", v)
		}
	}()
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
