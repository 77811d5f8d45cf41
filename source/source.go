// Package source decodes request bodies into the generic values that
// fieldcheck.Validate consumes. Objects become map[string]any and JSON
// numbers stay json.Number so no precision is lost before validation.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyBody is returned when the input holds no document.
	ErrEmptyBody = errors.New("source: empty body")
	// ErrTrailingData is returned when a JSON body holds more than one value.
	ErrTrailingData = errors.New("source: trailing data after JSON value")
)

// Decoder turns a body into a generic value.
type Decoder func(r io.Reader) (any, error)

// JSON decodes a single JSON value from r.
func JSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}

// JSONBytes decodes a single JSON value from b.
func JSONBytes(b []byte) (any, error) { return JSON(bytes.NewReader(b)) }

// YAML decodes the first YAML document from r. Mapping keys that are not
// strings are dropped.
func YAML(r io.Reader) (any, error) {
	dec := yaml.NewDecoder(r)
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	return normalize(node), nil
}

// ForContentType picks a decoder from a Content-Type header value.
// JSON is the fallback.
func ForContentType(contentType string) Decoder {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") {
		return YAML
	}
	return JSON
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}
