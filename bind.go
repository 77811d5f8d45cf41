package fieldcheck

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Bind validates input against s and decodes the normalized value into T
// using its json tags. Validation failures are returned as *ValidationError.
func Bind[T any](s ObjectSchema, input any) (T, error) {
	var out T
	v, err := Parse(s, input)
	if err != nil {
		return out, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("fieldcheck: encode value: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("fieldcheck: decode into %T: %w", out, err)
	}
	return out, nil
}
