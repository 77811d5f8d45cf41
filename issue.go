package fieldcheck

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidEnum   = "invalid_enum"
)

// Path addresses a value inside the input. An empty Path denotes the whole body.
type Path []string

// Field returns a copy of p extended with a field name.
func (p Path) Field(name string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, name)
}

// String joins the segments with dots; the root renders as "body".
func (p Path) String() string {
	if len(p) == 0 {
		return "body"
	}
	return strings.Join(p, ".")
}

// Pointer renders p as an RFC 6901 JSON Pointer.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Issue is a single field-level validation failure.
type Issue struct {
	Path    Path   `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	// Params carries the rule parameters (e.g. {"min": 2}) for callers that
	// render their own messages.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is an ordered collection of validation issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. too_short at email
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ValidationIssues implements IssueLister.
func (iss Issues) ValidationIssues() []Issue { return iss }

// Has reports whether an issue was recorded at the given dotted path.
func (iss Issues) Has(path string) bool {
	for _, it := range iss {
		if it.Path.String() == path {
			return true
		}
	}
	return false
}

// IssueLister is implemented by values that carry a sequence of issues.
// FormatValidationError recognizes it.
type IssueLister interface {
	ValidationIssues() []Issue
}

// ValidationError is the diagnostic payload of a failed validation.
type ValidationError struct {
	Issues Issues `json:"issues"`
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Issues.Error()
}

// ValidationIssues implements IssueLister.
func (e *ValidationError) ValidationIssues() []Issue { return e.Issues }

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve != nil {
		return ve.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func issueAt(p Path, code, msg string, params map[string]any) Issue {
	return Issue{Path: p, Code: code, Message: msg, Params: params}
}
