// Package middleware binds fieldcheck schemas to net/http handlers. A
// validated request reaches the next handler with its normalized body in
// the context; a rejected one gets a 400 with the formatted message.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/fieldcheck"
	"github.com/reoring/fieldcheck/internal/logger"
	"github.com/reoring/fieldcheck/source"
)

// DefaultMaxBytes caps request bodies when no limit is configured.
const DefaultMaxBytes int64 = 1 << 20

type ctxKeyValue struct{}

// ContextWithValue attaches a validated body to ctx.
func ContextWithValue(ctx context.Context, v map[string]any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext returns the validated body stored by Validate.
func ValueFromContext(ctx context.Context) (map[string]any, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(map[string]any)
	return v, ok
}

// PayloadIssue is one issue in an error response. Pointer addresses the
// offending value as an RFC 6901 JSON Pointer.
type PayloadIssue struct {
	Path    fieldcheck.Path `json:"path"`
	Pointer string          `json:"pointer"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Params  map[string]any  `json:"params,omitempty"`
}

// ErrorPayload shapes a failure for JSON responses.
func ErrorPayload(source any) map[string]any {
	payload := map[string]any{"error": fieldcheck.FormatValidationError(source)}
	if l, ok := source.(fieldcheck.IssueLister); ok {
		iss := l.ValidationIssues()
		out := make([]PayloadIssue, len(iss))
		for i, it := range iss {
			out[i] = PayloadIssue{
				Path:    it.Path,
				Pointer: it.Path.Pointer(),
				Code:    it.Code,
				Message: it.Message,
				Params:  it.Params,
			}
		}
		payload["issues"] = out
	}
	return payload
}

type options struct {
	name     string
	maxBytes int64
	metrics  *Metrics
}

// Option configures Validate.
type Option func(*options)

// WithName labels logs and metrics with a schema name.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithMaxBytes caps the request body size.
func WithMaxBytes(n int64) Option { return func(o *options) { o.maxBytes = n } }

// WithMetrics records outcomes into m.
func WithMetrics(m *Metrics) Option { return func(o *options) { o.metrics = m } }

// Validate decodes the request body (JSON, or YAML by Content-Type) and
// validates it against s.
func Validate(s fieldcheck.ObjectSchema, opts ...Option) func(http.Handler) http.Handler {
	o := options{name: "body", maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			input, err := decodeBody(w, r, o.maxBytes)
			if err != nil {
				var tooLarge *http.MaxBytesError
				status := http.StatusBadRequest
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				log.Warn().Err(err).Str("schema", o.name).Msg("undecodable body")
				o.metrics.observe(o.name, nil, false)
				writeJSON(w, status, map[string]any{"error": "Malformed body"})
				return
			}

			res := fieldcheck.Validate(s, input)
			o.metrics.observe(o.name, res.Issues(), true)
			if !res.OK() {
				log.Info().
					Str("schema", o.name).
					Int("issues", len(res.Issues())).
					Msg("validation failed")
				writeJSON(w, http.StatusBadRequest, ErrorPayload(res.Source()))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), res.Value())))
		})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64) (any, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, err
	}
	return source.ForContentType(r.Header.Get("Content-Type"))(bytes.NewReader(raw))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
