package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/fieldcheck"
	"github.com/reoring/fieldcheck/auth"
	"github.com/reoring/fieldcheck/internal/logger"
	"github.com/reoring/fieldcheck/middleware"
)

func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.ValueFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestValidate_PassesNormalizedBody(t *testing.T) {
	h := middleware.Validate(auth.Signup)(echoHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"name":" Al ","email":"A@B.COM","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"name": "Al", "email": "a@b.com", "password": "secret1", "role": "user",
	}, decode(t, rec))
}

func TestValidate_RejectsWithFormattedMessage(t *testing.T) {
	h := middleware.Validate(auth.Signin)(echoHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(`{"email":"x@y.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "password: Required", body["error"])
	issues, ok := body["issues"].([]any)
	require.True(t, ok)
	require.Len(t, issues, 1)
	first := issues[0].(map[string]any)
	assert.Equal(t, "required", first["code"])
	assert.Equal(t, "/password", first["pointer"])
	assert.Equal(t, []any{"password"}, first["path"])
}

func TestValidate_YAMLBody(t *testing.T) {
	h := middleware.Validate(auth.Signin)(echoHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/signin",
		strings.NewReader("email: Bob@Example.com\npassword: pw\n"))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob@example.com", decode(t, rec)["email"])
}

func TestValidate_MalformedAndOversized(t *testing.T) {
	h := middleware.Validate(auth.Signin, middleware.WithMaxBytes(16))(echoHandler(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed body", decode(t, rec)["error"])

	rec = httptest.NewRecorder()
	big := bytes.Repeat([]byte("a"), 64)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"email":"`+string(big)+`"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := middleware.NewMetrics(reg)
	require.NoError(t, err)

	h := middleware.Validate(auth.Signin, middleware.WithName("signin"), middleware.WithMetrics(m))(echoHandler(t))
	for _, body := range []string{
		`{"email":"x@y.com","password":"p"}`,
		`{"email":"nope"}`,
		`{`,
	} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	}

	expected := `
# HELP fieldcheck_validations_total Validated request bodies by schema and outcome
# TYPE fieldcheck_validations_total counter
fieldcheck_validations_total{outcome="invalid",schema="signin"} 1
fieldcheck_validations_total{outcome="malformed",schema="signin"} 1
fieldcheck_validations_total{outcome="ok",schema="signin"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fieldcheck_validations_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "fieldcheck_issues_total"))

	_, err = middleware.NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestErrorPayload_RootPointer(t *testing.T) {
	r := fieldcheck.Validate(auth.Signin, "text")
	p := middleware.ErrorPayload(r.Source())
	assert.Equal(t, "body: Expected object, received string", p["error"])
	issues, ok := p["issues"].([]middleware.PayloadIssue)
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Equal(t, "/", issues[0].Pointer)
	assert.Equal(t, fieldcheck.CodeInvalidType, issues[0].Code)
}

func TestErrorPayload_PlainError(t *testing.T) {
	p := middleware.ErrorPayload(assert.AnError)
	assert.Equal(t, "Validation failed", p["error"])
	assert.NotContains(t, p, "issues")
}

func TestTrace_PropagatesAndGeneratesID(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(&buf, "test", logger.ParseLevel("info"))

	var seen string
	h := middleware.Trace(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
		seen = w.Header().Get(middleware.TraceIDHeader)
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.TraceIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.TraceIDHeader))
	assert.Equal(t, "abc-123", seen)
	assert.Contains(t, buf.String(), `"trace_id":"abc-123"`)
	assert.Contains(t, buf.String(), `"status":418`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, rec.Header().Get(middleware.TraceIDHeader), 36)
}
