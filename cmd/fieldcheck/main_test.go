package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/fieldcheck/internal/config"
	"github.com/reoring/fieldcheck/internal/logger"
)

func TestRunValidate(t *testing.T) {
	var out bytes.Buffer
	err := runValidate(logger.Nop(), "signup", false,
		strings.NewReader(`{"name":" Al ","email":"A@B.COM","password":"secret1"}`), &out)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "a@b.com", got["email"])
	assert.Equal(t, "user", got["role"])

	out.Reset()
	err = runValidate(logger.Nop(), "signin", true, strings.NewReader("email: x@y.com\n"), &out)
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, "password: Required\n", out.String())

	err = runValidate(logger.Nop(), "nope", false, strings.NewReader(`{}`), io.Discard)
	assert.ErrorContains(t, err, `unknown schema "nope"`)

	err = runValidate(logger.Nop(), "signin", false, strings.NewReader(``), io.Discard)
	assert.Error(t, err)
}

func TestRunSchema(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSchema("signin", &out))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "signin", doc["title"])
	assert.Equal(t, []any{"email", "password"}, doc["required"])
	assert.Equal(t, false, doc["additionalProperties"])
}

func TestRouter(t *testing.T) {
	cfg := &config.Config{LogLevel: "info", Server: config.Server{Address: ":0", MaxBodyBytes: 1024, Metrics: true}}
	router, err := newRouter(logger.Nop(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/signin", "application/json", strings.NewReader(`{"email":"X@Y.com","password":"p"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"email":"x@y.com","password":"p"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	resp, err = http.Post(srv.URL+"/signup", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"error":"name: Required, email: Required, password: Required"`)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	// each route carries its own schema label
	assert.Contains(t, string(body), `fieldcheck_validations_total{outcome="ok",schema="signin"} 1`)
	assert.Contains(t, string(body), `fieldcheck_validations_total{outcome="invalid",schema="signup"} 1`)
	assert.NotContains(t, string(body), `outcome="ok",schema="signup"`)
}
