package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
)

func newTestAPI(t *testing.T, maxBytes int64) *httptest.Server {
	t.Helper()

	meterProvider, metricsHandler, err := observability.PrometheusProvider()
	require.NoError(t, err)

	red, err := observability.NewREDMetrics(meterProvider.Meter(meterName))
	require.NoError(t, err)

	srv := httptest.NewServer(newAPIHandler(apiDeps{
		red:      red,
		metrics:  metricsHandler,
		options:  printer.DefaultOptions(),
		pkg:      "main",
		maxBytes: maxBytes,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func post(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", strings.NewReader(string(data))) //nolint:noctx // test helper
	require.NoError(t, err)

	defer resp.Body.Close()

	var out json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp, out
}

func helloNodes(t *testing.T) json.RawMessage {
	t.Helper()

	data, err := os.ReadFile(helloFixture)
	require.NoError(t, err)

	return data
}

func TestAPI_Print(t *testing.T) {
	t.Parallel()

	srv := newTestAPI(t, 0)

	resp, body := post(t, srv.URL+"/api/print", PrintRequest{Nodes: helloNodes(t), Mode: "file", Validate: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out PrintResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, helloMain, out.Code)
	assert.Empty(t, out.Error)
}

func TestAPI_PrintOptions(t *testing.T) {
	t.Parallel()

	srv := newTestAPI(t, 0)

	quote := "backtick"
	eol := false
	req := map[string]any{
		"nodes":   json.RawMessage(`{"type":"factory","name":"createStringLiteral","args":[{"type":"literal","value":"hi"}]}`),
		"mode":    "node",
		"options": map[string]any{"quote": quote, "trailing_newline": eol},
	}

	resp, body := post(t, srv.URL+"/api/print", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out PrintResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "`hi`", out.Code)
}

// identNode is a one-identifier document.
var identNode = json.RawMessage(`{"type":"factory","name":"createIdentifier","args":[{"type":"literal","value":"x"}]}`)

func TestAPI_PrintErrors(t *testing.T) {
	t.Parallel()

	srv := newTestAPI(t, 0)

	tests := []struct {
		body   any
		name   string
		status int
	}{
		{
			name:   "unknown factory",
			body:   PrintRequest{Nodes: json.RawMessage(`{"type":"factory","name":"bogusThing","args":[]}`)},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad mode",
			body:   PrintRequest{Nodes: json.RawMessage(`[]`), Mode: "tree"},
			status: http.StatusBadRequest,
		},
		{
			name:   "schema",
			body:   PrintRequest{Nodes: json.RawMessage(`{"type":"factory"}`), Validate: true},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing nodes",
			body:   map[string]any{"mode": "nodes"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unsupported quote option",
			body:   map[string]any{"nodes": identNode, "mode": "node", "options": map[string]any{"quote": "single"}},
			status: http.StatusBadRequest,
		},
		{
			name:   "negative indent option",
			body:   map[string]any{"nodes": identNode, "mode": "node", "options": map[string]any{"indent_width": -1}},
			status: http.StatusBadRequest,
		},
		{
			name: "node without source form",
			body: PrintRequest{
				Nodes: json.RawMessage(`{"type":"factory","name":"createEmbeddedField",` +
					`"args":[{"type":"factory","name":"createIntKeyword","args":[]}]}`),
				Mode: "node",
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, body := post(t, srv.URL+"/api/print", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var out PrintResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.NotEmpty(t, out.Error)
			assert.Empty(t, out.Code)
		})
	}
}

func TestAPI_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := newTestAPI(t, 16)

	data, err := json.Marshal(PrintRequest{Nodes: helloNodes(t), Mode: "file"})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/print", "application/json", strings.NewReader(string(data))) //nolint:noctx // test
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestAPI_Validate(t *testing.T) {
	t.Parallel()

	srv := newTestAPI(t, 0)

	tests := []struct {
		name  string
		nodes string
		mode  string
		valid bool
	}{
		{name: "valid", nodes: `{"type":"factory","name":"createIdentifier","args":[{"type":"literal","value":"x"}]}`, valid: true},
		{name: "schema", nodes: `{"type":"factory"}`},
		{name: "unknown factory", nodes: `{"type":"factory","name":"bogusThing","args":[]}`},
		{name: "file mode needs declarations", nodes: `[{"type":"factory","name":"createReturnStatement","args":[]}]`, mode: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, body := post(t, srv.URL+"/api/validate", ValidateRequest{Nodes: json.RawMessage(tt.nodes), Mode: tt.mode})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out ValidateResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.valid, out.Valid)

			if !tt.valid {
				assert.NotEmpty(t, out.Errors)
			}
		})
	}
}

func TestAPI_OperationsHealthAndMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestAPI(t, 0)

	resp, err := http.Get(srv.URL + "/api/operations?category=comment") //nolint:noctx // test
	require.NoError(t, err)

	var ops []factory.OpDef
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ops))
	resp.Body.Close()

	require.NotEmpty(t, ops)
	assert.Equal(t, factory.CategoryComment, ops[0].Category)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err = http.Get(srv.URL + path) //nolint:noctx // test
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, err = http.Get(srv.URL + "/metrics") //nolint:noctx // test
	require.NoError(t, err)

	var buf strings.Builder

	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), "astforge_requests_total")
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&printer.StyleViolationError{}))
	assert.Equal(t, http.StatusBadRequest, statusFor(factory.ErrArity))
	assert.Equal(t, http.StatusBadRequest, statusFor(printer.ErrUnprintable))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("create fixer: %w", lint.ErrInvalidConfig)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestPrintReady(t *testing.T) {
	t.Parallel()

	require.NoError(t, printReady(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := printReady(ctx)
	require.ErrorIs(t, err, ErrNotReady)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAPI_ReadyzReportsFailingCheck(t *testing.T) {
	t.Parallel()

	failing := func(context.Context) error { return fmt.Errorf("%w: grammar missing", ErrNotReady) }

	srv := httptest.NewServer(newAPIHandler(apiDeps{
		options:     printer.DefaultOptions(),
		readyChecks: []observability.ReadyCheck{failing},
	}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/readyz") //nolint:noctx // test
	require.NoError(t, err)

	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unavailable", out["status"])
	assert.Contains(t, out["reason"], "grammar missing")
}
