package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_CapturesBodyWhenAssertionsPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Id", "7")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tr := transport.New()
	req := model.HttpRequest{
		Method: "GET", URL: srv.URL,
		Assertions: []model.Assertion{{Kind: model.AssertionStatus, Expected: "200"}},
	}
	result := tr.Execute(context.Background(), req, false, false)

	require.True(t, result.Success)
	assert.Equal(t, 200, result.StatusCode)
	require.True(t, result.HasResponseBody)
	assert.Equal(t, `{"ok":true}`, result.ResponseBody)
	val, ok := result.HeaderValue("x-id")
	require.True(t, ok)
	assert.Equal(t, "7", val)
}

func TestExecute_SkipsCaptureWhenNotRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	tr := transport.New()
	req := model.HttpRequest{Method: "GET", URL: srv.URL}
	result := tr.Execute(context.Background(), req, false, false)
	assert.False(t, result.HasResponseBody)
}

func TestExecute_RedirectStatusIsNotSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	tr := transport.New()
	req := model.HttpRequest{Method: "GET", URL: srv.URL}
	result := tr.Execute(context.Background(), req, false, false)
	assert.Equal(t, 304, result.StatusCode)
	assert.False(t, result.Success, "a 3xx status must not be treated as transport success")
}

func TestExecute_ConnectionFailureYieldsSyntheticResult(t *testing.T) {
	tr := transport.New()
	req := model.HttpRequest{Method: "GET", URL: "http://127.0.0.1:1"}
	result := tr.Execute(context.Background(), req, true, false)
	assert.Equal(t, 0, result.StatusCode)
	assert.False(t, result.Success)
	assert.True(t, result.HasError)
}
