package httprunner_test

import (
	"context"
	"testing"

	httprunner "github.com/bmcszk/go-httprunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct{}

func (fakeTransport) Execute(_ context.Context, req httprunner.HttpRequest, _, _ bool) httprunner.HttpResult {
	return httprunner.HttpResult{StatusCode: 200, Success: true}
}

func TestRunner_RunFile_EndToEnd(t *testing.T) {
	r, err := httprunner.NewRunnerWithTransport(fakeTransport{})
	require.NoError(t, err)

	content := "GET https://example.com/ok\n> EXPECTED_RESPONSE_STATUS 200\n"
	results, err := r.RunFile(context.Background(), "suite.http", content, "")
	require.NoError(t, err)
	assert.Equal(t, 1, results.SuccessCount)
	assert.True(t, results.Success())
}

func TestParseFile_UnknownProfileYieldsNoVars(t *testing.T) {
	reqs, err := httprunner.ParseFile("nope.http", "GET https://x/{{missing}}\n", "no-such-profile")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "https://x/{{missing}}", reqs[0].URL)
}
