package parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, content string, vars map[string]string) *parser.Result {
	t.Helper()
	res, err := parser.Parse(strings.NewReader(content), vars, "")
	require.NoError(t, err)
	return res
}

func TestParse_EmptyFile(t *testing.T) {
	res := parse(t, "", nil)
	assert.Empty(t, res.Requests)
}

func TestParse_SimpleGet(t *testing.T) {
	res := parse(t, "GET https://example.com/ok\n", nil)
	require.Len(t, res.Requests, 1)
	assert.Equal(t, "GET", res.Requests[0].Method)
	assert.Equal(t, "https://example.com/ok", res.Requests[0].URL)
	assert.Equal(t, "request_1", res.Requests[0].Name)
}

func TestParse_NameDirective(t *testing.T) {
	res := parse(t, "# @name setup\nGET https://example.com/setup\n", nil)
	require.Len(t, res.Requests, 1)
	assert.Equal(t, "setup", res.Requests[0].Name)
}

func TestParse_HeadersAndBody(t *testing.T) {
	content := "POST https://example.com/x\nContent-Type: application/json\n\n{\"a\":1}\n"
	res := parse(t, content, nil)
	require.Len(t, res.Requests, 1)
	req := res.Requests[0]
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "Content-Type", req.Headers[0].Name)
	assert.Equal(t, "application/json", req.Headers[0].Value)
	assert.True(t, req.HasBody)
	assert.Equal(t, `{"a":1}`, req.Body)
}

func TestParse_Assertions(t *testing.T) {
	content := "GET https://example.com/ok\n> EXPECTED_RESPONSE_STATUS 200\nEXPECTED_RESPONSE_BODY \"hello\"\n"
	res := parse(t, content, nil)
	require.Len(t, res.Requests, 1)
	require.Len(t, res.Requests[0].Assertions, 2)
	assert.Equal(t, model.AssertionStatus, res.Requests[0].Assertions[0].Kind)
	assert.Equal(t, "200", res.Requests[0].Assertions[0].Expected)
	assert.Equal(t, model.AssertionBody, res.Requests[0].Assertions[1].Kind)
	assert.Equal(t, "hello", res.Requests[0].Assertions[1].Expected)
}

func TestParse_MultipleRequestsViaSeparator(t *testing.T) {
	content := "# @name a\nGET https://x/a\n###\n# @dependsOn a\nGET https://x/b\n"
	res := parse(t, content, nil)
	require.Len(t, res.Requests, 2)
	assert.Equal(t, "a", res.Requests[0].Name)
	assert.Equal(t, "a", res.Requests[1].DependsOn)
	assert.Equal(t, "request_2", res.Requests[1].Name)
}

func TestParse_VariableDefinitionAndChaining(t *testing.T) {
	content := "@host = example.com\n@base = https://{{host}}\nGET {{base}}/ok\n"
	res := parse(t, content, nil)
	require.Len(t, res.Requests, 1)
	assert.Equal(t, "https://example.com/ok", res.Requests[0].URL)
}

func TestParse_VariableOverride(t *testing.T) {
	content := "@x = A\n@x = B\nGET https://x/{{x}}\n"
	res := parse(t, content, nil)
	assert.Equal(t, "https://x/B", res.Requests[0].URL)
}

func TestParse_UnknownScalarPreserved(t *testing.T) {
	content := "GET https://x/{{unknown}}\n"
	res := parse(t, content, nil)
	assert.Equal(t, "https://x/{{unknown}}", res.Requests[0].URL)
}

func TestParse_Timeout(t *testing.T) {
	content := "# @timeout 5s\nGET https://x/a\n"
	res := parse(t, content, nil)
	require.True(t, res.Requests[0].HasTimeout)
	assert.Equal(t, 5000, res.Requests[0].TimeoutMs)
}

func TestParse_TimeoutInvalidDiscarded(t *testing.T) {
	content := "# @timeout notanumber\nGET https://x/a\n"
	res := parse(t, content, nil)
	assert.False(t, res.Requests[0].HasTimeout)
	assert.NotNil(t, res.Warnings)
}

func TestParse_ConditionDirective(t *testing.T) {
	content := "# @if-not a.response.status 404\nGET https://x/b\n"
	res := parse(t, content, nil)
	require.Len(t, res.Requests[0].Conditions, 1)
	assert.True(t, res.Requests[0].Conditions[0].Negate)
	assert.Equal(t, model.ConditionStatus, res.Requests[0].Conditions[0].Kind)
}

func TestParse_ScriptBlockIgnored(t *testing.T) {
	content := "GET https://x/a\n\n> {%\nclient.global.set(\"x\", 1);\n%}\n"
	res := parse(t, content, nil)
	assert.False(t, res.Requests[0].HasBody)
}

func TestParse_BaseVarsSeeded(t *testing.T) {
	res := parse(t, "GET {{host}}/ok\n", map[string]string{"host": "https://seeded"})
	assert.Equal(t, "https://seeded/ok", res.Requests[0].URL)
}

func TestParse_ExternalBodyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.json"), []byte(`{"ok":true}`), 0o644))

	content := "POST https://x/a\n\n< payload.json\n"
	res, err := parser.Parse(strings.NewReader(content), nil, dir)
	require.NoError(t, err)
	require.Len(t, res.Requests, 1)
	assert.True(t, res.Requests[0].HasBody)
	assert.Equal(t, `{"ok":true}`, res.Requests[0].Body)
}

func TestParse_ExternalBodyFileMissingIsWarningNotFatal(t *testing.T) {
	content := "POST https://x/a\n\n< does-not-exist.json\n"
	res, err := parser.Parse(strings.NewReader(content), nil, t.TempDir())
	require.NoError(t, err)
	require.Len(t, res.Requests, 1)
	assert.False(t, res.Requests[0].HasBody)
	assert.NotNil(t, res.Warnings)
}

func TestParse_PreDelayPostDelay(t *testing.T) {
	content := "# @pre-delay 10\n# @post-delay 20\nGET https://x/a\n"
	res := parse(t, content, nil)
	require.True(t, res.Requests[0].HasPreDelay)
	assert.Equal(t, 10, res.Requests[0].PreDelayMs)
	require.True(t, res.Requests[0].HasPostDelay)
	assert.Equal(t, 20, res.Requests[0].PostDelayMs)
}
